package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/request"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/response"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/validation"
)

// maxUploadBytes caps portfolio CSV uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// CalculateHandler handles HTTP requests for the calculation endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// the optimization work to the calculationService.
type CalculateHandler struct {
	calculationService *service.CalculationService
	normalizerService  *service.NormalizerService
	exportService      *service.ExportService
}

// NewCalculateHandler creates a new CalculateHandler with the provided service dependencies.
func NewCalculateHandler(
	calculationService *service.CalculationService,
	normalizerService *service.NormalizerService,
	exportService *service.ExportService,
) *CalculateHandler {
	return &CalculateHandler{
		calculationService: calculationService,
		normalizerService:  normalizerService,
		exportService:      exportService,
	}
}

// Calculate handles POST requests to run a lot-selection calculation.
// Validates the request body and returns sell recommendations with a summary.
//
// Endpoint: POST /api/calculate
// Request Body: CalculateRequest (lots plus exactly one of targetSpec or cashRaiseSpec)
// Response: 200 OK with CalculationResult
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the calculation fails
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CalculateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCalculateRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	creq, err := req.ToCalculation()
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.calculationService.Calculate(r.Context(), creq)
	if err != nil {
		respondCalculationError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// CalculateCSV handles POST requests that submit a portfolio as a CSV upload.
// The multipart form carries the file under "file" and the spec as form
// fields. Rows that fail to parse are skipped and reported as warnings on
// the result.
//
// Endpoint: POST /api/calculate/csv
// Request Body: multipart/form-data with file, mode, and spec fields
// Response: 200 OK with CalculationResult
// Error: 400 Bad Request if the file is missing, malformed, or the spec is invalid
// Error: 500 Internal Server Error if the calculation fails
func (h *CalculateHandler) CalculateCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "portfolio file is required", err.Error())
		return
	}
	defer file.Close()

	creq, err := calculationFromForm(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid form fields", err.Error())
		return
	}

	asOf := creq.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC().Truncate(24 * time.Hour)
	}
	lots, warnings, err := h.normalizerService.NormalizeCSV(file, asOf)
	if err != nil {
		respondCalculationError(w, err)
		return
	}
	creq.Lots = lots

	result, err := h.calculationService.Calculate(r.Context(), creq)
	if err != nil {
		respondCalculationError(w, err)
		return
	}
	result.Warnings = append(warnings, result.Warnings...)

	response.RespondJSON(w, http.StatusOK, result)
}

// Export handles POST requests that run a calculation and return the
// recommendations as a downloadable CSV trade list.
//
// Endpoint: POST /api/calculate/export
// Request Body: CalculateRequest (same as POST /api/calculate)
// Response: 200 OK with text/csv attachment
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the calculation or export fails
func (h *CalculateHandler) Export(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CalculateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCalculateRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	creq, err := req.ToCalculation()
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.calculationService.Calculate(r.Context(), creq)
	if err != nil {
		respondCalculationError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(&buf, result.Recommendations); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to export recommendations", err.Error())
		return
	}

	response.RespondCSV(w, "recommendations.csv", buf.Bytes())
}

// calculationFromForm builds a calculation request from multipart form
// fields. Spec selection follows the same exclusivity rule as the JSON
// endpoint: target fields and cash fields cannot be mixed.
func calculationFromForm(r *http.Request) (service.CalculationRequest, error) {
	creq := service.CalculationRequest{
		Strategy: model.Strategy(r.FormValue("strategy")),
		WashSale: model.DefaultWashSaleConfig(),
	}

	var err error
	if creq.Tolerance, err = formFloat(r, "tolerance"); err != nil {
		return service.CalculationRequest{}, err
	}

	hasTarget := hasAnyField(r, "targetST", "targetLT", "realizedST", "realizedLT")
	hasCash := hasAnyField(r, "cashNeeded", "currentCash")

	if hasTarget {
		target := model.TargetSpec{}
		if target.TargetST, err = formFloat(r, "targetST"); err != nil {
			return service.CalculationRequest{}, err
		}
		if target.TargetLT, err = formFloat(r, "targetLT"); err != nil {
			return service.CalculationRequest{}, err
		}
		if target.RealizedST, err = formFloat(r, "realizedST"); err != nil {
			return service.CalculationRequest{}, err
		}
		if target.RealizedLT, err = formFloat(r, "realizedLT"); err != nil {
			return service.CalculationRequest{}, err
		}
		creq.Target = &target
		creq.Mode = model.ModeTargetPrecision
	}
	if hasCash {
		cash := model.CashRaiseSpec{}
		if cash.CashNeeded, err = formFloat(r, "cashNeeded"); err != nil {
			return service.CalculationRequest{}, err
		}
		if cash.CurrentCash, err = formFloat(r, "currentCash"); err != nil {
			return service.CalculationRequest{}, err
		}
		creq.CashRaise = &cash
		creq.Mode = model.ModeCashMaximization
	}
	if mode := r.FormValue("mode"); mode != "" {
		creq.Mode = model.Mode(mode)
	}

	if asOf := r.FormValue("asOfDate"); asOf != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(asOf))
		if err != nil {
			return service.CalculationRequest{}, err
		}
		creq.AsOf = parsed.UTC()
	}

	return creq, nil
}

func formFloat(r *http.Request, field string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func hasAnyField(r *http.Request, fields ...string) bool {
	for _, field := range fields {
		if strings.TrimSpace(r.FormValue(field)) != "" {
			return true
		}
	}
	return false
}

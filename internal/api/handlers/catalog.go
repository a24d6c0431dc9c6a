package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/request"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/response"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/validation"
)

// CatalogHandler handles HTTP requests for fund catalog endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the catalogService.
type CatalogHandler struct {
	catalogService     *service.CatalogService
	alternativeService *service.AlternativeService
}

// NewCatalogHandler creates a new CatalogHandler with the provided service dependencies.
func NewCatalogHandler(
	catalogService *service.CatalogService,
	alternativeService *service.AlternativeService,
) *CatalogHandler {
	return &CatalogHandler{
		catalogService:     catalogService,
		alternativeService: alternativeService,
	}
}

// Funds handles GET requests to retrieve all catalog entries.
//
// Endpoint: GET /api/catalog
// Response: 200 OK with array of FundRecord
// Error: 500 Internal Server Error if retrieval fails
func (h *CatalogHandler) Funds(w http.ResponseWriter, _ *http.Request) {

	funds, err := h.catalogService.GetAll()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve catalog", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// Fund handles GET requests to retrieve a single catalog entry by symbol.
//
// Endpoint: GET /api/catalog/{symbol}
// Response: 200 OK with FundRecord
// Error: 404 Not Found if the symbol has no catalog entry
// Error: 500 Internal Server Error if retrieval fails
func (h *CatalogHandler) Fund(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fund, err := h.catalogService.GetBySymbol(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// CreateFund handles POST requests to add a fund to the catalog.
// Validates the request body and creates a catalog entry in the database.
//
// Endpoint: POST /api/catalog
// Request Body: CreateFundRequest (symbol, name, assetClass, styleCategory, managementStyle, and optionally issuer, trackedIndex, expenseRatio, aum, avgVolume)
// Response: 201 Created with FundRecord
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the symbol already has a catalog entry
// Error: 500 Internal Server Error if creation fails
func (h *CatalogHandler) CreateFund(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.catalogService.Create(model.FundRecord{
		Symbol:          req.Symbol,
		Name:            req.Name,
		Issuer:          req.Issuer,
		AssetClass:      req.AssetClass,
		StyleCategory:   req.StyleCategory,
		ManagementStyle: model.ManagementStyle(strings.ToLower(req.ManagementStyle)),
		TrackedIndex:    req.TrackedIndex,
		ExpenseRatio:    req.ExpenseRatio,
		AUM:             req.AUM,
		AvgVolume:       req.AvgVolume,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateFund) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateFund.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, fund)
}

// UpdateFund handles PUT requests to update an existing catalog entry.
// Validates the request body and updates the specified fund fields.
//
// Endpoint: PUT /api/catalog/{symbol}
// Request Body: UpdateFundRequest (all fields optional)
// Response: 200 OK with updated FundRecord
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the symbol has no catalog entry
// Error: 500 Internal Server Error if update fails
func (h *CatalogHandler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	req, err := parseJSON[request.UpdateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.catalogService.GetBySymbol(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve fund", err.Error())
		return
	}

	applyFundUpdate(&fund, req)

	if err := h.catalogService.Update(fund); err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// DeleteFund handles DELETE requests to remove a catalog entry.
//
// Endpoint: DELETE /api/catalog/{symbol}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the symbol has no catalog entry
// Error: 500 Internal Server Error if deletion fails
func (h *CatalogHandler) DeleteFund(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if err := h.catalogService.Delete(symbol); err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// AlternativesResponse wraps an alternatives lookup with an optional note
// set when the catalog has no qualifying substitute.
type AlternativesResponse struct {
	Symbol       string                  `json:"symbol"`
	Alternatives []model.AlternativeFund `json:"alternatives"`
	Note         string                  `json:"note,omitempty"`
}

// Alternatives handles GET requests to suggest replacement funds that
// preserve market exposure without triggering a wash sale.
//
// Endpoint: GET /api/catalog/{symbol}/alternatives
// Response: 200 OK with AlternativesResponse
// Error: 404 Not Found if the symbol has no catalog entry
// Error: 500 Internal Server Error if the lookup fails
func (h *CatalogHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	alternatives, note, err := h.alternativeService.Alternatives(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to look up alternatives", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, AlternativesResponse{
		Symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		Alternatives: alternatives,
		Note:         note,
	})
}

func applyFundUpdate(fund *model.FundRecord, req request.UpdateFundRequest) {
	if req.Name != nil {
		fund.Name = *req.Name
	}
	if req.Issuer != nil {
		fund.Issuer = *req.Issuer
	}
	if req.AssetClass != nil {
		fund.AssetClass = *req.AssetClass
	}
	if req.StyleCategory != nil {
		fund.StyleCategory = *req.StyleCategory
	}
	if req.ManagementStyle != nil {
		fund.ManagementStyle = model.ManagementStyle(strings.ToLower(*req.ManagementStyle))
	}
	if req.TrackedIndex != nil {
		fund.TrackedIndex = *req.TrackedIndex
	}
	if req.ExpenseRatio != nil {
		fund.ExpenseRatio = *req.ExpenseRatio
	}
	if req.AUM != nil {
		fund.AUM = *req.AUM
	}
	if req.AvgVolume != nil {
		fund.AvgVolume = *req.AvgVolume
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/response"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/validation"
)

// SimilarityHandler handles HTTP requests for pairwise similarity scoring.
type SimilarityHandler struct {
	catalogService *service.CatalogService
}

// NewSimilarityHandler creates a new SimilarityHandler with the provided service dependency.
func NewSimilarityHandler(catalogService *service.CatalogService) *SimilarityHandler {
	return &SimilarityHandler{
		catalogService: catalogService,
	}
}

// Score handles GET requests to score the wash-sale similarity of two funds.
// Scores are computed on demand from catalog attributes and never persisted.
//
// Endpoint: GET /api/similarity?sold={symbol}&candidate={symbol}
// Response: 200 OK with SimilarityScore
// Error: 400 Bad Request if either symbol is missing or malformed
// Error: 404 Not Found if either symbol has no catalog entry
// Error: 500 Internal Server Error if retrieval fails
func (h *SimilarityHandler) Score(w http.ResponseWriter, r *http.Request) {
	soldSymbol := r.URL.Query().Get("sold")
	candidateSymbol := r.URL.Query().Get("candidate")

	if err := validation.ValidateSymbol(soldSymbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid sold symbol", err.Error())
		return
	}
	if err := validation.ValidateSymbol(candidateSymbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid candidate symbol", err.Error())
		return
	}

	sold, err := h.catalogService.GetBySymbol(soldSymbol)
	if err != nil {
		respondFundLookupError(w, err)
		return
	}
	candidate, err := h.catalogService.GetBySymbol(candidateSymbol)
	if err != nil {
		respondFundLookupError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, service.ScoreSimilarity(sold, candidate))
}

func respondFundLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperrors.ErrFundNotFound) {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
		return
	}
	response.RespondError(w, http.StatusInternalServerError, "failed to retrieve fund", err.Error())
}

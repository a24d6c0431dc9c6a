package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/response"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
)

// parseJSON decodes a JSON request body into the given request type.
// Unknown fields are rejected so typos surface as 400s instead of
// silently defaulting.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

// respondCalculationError maps calculation failures onto HTTP statuses.
// Structural problems with the submitted portfolio or specs are client
// errors; everything else is a 500.
func respondCalculationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPortfolioData),
		errors.Is(err, apperrors.ErrMissingSpec),
		errors.Is(err, apperrors.ErrConflictingSpecs),
		errors.Is(err, apperrors.ErrInvalidMode),
		errors.Is(err, apperrors.ErrInvalidStrategy),
		errors.Is(err, apperrors.ErrInvalidTolerance),
		errors.Is(err, apperrors.ErrNegativeCash):
		response.RespondError(w, http.StatusBadRequest, "invalid calculation request", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "calculation failed", err.Error())
	}
}

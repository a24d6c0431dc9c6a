package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
)

// Internal test (package handlers, not handlers_test) because parseJSON
// and respondCalculationError are unexported.

func TestParseJSON(t *testing.T) {
	type payload struct {
		Symbol string  `json:"symbol"`
		Shares float64 `json:"shares"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"symbol":"IVV","shares":10}`))

		got, err := parseJSON[payload](req)
		if err != nil {
			t.Fatalf("parseJSON failed: %v", err)
		}
		if got.Symbol != "IVV" || got.Shares != 10 {
			t.Errorf("Unexpected payload: %+v", got)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"symbol":"IVV","bogus":1}`))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected an error for the unknown field")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected an error for malformed JSON")
		}
	})
}

func TestRespondCalculationError(t *testing.T) {
	t.Run("maps structural request problems to 400", func(t *testing.T) {
		for _, err := range []error{
			apperrors.ErrInvalidPortfolioData,
			apperrors.ErrMissingSpec,
			apperrors.ErrInvalidMode,
		} {
			w := httptest.NewRecorder()
			respondCalculationError(w, err)
			if w.Code != http.StatusBadRequest {
				t.Errorf("%v: expected 400, got %d", err, w.Code)
			}
		}
	})

	t.Run("maps everything else to 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondCalculationError(w, errors.New("disk on fire"))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/config"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/repository"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
)

func NewTestCatalogService(t *testing.T, db *sql.DB) *service.CatalogService {
	t.Helper()

	catalogRepo := repository.NewCatalogRepository(db)

	return service.NewCatalogService(catalogRepo)
}

func NewTestAlternativeService(t *testing.T, db *sql.DB) *service.AlternativeService {
	t.Helper()

	return service.NewAlternativeService(NewTestCatalogService(t, db))
}

func NewTestSelectorService(t *testing.T) *service.SelectorService {
	t.Helper()

	return service.NewSelectorService(config.DefaultOptimizerConfig())
}

func NewTestCalculationService(t *testing.T, db *sql.DB) *service.CalculationService {
	t.Helper()

	cfg := config.DefaultOptimizerConfig()
	catalogService := NewTestCatalogService(t, db)

	return service.NewCalculationService(
		cfg,
		service.NewNormalizerService(),
		service.NewSelectorService(cfg),
		service.NewWashSaleService(),
		catalogService,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a unique ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("V")
//	// Returns: "V1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "T"
	}
	return base + randomAlphanumeric(4)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Tech Fund")
//	// Returns: "Tech Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

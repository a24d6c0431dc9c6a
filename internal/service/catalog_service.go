package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/repository"
)

// CatalogService handles fund-catalog business logic: CRUD over the
// reference table plus the in-memory snapshot the engine computes over.
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService with the provided repository dependency.
func NewCatalogService(catalogRepo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// GetAll retrieves every catalog entry ordered by symbol.
func (s *CatalogService) GetAll() ([]model.FundRecord, error) {
	return s.catalogRepo.GetAll()
}

// GetBySymbol retrieves one catalog entry. Symbols are case-insensitive
// and stored upper-case.
func (s *CatalogService) GetBySymbol(symbol string) (model.FundRecord, error) {
	return s.catalogRepo.GetBySymbol(normalizeSymbol(symbol))
}

// Create adds a fund to the catalog. Fails with ErrDuplicateFund if the
// symbol already exists.
func (s *CatalogService) Create(fund model.FundRecord) (model.FundRecord, error) {
	fund.Symbol = normalizeSymbol(fund.Symbol)
	if fund.Symbol == "" {
		return model.FundRecord{}, apperrors.ErrInvalidSymbol
	}

	_, err := s.catalogRepo.GetBySymbol(fund.Symbol)
	if err == nil {
		return model.FundRecord{}, fmt.Errorf("%w: %s", apperrors.ErrDuplicateFund, fund.Symbol)
	}
	if !errors.Is(err, apperrors.ErrFundNotFound) {
		return model.FundRecord{}, err
	}

	return s.catalogRepo.Create(fund)
}

// Update replaces the attributes of an existing catalog entry.
func (s *CatalogService) Update(fund model.FundRecord) error {
	fund.Symbol = normalizeSymbol(fund.Symbol)
	if fund.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	return s.catalogRepo.Update(fund)
}

// Delete removes a catalog entry by symbol.
func (s *CatalogService) Delete(symbol string) error {
	return s.catalogRepo.Delete(normalizeSymbol(symbol))
}

// Snapshot loads the full catalog into a map keyed by symbol. The engine
// receives this snapshot up front so no I/O happens inside a calculation.
func (s *CatalogService) Snapshot() (map[string]model.FundRecord, error) {
	funds, err := s.catalogRepo.GetAll()
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]model.FundRecord, len(funds))
	for _, f := range funds {
		snapshot[f.Symbol] = f
	}
	return snapshot, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

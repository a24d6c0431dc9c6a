package service

import (
	"sort"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// AlternativeService ranks substitute funds for a flagged sale: same
// market exposure, but dissimilar enough to defeat the substantially
// identical standard.
type AlternativeService struct {
	catalogService *CatalogService
}

// NewAlternativeService creates a new AlternativeService with the provided catalog dependency.
func NewAlternativeService(catalogService *CatalogService) *AlternativeService {
	return &AlternativeService{catalogService: catalogService}
}

// MaxAlternatives caps how many candidates a lookup returns.
const MaxAlternatives = 5

// ManualSelectionNote is returned when no catalog fund qualifies.
const ManualSelectionNote = "no qualifying alternatives in the catalog; manual selection required"

// Alternatives returns up to MaxAlternatives substitute funds for the
// sold symbol. Candidates share the sold fund's asset class and style
// category but score below the warn tier against it, ranked by
// ascending expense ratio, then preference for a different index family
// or management style, then descending AUM and volume.
//
// An empty list comes back with ManualSelectionNote when nothing
// qualifies; the caller decides how to proceed.
func (s *AlternativeService) Alternatives(symbol string) ([]model.AlternativeFund, string, error) {
	sold, err := s.catalogService.GetBySymbol(symbol)
	if err != nil {
		return nil, "", err
	}

	funds, err := s.catalogService.GetAll()
	if err != nil {
		return nil, "", err
	}

	candidates := []model.AlternativeFund{}
	for _, f := range funds {
		if f.Symbol == sold.Symbol {
			continue
		}
		if f.AssetClass != sold.AssetClass || f.StyleCategory != sold.StyleCategory {
			continue
		}
		score := ScoreSimilarity(sold, f)
		if score.RiskTier <= model.TierWarn {
			// Too similar: swapping into this fund keeps the wash-sale risk.
			continue
		}
		alt := model.AlternativeFund{
			Fund:            f,
			SimilarityScore: score.Score,
			RiskTier:        score.RiskTier,
		}
		if diversifies(sold, f) {
			alt.Note = "different index family or management style"
		}
		candidates = append(candidates, alt)
	}

	sort.Slice(candidates, func(i, j int) bool {
		fi, fj := candidates[i].Fund, candidates[j].Fund
		if fi.ExpenseRatio != fj.ExpenseRatio {
			return fi.ExpenseRatio < fj.ExpenseRatio
		}
		di, dj := diversifies(sold, fi), diversifies(sold, fj)
		if di != dj {
			return di
		}
		if fi.AUM != fj.AUM {
			return fi.AUM > fj.AUM
		}
		if fi.AvgVolume != fj.AvgVolume {
			return fi.AvgVolume > fj.AvgVolume
		}
		return fi.Symbol < fj.Symbol
	})

	if len(candidates) == 0 {
		return []model.AlternativeFund{}, ManualSelectionNote, nil
	}
	if len(candidates) > MaxAlternatives {
		candidates = candidates[:MaxAlternatives]
	}
	return candidates, "", nil
}

// diversifies reports whether swapping into candidate moves to a
// different index family or management style, which strengthens the
// argument that the replacement is not substantially identical.
func diversifies(sold, candidate model.FundRecord) bool {
	if candidate.ManagementStyle != sold.ManagementStyle {
		return true
	}
	if sameIndex(sold, candidate) || sameIndexGroup(sold, candidate) {
		return false
	}
	return true
}

package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/config"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// SelectorService implements lot selection for both calculation modes.
// It is pure and stateless: every invocation works on the lots and
// parameters passed in, so independent requests need no coordination.
type SelectorService struct {
	cfg config.OptimizerConfig
}

// NewSelectorService creates a new SelectorService with the provided optimizer configuration.
func NewSelectorService(cfg config.OptimizerConfig) *SelectorService {
	return &SelectorService{cfg: cfg}
}

// SelectForTarget selects lots from one term bucket whose aggregate
// realized gain approximates a signed need without exceeding
// |need| * (1 + tolerance).
//
// Direction rule: a positive need draws only from gain lots of the
// given term, a negative need only from loss lots. When no matching
// lots exist the bucket returns an empty list plus a diagnostic
// warning; the shortfall is never silently reassigned to the other
// term bucket.
//
// The default strategy is a greedy approximation: lots sorted by
// descending |unrealizedGain| so large lots land first and small lots
// fine-tune the remainder, a partial final lot when a whole lot would
// exceed the ceiling, and early termination once the running total
// reaches the stop fraction of the need. StrategyExact swaps in a
// bounded subset-sum solve for small pools, falling back to greedy when
// the pool is too large or the context expires.
func (s *SelectorService) SelectForTarget(
	ctx context.Context,
	need float64,
	lots []model.TaxLot,
	term model.Term,
	strategy model.Strategy,
	tolerance float64,
) ([]model.Recommendation, []string) {

	if need == 0 {
		return nil, nil
	}

	candidates := s.targetCandidates(need, lots, term)
	if len(candidates) == 0 {
		gainWord := "gain"
		if need < 0 {
			gainWord = "loss"
		}
		warning := fmt.Sprintf("%s: no %s-term %s lots available for a target of %.2f; bucket left unfilled",
			apperrors.ErrNoLotsFound, term, gainWord, need)
		return []model.Recommendation{}, []string{warning}
	}

	tol := s.toleranceFor(need, tolerance)

	if strategy == model.StrategyExact {
		if recs, ok := s.selectExact(ctx, need, candidates, tol); ok {
			return recs, nil
		}
	}

	return s.selectGreedy(need, candidates, tol), nil
}

// targetCandidates filters lots to the matching term and gain sign,
// sorted descending by |unrealizedGain| with full tie-breaks so the
// selection is deterministic.
func (s *SelectorService) targetCandidates(need float64, lots []model.TaxLot, term model.Term) []model.TaxLot {
	candidates := make([]model.TaxLot, 0, len(lots))
	for _, lot := range lots {
		if !lot.Included || lot.Term != term || lot.Quantity <= 0 {
			continue
		}
		if need > 0 && lot.UnrealizedGain <= 0 {
			continue
		}
		if need < 0 && lot.UnrealizedGain >= 0 {
			continue
		}
		candidates = append(candidates, lot)
	}

	sort.Slice(candidates, func(i, j int) bool {
		gi, gj := math.Abs(candidates[i].UnrealizedGain), math.Abs(candidates[j].UnrealizedGain)
		if gi != gj {
			return gi > gj
		}
		if candidates[i].Symbol != candidates[j].Symbol {
			return candidates[i].Symbol < candidates[j].Symbol
		}
		return candidates[i].AcquisitionDate.Before(candidates[j].AcquisitionDate)
	})

	return candidates
}

func (s *SelectorService) selectGreedy(need float64, candidates []model.TaxLot, tol float64) []model.Recommendation {
	absNeed := math.Abs(need)
	ceiling := absNeed * (1 + tol)
	stopAt := absNeed * s.cfg.StopFraction

	recs := []model.Recommendation{}
	running := 0.0

	for _, lot := range candidates {
		if running >= stopAt {
			break
		}

		gain := math.Abs(lot.UnrealizedGain)
		if running+gain <= ceiling {
			recs = append(recs, s.wholeLotRecommendation(lot, need))
			running += gain
			continue
		}

		// The whole lot would exceed the ceiling: sell just enough
		// shares to close the remaining gap, but only if the slice is
		// worth trading.
		gainPerShare := gain / lot.Quantity
		if gainPerShare <= 0 {
			continue
		}
		remaining := absNeed - running
		shares := math.Floor(remaining / gainPerShare)
		if shares < 1 || shares < s.cfg.MinPartialFraction*lot.Quantity {
			continue
		}

		recs = append(recs, s.partialLotRecommendation(lot, need, shares))
		running += shares * gainPerShare
	}

	return recs
}

func (s *SelectorService) wholeLotRecommendation(lot model.TaxLot, need float64) model.Recommendation {
	gainWord := "gain"
	if need < 0 {
		gainWord = "loss"
	}
	return model.Recommendation{
		Action:       model.ActionSell,
		Symbol:       lot.Symbol,
		SharesToSell: lot.Quantity,
		Price:        round2(lot.PricePerShare()),
		Proceeds:     round2(lot.MarketValue),
		ActualGain:   round2(lot.UnrealizedGain),
		Term:         lot.Term,
		Reason: fmt.Sprintf("Full lot: realizes %.2f %s-term %s toward target",
			math.Abs(lot.UnrealizedGain), lot.Term, gainWord),
	}
}

func (s *SelectorService) partialLotRecommendation(lot model.TaxLot, need, shares float64) model.Recommendation {
	gainWord := "gain"
	if need < 0 {
		gainWord = "loss"
	}
	gainPerShare := lot.GainPerShare()
	price := lot.PricePerShare()
	return model.Recommendation{
		Action:       model.ActionSell,
		Symbol:       lot.Symbol,
		SharesToSell: shares,
		Price:        round2(price),
		Proceeds:     round2(shares * price),
		ActualGain:   round2(shares * gainPerShare),
		Term:         lot.Term,
		Reason: fmt.Sprintf("Partial lot (%.0f of %.0f shares): realizes %.2f %s-term %s to fine-tune target",
			shares, lot.Quantity, math.Abs(shares*gainPerShare), lot.Term, gainWord),
	}
}

// toleranceFor resolves the effective overshoot tolerance: an explicit
// request override wins, otherwise the tighter large-need default kicks
// in above the threshold.
func (s *SelectorService) toleranceFor(need, override float64) float64 {
	if override > 0 {
		return override
	}
	if math.Abs(need) >= s.cfg.LargeNeedThreshold {
		return s.cfg.LargeNeedTolerance
	}
	return s.cfg.Tolerance
}

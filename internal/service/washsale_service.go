package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// WashSaleService scores sale/purchase pairs for similarity, detects
// violations inside the 61-day window, and computes the pro-rata
// disallowed-loss split. Violations are always returned as data, never
// as errors: remediation is the caller's choice.
type WashSaleService struct{}

// NewWashSaleService creates a new WashSaleService.
func NewWashSaleService() *WashSaleService {
	return &WashSaleService{}
}

// ScorePair computes the similarity score for two catalog funds.
func (s *WashSaleService) ScorePair(sold, candidate model.FundRecord) model.SimilarityScore {
	return ScoreSimilarity(sold, candidate)
}

// Annotate scans every loss-sale recommendation for wash-sale conflicts
// and attaches the most severe violation found to each recommendation.
//
// Three purchase sources are screened:
//   - recent: purchases in existing holdings within the lookback window
//   - planned: purchases proposed within the same calculation (lookforward)
//   - sibling lots acquired inside the lookback window whose shares are
//     not themselves being sold by this recommendation set
//
// The window is symmetric: WindowDays before the sale, the day of sale,
// WindowDays after. Partial overlap disallows the loss only on
// min(shares sold, shares repurchased); the disallowed amount is
// strictly pro-rata and recorded with basis-adjustment and
// holding-period-tacking metadata for the replacement lot. No other lot
// is ever mutated.
func (s *WashSaleService) Annotate(
	recs []model.Recommendation,
	lots []model.TaxLot,
	recent []model.Purchase,
	planned []model.Purchase,
	catalog map[string]model.FundRecord,
	cfg model.WashSaleConfig,
	asOf time.Time,
) ([]model.Recommendation, []model.WashSaleViolation, []string) {

	if !cfg.Enabled || len(recs) == 0 {
		return recs, nil, nil
	}

	purchases := s.collectPurchases(recs, lots, recent, planned, cfg, asOf)

	annotated := make([]model.Recommendation, len(recs))
	copy(annotated, recs)

	allViolations := []model.WashSaleViolation{}
	warnings := []string{}
	unknown := map[string]bool{}

	for i, rec := range annotated {
		if rec.ActualGain >= 0 {
			continue
		}
		totalLoss := -rec.ActualGain

		violations := []model.WashSaleViolation{}
		for _, p := range purchases {
			sold, soldKnown := lookupFund(catalog, rec.Symbol)
			bought, boughtKnown := lookupFund(catalog, p.Symbol)

			if rec.Symbol != p.Symbol && (!soldKnown || !boughtKnown) {
				for _, sym := range []string{rec.Symbol, p.Symbol} {
					if _, known := lookupFund(catalog, sym); !known && !unknown[sym] {
						unknown[sym] = true
						warnings = append(warnings,
							fmt.Sprintf("%s is not in the fund catalog; only identical-symbol repurchases can be screened for it", sym))
					}
				}
				continue
			}

			score := ScoreSimilarity(sold, bought)
			switch {
			case score.RiskTier <= cfg.FlagTier:
				matched := min(rec.SharesToSell, p.Shares)
				disallowed := round2(matched / rec.SharesToSell * totalLoss)
				violations = append(violations, model.WashSaleViolation{
					SoldSymbol:        rec.Symbol,
					ConflictingSymbol: p.Symbol,
					PurchaseDate:      p.Date,
					SharesSold:        rec.SharesToSell,
					SharesRepurchased: p.Shares,
					SimilarityScore:   score.Score,
					RiskTier:          score.RiskTier,
					DisallowedLoss:    disallowed,
					AllowedLoss:       round2(totalLoss - disallowed),
					BasisAdjustment:   disallowed,
					TackedHoldingDate: s.holdingDateFor(lots, rec),
				})
			case score.RiskTier == model.TierAllowed:
				warnings = append(warnings,
					fmt.Sprintf("informational: %s and %s score %.0f (tier 3); the pair is allowed",
						rec.Symbol, p.Symbol, score.Score))
			}
		}

		if len(violations) == 0 {
			continue
		}

		sort.Slice(violations, func(a, b int) bool {
			va, vb := violations[a], violations[b]
			if va.RiskTier != vb.RiskTier {
				return va.RiskTier < vb.RiskTier
			}
			if va.SimilarityScore != vb.SimilarityScore {
				return va.SimilarityScore > vb.SimilarityScore
			}
			if va.ConflictingSymbol != vb.ConflictingSymbol {
				return va.ConflictingSymbol < vb.ConflictingSymbol
			}
			return va.PurchaseDate.Before(vb.PurchaseDate)
		})

		worst := violations[0]
		annotated[i].WashSale = &worst
		allViolations = append(allViolations, violations...)

		for _, v := range violations {
			switch v.RiskTier {
			case model.TierPresumed:
				warnings = append(warnings,
					fmt.Sprintf("presumed wash sale: selling %s at a loss with a purchase of %s (similarity %.0f) inside the %d-day window; %.2f of the loss would be disallowed",
						v.SoldSymbol, v.ConflictingSymbol, v.SimilarityScore, 2*cfg.WindowDays+1, v.DisallowedLoss))
			case model.TierWarn:
				warnings = append(warnings,
					fmt.Sprintf("possible wash sale: %s vs %s (similarity %.0f); review before trading",
						v.SoldSymbol, v.ConflictingSymbol, v.SimilarityScore))
			}
		}
	}

	return annotated, allViolations, warnings
}

// collectPurchases merges the three purchase sources, keeping only
// purchases inside the symmetric window, in deterministic order.
func (s *WashSaleService) collectPurchases(
	recs []model.Recommendation,
	lots []model.TaxLot,
	recent []model.Purchase,
	planned []model.Purchase,
	cfg model.WashSaleConfig,
	asOf time.Time,
) []model.Purchase {

	window := time.Duration(cfg.WindowDays) * 24 * time.Hour

	inWindow := func(d time.Time) bool {
		delta := asOf.Sub(d)
		if delta < 0 {
			delta = -delta
		}
		return delta <= window
	}

	purchases := []model.Purchase{}
	for _, p := range recent {
		if p.Shares > 0 && inWindow(p.Date) {
			purchases = append(purchases, p)
		}
	}
	for _, p := range planned {
		// Planned purchases belong to this calculation: an unset date
		// means day-of, which is always inside the window.
		if p.Date.IsZero() {
			p.Date = asOf
		}
		if p.Shares > 0 && inWindow(p.Date) {
			purchases = append(purchases, p)
		}
	}

	// Sibling lots acquired inside the lookback window are implicit
	// purchases, net of the shares this recommendation set sells from
	// that specific lot (a lot cannot conflict with its own sale).
	soldByLot := map[int]float64{}
	for _, rec := range recs {
		if idx := sourceLotIndex(lots, rec); idx >= 0 {
			soldByLot[idx] += rec.SharesToSell
		}
	}
	for i, lot := range lots {
		if lot.AcquisitionDate.After(asOf) || !inWindow(lot.AcquisitionDate) {
			continue
		}
		repurchasable := lot.Quantity - soldByLot[i]
		if repurchasable <= 0 {
			continue
		}
		purchases = append(purchases, model.Purchase{
			Symbol: lot.Symbol,
			Shares: repurchasable,
			Date:   lot.AcquisitionDate,
		})
	}

	sort.SliceStable(purchases, func(i, j int) bool {
		if purchases[i].Symbol != purchases[j].Symbol {
			return purchases[i].Symbol < purchases[j].Symbol
		}
		return purchases[i].Date.Before(purchases[j].Date)
	})

	return purchases
}

// holdingDateFor finds the acquisition date of the sold lot so the
// holding period can tack onto the replacement.
func (s *WashSaleService) holdingDateFor(lots []model.TaxLot, rec model.Recommendation) time.Time {
	if idx := sourceLotIndex(lots, rec); idx >= 0 {
		return lots[idx].AcquisitionDate
	}
	return time.Time{}
}

// lookupFund resolves a symbol against the catalog snapshot. Unknown
// symbols come back as a stub record so identical-symbol pairs still
// score 100 while dissimilar unknown pairs score 0.
func lookupFund(catalog map[string]model.FundRecord, symbol string) (model.FundRecord, bool) {
	if f, ok := catalog[symbol]; ok {
		return f, true
	}
	return model.FundRecord{Symbol: symbol}, false
}

// sourceLotIndex attributes a recommendation back to the lot it sells
// from. With several lots of the same symbol and term, the closest
// share count wins, with the earliest acquisition date as tie-break.
func sourceLotIndex(lots []model.TaxLot, rec model.Recommendation) int {
	best := -1
	bestDelta := -1.0
	for i, lot := range lots {
		if lot.Symbol != rec.Symbol || lot.Term != rec.Term {
			continue
		}
		delta := lot.Quantity - rec.SharesToSell
		if delta < 0 {
			delta = -delta
		}
		if best < 0 || delta < bestDelta ||
			(delta == bestDelta && lot.AcquisitionDate.Before(lots[best].AcquisitionDate)) {
			best = i
			bestDelta = delta
		}
	}
	return best
}

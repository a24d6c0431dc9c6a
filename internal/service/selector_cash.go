package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// Cash-maximization tiers, cheapest tax cost first.
const (
	cashTierLoss = iota // losses and break-even lots: selling costs nothing
	cashTierLongGain
	cashTierShortGain
)

// SelectForCash selects lots whose combined proceeds cover a cash need
// while minimizing tax cost. Ranking: loss lots before gain lots, then
// long-term gains before short-term, and within a tier the most
// proceeds per dollar of realized gain first. The final lot sells
// partially so the overage stays within the configured cap of the
// requested amount.
func (s *SelectorService) SelectForCash(need float64, lots []model.TaxLot) ([]model.Recommendation, []string) {
	if need <= 0 {
		return []model.Recommendation{}, []string{"cash on hand already covers the requested amount; nothing to sell"}
	}

	candidates := make([]model.TaxLot, 0, len(lots))
	for _, lot := range lots {
		if lot.Included && lot.Quantity > 0 && lot.MarketValue > 0 {
			candidates = append(candidates, lot)
		}
	}
	if len(candidates) == 0 {
		return []model.Recommendation{}, []string{
			fmt.Sprintf("%s: no sellable lots to raise %.2f", apperrors.ErrNoLotsFound, need),
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		ti, tj := cashTier(candidates[i]), cashTier(candidates[j])
		if ti != tj {
			return ti < tj
		}
		if ti == cashTierLoss {
			// Among losses, biggest proceeds first.
			if candidates[i].MarketValue != candidates[j].MarketValue {
				return candidates[i].MarketValue > candidates[j].MarketValue
			}
		} else {
			ri := candidates[i].MarketValue / candidates[i].UnrealizedGain
			rj := candidates[j].MarketValue / candidates[j].UnrealizedGain
			if ri != rj {
				return ri > rj
			}
		}
		if candidates[i].Symbol != candidates[j].Symbol {
			return candidates[i].Symbol < candidates[j].Symbol
		}
		return candidates[i].AcquisitionDate.Before(candidates[j].AcquisitionDate)
	})

	recs := []model.Recommendation{}
	warnings := []string{}
	running := 0.0
	ceiling := need * (1 + s.cfg.CashOverageCap)

	for _, lot := range candidates {
		if running >= need {
			break
		}
		remaining := need - running

		if running+lot.MarketValue <= ceiling {
			recs = append(recs, s.cashRecommendation(lot, lot.Quantity))
			running += lot.MarketValue
			continue
		}

		price := lot.PricePerShare()
		if price <= 0 {
			continue
		}
		shares := math.Ceil(remaining / price)
		if shares > lot.Quantity {
			shares = lot.Quantity
		}
		if running+shares*price > ceiling {
			shares = math.Floor(remaining / price)
		}
		if shares < 1 {
			continue
		}

		recs = append(recs, s.cashRecommendation(lot, shares))
		running += shares * price
	}

	if running < need {
		warnings = append(warnings,
			fmt.Sprintf("portfolio proceeds cover only %.2f of the requested %.2f", running, need))
	}

	return recs, warnings
}

func cashTier(lot model.TaxLot) int {
	switch {
	case lot.UnrealizedGain <= 0:
		return cashTierLoss
	case lot.Term == model.TermLong:
		return cashTierLongGain
	default:
		return cashTierShortGain
	}
}

func (s *SelectorService) cashRecommendation(lot model.TaxLot, shares float64) model.Recommendation {
	price := lot.PricePerShare()
	gain := shares * lot.GainPerShare()

	var reason string
	switch {
	case gain < 0:
		reason = fmt.Sprintf("Raises %.2f while harvesting a %.2f loss", shares*price, -gain)
	case gain == 0:
		reason = fmt.Sprintf("Raises %.2f with no realized gain", shares*price)
	default:
		reason = fmt.Sprintf("Raises %.2f at the cost of a %.2f %s-term gain", shares*price, gain, lot.Term)
	}
	if shares < lot.Quantity {
		reason = fmt.Sprintf("Partial lot (%.0f of %.0f shares): %s", shares, lot.Quantity, lowerFirst(reason))
	}

	return model.Recommendation{
		Action:       model.ActionSell,
		Symbol:       lot.Symbol,
		SharesToSell: shares,
		Price:        round2(price),
		Proceeds:     round2(shares * price),
		ActualGain:   round2(gain),
		Term:         lot.Term,
		Reason:       reason,
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/testutil"
)

var washAsOf = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func lossRecommendation(symbol string, shares, loss float64) model.Recommendation {
	return model.Recommendation{
		Action:       model.ActionSell,
		Symbol:       symbol,
		SharesToSell: shares,
		ActualGain:   -loss,
		Term:         model.TermLong,
	}
}

// TestWashSaleService_Annotate tests violation detection and the
// pro-rata disallowed-loss split.
//
// WHY: Wash-sale math is the compliance core. A partial repurchase must
// disallow exactly the matched fraction of the loss, and the symmetric
// window must capture both lookback and lookforward purchases.
func TestWashSaleService_Annotate(t *testing.T) {
	svc := service.NewWashSaleService()
	cfg := model.DefaultWashSaleConfig()
	catalog := map[string]model.FundRecord{}

	sourceLot := testutil.NewLot().WithSymbol("XYZ").WithQuantity(100).
		WithCostBasis(11000).WithMarketValue(10000).
		WithAcquisitionDate(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)).
		LongTerm().Lot()

	t.Run("pro-rata split on partial repurchase", func(t *testing.T) {
		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}
		recent := []model.Purchase{{Symbol: "XYZ", Shares: 75, Date: washAsOf.AddDate(0, 0, -10)}}

		annotated, violations, warnings := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, recent, nil, catalog, cfg, washAsOf)

		if len(violations) != 1 {
			t.Fatalf("Expected 1 violation, got %+v", violations)
		}
		v := violations[0]
		if v.DisallowedLoss != 750 {
			t.Errorf("DisallowedLoss = %v, want 750 (75 of 100 shares)", v.DisallowedLoss)
		}
		if v.AllowedLoss != 250 {
			t.Errorf("AllowedLoss = %v, want 250", v.AllowedLoss)
		}
		if v.BasisAdjustment != 750 {
			t.Errorf("BasisAdjustment = %v, want the disallowed amount", v.BasisAdjustment)
		}
		if !v.TackedHoldingDate.Equal(sourceLot.AcquisitionDate) {
			t.Errorf("TackedHoldingDate = %v, want the sold lot's acquisition date", v.TackedHoldingDate)
		}
		if v.RiskTier != model.TierPresumed {
			t.Errorf("RiskTier = %d, want tier 1 for an identical symbol", v.RiskTier)
		}

		if annotated[0].WashSale == nil {
			t.Fatal("Expected the recommendation to carry the violation")
		}
		foundPresumed := false
		for _, w := range warnings {
			if strings.Contains(w, "presumed wash sale") {
				foundPresumed = true
			}
		}
		if !foundPresumed {
			t.Errorf("Expected a presumed wash sale warning, got %v", warnings)
		}
	})

	t.Run("full repurchase disallows the whole loss", func(t *testing.T) {
		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}
		recent := []model.Purchase{{Symbol: "XYZ", Shares: 150, Date: washAsOf.AddDate(0, 0, -5)}}

		_, violations, _ := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, recent, nil, catalog, cfg, washAsOf)

		if len(violations) != 1 || violations[0].DisallowedLoss != 1000 {
			t.Errorf("Expected the full 1000 disallowed, got %+v", violations)
		}
	})

	t.Run("symmetric window includes lookforward and excludes day 31", func(t *testing.T) {
		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}

		inWindow := []model.Purchase{{Symbol: "XYZ", Shares: 10, Date: washAsOf.AddDate(0, 0, 30)}}
		_, violations, _ := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, inWindow, nil, catalog, cfg, washAsOf)
		if len(violations) != 1 {
			t.Errorf("Day +30 purchase should violate, got %+v", violations)
		}

		outside := []model.Purchase{{Symbol: "XYZ", Shares: 10, Date: washAsOf.AddDate(0, 0, 31)}}
		_, violations, _ = svc.Annotate(
			recs, []model.TaxLot{sourceLot}, outside, nil, catalog, cfg, washAsOf)
		if len(violations) != 0 {
			t.Errorf("Day +31 purchase should not violate, got %+v", violations)
		}
	})

	t.Run("planned purchases without a date count as day-of", func(t *testing.T) {
		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}
		planned := []model.Purchase{{Symbol: "XYZ", Shares: 40}}

		_, violations, _ := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, nil, planned, catalog, cfg, washAsOf)

		if len(violations) != 1 || violations[0].DisallowedLoss != 400 {
			t.Errorf("Expected a 400 disallowed loss from the planned purchase, got %+v", violations)
		}
	})

	t.Run("similar fund purchase flags at tier 2", func(t *testing.T) {
		funds := map[string]model.FundRecord{
			"IVV": testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Record(),
			"IWB": testutil.NewFund().WithSymbol("IWB").WithIssuer("iShares").
				WithTrackedIndex("Russell 1000").Record(),
		}
		ivvLot := testutil.NewLot().WithSymbol("IVV").WithQuantity(100).
			WithCostBasis(11000).WithMarketValue(10000).LongTerm().Lot()

		recs := []model.Recommendation{lossRecommendation("IVV", 100, 1000)}
		recent := []model.Purchase{{Symbol: "IWB", Shares: 100, Date: washAsOf.AddDate(0, 0, -3)}}

		annotated, violations, warnings := svc.Annotate(
			recs, []model.TaxLot{ivvLot}, recent, nil, funds, cfg, washAsOf)

		if len(violations) != 1 || violations[0].RiskTier != model.TierWarn {
			t.Fatalf("Expected a tier 2 violation, got %+v", violations)
		}
		if annotated[0].WashSale == nil || annotated[0].WashSale.ConflictingSymbol != "IWB" {
			t.Errorf("Expected the IWB conflict attached, got %+v", annotated[0].WashSale)
		}
		foundPossible := false
		for _, w := range warnings {
			if strings.Contains(w, "possible wash sale") {
				foundPossible = true
			}
		}
		if !foundPossible {
			t.Errorf("Expected a possible wash sale warning, got %v", warnings)
		}
	})

	t.Run("tier 3 pairs surface as informational only", func(t *testing.T) {
		funds := map[string]model.FundRecord{
			"IVV": testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Record(),
			"VTV": testutil.NewFund().WithSymbol("VTV").WithIssuer("Vanguard").
				WithStyleCategory("Large Value").WithTrackedIndex("CRSP US Large Value").Record(),
		}
		ivvLot := testutil.NewLot().WithSymbol("IVV").WithQuantity(100).
			WithCostBasis(11000).WithMarketValue(10000).LongTerm().Lot()

		recs := []model.Recommendation{lossRecommendation("IVV", 100, 1000)}
		recent := []model.Purchase{{Symbol: "VTV", Shares: 100, Date: washAsOf.AddDate(0, 0, -3)}}

		annotated, violations, warnings := svc.Annotate(
			recs, []model.TaxLot{ivvLot}, recent, nil, funds, cfg, washAsOf)

		if len(violations) != 0 {
			t.Errorf("Expected no violations for a tier 3 pair, got %+v", violations)
		}
		if annotated[0].WashSale != nil {
			t.Errorf("Expected no violation attached, got %+v", annotated[0].WashSale)
		}
		foundInfo := false
		for _, w := range warnings {
			if strings.Contains(w, "informational") {
				foundInfo = true
			}
		}
		if !foundInfo {
			t.Errorf("Expected an informational warning, got %v", warnings)
		}
	})

	t.Run("recently acquired sibling lot conflicts with selling an older lot", func(t *testing.T) {
		oldLot := testutil.NewLot().WithSymbol("XYZ").WithQuantity(100).
			WithCostBasis(11000).WithMarketValue(10000).
			WithAcquisitionDate(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)).
			LongTerm().Lot()
		freshLot := testutil.NewLot().WithSymbol("XYZ").WithQuantity(50).
			WithCostBasis(5000).WithMarketValue(5000).
			WithAcquisitionDate(washAsOf.AddDate(0, 0, -20)).
			ShortTerm().Lot()

		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}

		_, violations, _ := svc.Annotate(
			recs, []model.TaxLot{oldLot, freshLot}, nil, nil, catalog, cfg, washAsOf)

		if len(violations) != 1 {
			t.Fatalf("Expected the fresh sibling lot to conflict, got %+v", violations)
		}
		if violations[0].SharesRepurchased != 50 {
			t.Errorf("SharesRepurchased = %v, want the sibling lot's 50", violations[0].SharesRepurchased)
		}
		if violations[0].DisallowedLoss != 500 {
			t.Errorf("DisallowedLoss = %v, want 500", violations[0].DisallowedLoss)
		}
	})

	t.Run("a lot does not conflict with its own sale", func(t *testing.T) {
		// The only recent lot is the one being sold in full.
		freshLot := testutil.NewLot().WithSymbol("XYZ").WithQuantity(100).
			WithCostBasis(11000).WithMarketValue(10000).
			WithAcquisitionDate(washAsOf.AddDate(0, 0, -10)).
			ShortTerm().Lot()

		recs := []model.Recommendation{{
			Action: model.ActionSell, Symbol: "XYZ", SharesToSell: 100,
			ActualGain: -1000, Term: model.TermShort,
		}}

		_, violations, _ := svc.Annotate(
			recs, []model.TaxLot{freshLot}, nil, nil, catalog, cfg, washAsOf)

		if len(violations) != 0 {
			t.Errorf("Expected no self-conflict, got %+v", violations)
		}
	})

	t.Run("gain sales are never flagged", func(t *testing.T) {
		recs := []model.Recommendation{{
			Action: model.ActionSell, Symbol: "XYZ", SharesToSell: 100,
			ActualGain: 1000, Term: model.TermLong,
		}}
		recent := []model.Purchase{{Symbol: "XYZ", Shares: 100, Date: washAsOf.AddDate(0, 0, -5)}}

		_, violations, _ := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, recent, nil, catalog, cfg, washAsOf)

		if len(violations) != 0 {
			t.Errorf("Gain sales must not be flagged, got %+v", violations)
		}
	})

	t.Run("unknown cross-symbol pairs warn about catalog coverage", func(t *testing.T) {
		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}
		recent := []model.Purchase{{Symbol: "ZZZ", Shares: 100, Date: washAsOf.AddDate(0, 0, -5)}}

		_, violations, warnings := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, recent, nil, catalog, cfg, washAsOf)

		if len(violations) != 0 {
			t.Errorf("Unscoreable pairs must not violate, got %+v", violations)
		}
		found := false
		for _, w := range warnings {
			if strings.Contains(w, "not in the fund catalog") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a catalog coverage warning, got %v", warnings)
		}
	})

	t.Run("disabled screening passes recommendations through", func(t *testing.T) {
		recs := []model.Recommendation{lossRecommendation("XYZ", 100, 1000)}
		recent := []model.Purchase{{Symbol: "XYZ", Shares: 100, Date: washAsOf.AddDate(0, 0, -5)}}
		disabled := model.WashSaleConfig{Enabled: false}

		annotated, violations, warnings := svc.Annotate(
			recs, []model.TaxLot{sourceLot}, recent, nil, catalog, disabled, washAsOf)

		if len(violations) != 0 || len(warnings) != 0 {
			t.Errorf("Disabled screening must report nothing, got %+v / %v", violations, warnings)
		}
		if annotated[0].WashSale != nil {
			t.Errorf("Expected no annotation, got %+v", annotated[0].WashSale)
		}
	})
}

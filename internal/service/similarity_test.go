package service_test

import (
	"testing"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/testutil"
)

// TestScoreSimilarity_Calibration tests the similarity scoring against
// known fund pairs.
//
// WHY: The score drives wash-sale flagging, so the tier boundaries must
// land where the detection rules expect them: same-index pairs presumed
// identical, overlapping-index pairs warned, style neighbors allowed.
func TestScoreSimilarity_Calibration(t *testing.T) {
	ivv := testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Record()
	voo := testutil.NewFund().WithSymbol("VOO").WithIssuer("Vanguard").Record()
	spy := testutil.NewFund().WithSymbol("SPY").WithIssuer("State Street").Record()
	splg := testutil.NewFund().WithSymbol("SPLG").WithIssuer("State Street").Record()
	iwb := testutil.NewFund().WithSymbol("IWB").WithIssuer("iShares").
		WithTrackedIndex("Russell 1000").Record()
	vti := testutil.NewFund().WithSymbol("VTI").WithIssuer("Vanguard").
		WithTrackedIndex("CRSP US Total Market").Record()
	vtv := testutil.NewFund().WithSymbol("VTV").WithIssuer("Vanguard").
		WithStyleCategory("Large Value").WithTrackedIndex("CRSP US Large Value").Record()
	agg := testutil.NewFund().WithSymbol("AGG").WithIssuer("iShares").
		WithAssetClass("US Bond").WithStyleCategory("Core Bond").
		WithTrackedIndex("Bloomberg US Aggregate").Record()
	bnd := testutil.NewFund().WithSymbol("BND").WithIssuer("Vanguard").
		WithAssetClass("US Bond").WithStyleCategory("Core Bond").
		WithTrackedIndex("Bloomberg US Agg Float Adj").Record()

	tests := []struct {
		name      string
		sold      model.FundRecord
		candidate model.FundRecord
		wantScore float64
		wantTier  int
	}{
		{"identical symbol", ivv, ivv, 100, model.TierPresumed},
		{"same index different issuer", ivv, voo, 90, model.TierPresumed},
		{"same index same issuer", spy, splg, 100, model.TierPresumed},
		{"overlapping index same issuer", ivv, iwb, 80, model.TierWarn},
		{"overlapping bond index", agg, bnd, 70, model.TierWarn},
		{"blend vs total market", ivv, vti, 50, model.TierAllowed},
		{"blend vs value", ivv, vtv, 40, model.TierAllowed},
		{"different asset class", voo, agg, 0, model.TierClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := service.ScoreSimilarity(tt.sold, tt.candidate)

			if score.Score != tt.wantScore {
				t.Errorf("Score = %.0f, want %.0f (components: index %.0f, style %.0f, issuer %.0f, overlap %.0f)",
					score.Score, tt.wantScore,
					score.IndexPoints, score.StylePoints, score.IssuerPoints, score.OverlapPoints)
			}
			if score.RiskTier != tt.wantTier {
				t.Errorf("RiskTier = %d, want %d", score.RiskTier, tt.wantTier)
			}
		})
	}
}

// TestScoreSimilarity_Symmetry tests that scoring does not depend on
// argument order.
//
// WHY: A sale of A with a purchase of B must flag exactly when a sale
// of B with a purchase of A would; asymmetric scores would make the
// wash-sale screen direction-dependent.
func TestScoreSimilarity_Symmetry(t *testing.T) {
	funds := []model.FundRecord{
		testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Record(),
		testutil.NewFund().WithSymbol("IWB").WithIssuer("iShares").
			WithTrackedIndex("Russell 1000").Record(),
		testutil.NewFund().WithSymbol("VTV").WithIssuer("Vanguard").
			WithStyleCategory("Large Value").WithTrackedIndex("CRSP US Large Value").Record(),
		testutil.NewFund().WithSymbol("PRWCX").WithIssuer("T. Rowe Price").
			WithAssetClass("Allocation").WithStyleCategory("Moderate").
			ActivelyManaged().Record(),
	}

	for i, a := range funds {
		for _, b := range funds[i+1:] {
			forward := service.ScoreSimilarity(a, b)
			reverse := service.ScoreSimilarity(b, a)
			if forward.Score != reverse.Score {
				t.Errorf("Score(%s,%s) = %.0f but Score(%s,%s) = %.0f",
					a.Symbol, b.Symbol, forward.Score, b.Symbol, a.Symbol, reverse.Score)
			}
		}
	}
}

// TestTierForScore tests the tier boundary values.
//
// WHY: Off-by-one boundaries would silently move pairs between flagged
// and allowed.
func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{100, model.TierPresumed},
		{90, model.TierPresumed},
		{89, model.TierWarn},
		{65, model.TierWarn},
		{64, model.TierAllowed},
		{30, model.TierAllowed},
		{29, model.TierClear},
		{0, model.TierClear},
	}

	for _, tt := range tests {
		if got := model.TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%.0f) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

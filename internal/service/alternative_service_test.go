package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/testutil"
)

// TestAlternativeService_Alternatives tests substitute-fund ranking.
//
// WHY: A suggested replacement that is itself substantially identical
// would recreate the wash-sale problem it is meant to solve, so the
// tier filter and the expense-ratio ordering both matter.
func TestAlternativeService_Alternatives(t *testing.T) {
	t.Run("excludes similar funds and orders survivors by expense ratio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAlternativeService(t, db)

		testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").
			WithExpenseRatio(0.03).Build(t, db)
		// Same index, tier 1: must never be suggested.
		testutil.NewFund().WithSymbol("VOO").WithIssuer("Vanguard").
			WithExpenseRatio(0.03).Build(t, db)
		testutil.NewFund().WithSymbol("SPY").WithIssuer("SPDR").
			WithExpenseRatio(0.09).Build(t, db)
		// Same index group, tier 2: still too close.
		testutil.NewFund().WithSymbol("IWB").WithIssuer("iShares").
			WithTrackedIndex("Russell 1000").WithExpenseRatio(0.15).Build(t, db)
		// Broad-market funds, tier 3: valid substitutes.
		testutil.NewFund().WithSymbol("SCHB").WithIssuer("Schwab").
			WithTrackedIndex("DJ US Broad Stock Market").WithExpenseRatio(0.03).Build(t, db)
		testutil.NewFund().WithSymbol("VTI").WithIssuer("Vanguard").
			WithTrackedIndex("CRSP US Total Market").WithExpenseRatio(0.04).Build(t, db)
		testutil.NewFund().WithSymbol("ITOT").WithIssuer("iShares").
			WithTrackedIndex("S&P Total Market").WithExpenseRatio(0.05).Build(t, db)
		// Different style and asset class: out of scope entirely.
		testutil.NewFund().WithSymbol("VTV").WithIssuer("Vanguard").
			WithStyleCategory("Large Value").WithTrackedIndex("CRSP US Large Value").Build(t, db)
		testutil.NewFund().WithSymbol("AGG").WithIssuer("iShares").
			WithAssetClass("Fixed Income").WithStyleCategory("Intermediate Core").
			WithTrackedIndex("Bloomberg US Aggregate").Build(t, db)

		// Execute
		alts, note, err := svc.Alternatives("IVV")

		// Assert
		if err != nil {
			t.Fatalf("Alternatives failed: %v", err)
		}
		if note != "" {
			t.Errorf("Expected no note with qualifying candidates, got %q", note)
		}
		want := []string{"SCHB", "VTI", "ITOT"}
		if len(alts) != len(want) {
			t.Fatalf("Expected %d alternatives, got %d: %+v", len(want), len(alts), alts)
		}
		for i, sym := range want {
			if alts[i].Fund.Symbol != sym {
				t.Errorf("alternatives[%d] = %s, want %s", i, alts[i].Fund.Symbol, sym)
			}
		}
		for _, alt := range alts {
			if alt.RiskTier <= 2 {
				t.Errorf("%s suggested at tier %d", alt.Fund.Symbol, alt.RiskTier)
			}
			if alt.Note == "" {
				t.Errorf("%s tracks a different index family but carries no note", alt.Fund.Symbol)
			}
		}
	})

	t.Run("caps the list at five candidates", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAlternativeService(t, db)

		testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Build(t, db)
		for i := 0; i < 7; i++ {
			testutil.NewFund().
				WithSymbol(fmt.Sprintf("ALT%c", 'A'+i)).
				WithIssuer("Schwab").
				WithTrackedIndex("DJ US Broad Stock Market").
				WithExpenseRatio(0.03 + float64(i)*0.01).
				Build(t, db)
		}

		// Execute
		alts, _, err := svc.Alternatives("IVV")

		// Assert
		if err != nil {
			t.Fatalf("Alternatives failed: %v", err)
		}
		if len(alts) != service.MaxAlternatives {
			t.Fatalf("Expected %d alternatives, got %d", service.MaxAlternatives, len(alts))
		}
		if alts[0].Fund.Symbol != "ALTA" {
			t.Errorf("Expected the cheapest fund first, got %s", alts[0].Fund.Symbol)
		}
	})

	t.Run("returns manual selection note when nothing qualifies", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAlternativeService(t, db)

		testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Build(t, db)
		testutil.NewFund().WithSymbol("VOO").WithIssuer("Vanguard").Build(t, db)

		// Execute
		alts, note, err := svc.Alternatives("IVV")

		// Assert
		if err != nil {
			t.Fatalf("Alternatives failed: %v", err)
		}
		if len(alts) != 0 {
			t.Errorf("Expected no alternatives, got %+v", alts)
		}
		if note != service.ManualSelectionNote {
			t.Errorf("note = %q, want %q", note, service.ManualSelectionNote)
		}
	})

	t.Run("unknown symbol returns fund not found", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAlternativeService(t, db)

		// Execute
		_, _, err := svc.Alternatives("NOPE")

		// Assert
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

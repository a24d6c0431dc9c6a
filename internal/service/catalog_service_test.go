package service_test

import (
	"errors"
	"testing"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/testutil"
)

// TestCatalogService tests the catalog business rules layered over the
// repository: symbol normalization, duplicate rejection, and the
// snapshot the calculation engine consumes.
func TestCatalogService(t *testing.T) {
	t.Run("symbols are normalized on every operation", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogService(t, db)

		created, err := svc.Create(testutil.NewFund().WithSymbol(" ivv ").Record())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.Symbol != "IVV" {
			t.Errorf("Created symbol = %q, want IVV", created.Symbol)
		}

		// Execute / Assert
		got, err := svc.GetBySymbol("ivv")
		if err != nil {
			t.Fatalf("Case-insensitive lookup failed: %v", err)
		}
		if got.Symbol != "IVV" {
			t.Errorf("Symbol = %q, want IVV", got.Symbol)
		}

		if err := svc.Delete(" ivv "); err != nil {
			t.Errorf("Delete with unnormalized symbol failed: %v", err)
		}
	})

	t.Run("duplicate create returns duplicate fund error", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogService(t, db)

		testutil.NewFund().WithSymbol("IVV").Build(t, db)

		// Execute
		_, err := svc.Create(testutil.NewFund().WithSymbol("ivv").Record())

		// Assert
		if !errors.Is(err, apperrors.ErrDuplicateFund) {
			t.Errorf("Expected ErrDuplicateFund, got %v", err)
		}
	})

	t.Run("create rejects an empty symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogService(t, db)

		_, err := svc.Create(testutil.NewFund().WithSymbol("   ").Record())
		if !errors.Is(err, apperrors.ErrInvalidSymbol) {
			t.Errorf("Expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("snapshot keys every fund by symbol", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogService(t, db)

		testutil.NewFund().WithSymbol("IVV").WithIssuer("iShares").Build(t, db)
		testutil.NewFund().WithSymbol("VTI").Build(t, db)

		// Execute
		snapshot, err := svc.Snapshot()

		// Assert
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if len(snapshot) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(snapshot))
		}
		if snapshot["IVV"].Issuer != "iShares" {
			t.Errorf("IVV entry = %+v", snapshot["IVV"])
		}
		if _, ok := snapshot["VTI"]; !ok {
			t.Error("Expected VTI in the snapshot")
		}
	})

	t.Run("snapshot of an empty catalog is empty, not nil", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogService(t, db)

		snapshot, err := svc.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if snapshot == nil || len(snapshot) != 0 {
			t.Errorf("Expected empty map, got %v", snapshot)
		}
	})
}

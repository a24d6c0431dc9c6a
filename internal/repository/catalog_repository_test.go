package repository_test

import (
	"errors"
	"testing"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/repository"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/testutil"
)

// TestCatalogRepository_CRUD tests the fund_catalog data access layer
// against a real in-memory database.
func TestCatalogRepository_CRUD(t *testing.T) {
	t.Run("create assigns an id and round-trips all attributes", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		fund := testutil.NewFund().WithSymbol("IVV").WithName("iShares Core S&P 500 ETF").
			WithIssuer("iShares").WithExpenseRatio(0.03).Record()

		// Execute
		created, err := repo.Create(fund)

		// Assert
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("Expected a generated ID")
		}

		got, err := repo.GetBySymbol("IVV")
		if err != nil {
			t.Fatalf("GetBySymbol failed: %v", err)
		}
		if got.Name != fund.Name || got.Issuer != fund.Issuer ||
			got.TrackedIndex != fund.TrackedIndex || got.ExpenseRatio != fund.ExpenseRatio {
			t.Errorf("Round-trip mismatch: %+v vs %+v", got, fund)
		}
		if got.ManagementStyle != fund.ManagementStyle {
			t.Errorf("ManagementStyle = %q, want %q", got.ManagementStyle, fund.ManagementStyle)
		}
	})

	t.Run("get all orders by symbol", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		testutil.NewFund().WithSymbol("VTI").Build(t, db)
		testutil.NewFund().WithSymbol("AGG").Build(t, db)
		testutil.NewFund().WithSymbol("IVV").Build(t, db)

		// Execute
		funds, err := repo.GetAll()

		// Assert
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		want := []string{"AGG", "IVV", "VTI"}
		if len(funds) != len(want) {
			t.Fatalf("Expected %d funds, got %d", len(want), len(funds))
		}
		for i, sym := range want {
			if funds[i].Symbol != sym {
				t.Errorf("funds[%d] = %s, want %s", i, funds[i].Symbol, sym)
			}
		}
	})

	t.Run("get all returns empty slice for empty catalog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		funds, err := repo.GetAll()
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		if funds == nil || len(funds) != 0 {
			t.Errorf("Expected empty slice, got %v", funds)
		}
	})

	t.Run("get by unknown symbol returns fund not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		_, err := repo.GetBySymbol("NOPE")
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("update replaces attributes", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		fund := testutil.NewFund().WithSymbol("IVV").WithExpenseRatio(0.03).Build(t, db)

		// Execute
		fund.ExpenseRatio = 0.02
		fund.Name = "iShares Core S&P 500 ETF"
		if err := repo.Update(fund); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		// Assert
		got, err := repo.GetBySymbol("IVV")
		if err != nil {
			t.Fatalf("GetBySymbol failed: %v", err)
		}
		if got.ExpenseRatio != 0.02 || got.Name != "iShares Core S&P 500 ETF" {
			t.Errorf("Update not persisted: %+v", got)
		}
	})

	t.Run("update of missing symbol returns fund not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		err := repo.Update(testutil.NewFund().WithSymbol("NOPE").Record())
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("delete removes the record", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		testutil.NewFund().WithSymbol("IVV").Build(t, db)

		// Execute
		if err := repo.Delete("IVV"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		// Assert
		_, err := repo.GetBySymbol("IVV")
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound after delete, got %v", err)
		}
	})

	t.Run("delete of missing symbol returns fund not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		if err := repo.Delete("NOPE"); !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("duplicate symbol insert fails on the unique constraint", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCatalogRepository(db)

		testutil.NewFund().WithSymbol("IVV").Build(t, db)

		_, err := repo.Create(testutil.NewFund().WithSymbol("IVV").Record())
		if err == nil {
			t.Error("Expected the unique index to reject the duplicate")
		}
	})
}

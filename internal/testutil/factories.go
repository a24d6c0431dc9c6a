package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// FundBuilder provides a fluent interface for creating catalog test funds.
//
// Example usage:
//
//	// Simple creation with defaults
//	fund := testutil.NewFund().Build(t, db)
//
//	// Customized fund
//	fund := testutil.NewFund().
//	    WithSymbol("VOO").
//	    WithTrackedIndex("S&P 500").
//	    Build(t, db)
type FundBuilder struct {
	ID              string
	Symbol          string
	Name            string
	Issuer          string
	AssetClass      string
	StyleCategory   string
	ManagementStyle string
	TrackedIndex    string
	ExpenseRatio    float64
	AUM             float64
	AvgVolume       float64
}

// NewFund creates a FundBuilder with sensible defaults: a passive
// US large blend index fund.
func NewFund() *FundBuilder {
	return &FundBuilder{
		ID:              MakeID(),
		Symbol:          MakeSymbol(""),
		Name:            MakeFundName("Test Fund"),
		Issuer:          "Vanguard",
		AssetClass:      "US Equity",
		StyleCategory:   "Large Blend",
		ManagementStyle: "passive",
		TrackedIndex:    "S&P 500",
		ExpenseRatio:    0.03,
		AUM:             1_000_000_000,
		AvgVolume:       5_000_000,
	}
}

// WithSymbol sets a custom ticker symbol.
func (b *FundBuilder) WithSymbol(symbol string) *FundBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithIssuer sets a custom issuer.
func (b *FundBuilder) WithIssuer(issuer string) *FundBuilder {
	b.Issuer = issuer
	return b
}

// WithAssetClass sets a custom asset class.
func (b *FundBuilder) WithAssetClass(class string) *FundBuilder {
	b.AssetClass = class
	return b
}

// WithStyleCategory sets a custom style category.
func (b *FundBuilder) WithStyleCategory(style string) *FundBuilder {
	b.StyleCategory = style
	return b
}

// WithTrackedIndex sets a custom tracked index.
func (b *FundBuilder) WithTrackedIndex(index string) *FundBuilder {
	b.TrackedIndex = index
	return b
}

// WithExpenseRatio sets a custom expense ratio.
func (b *FundBuilder) WithExpenseRatio(ratio float64) *FundBuilder {
	b.ExpenseRatio = ratio
	return b
}

// WithAUM sets custom assets under management.
func (b *FundBuilder) WithAUM(aum float64) *FundBuilder {
	b.AUM = aum
	return b
}

// WithAvgVolume sets a custom average daily volume.
func (b *FundBuilder) WithAvgVolume(volume float64) *FundBuilder {
	b.AvgVolume = volume
	return b
}

// ActivelyManaged marks the fund as actively managed with no tracked index.
func (b *FundBuilder) ActivelyManaged() *FundBuilder {
	b.ManagementStyle = "active"
	b.TrackedIndex = ""
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.FundRecord {
	t.Helper()

	query := `
		INSERT INTO fund_catalog (id, symbol, name, issuer, asset_class, style_category,
			management_style, tracked_index, expense_ratio, aum, avg_volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Name, b.Issuer, b.AssetClass, b.StyleCategory,
		b.ManagementStyle, b.TrackedIndex, b.ExpenseRatio, b.AUM, b.AvgVolume)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.FundRecord{
		ID:              b.ID,
		Symbol:          b.Symbol,
		Name:            b.Name,
		Issuer:          b.Issuer,
		AssetClass:      b.AssetClass,
		StyleCategory:   b.StyleCategory,
		ManagementStyle: model.ManagementStyle(b.ManagementStyle),
		TrackedIndex:    b.TrackedIndex,
		ExpenseRatio:    b.ExpenseRatio,
		AUM:             b.AUM,
		AvgVolume:       b.AvgVolume,
	}
}

// Record returns the fund without persisting it, for tests that work
// with catalog snapshots instead of the database.
func (b *FundBuilder) Record() model.FundRecord {
	return model.FundRecord{
		ID:              b.ID,
		Symbol:          b.Symbol,
		Name:            b.Name,
		Issuer:          b.Issuer,
		AssetClass:      b.AssetClass,
		StyleCategory:   b.StyleCategory,
		ManagementStyle: model.ManagementStyle(b.ManagementStyle),
		TrackedIndex:    b.TrackedIndex,
		ExpenseRatio:    b.ExpenseRatio,
		AUM:             b.AUM,
		AvgVolume:       b.AvgVolume,
	}
}

// LotBuilder provides a fluent interface for creating test tax lots.
// Lots are request payload data and are never persisted.
//
// Example usage:
//
//	lot := testutil.NewLot().
//	    WithSymbol("AAA").
//	    WithGain(1000).
//	    LongTerm().
//	    Lot()
type LotBuilder struct {
	lot model.TaxLot
}

// NewLot creates a LotBuilder with sensible defaults: 100 shares of a
// long-term lot worth 10000 with no unrealized gain.
func NewLot() *LotBuilder {
	return &LotBuilder{
		lot: model.TaxLot{
			Symbol:          "TEST",
			Quantity:        100,
			CostBasis:       10000,
			MarketValue:     10000,
			AcquisitionDate: time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
			Term:            model.TermLong,
			Included:        true,
		},
	}
}

// WithSymbol sets a custom ticker symbol.
func (b *LotBuilder) WithSymbol(symbol string) *LotBuilder {
	b.lot.Symbol = symbol
	return b
}

// WithQuantity sets a custom share count.
func (b *LotBuilder) WithQuantity(quantity float64) *LotBuilder {
	b.lot.Quantity = quantity
	return b
}

// WithCostBasis sets a custom cost basis.
func (b *LotBuilder) WithCostBasis(basis float64) *LotBuilder {
	b.lot.CostBasis = basis
	return b
}

// WithMarketValue sets a custom market value.
func (b *LotBuilder) WithMarketValue(value float64) *LotBuilder {
	b.lot.MarketValue = value
	return b
}

// WithGain adjusts the market value so the lot carries the given
// unrealized gain (negative for a loss).
func (b *LotBuilder) WithGain(gain float64) *LotBuilder {
	b.lot.MarketValue = b.lot.CostBasis + gain
	return b
}

// WithAcquisitionDate sets a custom acquisition date.
func (b *LotBuilder) WithAcquisitionDate(date time.Time) *LotBuilder {
	b.lot.AcquisitionDate = date
	return b
}

// ShortTerm marks the lot as short-term.
func (b *LotBuilder) ShortTerm() *LotBuilder {
	b.lot.Term = model.TermShort
	return b
}

// LongTerm marks the lot as long-term.
func (b *LotBuilder) LongTerm() *LotBuilder {
	b.lot.Term = model.TermLong
	return b
}

// Excluded marks the lot as excluded from selection.
func (b *LotBuilder) Excluded() *LotBuilder {
	b.lot.Included = false
	return b
}

// Lot returns the built tax lot with the unrealized gain computed.
func (b *LotBuilder) Lot() model.TaxLot {
	lot := b.lot
	lot.UnrealizedGain = lot.MarketValue - lot.CostBasis
	return lot
}

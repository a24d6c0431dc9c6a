package apperrors

import "errors"

// Structural errors abort a calculation entirely. They indicate the
// request as a whole cannot be processed, as opposed to row- or
// lot-level issues which accumulate into warnings.
var (
	// ErrEmptyPortfolio indicates the portfolio contained no usable rows.
	ErrEmptyPortfolio = errors.New("portfolio is empty")

	// ErrMissingColumns indicates the portfolio input is missing one or
	// more required columns.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrInvalidPortfolioData is the umbrella for structural portfolio
	// problems; ErrEmptyPortfolio and ErrMissingColumns wrap it.
	ErrInvalidPortfolioData = errors.New("invalid portfolio data")
)

// Request validation errors represent a calculation request that fails
// its business rules before any selection runs.
var (
	// ErrMissingSpec indicates neither a target spec nor a cash-raise
	// spec was provided.
	ErrMissingSpec = errors.New("either targetSpec or cashRaiseSpec is required")

	// ErrConflictingSpecs indicates both specs were provided; the two
	// modes are mutually exclusive.
	ErrConflictingSpecs = errors.New("targetSpec and cashRaiseSpec are mutually exclusive")

	// ErrInvalidMode indicates an unrecognized calculation mode.
	ErrInvalidMode = errors.New("invalid calculation mode")

	// ErrInvalidStrategy indicates an unrecognized selection strategy.
	ErrInvalidStrategy = errors.New("invalid selection strategy")

	// ErrInvalidTolerance indicates a tolerance outside (0, 1].
	ErrInvalidTolerance = errors.New("tolerance must be in (0, 1]")

	// ErrNegativeCash indicates a negative cash amount in a cash-raise spec.
	ErrNegativeCash = errors.New("cash amounts cannot be negative")
)

// Catalog errors represent missing or conflicting fund-catalog entries.
var (
	// ErrFundNotFound indicates a symbol has no catalog entry.
	ErrFundNotFound = errors.New("fund not found in catalog")

	// ErrDuplicateFund indicates a catalog entry for the symbol already exists.
	ErrDuplicateFund = errors.New("fund already exists in catalog")

	// ErrInvalidSymbol indicates an empty or malformed ticker symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Diagnostic conditions surface as warnings on an otherwise successful
// calculation; they are sentinel errors so services can classify them.
var (
	// ErrNoLotsFound indicates no lots of the required sign and term
	// exist for a nonzero target. The calculation still succeeds with an
	// empty recommendation set for that bucket.
	ErrNoLotsFound = errors.New("no lots of the required sign and term")
)

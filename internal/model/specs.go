package model

// Mode selects which optimization algorithm a calculation runs.
type Mode string

const (
	// ModeTargetPrecision matches realized gains/losses to annual
	// short-term and long-term targets.
	ModeTargetPrecision Mode = "target_precision"

	// ModeCashMaximization raises a requested amount of cash while
	// minimizing the tax cost of the sales.
	ModeCashMaximization Mode = "cash_maximization"
)

// Strategy selects the lot-selection algorithm used in target mode.
type Strategy string

const (
	// StrategyGreedy is the default bounded approximation.
	StrategyGreedy Strategy = "greedy"

	// StrategyExact is an opt-in subset-sum solve over cent-quantized
	// gains, only applicable to small lot pools.
	StrategyExact Strategy = "exact"
)

// TargetSpec describes annual realized gain/loss targets per term bucket.
// The remaining need for a bucket is target minus realized.
type TargetSpec struct {
	TargetST   float64 `json:"targetST"`
	TargetLT   float64 `json:"targetLT"`
	RealizedST float64 `json:"realizedST"`
	RealizedLT float64 `json:"realizedLT"`
}

// RemainingST returns the short-term gain/loss still needed to hit the target.
func (t TargetSpec) RemainingST() float64 {
	return t.TargetST - t.RealizedST
}

// RemainingLT returns the long-term gain/loss still needed to hit the target.
func (t TargetSpec) RemainingLT() float64 {
	return t.TargetLT - t.RealizedLT
}

// CashRaiseSpec describes a cash-raising request. Mutually exclusive
// with TargetSpec-driven selection.
type CashRaiseSpec struct {
	CashNeeded  float64 `json:"cashNeeded"`
	CurrentCash float64 `json:"currentCash"`
}

// Remaining returns the cash still to be raised, never negative.
func (c CashRaiseSpec) Remaining() float64 {
	if c.CurrentCash >= c.CashNeeded {
		return 0
	}
	return c.CashNeeded - c.CurrentCash
}

// WashSaleConfig controls the wash-sale screening pass.
type WashSaleConfig struct {
	// Enabled toggles the screening pass. Defaults to on at the API layer.
	Enabled bool `json:"enabled"`

	// WindowDays is the one-sided window length. The full window is
	// symmetric: WindowDays before the sale, the sale day, WindowDays after.
	WindowDays int `json:"windowDays"`

	// FlagTier is the worst risk tier that still produces a violation.
	// Tier 1 is presumed wash sale, tier 2 is warn-only.
	FlagTier int `json:"flagTier"`
}

// DefaultWashSaleConfig mirrors the IRS 61-day rule: 30 days back,
// day of sale, 30 days forward, flagging tiers 1 and 2.
func DefaultWashSaleConfig() WashSaleConfig {
	return WashSaleConfig{
		Enabled:    true,
		WindowDays: 30,
		FlagTier:   2,
	}
}

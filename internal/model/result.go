package model

// Summary aggregates a calculation's outcome alongside the inputs that
// produced it, so callers can audit what the optimizer was aiming for.
type Summary struct {
	Mode Mode `json:"mode"`

	// Target mode fields.
	TargetST   float64 `json:"targetST,omitempty"`
	TargetLT   float64 `json:"targetLT,omitempty"`
	RealizedST float64 `json:"realizedST,omitempty"`
	RealizedLT float64 `json:"realizedLT,omitempty"`

	// AchievedST/LT are the gains/losses this recommendation set realizes.
	AchievedST float64 `json:"achievedST"`
	AchievedLT float64 `json:"achievedLT"`

	// Cash mode fields.
	CashRequested float64 `json:"cashRequested,omitempty"`
	CashRaised    float64 `json:"cashRaised,omitempty"`

	TotalProceeds    float64 `json:"totalProceeds"`
	EstimatedTaxCost float64 `json:"estimatedTaxCost"`
	WashSaleCount    int     `json:"washSaleCount"`

	// Disclaimer is the standing cross-account limitation notice,
	// present on every result.
	Disclaimer string `json:"disclaimer"`
}

// CalculationResult is the full output of one optimizer invocation.
type CalculationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         Summary          `json:"summary"`
	Warnings        []string         `json:"warnings"`
}

// CrossAccountDisclaimer is disclosed on every calculation: purchases in
// accounts this engine cannot see defeat wash-sale screening.
const CrossAccountDisclaimer = "Wash-sale screening covers only the submitted portfolio and purchases. " +
	"Purchases in other accounts, spousal accounts, IRAs, or via options contracts cannot be detected " +
	"and must be reviewed manually."

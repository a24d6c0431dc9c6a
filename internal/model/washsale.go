package model

import "time"

// WashSaleViolation records a loss sale paired with a sufficiently
// similar purchase inside the 61-day window. The disallowed/allowed
// split is strictly pro-rata to min(shares sold, shares repurchased).
// Basis adjustment and holding-period tacking are recorded as metadata
// for the replacement lot; the engine never mutates other lots.
type WashSaleViolation struct {
	SoldSymbol        string    `json:"soldSymbol"`
	ConflictingSymbol string    `json:"conflictingSymbol"`
	PurchaseDate      time.Time `json:"purchaseDate"`
	SharesSold        float64   `json:"sharesSold"`
	SharesRepurchased float64   `json:"sharesRepurchased"`
	SimilarityScore   float64   `json:"similarityScore"`
	RiskTier          int       `json:"riskTier"`
	DisallowedLoss    float64   `json:"disallowedLossAmount"`
	AllowedLoss       float64   `json:"allowedLossAmount"`

	// BasisAdjustment is the disallowed loss to add to the replacement
	// lot's cost basis.
	BasisAdjustment float64 `json:"basisAdjustment"`

	// TackedHoldingDate is the sold lot's acquisition date, which tacks
	// onto the replacement lot's holding period.
	TackedHoldingDate time.Time `json:"tackedHoldingDate"`
}

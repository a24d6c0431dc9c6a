package model

// Recommendation is a single proposed sell action derived from a tax lot.
// It is produced by a selector, optionally annotated by the wash-sale
// checker, and never otherwise mutated.
type Recommendation struct {
	Action       string             `json:"action"`
	Symbol       string             `json:"symbol"`
	SharesToSell float64            `json:"sharesToSell"`
	Price        float64            `json:"price"`
	Proceeds     float64            `json:"proceeds"`
	ActualGain   float64            `json:"actualGain"`
	Term         Term               `json:"term"`
	Reason       string             `json:"reason"`
	WashSale     *WashSaleViolation `json:"washSale,omitempty"`
}

// ActionSell is the only action the optimizer emits. Buys appear only as
// planned purchases supplied by the caller.
const ActionSell = "SELL"

package model

import "time"

// Term is the IRS holding-period classification of a tax lot.
// Lots held one year or less are short-term; anything longer is long-term.
type Term string

const (
	TermShort Term = "short"
	TermLong  Term = "long"
)

// TaxLot represents a single purchase batch of a security with its own
// cost basis, quantity, and acquisition date. Lots are immutable once
// normalized; their lifecycle is a single calculation request.
type TaxLot struct {
	Symbol          string    `json:"symbol"`
	Quantity        float64   `json:"quantity"`
	CostBasis       float64   `json:"costBasis"`
	MarketValue     float64   `json:"marketValue"`
	AcquisitionDate time.Time `json:"acquisitionDate"`
	Term            Term      `json:"term"`
	UnrealizedGain  float64   `json:"unrealizedGain"`
	Included        bool      `json:"included"`
}

// GainPerShare returns the unrealized gain attributable to one share.
// Returns 0 for lots without shares to avoid dividing by zero.
func (l TaxLot) GainPerShare() float64 {
	if l.Quantity <= 0 {
		return 0
	}
	return l.UnrealizedGain / l.Quantity
}

// PricePerShare returns the current market price of one share.
func (l TaxLot) PricePerShare() float64 {
	if l.Quantity <= 0 {
		return 0
	}
	return l.MarketValue / l.Quantity
}

// Purchase is a buy of a security that is relevant to wash-sale
// screening: either a recent purchase in the existing holdings or a
// purchase proposed within the same calculation.
type Purchase struct {
	Symbol string    `json:"symbol"`
	Shares float64   `json:"shares"`
	Date   time.Time `json:"date"`
}

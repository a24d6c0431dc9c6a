// Package request defines the request payload structures for API endpoints.
package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
)

// dateLayouts lists the accepted date formats for request payloads,
// tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
}

// LotInput is one tax lot as submitted by a client. Included defaults
// to true when omitted so callers only mark exclusions.
type LotInput struct {
	Symbol          string  `json:"symbol"`
	Quantity        float64 `json:"quantity"`
	CostBasis       float64 `json:"costBasis"`
	MarketValue     float64 `json:"marketValue"`
	AcquisitionDate string  `json:"acquisitionDate"`
	Term            string  `json:"term,omitempty"`
	Included        *bool   `json:"included,omitempty"`
}

// PurchaseInput is one recent or planned purchase of a security.
// Planned purchases may omit the date, which anchors them to the
// calculation date.
type PurchaseInput struct {
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
	Date   string  `json:"date,omitempty"`
}

// CalculateRequest is the payload for POST /api/calculate and
// POST /api/calculate/export. Exactly one of TargetSpec and
// CashRaiseSpec must be set.
type CalculateRequest struct {
	Lots             []LotInput            `json:"lots"`
	TargetSpec       *model.TargetSpec     `json:"targetSpec,omitempty"`
	CashRaiseSpec    *model.CashRaiseSpec  `json:"cashRaiseSpec,omitempty"`
	Mode             string                `json:"mode,omitempty"`
	Strategy         string                `json:"strategy,omitempty"`
	Tolerance        float64               `json:"tolerance,omitempty"`
	WashSaleConfig   *model.WashSaleConfig `json:"washSaleConfig,omitempty"`
	RecentPurchases  []PurchaseInput       `json:"recentPurchases,omitempty"`
	PlannedPurchases []PurchaseInput       `json:"plannedPurchases,omitempty"`
	AsOfDate         string                `json:"asOfDate,omitempty"`
}

// EffectiveMode returns the requested mode, inferring it from which
// spec is present when the mode field is omitted.
func (r *CalculateRequest) EffectiveMode() string {
	if r.Mode != "" {
		return r.Mode
	}
	if r.TargetSpec != nil && r.CashRaiseSpec == nil {
		return string(model.ModeTargetPrecision)
	}
	if r.CashRaiseSpec != nil && r.TargetSpec == nil {
		return string(model.ModeCashMaximization)
	}
	return ""
}

// ToCalculation converts a validated request into the service-layer
// calculation request, parsing dates and applying defaults.
func (r *CalculateRequest) ToCalculation() (service.CalculationRequest, error) {
	creq := service.CalculationRequest{
		Target:    r.TargetSpec,
		CashRaise: r.CashRaiseSpec,
		Mode:      model.Mode(r.EffectiveMode()),
		Strategy:  model.Strategy(r.Strategy),
		Tolerance: r.Tolerance,
		WashSale:  model.DefaultWashSaleConfig(),
	}
	if r.WashSaleConfig != nil {
		creq.WashSale = *r.WashSaleConfig
	}

	if r.AsOfDate != "" {
		asOf, err := parseDate(r.AsOfDate)
		if err != nil {
			return service.CalculationRequest{}, fmt.Errorf("asOfDate: %w", err)
		}
		creq.AsOf = asOf
	}

	creq.Lots = make([]model.TaxLot, 0, len(r.Lots))
	for i, in := range r.Lots {
		lot, err := in.toModel()
		if err != nil {
			return service.CalculationRequest{}, fmt.Errorf("lots[%d]: %w", i, err)
		}
		creq.Lots = append(creq.Lots, lot)
	}

	var err error
	if creq.RecentPurchases, err = toPurchases("recentPurchases", r.RecentPurchases, false); err != nil {
		return service.CalculationRequest{}, err
	}
	if creq.PlannedPurchases, err = toPurchases("plannedPurchases", r.PlannedPurchases, true); err != nil {
		return service.CalculationRequest{}, err
	}
	return creq, nil
}

func (in LotInput) toModel() (model.TaxLot, error) {
	lot := model.TaxLot{
		Symbol:      strings.ToUpper(strings.TrimSpace(in.Symbol)),
		Quantity:    in.Quantity,
		CostBasis:   in.CostBasis,
		MarketValue: in.MarketValue,
		Term:        model.Term(strings.ToLower(in.Term)),
		Included:    true,
	}
	if in.Included != nil {
		lot.Included = *in.Included
	}
	if in.AcquisitionDate != "" {
		date, err := parseDate(in.AcquisitionDate)
		if err != nil {
			return model.TaxLot{}, fmt.Errorf("acquisitionDate: %w", err)
		}
		lot.AcquisitionDate = date
	}
	return lot, nil
}

func toPurchases(field string, inputs []PurchaseInput, dateOptional bool) ([]model.Purchase, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	purchases := make([]model.Purchase, 0, len(inputs))
	for i, in := range inputs {
		p := model.Purchase{
			Symbol: strings.ToUpper(strings.TrimSpace(in.Symbol)),
			Shares: in.Shares,
		}
		if in.Date == "" {
			if !dateOptional {
				return nil, fmt.Errorf("%s[%d]: date is required", field, i)
			}
		} else {
			date, err := parseDate(in.Date)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: date: %w", field, i, err)
			}
			p.Date = date
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

package validation

import (
	"fmt"
	"strings"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/request"
)

var ValidMode = map[string]bool{
	"target_precision": true, "cash_maximization": true,
}

var ValidStrategy = map[string]bool{
	"greedy": true, "exact": true,
}

var ValidTerm = map[string]bool{
	"short": true, "long": true,
}

func ValidateCalculateRequest(req request.CalculateRequest) error {
	errors := make(map[string]string)

	if len(req.Lots) == 0 {
		errors["lots"] = "at least one lot is required"
	}
	for i, lot := range req.Lots {
		field := fmt.Sprintf("lots[%d]", i)
		if err := ValidateSymbol(lot.Symbol); err != nil {
			errors[field+".symbol"] = fmt.Sprintf("invalid symbol: %s", lot.Symbol)
		}
		if lot.Quantity <= 0 {
			errors[field+".quantity"] = "quantity must be positive"
		}
		if lot.Term != "" && !ValidTerm[strings.ToLower(lot.Term)] {
			errors[field+".term"] = fmt.Sprintf("invalid term: %s", lot.Term)
		}
		if lot.Term == "" && lot.AcquisitionDate == "" {
			errors[field+".term"] = "term or acquisitionDate is required"
		}
	}

	// Exactly one spec drives a calculation.
	if req.TargetSpec == nil && req.CashRaiseSpec == nil {
		errors["mode"] = "either targetSpec or cashRaiseSpec is required"
	} else if req.TargetSpec != nil && req.CashRaiseSpec != nil {
		errors["mode"] = "targetSpec and cashRaiseSpec are mutually exclusive"
	}

	if req.Mode != "" && !ValidMode[req.Mode] {
		errors["mode"] = fmt.Sprintf("invalid mode: %s", req.Mode)
	}
	if req.Mode == "target_precision" && req.TargetSpec == nil {
		errors["targetSpec"] = "targetSpec is required for target_precision mode"
	}
	if req.Mode == "cash_maximization" && req.CashRaiseSpec == nil {
		errors["cashRaiseSpec"] = "cashRaiseSpec is required for cash_maximization mode"
	}

	if req.Strategy != "" && !ValidStrategy[req.Strategy] {
		errors["strategy"] = fmt.Sprintf("invalid strategy: %s", req.Strategy)
	}

	if req.Tolerance < 0 || req.Tolerance > 1 {
		errors["tolerance"] = "tolerance must be between 0 and 1"
	}

	if req.CashRaiseSpec != nil {
		if req.CashRaiseSpec.CashNeeded < 0 {
			errors["cashRaiseSpec.cashNeeded"] = "cashNeeded cannot be negative"
		}
		if req.CashRaiseSpec.CurrentCash < 0 {
			errors["cashRaiseSpec.currentCash"] = "currentCash cannot be negative"
		}
	}

	if req.WashSaleConfig != nil {
		if req.WashSaleConfig.WindowDays < 0 {
			errors["washSaleConfig.windowDays"] = "windowDays cannot be negative"
		}
		if req.WashSaleConfig.FlagTier < 1 || req.WashSaleConfig.FlagTier > 4 {
			errors["washSaleConfig.flagTier"] = "flagTier must be between 1 and 4"
		}
	}

	for i, p := range req.RecentPurchases {
		if err := ValidateSymbol(p.Symbol); err != nil {
			errors[fmt.Sprintf("recentPurchases[%d].symbol", i)] = fmt.Sprintf("invalid symbol: %s", p.Symbol)
		}
		if p.Shares <= 0 {
			errors[fmt.Sprintf("recentPurchases[%d].shares", i)] = "shares must be positive"
		}
		if p.Date == "" {
			errors[fmt.Sprintf("recentPurchases[%d].date", i)] = "date is required"
		}
	}
	for i, p := range req.PlannedPurchases {
		if err := ValidateSymbol(p.Symbol); err != nil {
			errors[fmt.Sprintf("plannedPurchases[%d].symbol", i)] = fmt.Sprintf("invalid symbol: %s", p.Symbol)
		}
		if p.Shares <= 0 {
			errors[fmt.Sprintf("plannedPurchases[%d].shares", i)] = "shares must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

package validation

import (
	"fmt"
	"strings"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/request"
)

var ValidManagementStyle = map[string]bool{
	"passive": true, "active": true,
}

func ValidateCreateFund(req request.CreateFundRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = fmt.Sprintf("invalid symbol: %s", req.Symbol)
	}
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}
	if strings.TrimSpace(req.AssetClass) == "" {
		errors["assetClass"] = "asset class is required"
	}
	if strings.TrimSpace(req.StyleCategory) == "" {
		errors["styleCategory"] = "style category is required"
	}
	if strings.TrimSpace(req.ManagementStyle) == "" {
		errors["managementStyle"] = "management style is required"
	} else if !ValidManagementStyle[strings.ToLower(req.ManagementStyle)] {
		errors["managementStyle"] = fmt.Sprintf("invalid management style: %s", req.ManagementStyle)
	}

	// optional
	if req.ExpenseRatio < 0 || req.ExpenseRatio > 5 {
		errors["expenseRatio"] = "expense ratio must be between 0 and 5 percent"
	}
	if req.AUM < 0 {
		errors["aum"] = "aum cannot be negative"
	}
	if req.AvgVolume < 0 {
		errors["avgVolume"] = "avgVolume cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateFund(req request.UpdateFundRequest) error {
	errors := make(map[string]string)

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name is required"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}
	if req.AssetClass != nil && strings.TrimSpace(*req.AssetClass) == "" {
		errors["assetClass"] = "asset class is required"
	}
	if req.StyleCategory != nil && strings.TrimSpace(*req.StyleCategory) == "" {
		errors["styleCategory"] = "style category is required"
	}
	if req.ManagementStyle != nil {
		if strings.TrimSpace(*req.ManagementStyle) == "" {
			errors["managementStyle"] = "management style is required"
		} else if !ValidManagementStyle[strings.ToLower(*req.ManagementStyle)] {
			errors["managementStyle"] = fmt.Sprintf("invalid management style: %s", *req.ManagementStyle)
		}
	}
	if req.ExpenseRatio != nil && (*req.ExpenseRatio < 0 || *req.ExpenseRatio > 5) {
		errors["expenseRatio"] = "expense ratio must be between 0 and 5 percent"
	}
	if req.AUM != nil && *req.AUM < 0 {
		errors["aum"] = "aum cannot be negative"
	}
	if req.AvgVolume != nil && *req.AvgVolume < 0 {
		errors["avgVolume"] = "avgVolume cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

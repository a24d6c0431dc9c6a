package request

type CreateFundRequest struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Issuer          string  `json:"issuer"`
	AssetClass      string  `json:"assetClass"`
	StyleCategory   string  `json:"styleCategory"`
	ManagementStyle string  `json:"managementStyle"`
	TrackedIndex    string  `json:"trackedIndex"`
	ExpenseRatio    float64 `json:"expenseRatio"`
	AUM             float64 `json:"aum"`
	AvgVolume       float64 `json:"avgVolume"`
}

type UpdateFundRequest struct {
	Name            *string  `json:"name"`
	Issuer          *string  `json:"issuer"`
	AssetClass      *string  `json:"assetClass"`
	StyleCategory   *string  `json:"styleCategory"`
	ManagementStyle *string  `json:"managementStyle"`
	TrackedIndex    *string  `json:"trackedIndex"`
	ExpenseRatio    *float64 `json:"expenseRatio"`
	AUM             *float64 `json:"aum"`
	AvgVolume       *float64 `json:"avgVolume"`
}

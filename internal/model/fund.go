package model

// ManagementStyle distinguishes index trackers from actively managed funds.
type ManagementStyle string

const (
	ManagementActive  ManagementStyle = "active"
	ManagementPassive ManagementStyle = "passive"
)

// FundRecord is a fund-catalog entry: the static reference attributes
// used for similarity scoring and alternative ranking. Catalog rows are
// read-only inside the engine; a snapshot is loaded before each
// calculation so no I/O happens in the core.
type FundRecord struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Issuer          string          `json:"issuer"`
	AssetClass      string          `json:"assetClass"`
	StyleCategory   string          `json:"styleCategory"`
	ManagementStyle ManagementStyle `json:"managementStyle"`
	TrackedIndex    string          `json:"trackedIndex"`
	ExpenseRatio    float64         `json:"expenseRatio"`
	AUM             float64         `json:"aum"`
	AvgVolume       float64         `json:"avgVolume"`
}

// SimilarityScore is the pairwise substantial-identity approximation for
// two funds: a weighted score in [0,100] plus a risk tier. Scores are
// computed on demand and never persisted.
type SimilarityScore struct {
	SoldSymbol      string  `json:"soldSymbol"`
	CandidateSymbol string  `json:"candidateSymbol"`
	Score           float64 `json:"score"`
	RiskTier        int     `json:"riskTier"`
	IndexPoints     float64 `json:"indexPoints"`
	StylePoints     float64 `json:"stylePoints"`
	IssuerPoints    float64 `json:"issuerPoints"`
	OverlapPoints   float64 `json:"overlapPoints"`
}

// Risk tiers for a similarity score.
const (
	// TierPresumed (score >= 90) is treated as a presumed wash sale,
	// e.g. two S&P 500 funds from different issuers.
	TierPresumed = 1

	// TierWarn (65-89) warrants a warning but is not auto-blocked,
	// e.g. an S&P 500 fund against a Russell 1000 fund.
	TierWarn = 2

	// TierAllowed (30-64) is allowed; surfaced as informational only.
	TierAllowed = 3

	// TierClear (< 30) produces no flag at all.
	TierClear = 4
)

// TierForScore maps a similarity score onto its risk tier.
func TierForScore(score float64) int {
	switch {
	case score >= 90:
		return TierPresumed
	case score >= 65:
		return TierWarn
	case score >= 30:
		return TierAllowed
	default:
		return TierClear
	}
}

// AlternativeFund is a ranked substitute candidate for a flagged sale.
type AlternativeFund struct {
	Fund            FundRecord `json:"fund"`
	SimilarityScore float64    `json:"similarityScore"`
	RiskTier        int        `json:"riskTier"`
	Note            string     `json:"note,omitempty"`
}

package service

import "github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"

// Similarity scoring approximates the IRS "substantially identical"
// standard with a weighted score over four components:
//
//	tracked index        up to 50 points
//	asset class / style  up to 20 points
//	issuer               up to 10 points
//	holdings overlap     up to 20 points
//
// Two S&P 500 funds from different issuers land at exactly 90 (tier 1);
// an S&P 500 fund against a Russell 1000 fund lands at 70 (tier 2); a
// blend fund against a value fund in the same asset class lands at 40
// (tier 3).

// indexGroups maps a tracked index onto its overlap group. Indexes in
// the same group cover nearly the same universe without being identical,
// e.g. the S&P 500 against the Russell 1000.
var indexGroups = map[string]string{
	"S&P 500":                    "us-large-blend",
	"Russell 1000":               "us-large-blend",
	"CRSP US Total Market":       "us-total-market",
	"DJ US Broad Stock Market":   "us-total-market",
	"S&P Total Market":           "us-total-market",
	"CRSP US Large Value":        "us-large-value",
	"Russell 1000 Value":         "us-large-value",
	"CRSP US Large Growth":       "us-large-growth",
	"Nasdaq-100":                 "us-large-growth",
	"Bloomberg US Aggregate":     "us-agg-bond",
	"Bloomberg US Agg Float Adj": "us-agg-bond",
}

// adjacentStyles are style categories whose funds hold heavily
// overlapping names. A pair is adjacent when equal or listed here in
// either order.
var adjacentStyles = map[[2]string]bool{
	{"Large Blend", "Large Value"}:  true,
	{"Large Blend", "Large Growth"}: true,
}

// ScoreSimilarity computes the pairwise similarity of two catalog funds.
// Identical symbols always score 100.
func ScoreSimilarity(sold, candidate model.FundRecord) model.SimilarityScore {
	score := model.SimilarityScore{
		SoldSymbol:      sold.Symbol,
		CandidateSymbol: candidate.Symbol,
	}

	if sold.Symbol == candidate.Symbol {
		score.Score = 100
		score.IndexPoints = 50
		score.StylePoints = 20
		score.IssuerPoints = 10
		score.OverlapPoints = 20
		score.RiskTier = model.TierPresumed
		return score
	}

	score.IndexPoints = indexPoints(sold, candidate)
	score.StylePoints = stylePoints(sold, candidate)
	score.IssuerPoints = issuerPoints(sold, candidate)
	score.OverlapPoints = overlapPoints(sold, candidate)

	score.Score = score.IndexPoints + score.StylePoints + score.IssuerPoints + score.OverlapPoints
	score.RiskTier = model.TierForScore(score.Score)
	return score
}

func sameIndex(a, b model.FundRecord) bool {
	return a.TrackedIndex != "" && a.TrackedIndex == b.TrackedIndex
}

func sameIndexGroup(a, b model.FundRecord) bool {
	ga, aok := indexGroups[a.TrackedIndex]
	gb, bok := indexGroups[b.TrackedIndex]
	return aok && bok && ga == gb
}

func stylesAdjacent(a, b string) bool {
	if a == b {
		return true
	}
	return adjacentStyles[[2]string{a, b}] || adjacentStyles[[2]string{b, a}]
}

// indexPoints awards full credit for the same tracked index, partial
// credit for distinct indexes covering the same universe, and a smaller
// credit for related universes within one asset class.
func indexPoints(a, b model.FundRecord) float64 {
	switch {
	case sameIndex(a, b):
		return 50
	case sameIndexGroup(a, b):
		return 35
	case a.AssetClass == b.AssetClass && stylesAdjacent(a.StyleCategory, b.StyleCategory):
		return 20
	default:
		return 0
	}
}

func stylePoints(a, b model.FundRecord) float64 {
	switch {
	case a.AssetClass == b.AssetClass && a.StyleCategory == b.StyleCategory:
		return 20
	case a.AssetClass == b.AssetClass:
		return 10
	default:
		return 0
	}
}

// issuerPoints is the inverse of issuer difference: a same-issuer pair
// is more likely substantially identical.
func issuerPoints(a, b model.FundRecord) float64 {
	if a.Issuer != "" && a.Issuer == b.Issuer {
		return 10
	}
	return 0
}

// overlapPoints proxies return correlation / holdings overlap from the
// catalog attributes, since no live holdings data is available.
func overlapPoints(a, b model.FundRecord) float64 {
	switch {
	case sameIndex(a, b):
		return 20
	case sameIndexGroup(a, b):
		return 15
	case a.AssetClass == b.AssetClass && stylesAdjacent(a.StyleCategory, b.StyleCategory):
		return 10
	case a.AssetClass == b.AssetClass:
		return 5
	default:
		return 0
	}
}

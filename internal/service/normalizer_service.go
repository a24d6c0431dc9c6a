package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// NormalizerService converts raw portfolio rows into canonical tax-lot
// records. Rows that fail normalization become per-row warnings; only
// structural problems (missing columns, empty portfolio) are fatal.
type NormalizerService struct{}

// NewNormalizerService creates a new NormalizerService.
func NewNormalizerService() *NormalizerService {
	return &NormalizerService{}
}

// requiredColumns are the headers a portfolio CSV must carry.
var requiredColumns = []string{
	"Symbol",
	"Acquired/Opened",
	"Quantity",
	"Market Value",
	"Cost Basis",
	"Holding Period",
}

// portfolioRow is the raw CSV row shape before normalization. Numeric
// fields stay strings here because brokers export currency formatting.
type portfolioRow struct {
	Symbol        string `csv:"Symbol"`
	Acquired      string `csv:"Acquired/Opened"`
	Quantity      string `csv:"Quantity"`
	MarketValue   string `csv:"Market Value"`
	CostBasis     string `csv:"Cost Basis"`
	HoldingPeriod string `csv:"Holding Period"`
}

// NormalizeCSV parses a portfolio CSV into tax lots. Invalid rows are
// skipped and returned as warnings. Missing required columns or a
// portfolio with no usable rows abort with a structural error.
func (s *NormalizerService) NormalizeCSV(r io.Reader, asOf time.Time) ([]model.TaxLot, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read portfolio: %w", err)
	}

	if err := s.checkColumns(data); err != nil {
		return nil, nil, err
	}

	var rows []portfolioRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidPortfolioData, err)
	}

	lots := make([]model.TaxLot, 0, len(rows))
	warnings := []string{}

	for i, row := range rows {
		lot, err := s.normalizeRow(row, i+1, asOf)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		lots = append(lots, lot)
	}

	if len(lots) == 0 {
		return nil, warnings, fmt.Errorf("%w: %w", apperrors.ErrInvalidPortfolioData, apperrors.ErrEmptyPortfolio)
	}

	return lots, warnings, nil
}

// NormalizeLots canonicalizes lots that arrived already structured
// (JSON API or CLI flags): symbols are upper-cased, unrealized gain is
// recomputed from market value and cost basis, and rows with
// non-positive quantity are collected as warnings. A missing term is
// derived from the acquisition date under the one-year rule.
func (s *NormalizerService) NormalizeLots(raw []model.TaxLot, asOf time.Time) ([]model.TaxLot, []string, error) {
	lots := make([]model.TaxLot, 0, len(raw))
	warnings := []string{}

	for i, lot := range raw {
		lot.Symbol = strings.ToUpper(strings.TrimSpace(lot.Symbol))
		if lot.Symbol == "" {
			warnings = append(warnings, (&apperrors.InvalidRowError{
				Row: i + 1, Field: "symbol", Reason: "symbol is required",
			}).Error())
			continue
		}
		if lot.Quantity <= 0 {
			warnings = append(warnings, (&apperrors.InvalidRowError{
				Row: i + 1, Symbol: lot.Symbol, Field: "quantity",
				Reason: fmt.Sprintf("must be positive, got %v", lot.Quantity),
			}).Error())
			continue
		}
		if lot.Term == "" && !lot.AcquisitionDate.IsZero() {
			lot.Term, _ = parseTerm("", lot.AcquisitionDate, asOf)
		}
		if lot.Term != model.TermShort && lot.Term != model.TermLong {
			warnings = append(warnings, (&apperrors.InvalidRowError{
				Row: i + 1, Symbol: lot.Symbol, Field: "term",
				Reason: fmt.Sprintf("must be %q or %q", model.TermShort, model.TermLong),
			}).Error())
			continue
		}
		lot.UnrealizedGain = round2(lot.MarketValue - lot.CostBasis)
		lots = append(lots, lot)
	}

	if len(lots) == 0 {
		return nil, warnings, fmt.Errorf("%w: %w", apperrors.ErrInvalidPortfolioData, apperrors.ErrEmptyPortfolio)
	}

	return lots, warnings, nil
}

// checkColumns validates the CSV header before struct mapping, since
// gocsv silently zeroes fields whose columns are absent.
func (s *NormalizerService) checkColumns(data []byte) error {
	reader := csv.NewReader(bytes.NewReader(data))
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidPortfolioData, apperrors.ErrEmptyPortfolio)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}

	missing := []string{}
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %w: %s",
			apperrors.ErrInvalidPortfolioData, apperrors.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

func (s *NormalizerService) normalizeRow(row portfolioRow, rowNum int, asOf time.Time) (model.TaxLot, error) {
	symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
	if symbol == "" {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Field: "Symbol", Reason: "symbol is required",
		}
	}

	quantity, err := ParseCurrency(row.Quantity)
	if err != nil {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Symbol: symbol, Field: "Quantity", Reason: err.Error(),
		}
	}
	if !quantity.IsPositive() {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Symbol: symbol, Field: "Quantity",
			Reason: fmt.Sprintf("must be positive, got %s", quantity),
		}
	}

	marketValue, err := ParseCurrency(row.MarketValue)
	if err != nil {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Symbol: symbol, Field: "Market Value", Reason: err.Error(),
		}
	}

	costBasis, err := ParseCurrency(row.CostBasis)
	if err != nil {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Symbol: symbol, Field: "Cost Basis", Reason: err.Error(),
		}
	}

	acquired, err := parseDate(row.Acquired)
	if err != nil {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Symbol: symbol, Field: "Acquired/Opened", Reason: err.Error(),
		}
	}

	term, err := parseTerm(row.HoldingPeriod, acquired, asOf)
	if err != nil {
		return model.TaxLot{}, &apperrors.InvalidRowError{
			Row: rowNum, Symbol: symbol, Field: "Holding Period", Reason: err.Error(),
		}
	}

	gain := marketValue.Sub(costBasis).Round(2)

	return model.TaxLot{
		Symbol:          symbol,
		Quantity:        quantity.InexactFloat64(),
		CostBasis:       costBasis.Round(2).InexactFloat64(),
		MarketValue:     marketValue.Round(2).InexactFloat64(),
		AcquisitionDate: acquired,
		Term:            term,
		UnrealizedGain:  gain.InexactFloat64(),
		Included:        true,
	}, nil
}

// ParseCurrency parses a currency-formatted numeric: leading $, comma
// thousands separators, and parenthesized or minus-signed negatives.
func ParseCurrency(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", raw)
	}

	if negative {
		value = value.Neg()
	}
	return value, nil
}

// dateLayouts are tried in order when parsing acquisition dates.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"Jan 2, 2006",
}

func parseDate(raw string) (time.Time, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", raw)
}

// parseTerm maps a holding-period label onto a term. An empty label
// falls back to the IRS one-year rule against the acquisition date.
func parseTerm(raw string, acquired, asOf time.Time) (model.Term, error) {
	label := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case label == "":
		if asOf.Sub(acquired) > 365*24*time.Hour {
			return model.TermLong, nil
		}
		return model.TermShort, nil
	case strings.HasPrefix(label, "long"), label == "lt":
		return model.TermLong, nil
	case strings.HasPrefix(label, "short"), label == "st":
		return model.TermShort, nil
	default:
		return "", fmt.Errorf("unrecognized holding period: %q", raw)
	}
}

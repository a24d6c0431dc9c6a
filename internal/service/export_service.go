package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/gocarina/gocsv"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// ExportService renders a recommendation set as the downstream CSV
// contract: one row per recommendation with display-formatted currency.
type ExportService struct{}

// NewExportService creates a new ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

// exportRow mirrors the export CSV column contract.
type exportRow struct {
	Action   string `csv:"Action"`
	Symbol   string `csv:"Symbol"`
	Shares   string `csv:"Shares"`
	Price    string `csv:"Price"`
	Proceeds string `csv:"Proceeds"`
	GainLoss string `csv:"Gain/Loss"`
	Term     string `csv:"Term"`
	Reason   string `csv:"Reason"`
}

// WriteCSV writes the recommendations to w in export order, which is
// the recommendation order itself so exports stay deterministic.
func (s *ExportService) WriteCSV(w io.Writer, recs []model.Recommendation) error {
	rows := make([]exportRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, exportRow{
			Action:   rec.Action,
			Symbol:   rec.Symbol,
			Shares:   strconv.FormatFloat(rec.SharesToSell, 'f', -1, 64),
			Price:    formatUSD(rec.Price),
			Proceeds: formatUSD(rec.Proceeds),
			GainLoss: formatUSD(rec.ActualGain),
			Term:     string(rec.Term),
			Reason:   rec.Reason,
		})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write recommendation CSV: %w", err)
	}
	return nil
}

// formatUSD renders a monetary value the same way broker exports do,
// e.g. "$1,234.56" and "-$750.00".
func formatUSD(value float64) string {
	return money.NewFromFloat(value, money.USD).Display()
}

package apperrors

import "fmt"

// InvalidRowError is a per-row, non-fatal normalization failure. Rows
// that fail normalization are skipped and their errors collected into
// the calculation's warnings list; the remaining valid rows proceed.
type InvalidRowError struct {
	Row    int
	Symbol string
	Field  string
	Reason string
}

func (e *InvalidRowError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("row %d (%s): invalid %s: %s", e.Row, e.Symbol, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: invalid %s: %s", e.Row, e.Field, e.Reason)
}

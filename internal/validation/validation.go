package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Common validation errors
var (
	ErrInvalidSymbol = fmt.Errorf("invalid ticker symbol format")
	ErrEmptySlice    = fmt.Errorf("slice cannot be empty")
)

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// ValidateSymbol checks if a string is a plausible ticker symbol.
// Symbols are matched case-insensitively; normalization to upper case
// happens at the service layer.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(strings.ToUpper(strings.TrimSpace(symbol))) {
		return fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}
	return nil
}

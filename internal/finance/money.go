// Package finance holds the domain model of the cash ledger: the chart of
// accounts, cash/bank registers, ledger transactions with their approval
// lifecycle, and budgets.
package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a positive monetary amount from user input.
//
// It accepts both dot (12500.50) and comma (12500,50) decimal separators.
// Returns ErrValidation for empty input, unparseable strings, and amounts
// that are zero or negative.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ValidationErrorf("amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ValidationErrorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, ValidationErrorf("amount must be positive, got %s", d)
	}
	return d, nil
}

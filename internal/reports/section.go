// Package reports derives the four financial reports as pure functions of
// an approved-transaction snapshot plus account/register state. Builders
// never read storage and never mutate anything, which keeps them trivially
// testable and reproducible: the same snapshot always yields the same
// report.
package reports

import (
	"strings"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

// Section is a cash-flow statement classification.
type Section string

const (
	SectionOperating Section = "OPERATING"
	SectionInvesting Section = "INVESTING"
	SectionFinancing Section = "FINANCING"
)

// SectionClassifier assigns a cash-flow section to an account.
type SectionClassifier interface {
	Classify(a finance.Account) Section
}

// ClassifierFunc adapts a plain function to SectionClassifier.
type ClassifierFunc func(a finance.Account) Section

func (f ClassifierFunc) Classify(a finance.Account) Section { return f(a) }

// DefaultClassifier is the category-text heuristic: a category containing
// "invest" is INVESTING; a category containing "pendanaan" or "financing",
// or an account of type LIABILITY or EQUITY, is FINANCING; everything else
// is OPERATING.
func DefaultClassifier() SectionClassifier {
	return ClassifierFunc(func(a finance.Account) Section {
		category := strings.ToLower(a.Category)
		if strings.Contains(category, "invest") {
			return SectionInvesting
		}
		if strings.Contains(category, "pendanaan") || strings.Contains(category, "financing") {
			return SectionFinancing
		}
		if a.Type == finance.AccountLiability || a.Type == finance.AccountEquity {
			return SectionFinancing
		}
		return SectionOperating
	})
}

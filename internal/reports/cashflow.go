package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

type (
	// SectionItem aggregates one account within a cash-flow section.
	SectionItem struct {
		AccountID        string
		AccountCode      string
		AccountName      string
		Inflow           decimal.Decimal
		Outflow          decimal.Decimal
		Net              decimal.Decimal
		TransactionCount int
	}

	SectionSummary struct {
		Section Section
		Inflow  decimal.Decimal
		Outflow decimal.Decimal
		Net     decimal.Decimal
		Items   []SectionItem
	}

	// TransferSummary keeps internal register-to-register movements out
	// of the classified sections so moving cash between registers never
	// inflates operating, investing or financing totals.
	TransferSummary struct {
		Inflow  decimal.Decimal
		Outflow decimal.Decimal
		Net     decimal.Decimal
	}

	CashFlowTotals struct {
		Inflow  decimal.Decimal
		Outflow decimal.Decimal
		Net     decimal.Decimal
	}

	CashFlowReport struct {
		Range             finance.DateRange
		Operating         SectionSummary
		Investing         SectionSummary
		Financing         SectionSummary
		InternalTransfers TransferSummary
		// Totals sum the three sections and explicitly exclude
		// internal transfers.
		Totals CashFlowTotals
	}
)

// BuildCashFlow derives the cash-flow statement from the APPROVED history
// across all registers. Transfer legs are summed separately; every
// income/expense row lands in exactly one section chosen by the
// classifier.
func BuildCashFlow(accounts []finance.Account, txns []finance.Transaction, rng finance.DateRange, classifier SectionClassifier) CashFlowReport {
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	accountsByID := make(map[string]finance.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}

	report := CashFlowReport{
		Range:             rng,
		Operating:         newSectionSummary(SectionOperating),
		Investing:         newSectionSummary(SectionInvesting),
		Financing:         newSectionSummary(SectionFinancing),
		InternalTransfers: TransferSummary{Inflow: decimal.Zero, Outflow: decimal.Zero, Net: decimal.Zero},
		Totals:            CashFlowTotals{Inflow: decimal.Zero, Outflow: decimal.Zero, Net: decimal.Zero},
	}

	items := map[Section]map[string]*SectionItem{
		SectionOperating: {},
		SectionInvesting: {},
		SectionFinancing: {},
	}

	for _, t := range txns {
		if !rng.Contains(t.TxnDate) {
			continue
		}

		if t.Kind.Transfer() {
			if t.Kind.Inflow() {
				report.InternalTransfers.Inflow = report.InternalTransfers.Inflow.Add(t.Amount)
			} else {
				report.InternalTransfers.Outflow = report.InternalTransfers.Outflow.Add(t.Amount)
			}
			continue
		}

		section := classifier.Classify(accountsByID[t.AccountID])
		item, ok := items[section][t.AccountID]
		if !ok {
			a := accountsByID[t.AccountID]
			item = &SectionItem{
				AccountID:   t.AccountID,
				AccountCode: a.Code,
				AccountName: a.Name,
				Inflow:      decimal.Zero,
				Outflow:     decimal.Zero,
				Net:         decimal.Zero,
			}
			items[section][t.AccountID] = item
		}
		if t.Kind.Inflow() {
			item.Inflow = item.Inflow.Add(t.Amount)
		} else {
			item.Outflow = item.Outflow.Add(t.Amount)
		}
		item.Net = item.Net.Add(t.Delta())
		item.TransactionCount++
	}

	report.InternalTransfers.Net = report.InternalTransfers.Inflow.Sub(report.InternalTransfers.Outflow)

	report.Operating = summarize(SectionOperating, items[SectionOperating])
	report.Investing = summarize(SectionInvesting, items[SectionInvesting])
	report.Financing = summarize(SectionFinancing, items[SectionFinancing])

	for _, s := range []SectionSummary{report.Operating, report.Investing, report.Financing} {
		report.Totals.Inflow = report.Totals.Inflow.Add(s.Inflow)
		report.Totals.Outflow = report.Totals.Outflow.Add(s.Outflow)
		report.Totals.Net = report.Totals.Net.Add(s.Net)
	}

	return report
}

func newSectionSummary(s Section) SectionSummary {
	return SectionSummary{
		Section: s,
		Inflow:  decimal.Zero,
		Outflow: decimal.Zero,
		Net:     decimal.Zero,
	}
}

// summarize orders items by |net| descending (account code breaks ties so
// output is deterministic) and folds them into the section totals.
func summarize(section Section, byAccount map[string]*SectionItem) SectionSummary {
	summary := newSectionSummary(section)
	for _, item := range byAccount {
		summary.Items = append(summary.Items, *item)
		summary.Inflow = summary.Inflow.Add(item.Inflow)
		summary.Outflow = summary.Outflow.Add(item.Outflow)
		summary.Net = summary.Net.Add(item.Net)
	}
	sort.Slice(summary.Items, func(i, j int) bool {
		a, b := summary.Items[i].Net.Abs(), summary.Items[j].Net.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return summary.Items[i].AccountCode < summary.Items[j].AccountCode
	})
	return summary
}

package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

type GroupBy string

const (
	GroupDaily   GroupBy = "daily"
	GroupMonthly GroupBy = "monthly"
)

func (g GroupBy) Valid() bool {
	return g == GroupDaily || g == GroupMonthly
}

type (
	// CashBookEntry is one approved ledger row with its inflow/outflow
	// split and the running balance after the row is applied.
	CashBookEntry struct {
		TransactionID  string
		TxnDate        time.Time
		Kind           finance.TxnKind
		AccountID      string
		RegisterID     string
		Description    string
		ReferenceNo    string
		Inflow         decimal.Decimal
		Outflow        decimal.Decimal
		RunningBalance decimal.Decimal
	}

	// CashBookBucket aggregates entries per day or month. ClosingBalance
	// is cumulative across buckets starting from the report's opening
	// balance, so the last bucket closes at the report's closing balance.
	CashBookBucket struct {
		Key              string
		Inflow           decimal.Decimal
		Outflow          decimal.Decimal
		Net              decimal.Decimal
		TransactionCount int
		ClosingBalance   decimal.Decimal
	}

	CashBookReport struct {
		Range          finance.DateRange
		GroupBy        GroupBy
		RegisterID     string // empty = all registers
		OpeningBalance decimal.Decimal
		Entries        []CashBookEntry
		Grouped        []CashBookBucket
		TotalInflow    decimal.Decimal
		TotalOutflow   decimal.Decimal
		ClosingBalance decimal.Decimal
	}
)

// BuildCashBook derives the cash book from the scoped registers and their
// full APPROVED history, which must be ordered by (txnDate, insertion).
// Opening balance is the configured register openings plus every approved
// delta dated before the range. An empty scope yields an all-zero report.
func BuildCashBook(registers []finance.CashBankRegister, txns []finance.Transaction, rng finance.DateRange, groupBy GroupBy, registerID string) CashBookReport {
	report := CashBookReport{
		Range:          rng,
		GroupBy:        groupBy,
		RegisterID:     registerID,
		OpeningBalance: decimal.Zero,
		TotalInflow:    decimal.Zero,
		TotalOutflow:   decimal.Zero,
	}

	for _, reg := range registers {
		report.OpeningBalance = report.OpeningBalance.Add(reg.OpeningBalance)
	}
	for _, t := range txns {
		if t.TxnDate.Before(rng.Start) {
			report.OpeningBalance = report.OpeningBalance.Add(t.Delta())
		}
	}

	running := report.OpeningBalance
	for _, t := range txns {
		if !rng.Contains(t.TxnDate) {
			continue
		}

		entry := CashBookEntry{
			TransactionID: t.ID,
			TxnDate:       t.TxnDate,
			Kind:          t.Kind,
			AccountID:     t.AccountID,
			RegisterID:    t.CashBankAccountID,
			Description:   t.Description,
			ReferenceNo:   t.ReferenceNo,
			Inflow:        decimal.Zero,
			Outflow:       decimal.Zero,
		}
		if t.Kind.Inflow() {
			entry.Inflow = t.Amount
			report.TotalInflow = report.TotalInflow.Add(t.Amount)
		} else {
			entry.Outflow = t.Amount
			report.TotalOutflow = report.TotalOutflow.Add(t.Amount)
		}
		running = running.Add(t.Delta())
		entry.RunningBalance = running

		report.Entries = append(report.Entries, entry)

		key := bucketKey(t.TxnDate, groupBy)
		if n := len(report.Grouped); n == 0 || report.Grouped[n-1].Key != key {
			report.Grouped = append(report.Grouped, CashBookBucket{
				Key:     key,
				Inflow:  decimal.Zero,
				Outflow: decimal.Zero,
				Net:     decimal.Zero,
			})
		}
		bucket := &report.Grouped[len(report.Grouped)-1]
		bucket.Inflow = bucket.Inflow.Add(entry.Inflow)
		bucket.Outflow = bucket.Outflow.Add(entry.Outflow)
		bucket.Net = bucket.Net.Add(t.Delta())
		bucket.TransactionCount++
		bucket.ClosingBalance = running
	}

	report.ClosingBalance = running
	return report
}

func bucketKey(t time.Time, groupBy GroupBy) string {
	if groupBy == GroupMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

package reports

import (
	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

type (
	// ReconciliationRow replays one register's entire approved history
	// and compares it against the stored balance cache. VarianceCurrent
	// must be zero; anything else means the cache drifted from what the
	// ledger implies. The report detects drift, it never corrects it.
	ReconciliationRow struct {
		RegisterID           string
		RegisterCode         string
		RegisterName         string
		RegisterType         finance.RegisterType
		OpeningBalance       decimal.Decimal // configured at creation
		OpeningAtStart       decimal.Decimal // configured + pre-range deltas
		PeriodInflow         decimal.Decimal
		PeriodOutflow        decimal.Decimal
		PeriodNet            decimal.Decimal
		ClosingAtEndRange    decimal.Decimal
		LedgerBalanceCurrent decimal.Decimal // configured + all-time deltas
		StoredBalance        decimal.Decimal // the cached register balance
		VarianceCurrent      decimal.Decimal // stored - replayed
	}

	// TransferWarning flags an approved transfer leg whose paired leg is
	// not approved (a "dangling leg").
	TransferWarning struct {
		TransactionID string
		TransferRef   string
		RegisterID    string
		Kind          finance.TxnKind
		Amount        decimal.Decimal
	}

	ReconciliationReport struct {
		Range    finance.DateRange
		Rows     []ReconciliationRow
		Totals   ReconciliationRow
		Warnings []TransferWarning
	}
)

// BuildReconciliation replays the full APPROVED history of every scoped
// register, splitting deltas into pre-range, in-range and all-time. The
// totals row sums every per-register field, variance included.
func BuildReconciliation(registers []finance.CashBankRegister, txns []finance.Transaction, rng finance.DateRange, dangling []finance.Transaction) ReconciliationReport {
	report := ReconciliationReport{
		Range:  rng,
		Totals: zeroReconciliationRow(),
	}

	byRegister := make(map[string][]finance.Transaction)
	for _, t := range txns {
		byRegister[t.CashBankAccountID] = append(byRegister[t.CashBankAccountID], t)
	}

	for _, reg := range registers {
		row := zeroReconciliationRow()
		row.RegisterID = reg.ID
		row.RegisterCode = reg.Code
		row.RegisterName = reg.Name
		row.RegisterType = reg.Type
		row.OpeningBalance = reg.OpeningBalance
		row.StoredBalance = reg.Balance

		preRange := decimal.Zero
		allTime := decimal.Zero
		for _, t := range byRegister[reg.ID] {
			delta := t.Delta()
			allTime = allTime.Add(delta)
			switch {
			case t.TxnDate.Before(rng.Start):
				preRange = preRange.Add(delta)
			case rng.Contains(t.TxnDate):
				if t.Kind.Inflow() {
					row.PeriodInflow = row.PeriodInflow.Add(t.Amount)
				} else {
					row.PeriodOutflow = row.PeriodOutflow.Add(t.Amount)
				}
			}
		}

		row.OpeningAtStart = reg.OpeningBalance.Add(preRange)
		row.PeriodNet = row.PeriodInflow.Sub(row.PeriodOutflow)
		row.ClosingAtEndRange = row.OpeningAtStart.Add(row.PeriodNet)
		row.LedgerBalanceCurrent = reg.OpeningBalance.Add(allTime)
		row.VarianceCurrent = reg.Balance.Sub(row.LedgerBalanceCurrent)

		report.Rows = append(report.Rows, row)
		addReconciliationRow(&report.Totals, row)
	}

	for _, t := range dangling {
		report.Warnings = append(report.Warnings, TransferWarning{
			TransactionID: t.ID,
			TransferRef:   t.TransferRef,
			RegisterID:    t.CashBankAccountID,
			Kind:          t.Kind,
			Amount:        t.Amount,
		})
	}

	return report
}

func zeroReconciliationRow() ReconciliationRow {
	return ReconciliationRow{
		OpeningBalance:       decimal.Zero,
		OpeningAtStart:       decimal.Zero,
		PeriodInflow:         decimal.Zero,
		PeriodOutflow:        decimal.Zero,
		PeriodNet:            decimal.Zero,
		ClosingAtEndRange:    decimal.Zero,
		LedgerBalanceCurrent: decimal.Zero,
		StoredBalance:        decimal.Zero,
		VarianceCurrent:      decimal.Zero,
	}
}

func addReconciliationRow(total *ReconciliationRow, row ReconciliationRow) {
	total.OpeningBalance = total.OpeningBalance.Add(row.OpeningBalance)
	total.OpeningAtStart = total.OpeningAtStart.Add(row.OpeningAtStart)
	total.PeriodInflow = total.PeriodInflow.Add(row.PeriodInflow)
	total.PeriodOutflow = total.PeriodOutflow.Add(row.PeriodOutflow)
	total.PeriodNet = total.PeriodNet.Add(row.PeriodNet)
	total.ClosingAtEndRange = total.ClosingAtEndRange.Add(row.ClosingAtEndRange)
	total.LedgerBalanceCurrent = total.LedgerBalanceCurrent.Add(row.LedgerBalanceCurrent)
	total.StoredBalance = total.StoredBalance.Add(row.StoredBalance)
	total.VarianceCurrent = total.VarianceCurrent.Add(row.VarianceCurrent)
}

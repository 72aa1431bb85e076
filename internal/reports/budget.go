package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

type (
	// BudgetVsActualRow compares one budget against the approved actuals
	// of its (kind, account, register) scope. VariancePct is nil when the
	// budget amount is not positive: a zero budget has an undefined
	// ratio, not an on-target one.
	BudgetVsActualRow struct {
		BudgetID     string
		Kind         finance.BudgetKind
		AccountID    string
		AccountCode  string
		AccountName  string
		RegisterID   string // empty = all registers
		PeriodStart  time.Time
		PeriodEnd    time.Time
		BudgetAmount decimal.Decimal
		ActualAmount decimal.Decimal
		Variance     decimal.Decimal // budget - actual
		VariancePct  *decimal.Decimal
		Notes        string
	}

	BudgetVsActualTotals struct {
		Budget   decimal.Decimal
		Actual   decimal.Decimal
		Variance decimal.Decimal
	}

	BudgetVsActualReport struct {
		Range      finance.DateRange
		Kind       finance.BudgetKind // empty = both kinds
		RegisterID string             // empty = all registers
		Rows       []BudgetVsActualRow
		Totals     BudgetVsActualTotals
	}
)

// BuildBudgetVsActual matches budgets overlapping the range against
// approved income/expense actuals grouped by (kind, account, register).
// A budget without a register scope draws its actuals from every
// register. Transfer legs never count as actuals.
func BuildBudgetVsActual(budgets []finance.Budget, accounts []finance.Account, txns []finance.Transaction, rng finance.DateRange, kind finance.BudgetKind, registerID string) BudgetVsActualReport {
	report := BudgetVsActualReport{
		Range:      rng,
		Kind:       kind,
		RegisterID: registerID,
		Totals: BudgetVsActualTotals{
			Budget:   decimal.Zero,
			Actual:   decimal.Zero,
			Variance: decimal.Zero,
		},
	}

	accountsByID := make(map[string]finance.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}

	type actualKey struct {
		kind       finance.TxnKind
		accountID  string
		registerID string
	}
	actuals := make(map[actualKey]decimal.Decimal)
	for _, t := range txns {
		if t.Kind.Transfer() || !rng.Contains(t.TxnDate) {
			continue
		}
		perRegister := actualKey{t.Kind, t.AccountID, t.CashBankAccountID}
		allRegisters := actualKey{t.Kind, t.AccountID, ""}
		actuals[perRegister] = actuals[perRegister].Add(t.Amount)
		actuals[allRegisters] = actuals[allRegisters].Add(t.Amount)
	}

	for _, b := range budgets {
		row := BudgetVsActualRow{
			BudgetID:     b.ID,
			Kind:         b.Kind,
			AccountID:    b.AccountID,
			RegisterID:   b.CashBankAccountID,
			PeriodStart:  b.PeriodStart,
			PeriodEnd:    b.PeriodEnd,
			BudgetAmount: b.Amount,
			Notes:        b.Notes,
		}
		if a, ok := accountsByID[b.AccountID]; ok {
			row.AccountCode = a.Code
			row.AccountName = a.Name
		}

		row.ActualAmount = actuals[actualKey{budgetTxnKind(b.Kind), b.AccountID, b.CashBankAccountID}]
		row.Variance = row.BudgetAmount.Sub(row.ActualAmount)
		if row.BudgetAmount.IsPositive() {
			pct := row.Variance.Div(row.BudgetAmount).Mul(decimal.NewFromInt(100))
			row.VariancePct = &pct
		}

		report.Rows = append(report.Rows, row)
		report.Totals.Budget = report.Totals.Budget.Add(row.BudgetAmount)
		report.Totals.Actual = report.Totals.Actual.Add(row.ActualAmount)
		report.Totals.Variance = report.Totals.Variance.Add(row.Variance)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if !a.PeriodStart.Equal(b.PeriodStart) {
			return a.PeriodStart.Before(b.PeriodStart)
		}
		return a.AccountCode < b.AccountCode
	})

	return report
}

func budgetTxnKind(k finance.BudgetKind) finance.TxnKind {
	if k == finance.BudgetIncome {
		return finance.KindIncome
	}
	return finance.KindExpense
}

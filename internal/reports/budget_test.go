package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

func expenseBudget(id string, amount int64, accountID, registerID string) finance.Budget {
	return finance.Budget{
		ID:                id,
		PeriodStart:       day(1),
		PeriodEnd:         day(31),
		Kind:              finance.BudgetExpense,
		Amount:            d(amount),
		AccountID:         accountID,
		CashBankAccountID: registerID,
	}
}

func TestBuildBudgetVsActualOverspend(t *testing.T) {
	// Budget 500000 against actual spend of 620000: variance -120000,
	// which is -24 percent of budget.
	budgets := []finance.Budget{expenseBudget("b1", 500000, "acc-gaji", "")}
	txns := []finance.Transaction{
		approved("t1", day(5), finance.KindExpense, 400000, "acc-gaji", "kas"),
		approved("t2", day(20), finance.KindExpense, 220000, "acc-gaji", "bank"),
	}

	report := BuildBudgetVsActual(budgets, testAccounts(), txns, januaryRange(), finance.BudgetExpense, "")

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "620000", row.ActualAmount.String())
	assert.Equal(t, "-120000", row.Variance.String())
	require.NotNil(t, row.VariancePct)
	assert.Equal(t, "-24", row.VariancePct.String())

	assert.Equal(t, "500000", report.Totals.Budget.String())
	assert.Equal(t, "620000", report.Totals.Actual.String())
	assert.Equal(t, "-120000", report.Totals.Variance.String())
}

func TestBuildBudgetVsActualRegisterScope(t *testing.T) {
	// A register-scoped budget only counts actuals on its own register;
	// an unscoped one draws from every register.
	budgets := []finance.Budget{
		expenseBudget("scoped", 100000, "acc-gaji", "kas"),
		expenseBudget("global", 100000, "acc-gaji", ""),
	}
	txns := []finance.Transaction{
		approved("t1", day(5), finance.KindExpense, 30000, "acc-gaji", "kas"),
		approved("t2", day(6), finance.KindExpense, 50000, "acc-gaji", "bank"),
	}

	report := BuildBudgetVsActual(budgets, testAccounts(), txns, januaryRange(), finance.BudgetExpense, "")

	require.Len(t, report.Rows, 2)
	byID := map[string]BudgetVsActualRow{}
	for _, row := range report.Rows {
		byID[row.BudgetID] = row
	}
	assert.Equal(t, "30000", byID["scoped"].ActualAmount.String())
	assert.Equal(t, "80000", byID["global"].ActualAmount.String())
}

func TestBuildBudgetVsActualKindSeparation(t *testing.T) {
	// An income budget never picks up expense actuals for the same
	// account id, and transfer legs never count as actuals.
	budget := expenseBudget("b1", 50000, "acc-gaji", "")
	budget.Kind = finance.BudgetIncome
	txns := []finance.Transaction{
		approved("t1", day(5), finance.KindExpense, 40000, "acc-gaji", "kas"),
	}
	txns = append(txns, transferPair("tr-1", day(6), 9000, "kas", "bank")...)

	report := BuildBudgetVsActual([]finance.Budget{budget}, testAccounts(), txns, januaryRange(), "", "")

	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].ActualAmount.IsZero())
	assert.Equal(t, "50000", report.Rows[0].Variance.String())
}

func TestBuildBudgetVsActualZeroBudgetPct(t *testing.T) {
	budget := expenseBudget("b1", 0, "acc-gaji", "")

	report := BuildBudgetVsActual([]finance.Budget{budget}, testAccounts(), nil, januaryRange(), finance.BudgetExpense, "")

	require.Len(t, report.Rows, 1)
	assert.Nil(t, report.Rows[0].VariancePct, "ratio against a zero budget is undefined")
}

func TestBuildBudgetVsActualRowOrdering(t *testing.T) {
	early := expenseBudget("early", 1000, "acc-gaji", "")
	late := expenseBudget("late", 1000, "acc-gaji", "")
	late.PeriodStart = day(15)
	sameStart := expenseBudget("same-start", 1000, "acc-lab", "")

	report := BuildBudgetVsActual(
		[]finance.Budget{late, sameStart, early},
		testAccounts(), nil, januaryRange(), finance.BudgetExpense, "")

	require.Len(t, report.Rows, 3)
	assert.Equal(t, "early", report.Rows[0].BudgetID, "period start first, account code breaks ties")
	assert.Equal(t, "same-start", report.Rows[1].BudgetID)
	assert.Equal(t, "late", report.Rows[2].BudgetID)
}

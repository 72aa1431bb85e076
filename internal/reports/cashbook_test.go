package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

func TestBuildCashBookPettyCashMonth(t *testing.T) {
	// Kas Kecil opens at 100000; one income of 50000 and one expense of
	// 20000 during the month must close at 130000.
	reg := register("kas-kecil", 100000, 130000)
	txns := []finance.Transaction{
		approved("t1", day(5), finance.KindIncome, 50000, "acc-income", reg.ID),
		approved("t2", day(12), finance.KindExpense, 20000, "acc-expense", reg.ID),
	}

	report := BuildCashBook([]finance.CashBankRegister{reg}, txns, januaryRange(), GroupDaily, reg.ID)

	assert.Equal(t, "100000", report.OpeningBalance.String())
	assert.Equal(t, "50000", report.TotalInflow.String())
	assert.Equal(t, "20000", report.TotalOutflow.String())
	assert.Equal(t, "130000", report.ClosingBalance.String())

	require.Len(t, report.Entries, 2)
	assert.Equal(t, "150000", report.Entries[0].RunningBalance.String())
	assert.Equal(t, "130000", report.Entries[1].RunningBalance.String())
}

func TestBuildCashBookOpeningIncludesPreRangeHistory(t *testing.T) {
	reg := register("kas", 100000, 0)
	txns := []finance.Transaction{
		approved("old", day(2).AddDate(0, -1, 0), finance.KindIncome, 25000, "acc-income", reg.ID),
		approved("cur", day(3), finance.KindExpense, 5000, "acc-expense", reg.ID),
	}

	report := BuildCashBook([]finance.CashBankRegister{reg}, txns, januaryRange(), GroupDaily, reg.ID)

	assert.Equal(t, "125000", report.OpeningBalance.String())
	assert.Equal(t, "120000", report.ClosingBalance.String())
	require.Len(t, report.Entries, 1, "pre-range rows contribute to opening, not entries")
}

func TestBuildCashBookGrouping(t *testing.T) {
	reg := register("kas", 0, 0)
	txns := []finance.Transaction{
		approved("t1", day(5), finance.KindIncome, 1000, "a", reg.ID),
		approved("t2", day(5), finance.KindExpense, 300, "b", reg.ID),
		approved("t3", day(9), finance.KindIncome, 500, "a", reg.ID),
	}

	t.Run("daily", func(t *testing.T) {
		report := BuildCashBook([]finance.CashBankRegister{reg}, txns, januaryRange(), GroupDaily, reg.ID)
		require.Len(t, report.Grouped, 2)

		first := report.Grouped[0]
		assert.Equal(t, "2024-01-05", first.Key)
		assert.Equal(t, 2, first.TransactionCount)
		assert.Equal(t, "700", first.Net.String())
		assert.Equal(t, "700", first.ClosingBalance.String())

		last := report.Grouped[1]
		assert.Equal(t, "2024-01-09", last.Key)
		assert.Equal(t, report.ClosingBalance.String(), last.ClosingBalance.String(),
			"last bucket must close at the report closing balance")
	})

	t.Run("monthly", func(t *testing.T) {
		report := BuildCashBook([]finance.CashBankRegister{reg}, txns, januaryRange(), GroupMonthly, reg.ID)
		require.Len(t, report.Grouped, 1)
		assert.Equal(t, "2024-01", report.Grouped[0].Key)
		assert.Equal(t, 3, report.Grouped[0].TransactionCount)
		assert.Equal(t, report.ClosingBalance.String(), report.Grouped[0].ClosingBalance.String())
	})
}

func TestBuildCashBookEmptyScope(t *testing.T) {
	report := BuildCashBook(nil, nil, januaryRange(), GroupDaily, "")

	assert.True(t, report.OpeningBalance.IsZero())
	assert.True(t, report.ClosingBalance.IsZero())
	assert.True(t, report.TotalInflow.IsZero())
	assert.True(t, report.TotalOutflow.IsZero())
	assert.Empty(t, report.Entries)
	assert.Empty(t, report.Grouped)
}

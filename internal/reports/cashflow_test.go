package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

func testAccounts() []finance.Account {
	return []finance.Account{
		{ID: "acc-spp", Code: "4-100", Name: "SPP Bulanan", Type: finance.AccountIncome, Category: "Pendapatan Rutin"},
		{ID: "acc-gaji", Code: "5-100", Name: "Gaji Guru", Type: finance.AccountExpense, Category: "Operasional"},
		{ID: "acc-lab", Code: "5-200", Name: "Peralatan Lab", Type: finance.AccountExpense, Category: "Investasi Sarana"},
		{ID: "acc-pinjaman", Code: "2-100", Name: "Pinjaman Yayasan", Type: finance.AccountLiability, Category: "Pendanaan"},
	}
}

func TestBuildCashFlowSections(t *testing.T) {
	txns := []finance.Transaction{
		approved("t1", day(3), finance.KindIncome, 800000, "acc-spp", "kas"),
		approved("t2", day(10), finance.KindExpense, 500000, "acc-gaji", "kas"),
		approved("t3", day(14), finance.KindExpense, 200000, "acc-lab", "bank"),
		approved("t4", day(20), finance.KindIncome, 300000, "acc-pinjaman", "bank"),
	}

	report := BuildCashFlow(testAccounts(), txns, januaryRange(), nil)

	assert.Equal(t, "300000", report.Operating.Net.String(), "SPP minus salaries")
	assert.Equal(t, "-200000", report.Investing.Net.String(), "lab equipment")
	assert.Equal(t, "300000", report.Financing.Net.String(), "foundation loan")

	assert.Equal(t, "1100000", report.Totals.Inflow.String())
	assert.Equal(t, "700000", report.Totals.Outflow.String())
	assert.Equal(t, "400000", report.Totals.Net.String())
}

func TestBuildCashFlowExcludesInternalTransfers(t *testing.T) {
	// Moving 10000 from register A to register B is not income or
	// expense: both legs stay out of the three sections.
	txns := []finance.Transaction{
		approved("t1", day(3), finance.KindIncome, 50000, "acc-spp", "reg-a"),
	}
	txns = append(txns, transferPair("tr-1", day(8), 10000, "reg-a", "reg-b")...)

	report := BuildCashFlow(testAccounts(), txns, januaryRange(), nil)

	assert.Equal(t, "10000", report.InternalTransfers.Inflow.String())
	assert.Equal(t, "10000", report.InternalTransfers.Outflow.String())
	assert.True(t, report.InternalTransfers.Net.IsZero(),
		"a paired transfer is conserved: net internal movement is zero")

	assert.Equal(t, "50000", report.Totals.Inflow.String(), "transfer legs excluded from totals")
	assert.True(t, report.Totals.Outflow.IsZero())
	for _, s := range []SectionSummary{report.Operating, report.Investing, report.Financing} {
		for _, item := range s.Items {
			assert.NotEqual(t, "acc-transfer", item.AccountID)
		}
	}
}

func TestBuildCashFlowItemOrdering(t *testing.T) {
	txns := []finance.Transaction{
		approved("t1", day(3), finance.KindExpense, 100, "acc-gaji", "kas"),
		approved("t2", day(4), finance.KindIncome, 900, "acc-spp", "kas"),
	}

	report := BuildCashFlow(testAccounts(), txns, januaryRange(), nil)

	require.Len(t, report.Operating.Items, 2)
	assert.Equal(t, "acc-spp", report.Operating.Items[0].AccountID, "largest |net| first")
	assert.Equal(t, "acc-gaji", report.Operating.Items[1].AccountID)
}

func TestBuildCashFlowCustomClassifier(t *testing.T) {
	everythingFinancing := ClassifierFunc(func(finance.Account) Section {
		return SectionFinancing
	})
	txns := []finance.Transaction{
		approved("t1", day(3), finance.KindIncome, 1000, "acc-spp", "kas"),
	}

	report := BuildCashFlow(testAccounts(), txns, januaryRange(), everythingFinancing)

	assert.Empty(t, report.Operating.Items)
	assert.Equal(t, "1000", report.Financing.Net.String())
}

func TestDefaultClassifier(t *testing.T) {
	classifier := DefaultClassifier()
	cases := []struct {
		name    string
		account finance.Account
		want    Section
	}{
		{"plain expense", finance.Account{Type: finance.AccountExpense, Category: "Operasional"}, SectionOperating},
		{"investment category", finance.Account{Type: finance.AccountExpense, Category: "Investasi Sarana"}, SectionInvesting},
		{"english investing", finance.Account{Type: finance.AccountExpense, Category: "Lab Investment"}, SectionInvesting},
		{"pendanaan category", finance.Account{Type: finance.AccountIncome, Category: "Pendanaan"}, SectionFinancing},
		{"liability account", finance.Account{Type: finance.AccountLiability, Category: ""}, SectionFinancing},
		{"equity account", finance.Account{Type: finance.AccountEquity, Category: ""}, SectionFinancing},
		{"unknown account", finance.Account{}, SectionOperating},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifier.Classify(tc.account))
		})
	}
}

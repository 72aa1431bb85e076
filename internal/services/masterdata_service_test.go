package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

type fakeMasterDataStore struct {
	accounts  map[string]finance.Account
	registers map[string]finance.CashBankRegister
	budgets   map[string]finance.Budget
}

func newFakeMasterDataStore() *fakeMasterDataStore {
	return &fakeMasterDataStore{
		accounts:  map[string]finance.Account{},
		registers: map[string]finance.CashBankRegister{},
		budgets:   map[string]finance.Budget{},
	}
}

func (s *fakeMasterDataStore) CreateAccount(_ context.Context, a finance.Account) error {
	s.accounts[a.ID] = a
	return nil
}

func (s *fakeMasterDataStore) UpdateAccount(_ context.Context, a finance.Account) error {
	if _, ok := s.accounts[a.ID]; !ok {
		return finance.NotFoundErrorf("account %s", a.ID)
	}
	s.accounts[a.ID] = a
	return nil
}

func (s *fakeMasterDataStore) GetAccount(_ context.Context, id string) (finance.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return finance.Account{}, finance.NotFoundErrorf("account %s", id)
	}
	return a, nil
}

func (s *fakeMasterDataStore) ListAccounts(_ context.Context, _ storage.AccountFilter) ([]finance.Account, error) {
	var out []finance.Account
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeMasterDataStore) CreateRegister(_ context.Context, r finance.CashBankRegister) error {
	s.registers[r.ID] = r
	return nil
}

func (s *fakeMasterDataStore) UpdateRegister(_ context.Context, r finance.CashBankRegister) error {
	if _, ok := s.registers[r.ID]; !ok {
		return finance.NotFoundErrorf("register %s", r.ID)
	}
	s.registers[r.ID] = r
	return nil
}

func (s *fakeMasterDataStore) GetRegister(_ context.Context, id string) (finance.CashBankRegister, error) {
	r, ok := s.registers[id]
	if !ok {
		return finance.CashBankRegister{}, finance.NotFoundErrorf("register %s", id)
	}
	return r, nil
}

func (s *fakeMasterDataStore) ListRegisters(_ context.Context, _ storage.RegisterFilter) ([]finance.CashBankRegister, error) {
	var out []finance.CashBankRegister
	for _, r := range s.registers {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeMasterDataStore) CreateBudget(_ context.Context, b finance.Budget) error {
	s.budgets[b.ID] = b
	return nil
}

func (s *fakeMasterDataStore) UpdateBudget(_ context.Context, b finance.Budget) error {
	if _, ok := s.budgets[b.ID]; !ok {
		return finance.NotFoundErrorf("budget %s", b.ID)
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *fakeMasterDataStore) GetBudget(_ context.Context, id string) (finance.Budget, error) {
	b, ok := s.budgets[id]
	if !ok {
		return finance.Budget{}, finance.NotFoundErrorf("budget %s", id)
	}
	return b, nil
}

func (s *fakeMasterDataStore) ListBudgets(_ context.Context, _ storage.BudgetFilter) ([]finance.Budget, error) {
	var out []finance.Budget
	for _, b := range s.budgets {
		out = append(out, b)
	}
	return out, nil
}

func TestMasterDataCreateAccount(t *testing.T) {
	store := newFakeMasterDataStore()
	svc := NewMasterDataService(store)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, finance.Account{
		Code: "4-100",
		Name: "SPP Bulanan",
		Type: finance.AccountIncome,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive, "new accounts start active")

	_, err = svc.CreateAccount(ctx, finance.Account{Code: "", Name: "x", Type: finance.AccountIncome})
	require.ErrorIs(t, err, finance.ErrValidation)

	_, err = svc.CreateAccount(ctx, finance.Account{Code: "9-999", Name: "x", Type: "REVENUE"})
	require.ErrorIs(t, err, finance.ErrValidation)
}

func TestMasterDataCreateRegister(t *testing.T) {
	store := newFakeMasterDataStore()
	svc := NewMasterDataService(store)
	ctx := context.Background()

	opening := decimal.NewFromInt(100000)
	created, err := svc.CreateRegister(ctx, finance.CashBankRegister{
		Code: "KAS-01",
		Name: "Kas Kecil",
		Type: finance.RegisterCash,
	}, opening)
	require.NoError(t, err)
	assert.Equal(t, "100000", created.OpeningBalance.String())
	assert.Equal(t, "100000", created.Balance.String(), "balance starts at the opening balance")
	assert.True(t, created.IsActive)

	_, err = svc.CreateRegister(ctx, finance.CashBankRegister{
		Code: "X-01", Name: "x", Type: "WALLET",
	}, opening)
	require.ErrorIs(t, err, finance.ErrValidation)
}

func TestMasterDataCreateBudget(t *testing.T) {
	store := newFakeMasterDataStore()
	svc := NewMasterDataService(store)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, finance.Account{
		Code: "5-100", Name: "Gaji Guru", Type: finance.AccountExpense,
	})
	require.NoError(t, err)
	register, err := svc.CreateRegister(ctx, finance.CashBankRegister{
		Code: "KAS-01", Name: "Kas", Type: finance.RegisterCash,
	}, decimal.Zero)
	require.NoError(t, err)

	budget := finance.Budget{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Kind:        finance.BudgetExpense,
		Amount:      decimal.NewFromInt(500000),
		AccountID:   account.ID,
	}

	t.Run("unscoped", func(t *testing.T) {
		created, err := svc.CreateBudget(ctx, budget)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("register scoped", func(t *testing.T) {
		scoped := budget
		scoped.CashBankAccountID = register.ID
		_, err := svc.CreateBudget(ctx, scoped)
		require.NoError(t, err)
	})

	t.Run("unknown account", func(t *testing.T) {
		bad := budget
		bad.AccountID = "acc-missing"
		_, err := svc.CreateBudget(ctx, bad)
		require.ErrorIs(t, err, finance.ErrNotFound)
	})

	t.Run("unknown register", func(t *testing.T) {
		bad := budget
		bad.CashBankAccountID = "reg-missing"
		_, err := svc.CreateBudget(ctx, bad)
		require.ErrorIs(t, err, finance.ErrNotFound)
	})

	t.Run("period end before start", func(t *testing.T) {
		bad := budget
		bad.PeriodStart, bad.PeriodEnd = bad.PeriodEnd, bad.PeriodStart
		_, err := svc.CreateBudget(ctx, bad)
		require.ErrorIs(t, err, finance.ErrValidation)
	})
}

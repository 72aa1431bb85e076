package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

// MasterDataService manages the chart of accounts, cash/bank registers and
// budgets. Deactivation is non-retroactive: existing transactions keep
// their references and reports never filter on the active flag.
type MasterDataService struct {
	store MasterDataStore
}

func NewMasterDataService(store MasterDataStore) *MasterDataService {
	return &MasterDataService{store: store}
}

func (s *MasterDataService) CreateAccount(ctx context.Context, a finance.Account) (finance.Account, error) {
	a.ID = uuid.NewString()
	a.IsActive = true
	if err := a.Validate(); err != nil {
		return finance.Account{}, err
	}
	if err := s.store.CreateAccount(ctx, a); err != nil {
		return finance.Account{}, err
	}
	return a, nil
}

func (s *MasterDataService) UpdateAccount(ctx context.Context, a finance.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.store.UpdateAccount(ctx, a)
}

func (s *MasterDataService) GetAccount(ctx context.Context, id string) (finance.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *MasterDataService) ListAccounts(ctx context.Context, f storage.AccountFilter) ([]finance.Account, error) {
	return s.store.ListAccounts(ctx, f)
}

// CreateRegister fixes the opening balance at creation and initializes the
// materialized balance to it. From here on only the approve transition
// writes the balance.
func (s *MasterDataService) CreateRegister(ctx context.Context, r finance.CashBankRegister, opening decimal.Decimal) (finance.CashBankRegister, error) {
	r.ID = uuid.NewString()
	r.OpeningBalance = opening
	r.Balance = opening
	r.IsActive = true
	if err := r.Validate(); err != nil {
		return finance.CashBankRegister{}, err
	}
	if err := s.store.CreateRegister(ctx, r); err != nil {
		return finance.CashBankRegister{}, err
	}
	return r, nil
}

func (s *MasterDataService) UpdateRegister(ctx context.Context, r finance.CashBankRegister) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.store.UpdateRegister(ctx, r)
}

func (s *MasterDataService) GetRegister(ctx context.Context, id string) (finance.CashBankRegister, error) {
	return s.store.GetRegister(ctx, id)
}

func (s *MasterDataService) ListRegisters(ctx context.Context, f storage.RegisterFilter) ([]finance.CashBankRegister, error) {
	return s.store.ListRegisters(ctx, f)
}

func (s *MasterDataService) CreateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error) {
	b.ID = uuid.NewString()
	if err := b.Validate(); err != nil {
		return finance.Budget{}, err
	}
	if _, err := s.store.GetAccount(ctx, b.AccountID); err != nil {
		return finance.Budget{}, err
	}
	if b.CashBankAccountID != "" {
		if _, err := s.store.GetRegister(ctx, b.CashBankAccountID); err != nil {
			return finance.Budget{}, err
		}
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return finance.Budget{}, err
	}
	return b, nil
}

func (s *MasterDataService) UpdateBudget(ctx context.Context, b finance.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.store.UpdateBudget(ctx, b)
}

func (s *MasterDataService) GetBudget(ctx context.Context, id string) (finance.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

func (s *MasterDataService) ListBudgets(ctx context.Context, f storage.BudgetFilter) ([]finance.Budget, error) {
	return s.store.ListBudgets(ctx, f)
}

package services

import (
	"context"

	"github.com/robertrullyp/DRSIS-sub000/internal/audit"
	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

// Ports for the storage and audit adapters. *storage.SQLiteRepository
// satisfies the store interfaces; audit.Client satisfies AuditPublisher.

type (
	// LedgerStore persists ledger entries and runs the approval
	// transitions. Every method is one atomic unit; Approve couples the
	// status change with the balance delta.
	LedgerStore interface {
		InsertTransaction(ctx context.Context, t finance.Transaction) error
		InsertTransferPair(ctx context.Context, out, in finance.Transaction) error
		GetTransaction(ctx context.Context, id string) (finance.Transaction, error)
		ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]finance.Transaction, error)
		MarkChecked(ctx context.Context, id, actorID string) error
		ApproveTransaction(ctx context.Context, id, actorID string) (finance.Transaction, error)
		RejectTransaction(ctx context.Context, id, actorID, reason string) error
		CancelTransaction(ctx context.Context, id, actorID string) error
		GetAccount(ctx context.Context, id string) (finance.Account, error)
		GetRegister(ctx context.Context, id string) (finance.CashBankRegister, error)
	}

	// MasterDataStore persists the chart of accounts, registers and
	// budgets.
	MasterDataStore interface {
		CreateAccount(ctx context.Context, a finance.Account) error
		UpdateAccount(ctx context.Context, a finance.Account) error
		GetAccount(ctx context.Context, id string) (finance.Account, error)
		ListAccounts(ctx context.Context, f storage.AccountFilter) ([]finance.Account, error)
		CreateRegister(ctx context.Context, r finance.CashBankRegister) error
		UpdateRegister(ctx context.Context, r finance.CashBankRegister) error
		GetRegister(ctx context.Context, id string) (finance.CashBankRegister, error)
		ListRegisters(ctx context.Context, f storage.RegisterFilter) ([]finance.CashBankRegister, error)
		CreateBudget(ctx context.Context, b finance.Budget) error
		UpdateBudget(ctx context.Context, b finance.Budget) error
		GetBudget(ctx context.Context, id string) (finance.Budget, error)
		ListBudgets(ctx context.Context, f storage.BudgetFilter) ([]finance.Budget, error)
	}

	// ReportStore loads consistent snapshots for the report builders.
	ReportStore interface {
		LoadLedgerSnapshot(ctx context.Context, scope storage.SnapshotScope) (storage.LedgerSnapshot, error)
		DanglingTransferLegs(ctx context.Context) ([]finance.Transaction, error)
	}

	// AuditPublisher receives one event per ledger state transition for
	// external compliance logging. Publishing is best-effort; the ledger
	// never rolls back a committed transition because the sink is down.
	AuditPublisher interface {
		PublishTransition(ctx context.Context, ev audit.TransitionEvent) error
	}
)

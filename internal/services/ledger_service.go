// Package services orchestrates the finance core: the ledger approval
// workflow, master-data management and report building over the storage
// and audit adapters.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/audit"
	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

// LedgerService runs the maker-checker workflow over ledger entries. It is
// the only path that mutates register balances, and it does so exclusively
// through the store's atomic approve transition.
type LedgerService struct {
	store LedgerStore
	audit AuditPublisher
	now   func() time.Time
}

func NewLedgerService(store LedgerStore, auditPublisher AuditPublisher) *LedgerService {
	return &LedgerService{
		store: store,
		audit: auditPublisher,
		now:   time.Now,
	}
}

// TransactionDraft is caller input for one income or expense entry.
type TransactionDraft struct {
	TxnDate           time.Time
	Kind              finance.TxnKind
	Amount            decimal.Decimal
	AccountID         string
	CashBankAccountID string
	Description       string
	ReferenceNo       string
	ProofURL          string
}

// TransferDraft is caller input for one logical transfer: a TRANSFER_OUT
// leg on the source register and a TRANSFER_IN leg on the destination,
// sharing amount, date and reference.
type TransferDraft struct {
	TxnDate        time.Time
	Amount         decimal.Decimal
	FromRegisterID string
	ToRegisterID   string
	OutAccountID   string
	InAccountID    string
	Description    string
	ReferenceNo    string
}

// Create validates the draft against the chart of accounts and register
// state and records a new PENDING entry.
func (s *LedgerService) Create(ctx context.Context, draft TransactionDraft) (finance.Transaction, error) {
	if draft.Kind.Transfer() {
		return finance.Transaction{}, finance.ValidationErrorf("transfer legs are created through CreateTransfer")
	}

	t := finance.Transaction{
		ID:                uuid.NewString(),
		TxnDate:           draft.TxnDate,
		Kind:              draft.Kind,
		Amount:            draft.Amount,
		AccountID:         draft.AccountID,
		CashBankAccountID: draft.CashBankAccountID,
		Description:       draft.Description,
		ReferenceNo:       draft.ReferenceNo,
		ProofURL:          draft.ProofURL,
		ApprovalStatus:    finance.StatusPending,
		CreatedAt:         s.now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return finance.Transaction{}, err
	}

	account, err := s.store.GetAccount(ctx, t.AccountID)
	if err != nil {
		return finance.Transaction{}, err
	}
	if !account.IsActive {
		return finance.Transaction{}, finance.ValidationErrorf("account %s is inactive", account.Code)
	}
	if err := t.CompatibleAccount(account); err != nil {
		return finance.Transaction{}, err
	}
	if err := s.requireActiveRegister(ctx, t.CashBankAccountID); err != nil {
		return finance.Transaction{}, err
	}

	if err := s.store.InsertTransaction(ctx, t); err != nil {
		return finance.Transaction{}, err
	}

	s.publish(ctx, audit.TransitionEvent{
		ActorID:      "",
		Entity:       "Transaction",
		EntityID:     t.ID,
		BeforeStatus: "",
		AfterStatus:  string(finance.StatusPending),
		Delta:        "0",
		OccurredAt:   s.now().UTC(),
	})
	return t, nil
}

// CreateTransfer atomically records both PENDING legs of a transfer. Each
// leg then runs through check/approve/reject on its own; an approved leg
// whose pair is stuck surfaces as a dangling-leg warning in
// reconciliation.
func (s *LedgerService) CreateTransfer(ctx context.Context, draft TransferDraft) (out, in finance.Transaction, err error) {
	if !draft.Amount.IsPositive() {
		return out, in, finance.ValidationErrorf("transfer amount must be positive, got %s", draft.Amount)
	}
	if draft.TxnDate.IsZero() {
		return out, in, finance.ValidationErrorf("transfer date is required")
	}
	if draft.FromRegisterID == draft.ToRegisterID {
		return out, in, finance.ValidationErrorf("transfer source and destination registers must differ")
	}
	if err := s.requireActiveRegister(ctx, draft.FromRegisterID); err != nil {
		return out, in, err
	}
	if err := s.requireActiveRegister(ctx, draft.ToRegisterID); err != nil {
		return out, in, err
	}
	if err := s.requireActiveAccount(ctx, draft.OutAccountID); err != nil {
		return out, in, err
	}
	if err := s.requireActiveAccount(ctx, draft.InAccountID); err != nil {
		return out, in, err
	}

	transferRef := uuid.NewString()
	createdAt := s.now().UTC()
	out = finance.Transaction{
		ID:                uuid.NewString(),
		TxnDate:           draft.TxnDate,
		Kind:              finance.KindTransferOut,
		Amount:            draft.Amount,
		AccountID:         draft.OutAccountID,
		CashBankAccountID: draft.FromRegisterID,
		Description:       draft.Description,
		ReferenceNo:       draft.ReferenceNo,
		TransferRef:       transferRef,
		ApprovalStatus:    finance.StatusPending,
		CreatedAt:         createdAt,
	}
	in = finance.Transaction{
		ID:                uuid.NewString(),
		TxnDate:           draft.TxnDate,
		Kind:              finance.KindTransferIn,
		Amount:            draft.Amount,
		AccountID:         draft.InAccountID,
		CashBankAccountID: draft.ToRegisterID,
		Description:       draft.Description,
		ReferenceNo:       draft.ReferenceNo,
		TransferRef:       transferRef,
		ApprovalStatus:    finance.StatusPending,
		CreatedAt:         createdAt,
	}

	if err := s.store.InsertTransferPair(ctx, out, in); err != nil {
		return finance.Transaction{}, finance.Transaction{}, err
	}

	for _, leg := range []finance.Transaction{out, in} {
		s.publish(ctx, audit.TransitionEvent{
			Entity:       "Transaction",
			EntityID:     leg.ID,
			BeforeStatus: "",
			AfterStatus:  string(finance.StatusPending),
			Delta:        "0",
			OccurredAt:   createdAt,
		})
	}
	return out, in, nil
}

// Check marks a PENDING, unchecked entry as checked by actorID. The
// maker-checker rule: checking changes no status and no balance, it only
// unlocks approval.
func (s *LedgerService) Check(ctx context.Context, id, actorID string) error {
	if err := s.store.MarkChecked(ctx, id, actorID); err != nil {
		return err
	}
	s.publish(ctx, audit.TransitionEvent{
		ActorID:      actorID,
		Entity:       "Transaction",
		EntityID:     id,
		BeforeStatus: string(finance.StatusPending),
		AfterStatus:  string(finance.StatusPending),
		Delta:        "0",
		Reason:       "checked",
		OccurredAt:   s.now().UTC(),
	})
	return nil
}

// Approve flips a checked PENDING entry to APPROVED and applies its delta
// to the register balance in one atomic unit.
func (s *LedgerService) Approve(ctx context.Context, id, actorID string) (finance.Transaction, error) {
	t, err := s.store.ApproveTransaction(ctx, id, actorID)
	if err != nil {
		return finance.Transaction{}, err
	}
	s.publish(ctx, audit.TransitionEvent{
		ActorID:      actorID,
		Entity:       "Transaction",
		EntityID:     id,
		BeforeStatus: string(finance.StatusPending),
		AfterStatus:  string(finance.StatusApproved),
		Delta:        t.Delta().String(),
		OccurredAt:   s.now().UTC(),
	})
	return t, nil
}

// Reject terminally rejects a PENDING entry with a reason. Balances stay
// untouched.
func (s *LedgerService) Reject(ctx context.Context, id, actorID, reason string) error {
	if err := s.store.RejectTransaction(ctx, id, actorID, reason); err != nil {
		return err
	}
	s.publish(ctx, audit.TransitionEvent{
		ActorID:      actorID,
		Entity:       "Transaction",
		EntityID:     id,
		BeforeStatus: string(finance.StatusPending),
		AfterStatus:  string(finance.StatusRejected),
		Delta:        "0",
		Reason:       reason,
		OccurredAt:   s.now().UTC(),
	})
	return nil
}

// Cancel terminally cancels a PENDING entry.
func (s *LedgerService) Cancel(ctx context.Context, id, actorID string) error {
	if err := s.store.CancelTransaction(ctx, id, actorID); err != nil {
		return err
	}
	s.publish(ctx, audit.TransitionEvent{
		ActorID:      actorID,
		Entity:       "Transaction",
		EntityID:     id,
		BeforeStatus: string(finance.StatusPending),
		AfterStatus:  string(finance.StatusCancelled),
		Delta:        "0",
		OccurredAt:   s.now().UTC(),
	})
	return nil
}

func (s *LedgerService) Get(ctx context.Context, id string) (finance.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) List(ctx context.Context, f storage.TransactionFilter) ([]finance.Transaction, error) {
	return s.store.ListTransactions(ctx, f)
}

func (s *LedgerService) requireActiveRegister(ctx context.Context, id string) error {
	reg, err := s.store.GetRegister(ctx, id)
	if err != nil {
		return err
	}
	if !reg.IsActive {
		return finance.ValidationErrorf("register %s is inactive", reg.Code)
	}
	return nil
}

func (s *LedgerService) requireActiveAccount(ctx context.Context, id string) error {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return finance.ValidationErrorf("account %s is inactive", account.Code)
	}
	return nil
}

// publish sends the audit event best-effort. The transition is already
// committed; a down audit sink must not roll it back.
func (s *LedgerService) publish(ctx context.Context, ev audit.TransitionEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.PublishTransition(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish audit event",
			"entity_id", ev.EntityID, "after", ev.AfterStatus, "error", err)
	}
}

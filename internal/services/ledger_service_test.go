package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertrullyp/DRSIS-sub000/internal/audit"
	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

// fakeLedgerStore keeps the ledger in memory with the same transition
// semantics as the SQLite repository.
type fakeLedgerStore struct {
	accounts  map[string]finance.Account
	registers map[string]finance.CashBankRegister
	txns      map[string]finance.Transaction
	order     []string
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		accounts:  map[string]finance.Account{},
		registers: map[string]finance.CashBankRegister{},
		txns:      map[string]finance.Transaction{},
	}
}

func (s *fakeLedgerStore) InsertTransaction(_ context.Context, t finance.Transaction) error {
	s.txns[t.ID] = t
	s.order = append(s.order, t.ID)
	return nil
}

func (s *fakeLedgerStore) InsertTransferPair(ctx context.Context, out, in finance.Transaction) error {
	if err := s.InsertTransaction(ctx, out); err != nil {
		return err
	}
	return s.InsertTransaction(ctx, in)
}

func (s *fakeLedgerStore) GetTransaction(_ context.Context, id string) (finance.Transaction, error) {
	t, ok := s.txns[id]
	if !ok {
		return finance.Transaction{}, finance.NotFoundErrorf("transaction %s not found", id)
	}
	return t, nil
}

func (s *fakeLedgerStore) ListTransactions(_ context.Context, _ storage.TransactionFilter) ([]finance.Transaction, error) {
	out := make([]finance.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.txns[id])
	}
	return out, nil
}

func (s *fakeLedgerStore) MarkChecked(ctx context.Context, id, actorID string) error {
	t, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if t.ApprovalStatus != finance.StatusPending {
		return finance.StateConflictErrorf("cannot check transaction %s in status %s", id, t.ApprovalStatus)
	}
	if t.CheckedBy != "" {
		return finance.StateConflictErrorf("transaction %s already checked by %s", id, t.CheckedBy)
	}
	t.CheckedBy = actorID
	s.txns[id] = t
	return nil
}

func (s *fakeLedgerStore) ApproveTransaction(ctx context.Context, id, actorID string) (finance.Transaction, error) {
	t, err := s.GetTransaction(ctx, id)
	if err != nil {
		return finance.Transaction{}, err
	}
	if t.ApprovalStatus != finance.StatusPending {
		return finance.Transaction{}, finance.StateConflictErrorf("cannot approve transaction %s in status %s", id, t.ApprovalStatus)
	}
	if t.CheckedBy == "" {
		return finance.Transaction{}, finance.StateConflictErrorf("cannot approve transaction %s before it is checked", id)
	}
	t.ApprovalStatus = finance.StatusApproved
	t.ApprovedBy = actorID
	s.txns[id] = t

	reg := s.registers[t.CashBankAccountID]
	reg.Balance = reg.Balance.Add(t.Delta())
	s.registers[t.CashBankAccountID] = reg
	return t, nil
}

func (s *fakeLedgerStore) RejectTransaction(ctx context.Context, id, actorID, reason string) error {
	t, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if t.ApprovalStatus != finance.StatusPending {
		return finance.StateConflictErrorf("cannot reject transaction %s in status %s", id, t.ApprovalStatus)
	}
	t.ApprovalStatus = finance.StatusRejected
	t.ApprovedBy = actorID
	t.RejectedReason = reason
	s.txns[id] = t
	return nil
}

func (s *fakeLedgerStore) CancelTransaction(ctx context.Context, id, actorID string) error {
	t, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if t.ApprovalStatus != finance.StatusPending {
		return finance.StateConflictErrorf("cannot cancel transaction %s in status %s", id, t.ApprovalStatus)
	}
	t.ApprovalStatus = finance.StatusCancelled
	t.ApprovedBy = actorID
	s.txns[id] = t
	return nil
}

func (s *fakeLedgerStore) GetAccount(_ context.Context, id string) (finance.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return finance.Account{}, finance.NotFoundErrorf("account %s not found", id)
	}
	return a, nil
}

func (s *fakeLedgerStore) GetRegister(_ context.Context, id string) (finance.CashBankRegister, error) {
	r, ok := s.registers[id]
	if !ok {
		return finance.CashBankRegister{}, finance.NotFoundErrorf("register %s not found", id)
	}
	return r, nil
}

// recordingPublisher captures transition events in order.
type recordingPublisher struct {
	events []audit.TransitionEvent
	err    error
}

func (p *recordingPublisher) PublishTransition(_ context.Context, ev audit.TransitionEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func ledgerFixture(t *testing.T) (*LedgerService, *fakeLedgerStore, *recordingPublisher) {
	t.Helper()
	store := newFakeLedgerStore()
	store.accounts["acc-income"] = finance.Account{ID: "acc-income", Code: "4-100", Type: finance.AccountIncome, IsActive: true}
	store.accounts["acc-expense"] = finance.Account{ID: "acc-expense", Code: "5-100", Type: finance.AccountExpense, IsActive: true}
	store.accounts["acc-mutasi"] = finance.Account{ID: "acc-mutasi", Code: "1-900", Type: finance.AccountAsset, IsActive: true}
	store.accounts["acc-closed"] = finance.Account{ID: "acc-closed", Code: "5-999", Type: finance.AccountExpense, IsActive: false}
	store.registers["kas"] = finance.CashBankRegister{
		ID: "kas", Code: "KAS-01", Type: finance.RegisterCash,
		OpeningBalance: decimal.NewFromInt(100000), Balance: decimal.NewFromInt(100000), IsActive: true,
	}
	store.registers["bank"] = finance.CashBankRegister{
		ID: "bank", Code: "BANK-01", Type: finance.RegisterBank,
		OpeningBalance: decimal.Zero, Balance: decimal.Zero, IsActive: true,
	}
	publisher := &recordingPublisher{}
	return NewLedgerService(store, publisher), store, publisher
}

func incomeDraft(amount int64) TransactionDraft {
	return TransactionDraft{
		TxnDate:           time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Kind:              finance.KindIncome,
		Amount:            decimal.NewFromInt(amount),
		AccountID:         "acc-income",
		CashBankAccountID: "kas",
		Description:       "SPP Januari",
	}
}

func TestLedgerCreate(t *testing.T) {
	svc, store, publisher := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(50000))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, finance.StatusPending, created.ApprovalStatus)
	assert.Empty(t, created.CheckedBy)

	stored, err := store.GetTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, created.ID, publisher.events[0].EntityID)
	assert.Equal(t, string(finance.StatusPending), publisher.events[0].AfterStatus)
}

func TestLedgerCreateValidation(t *testing.T) {
	svc, _, _ := ledgerFixture(t)
	ctx := context.Background()

	t.Run("transfer kind rejected", func(t *testing.T) {
		draft := incomeDraft(1000)
		draft.Kind = finance.KindTransferOut
		_, err := svc.Create(ctx, draft)
		require.ErrorIs(t, err, finance.ErrValidation)
	})

	t.Run("unknown account", func(t *testing.T) {
		draft := incomeDraft(1000)
		draft.AccountID = "acc-missing"
		_, err := svc.Create(ctx, draft)
		require.ErrorIs(t, err, finance.ErrNotFound)
	})

	t.Run("inactive account", func(t *testing.T) {
		draft := incomeDraft(1000)
		draft.Kind = finance.KindExpense
		draft.AccountID = "acc-closed"
		_, err := svc.Create(ctx, draft)
		require.ErrorIs(t, err, finance.ErrValidation)
	})

	t.Run("kind and account type mismatch", func(t *testing.T) {
		draft := incomeDraft(1000)
		draft.AccountID = "acc-expense"
		_, err := svc.Create(ctx, draft)
		require.ErrorIs(t, err, finance.ErrValidation)
	})

	t.Run("unknown register", func(t *testing.T) {
		draft := incomeDraft(1000)
		draft.CashBankAccountID = "reg-missing"
		_, err := svc.Create(ctx, draft)
		require.ErrorIs(t, err, finance.ErrNotFound)
	})
}

func TestLedgerApproveRequiresCheck(t *testing.T) {
	svc, _, _ := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(50000))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "kepala-sekolah")
	require.ErrorIs(t, err, finance.ErrStateConflict, "approve before check must fail")
}

func TestLedgerApproveAppliesDelta(t *testing.T) {
	svc, store, publisher := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(50000))
	require.NoError(t, err)
	require.NoError(t, svc.Check(ctx, created.ID, "bendahara"))

	approved, err := svc.Approve(ctx, created.ID, "kepala-sekolah")
	require.NoError(t, err)
	assert.Equal(t, finance.StatusApproved, approved.ApprovalStatus)
	assert.Equal(t, "kepala-sekolah", approved.ApprovedBy)

	reg, err := store.GetRegister(ctx, "kas")
	require.NoError(t, err)
	assert.Equal(t, "150000", reg.Balance.String())

	last := publisher.events[len(publisher.events)-1]
	assert.Equal(t, string(finance.StatusApproved), last.AfterStatus)
	assert.Equal(t, "50000", last.Delta)
}

func TestLedgerDoubleApprove(t *testing.T) {
	svc, store, _ := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(50000))
	require.NoError(t, err)
	require.NoError(t, svc.Check(ctx, created.ID, "bendahara"))
	_, err = svc.Approve(ctx, created.ID, "kepala-sekolah")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "kepala-sekolah")
	require.ErrorIs(t, err, finance.ErrStateConflict)

	reg, err := store.GetRegister(ctx, "kas")
	require.NoError(t, err)
	assert.Equal(t, "150000", reg.Balance.String(), "second approve must not apply the delta again")
}

func TestLedgerDoubleCheck(t *testing.T) {
	svc, _, _ := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(1000))
	require.NoError(t, err)
	require.NoError(t, svc.Check(ctx, created.ID, "bendahara"))

	err = svc.Check(ctx, created.ID, "bendahara-2")
	require.ErrorIs(t, err, finance.ErrStateConflict)
}

func TestLedgerRejectIsTerminal(t *testing.T) {
	// A duplicate entry gets rejected; approving it afterwards must fail
	// and the register balance must stay put.
	svc, store, publisher := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(50000))
	require.NoError(t, err)
	require.NoError(t, svc.Check(ctx, created.ID, "bendahara"))
	require.NoError(t, svc.Reject(ctx, created.ID, "kepala-sekolah", "duplicate"))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.StatusRejected, stored.ApprovalStatus)
	assert.Equal(t, "duplicate", stored.RejectedReason)

	_, err = svc.Approve(ctx, created.ID, "kepala-sekolah")
	require.ErrorIs(t, err, finance.ErrStateConflict)

	reg, err := store.GetRegister(ctx, "kas")
	require.NoError(t, err)
	assert.Equal(t, "100000", reg.Balance.String())

	last := publisher.events[len(publisher.events)-1]
	assert.Equal(t, string(finance.StatusRejected), last.AfterStatus)
	assert.Equal(t, "duplicate", last.Reason)
}

func TestLedgerCancel(t *testing.T) {
	svc, _, _ := ledgerFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(1000))
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, created.ID, "bendahara"))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.StatusCancelled, stored.ApprovalStatus)

	err = svc.Check(ctx, created.ID, "bendahara")
	require.ErrorIs(t, err, finance.ErrStateConflict)
}

func TestLedgerCreateTransfer(t *testing.T) {
	svc, store, publisher := ledgerFixture(t)
	ctx := context.Background()

	draft := TransferDraft{
		TxnDate:        time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromInt(10000),
		FromRegisterID: "kas",
		ToRegisterID:   "bank",
		OutAccountID:   "acc-mutasi",
		InAccountID:    "acc-mutasi",
		Description:    "Setor ke bank",
	}

	out, in, err := svc.CreateTransfer(ctx, draft)
	require.NoError(t, err)

	assert.Equal(t, finance.KindTransferOut, out.Kind)
	assert.Equal(t, finance.KindTransferIn, in.Kind)
	assert.NotEmpty(t, out.TransferRef)
	assert.Equal(t, out.TransferRef, in.TransferRef, "legs share one transfer ref")
	assert.Equal(t, "kas", out.CashBankAccountID)
	assert.Equal(t, "bank", in.CashBankAccountID)
	assert.Len(t, store.txns, 2)
	assert.Len(t, publisher.events, 2)

	t.Run("same register rejected", func(t *testing.T) {
		bad := draft
		bad.ToRegisterID = bad.FromRegisterID
		_, _, err := svc.CreateTransfer(ctx, bad)
		require.ErrorIs(t, err, finance.ErrValidation)
	})

	t.Run("legs approve independently", func(t *testing.T) {
		require.NoError(t, svc.Check(ctx, out.ID, "bendahara"))
		_, err := svc.Approve(ctx, out.ID, "kepala-sekolah")
		require.NoError(t, err)

		kas, err := store.GetRegister(ctx, "kas")
		require.NoError(t, err)
		bank, err := store.GetRegister(ctx, "bank")
		require.NoError(t, err)
		assert.Equal(t, "90000", kas.Balance.String())
		assert.True(t, bank.Balance.IsZero(), "unapproved leg leaves the destination untouched")
	})
}

func TestLedgerPublisherFailureIsNonFatal(t *testing.T) {
	svc, _, publisher := ledgerFixture(t)
	publisher.err = assert.AnError
	ctx := context.Background()

	created, err := svc.Create(ctx, incomeDraft(1000))
	require.NoError(t, err, "a down audit sink never fails the write")
	require.NoError(t, svc.Check(ctx, created.ID, "bendahara"))
}

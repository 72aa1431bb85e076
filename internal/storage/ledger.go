package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

const txnColumns = `id, txn_date, kind, amount, account_id, cash_bank_account_id,
	description, reference_no, proof_url, transfer_ref,
	approval_status, checked_by, approved_by, rejected_reason, created_at`

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t finance.Transaction) error {
	if err := insertTxn(ctx, r.db, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", t.ID, "kind", t.Kind, "amount", t.Amount.String(),
		"register_id", t.CashBankAccountID, "status", t.ApprovalStatus)
	return nil
}

// InsertTransferPair stores both legs of a logical transfer in one SQL
// transaction so a transfer can never be half-created.
func (r *SQLiteRepository) InsertTransferPair(ctx context.Context, out, in finance.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer insert: %w", err)
	}
	defer tx.Rollback()

	if err := insertTxn(ctx, tx, out); err != nil {
		return fmt.Errorf("insert transfer out leg: %w", err)
	}
	if err := insertTxn(ctx, tx, in); err != nil {
		return fmt.Errorf("insert transfer in leg: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer insert: %w", err)
	}

	slog.InfoContext(ctx, "Transfer recorded",
		"transfer_ref", out.TransferRef, "amount", out.Amount.String(),
		"from_register", out.CashBankAccountID, "to_register", in.CashBankAccountID)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTxn(ctx context.Context, db execer, t finance.Transaction) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (`+txnColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, formatDate(t.TxnDate), string(t.Kind), t.Amount.String(),
		t.AccountID, t.CashBankAccountID,
		t.Description, t.ReferenceNo, t.ProofURL, t.TransferRef,
		string(t.ApprovalStatus), t.CheckedBy, t.ApprovedBy, t.RejectedReason,
		t.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (finance.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return finance.Transaction{}, finance.NotFoundErrorf("transaction %s", id)
	}
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// TransactionFilter narrows ListTransactions. Zero values match everything.
type TransactionFilter struct {
	RegisterID string
	Status     finance.ApprovalStatus
	From       time.Time
	To         time.Time
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]finance.Transaction, error) {
	q := `SELECT ` + txnColumns + ` FROM transactions WHERE 1=1`
	var args []any
	if f.RegisterID != "" {
		q += ` AND cash_bank_account_id = ?`
		args = append(args, f.RegisterID)
	}
	if f.Status != "" {
		q += ` AND approval_status = ?`
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		q += ` AND txn_date >= ?`
		args = append(args, formatDate(f.From))
	}
	if !f.To.IsZero() {
		q += ` AND txn_date <= ?`
		args = append(args, formatDate(f.To))
	}
	q += ` ORDER BY txn_date, seq`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// MarkChecked sets checked_by on a PENDING, not-yet-checked transaction.
// The WHERE clause is the compare-and-set; a concurrent checker loses on
// rows-affected and gets the conflict error.
func (r *SQLiteRepository) MarkChecked(ctx context.Context, id, actorID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET checked_by = ?
		WHERE id = ? AND approval_status = ? AND checked_by = ''`,
		actorID, id, string(finance.StatusPending))
	if err != nil {
		return fmt.Errorf("mark checked: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionConflict(ctx, id, "check")
	}

	slog.InfoContext(ctx, "Transaction checked", "id", id, "checked_by", actorID)
	return nil
}

// ApproveTransaction flips a checked PENDING entry to APPROVED and applies
// its delta to the register balance, both inside one SQL transaction. The
// status CAS serializes concurrent approvers: the loser's UPDATE matches
// zero rows and nothing is applied twice.
func (r *SQLiteRepository) ApproveTransaction(ctx context.Context, id, actorID string) (finance.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("begin approve: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE transactions SET approval_status = ?, approved_by = ?
		WHERE id = ? AND approval_status = ? AND checked_by <> ''`,
		string(finance.StatusApproved), actorID, id, string(finance.StatusPending))
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("approve transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.Transaction{}, r.transitionConflict(ctx, id, "approve")
	}

	row := tx.QueryRowContext(ctx, `SELECT `+txnColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("reload approved transaction: %w", err)
	}

	var balance string
	if err := tx.QueryRowContext(ctx,
		`SELECT balance FROM cash_bank_registers WHERE id = ?`,
		t.CashBankAccountID).Scan(&balance); err != nil {
		return finance.Transaction{}, fmt.Errorf("load register balance: %w", err)
	}
	current, err := decimal.NewFromString(balance)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("parse register balance %q: %w", balance, err)
	}

	next := current.Add(t.Delta())
	if _, err := tx.ExecContext(ctx,
		`UPDATE cash_bank_registers SET balance = ? WHERE id = ?`,
		next.String(), t.CashBankAccountID); err != nil {
		return finance.Transaction{}, fmt.Errorf("apply balance delta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return finance.Transaction{}, fmt.Errorf("commit approve: %w", err)
	}

	slog.InfoContext(ctx, "Transaction approved",
		"id", id, "approved_by", actorID,
		"delta", t.Delta().String(), "register_balance", next.String())
	return t, nil
}

// RejectTransaction terminally rejects a PENDING entry; the register
// balance is untouched.
func (r *SQLiteRepository) RejectTransaction(ctx context.Context, id, actorID, reason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET approval_status = ?, approved_by = ?, rejected_reason = ?
		WHERE id = ? AND approval_status = ?`,
		string(finance.StatusRejected), actorID, reason, id, string(finance.StatusPending))
	if err != nil {
		return fmt.Errorf("reject transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionConflict(ctx, id, "reject")
	}

	slog.InfoContext(ctx, "Transaction rejected", "id", id, "rejected_by", actorID, "reason", reason)
	return nil
}

// CancelTransaction terminally cancels a PENDING entry.
func (r *SQLiteRepository) CancelTransaction(ctx context.Context, id, actorID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET approval_status = ?
		WHERE id = ? AND approval_status = ?`,
		string(finance.StatusCancelled), id, string(finance.StatusPending))
	if err != nil {
		return fmt.Errorf("cancel transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionConflict(ctx, id, "cancel")
	}

	slog.InfoContext(ctx, "Transaction cancelled", "id", id, "cancelled_by", actorID)
	return nil
}

// transitionConflict turns a zero-rows CAS result into the precise domain
// error: not found if the row does not exist, state conflict otherwise.
func (r *SQLiteRepository) transitionConflict(ctx context.Context, id, op string) error {
	t, err := r.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if t.ApprovalStatus == finance.StatusPending && op == "approve" && t.CheckedBy == "" {
		return finance.StateConflictErrorf("cannot approve transaction %s before it is checked", id)
	}
	if t.ApprovalStatus == finance.StatusPending && op == "check" {
		return finance.StateConflictErrorf("transaction %s already checked by %s", id, t.CheckedBy)
	}
	return finance.StateConflictErrorf("cannot %s transaction %s in status %s", op, id, t.ApprovalStatus)
}

// DanglingTransferLegs returns approved transfer legs whose paired leg is
// not approved. Dangling legs are a data-integrity warning surfaced in
// reconciliation, never an error.
func (r *SQLiteRepository) DanglingTransferLegs(ctx context.Context) ([]finance.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+prefixedTxnColumns("a")+`
		FROM transactions a
		JOIN transactions b ON a.transfer_ref = b.transfer_ref AND a.id <> b.id
		WHERE a.transfer_ref <> ''
		  AND a.approval_status = ?
		  AND b.approval_status <> ?
		ORDER BY a.txn_date, a.seq`,
		string(finance.StatusApproved), string(finance.StatusApproved))
	if err != nil {
		return nil, fmt.Errorf("list dangling transfer legs: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func prefixedTxnColumns(alias string) string {
	return alias + ".id, " + alias + ".txn_date, " + alias + ".kind, " + alias + ".amount, " +
		alias + ".account_id, " + alias + ".cash_bank_account_id, " + alias + ".description, " +
		alias + ".reference_no, " + alias + ".proof_url, " + alias + ".transfer_ref, " +
		alias + ".approval_status, " + alias + ".checked_by, " + alias + ".approved_by, " +
		alias + ".rejected_reason, " + alias + ".created_at"
}

func collectTransactions(rows *sql.Rows) ([]finance.Transaction, error) {
	var txns []finance.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func scanTransaction(row rowScanner) (finance.Transaction, error) {
	var t finance.Transaction
	var txnDate, kind, amount, status, createdAt string
	if err := row.Scan(&t.ID, &txnDate, &kind, &amount, &t.AccountID, &t.CashBankAccountID,
		&t.Description, &t.ReferenceNo, &t.ProofURL, &t.TransferRef,
		&status, &t.CheckedBy, &t.ApprovedBy, &t.RejectedReason, &createdAt); err != nil {
		return finance.Transaction{}, err
	}

	var err error
	if t.TxnDate, err = parseDate(txnDate); err != nil {
		return finance.Transaction{}, fmt.Errorf("parse txn date %q: %w", txnDate, err)
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return finance.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return finance.Transaction{}, fmt.Errorf("parse created at %q: %w", createdAt, err)
	}
	t.Kind = finance.TxnKind(kind)
	t.ApprovalStatus = finance.ApprovalStatus(status)
	return t, nil
}

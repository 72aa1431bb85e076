// Package storage persists the finance domain in SQLite. The transactions
// table is append-only; approval transitions are compare-and-set updates,
// and the approve transition adjusts the register balance inside the same
// SQL transaction as the status change.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// uniqueViolation maps the driver's UNIQUE constraint error onto the
// domain validation error so callers see one taxonomy.
func uniqueViolation(err error, what string) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return finance.ValidationErrorf("%s already exists", what)
	}
	return err
}

// --- chart of accounts ---

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a finance.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, code, name, type, category, parent_id, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Code, a.Name, string(a.Type), a.Category, a.ParentID, boolToInt(a.IsActive))
	if err != nil {
		if verr := uniqueViolation(err, "account code "+a.Code); verr != err {
			return verr
		}
		return fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", a.ID, "code", a.Code, "type", a.Type)
	return nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a finance.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET code = ?, name = ?, type = ?, category = ?, parent_id = ?, is_active = ?
		WHERE id = ?`,
		a.Code, a.Name, string(a.Type), a.Category, a.ParentID, boolToInt(a.IsActive), a.ID)
	if err != nil {
		if verr := uniqueViolation(err, "account code "+a.Code); verr != err {
			return verr
		}
		return fmt.Errorf("update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.NotFoundErrorf("account %s", a.ID)
	}
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (finance.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, code, name, type, category, parent_id, is_active
		FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return finance.Account{}, finance.NotFoundErrorf("account %s", id)
	}
	if err != nil {
		return finance.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// AccountFilter narrows ListAccounts. Zero values match everything.
type AccountFilter struct {
	Type       finance.AccountType
	ActiveOnly bool
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, f AccountFilter) ([]finance.Account, error) {
	q := `SELECT id, code, name, type, category, parent_id, is_active FROM accounts WHERE 1=1`
	var args []any
	if f.Type != "" {
		q += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if f.ActiveOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY code`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []finance.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// --- cash/bank registers ---

func (r *SQLiteRepository) CreateRegister(ctx context.Context, reg finance.CashBankRegister) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cash_bank_registers (id, code, name, type, opening_balance, balance, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.Code, reg.Name, string(reg.Type),
		reg.OpeningBalance.String(), reg.Balance.String(), boolToInt(reg.IsActive))
	if err != nil {
		if verr := uniqueViolation(err, "register code "+reg.Code); verr != err {
			return verr
		}
		return fmt.Errorf("insert register: %w", err)
	}

	slog.InfoContext(ctx, "Register created",
		"id", reg.ID, "code", reg.Code, "type", reg.Type,
		"opening_balance", reg.OpeningBalance.String())
	return nil
}

// UpdateRegister never touches opening_balance or balance; the approve
// transition is the only balance writer.
func (r *SQLiteRepository) UpdateRegister(ctx context.Context, reg finance.CashBankRegister) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cash_bank_registers
		SET code = ?, name = ?, type = ?, is_active = ?
		WHERE id = ?`,
		reg.Code, reg.Name, string(reg.Type), boolToInt(reg.IsActive), reg.ID)
	if err != nil {
		if verr := uniqueViolation(err, "register code "+reg.Code); verr != err {
			return verr
		}
		return fmt.Errorf("update register: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.NotFoundErrorf("register %s", reg.ID)
	}
	return nil
}

func (r *SQLiteRepository) GetRegister(ctx context.Context, id string) (finance.CashBankRegister, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, code, name, type, opening_balance, balance, is_active
		FROM cash_bank_registers WHERE id = ?`, id)
	reg, err := scanRegister(row)
	if err == sql.ErrNoRows {
		return finance.CashBankRegister{}, finance.NotFoundErrorf("register %s", id)
	}
	if err != nil {
		return finance.CashBankRegister{}, fmt.Errorf("get register: %w", err)
	}
	return reg, nil
}

type RegisterFilter struct {
	Type       finance.RegisterType
	ActiveOnly bool
}

func (r *SQLiteRepository) ListRegisters(ctx context.Context, f RegisterFilter) ([]finance.CashBankRegister, error) {
	q := `SELECT id, code, name, type, opening_balance, balance, is_active
		FROM cash_bank_registers WHERE 1=1`
	var args []any
	if f.Type != "" {
		q += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if f.ActiveOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY code`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list registers: %w", err)
	}
	defer rows.Close()

	var regs []finance.CashBankRegister
	for rows.Next() {
		reg, err := scanRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan register: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (finance.Account, error) {
	var a finance.Account
	var typ string
	var active int
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &typ, &a.Category, &a.ParentID, &active); err != nil {
		return finance.Account{}, err
	}
	a.Type = finance.AccountType(typ)
	a.IsActive = active != 0
	return a, nil
}

func scanRegister(row rowScanner) (finance.CashBankRegister, error) {
	var reg finance.CashBankRegister
	var typ, opening, balance string
	var active int
	if err := row.Scan(&reg.ID, &reg.Code, &reg.Name, &typ, &opening, &balance, &active); err != nil {
		return finance.CashBankRegister{}, err
	}
	var err error
	if reg.OpeningBalance, err = decimal.NewFromString(opening); err != nil {
		return finance.CashBankRegister{}, fmt.Errorf("parse opening balance %q: %w", opening, err)
	}
	if reg.Balance, err = decimal.NewFromString(balance); err != nil {
		return finance.CashBankRegister{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	reg.Type = finance.RegisterType(typ)
	reg.IsActive = active != 0
	return reg, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

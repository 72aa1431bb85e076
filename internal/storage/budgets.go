package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b finance.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, period_start, period_end, kind, amount, account_id, cash_bank_account_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, formatDate(b.PeriodStart), formatDate(b.PeriodEnd), string(b.Kind),
		b.Amount.String(), b.AccountID, b.CashBankAccountID, b.Notes)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID, "kind", b.Kind, "amount", b.Amount.String(), "account_id", b.AccountID)
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b finance.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET period_start = ?, period_end = ?, kind = ?, amount = ?, account_id = ?, cash_bank_account_id = ?, notes = ?
		WHERE id = ?`,
		formatDate(b.PeriodStart), formatDate(b.PeriodEnd), string(b.Kind),
		b.Amount.String(), b.AccountID, b.CashBankAccountID, b.Notes, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return finance.NotFoundErrorf("budget %s", b.ID)
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (finance.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, period_start, period_end, kind, amount, account_id, cash_bank_account_id, notes
		FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return finance.Budget{}, finance.NotFoundErrorf("budget %s", id)
	}
	if err != nil {
		return finance.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// BudgetFilter narrows ListBudgets. Overlapping selects budgets whose
// period intersects the range.
type BudgetFilter struct {
	Overlapping *finance.DateRange
	Kind        finance.BudgetKind
	RegisterID  string
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, f BudgetFilter) ([]finance.Budget, error) {
	q := `SELECT id, period_start, period_end, kind, amount, account_id, cash_bank_account_id, notes
		FROM budgets WHERE 1=1`
	var args []any
	if f.Overlapping != nil {
		q += ` AND period_start <= ? AND period_end >= ?`
		args = append(args, formatDate(f.Overlapping.End), formatDate(f.Overlapping.Start))
	}
	if f.Kind != "" {
		q += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.RegisterID != "" {
		// Register-scoped budgets plus the ones applying to all registers
		q += ` AND (cash_bank_account_id = ? OR cash_bank_account_id = '')`
		args = append(args, f.RegisterID)
	}
	q += ` ORDER BY period_start, account_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []finance.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func scanBudget(row rowScanner) (finance.Budget, error) {
	var b finance.Budget
	var start, end, kind, amount string
	if err := row.Scan(&b.ID, &start, &end, &kind, &amount, &b.AccountID, &b.CashBankAccountID, &b.Notes); err != nil {
		return finance.Budget{}, err
	}

	var err error
	if b.PeriodStart, err = parseDate(start); err != nil {
		return finance.Budget{}, fmt.Errorf("parse period start %q: %w", start, err)
	}
	if b.PeriodEnd, err = parseDate(end); err != nil {
		return finance.Budget{}, fmt.Errorf("parse period end %q: %w", end, err)
	}
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return finance.Budget{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	b.Kind = finance.BudgetKind(kind)
	return b, nil
}

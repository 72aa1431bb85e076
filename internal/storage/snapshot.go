package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

// LedgerSnapshot is a consistent read of everything a report builder
// needs: register and account state plus the full APPROVED history of the
// scoped registers in (txn_date, insertion) order. All queries run inside
// one read transaction so a report never mixes pre- and post-commit state.
type LedgerSnapshot struct {
	Registers    []finance.CashBankRegister
	Accounts     []finance.Account
	Transactions []finance.Transaction
	Budgets      []finance.Budget
}

// SnapshotScope narrows the snapshot. An empty RegisterID scopes to all
// registers. WithBudgets additionally loads budgets matching BudgetFilter.
type SnapshotScope struct {
	RegisterID   string
	WithBudgets  bool
	BudgetFilter BudgetFilter
}

func (r *SQLiteRepository) LoadLedgerSnapshot(ctx context.Context, scope SnapshotScope) (LedgerSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return LedgerSnapshot{}, fmt.Errorf("begin snapshot read: %w", err)
	}
	defer tx.Rollback()

	var snap LedgerSnapshot

	regQuery := `SELECT id, code, name, type, opening_balance, balance, is_active
		FROM cash_bank_registers`
	var regArgs []any
	if scope.RegisterID != "" {
		regQuery += ` WHERE id = ?`
		regArgs = append(regArgs, scope.RegisterID)
	}
	regQuery += ` ORDER BY code`

	regRows, err := tx.QueryContext(ctx, regQuery, regArgs...)
	if err != nil {
		return LedgerSnapshot{}, fmt.Errorf("snapshot registers: %w", err)
	}
	for regRows.Next() {
		reg, err := scanRegister(regRows)
		if err != nil {
			regRows.Close()
			return LedgerSnapshot{}, fmt.Errorf("scan register: %w", err)
		}
		snap.Registers = append(snap.Registers, reg)
	}
	if err := regRows.Err(); err != nil {
		regRows.Close()
		return LedgerSnapshot{}, err
	}
	regRows.Close()

	acctRows, err := tx.QueryContext(ctx, `
		SELECT id, code, name, type, category, parent_id, is_active
		FROM accounts ORDER BY code`)
	if err != nil {
		return LedgerSnapshot{}, fmt.Errorf("snapshot accounts: %w", err)
	}
	for acctRows.Next() {
		a, err := scanAccount(acctRows)
		if err != nil {
			acctRows.Close()
			return LedgerSnapshot{}, fmt.Errorf("scan account: %w", err)
		}
		snap.Accounts = append(snap.Accounts, a)
	}
	if err := acctRows.Err(); err != nil {
		acctRows.Close()
		return LedgerSnapshot{}, err
	}
	acctRows.Close()

	txnQuery := `SELECT ` + txnColumns + ` FROM transactions WHERE approval_status = ?`
	txnArgs := []any{string(finance.StatusApproved)}
	if scope.RegisterID != "" {
		txnQuery += ` AND cash_bank_account_id = ?`
		txnArgs = append(txnArgs, scope.RegisterID)
	}
	txnQuery += ` ORDER BY txn_date, seq`

	txnRows, err := tx.QueryContext(ctx, txnQuery, txnArgs...)
	if err != nil {
		return LedgerSnapshot{}, fmt.Errorf("snapshot transactions: %w", err)
	}
	snap.Transactions, err = collectTransactions(txnRows)
	txnRows.Close()
	if err != nil {
		return LedgerSnapshot{}, err
	}

	if scope.WithBudgets {
		budgetQuery := `SELECT id, period_start, period_end, kind, amount, account_id, cash_bank_account_id, notes
			FROM budgets WHERE 1=1`
		var budgetArgs []any
		f := scope.BudgetFilter
		if f.Overlapping != nil {
			budgetQuery += ` AND period_start <= ? AND period_end >= ?`
			budgetArgs = append(budgetArgs, formatDate(f.Overlapping.End), formatDate(f.Overlapping.Start))
		}
		if f.Kind != "" {
			budgetQuery += ` AND kind = ?`
			budgetArgs = append(budgetArgs, string(f.Kind))
		}
		if f.RegisterID != "" {
			budgetQuery += ` AND (cash_bank_account_id = ? OR cash_bank_account_id = '')`
			budgetArgs = append(budgetArgs, f.RegisterID)
		}
		budgetQuery += ` ORDER BY period_start, account_id`

		budgetRows, err := tx.QueryContext(ctx, budgetQuery, budgetArgs...)
		if err != nil {
			return LedgerSnapshot{}, fmt.Errorf("snapshot budgets: %w", err)
		}
		for budgetRows.Next() {
			b, err := scanBudget(budgetRows)
			if err != nil {
				budgetRows.Close()
				return LedgerSnapshot{}, fmt.Errorf("scan budget: %w", err)
			}
			snap.Budgets = append(snap.Budgets, b)
		}
		if err := budgetRows.Err(); err != nil {
			budgetRows.Close()
			return LedgerSnapshot{}, err
		}
		budgetRows.Close()
	}

	return snap, nil
}

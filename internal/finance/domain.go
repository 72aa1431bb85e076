package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountAsset     AccountType = "ASSET"
	AccountLiability AccountType = "LIABILITY"
	AccountEquity    AccountType = "EQUITY"
	AccountIncome    AccountType = "INCOME"
	AccountExpense   AccountType = "EXPENSE"

	RegisterCash RegisterType = "CASH"
	RegisterBank RegisterType = "BANK"

	KindIncome      TxnKind = "INCOME"
	KindExpense     TxnKind = "EXPENSE"
	KindTransferIn  TxnKind = "TRANSFER_IN"
	KindTransferOut TxnKind = "TRANSFER_OUT"

	StatusPending   ApprovalStatus = "PENDING"
	StatusApproved  ApprovalStatus = "APPROVED"
	StatusRejected  ApprovalStatus = "REJECTED"
	StatusCancelled ApprovalStatus = "CANCELLED"

	BudgetIncome  BudgetKind = "INCOME"
	BudgetExpense BudgetKind = "EXPENSE"
)

type (
	AccountType    string
	RegisterType   string
	TxnKind        string
	ApprovalStatus string
	BudgetKind     string

	// Account is one row of the chart of accounts. Identity is immutable
	// once a transaction references it; Category is free text used only
	// by report classification; ParentID is display-only hierarchy.
	Account struct {
		ID       string
		Code     string
		Name     string
		Type     AccountType
		Category string
		ParentID string
		IsActive bool
	}

	// CashBankRegister is a cash or bank holding account. Balance is a
	// materialized cache of OpeningBalance plus the deltas of every
	// APPROVED transaction referencing it; the approve transition is its
	// only legal writer.
	CashBankRegister struct {
		ID             string
		Code           string
		Name           string
		Type           RegisterType
		OpeningBalance decimal.Decimal
		Balance        decimal.Decimal
		IsActive       bool
	}

	// Transaction is one append-only ledger entry. Rows are never
	// deleted, only transitioned through the approval state machine.
	Transaction struct {
		ID                string
		TxnDate           time.Time
		Kind              TxnKind
		Amount            decimal.Decimal
		AccountID         string
		CashBankAccountID string
		Description       string
		ReferenceNo       string
		ProofURL          string
		// TransferRef links the two legs of one logical transfer.
		// Empty for plain income/expense rows.
		TransferRef    string
		ApprovalStatus ApprovalStatus
		CheckedBy      string
		ApprovedBy     string
		RejectedReason string
		CreatedAt      time.Time
	}

	// Budget is a per-period target amount for one account, optionally
	// scoped to a single register. Read-only input to reporting.
	Budget struct {
		ID                string
		PeriodStart       time.Time
		PeriodEnd         time.Time
		Kind              BudgetKind
		Amount            decimal.Decimal
		AccountID         string
		CashBankAccountID string // empty = all registers
		Notes             string
	}
)

// Terminal reports whether the status permits no further transitions.
func (s ApprovalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

func (k TxnKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransferIn, KindTransferOut:
		return true
	}
	return false
}

// Inflow reports whether the kind moves cash into its register.
func (k TxnKind) Inflow() bool {
	return k == KindIncome || k == KindTransferIn
}

// Transfer reports whether the kind is one leg of an internal transfer.
func (k TxnKind) Transfer() bool {
	return k == KindTransferIn || k == KindTransferOut
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountIncome, AccountExpense:
		return true
	}
	return false
}

func (t RegisterType) Valid() bool {
	return t == RegisterCash || t == RegisterBank
}

func (k BudgetKind) Valid() bool {
	return k == BudgetIncome || k == BudgetExpense
}

// Delta is the signed cash effect of the transaction on its register:
// +Amount for INCOME/TRANSFER_IN, -Amount for EXPENSE/TRANSFER_OUT.
func (t Transaction) Delta() decimal.Decimal {
	if t.Kind.Inflow() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Validate checks the fields a caller controls on a new ledger entry.
// Referential checks (account and register existence) belong to the
// ledger service.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ValidationErrorf("invalid transaction kind %q", t.Kind)
	}
	if t.TxnDate.IsZero() {
		return ValidationErrorf("transaction date is required")
	}
	if !t.Amount.IsPositive() {
		return ValidationErrorf("amount must be positive, got %s", t.Amount)
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ValidationErrorf("account id is required")
	}
	if strings.TrimSpace(t.CashBankAccountID) == "" {
		return ValidationErrorf("cash/bank account id is required")
	}
	if len(t.Description) > 500 {
		return ValidationErrorf("description too long (max 500 characters)")
	}
	return nil
}

// CompatibleAccount enforces the kind/account-type pairing: INCOME entries
// post against INCOME accounts and EXPENSE entries against EXPENSE
// accounts. Transfer legs carry no type constraint.
func (t Transaction) CompatibleAccount(a Account) error {
	switch t.Kind {
	case KindIncome:
		if a.Type != AccountIncome {
			return ValidationErrorf("income transaction requires an INCOME account, %s is %s", a.Code, a.Type)
		}
	case KindExpense:
		if a.Type != AccountExpense {
			return ValidationErrorf("expense transaction requires an EXPENSE account, %s is %s", a.Code, a.Type)
		}
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Code) == "" {
		return ValidationErrorf("account code is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return ValidationErrorf("account name is required")
	}
	if !a.Type.Valid() {
		return ValidationErrorf("invalid account type %q", a.Type)
	}
	return nil
}

func (r CashBankRegister) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return ValidationErrorf("register code is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return ValidationErrorf("register name is required")
	}
	if !r.Type.Valid() {
		return ValidationErrorf("invalid register type %q", r.Type)
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Kind.Valid() {
		return ValidationErrorf("invalid budget kind %q", b.Kind)
	}
	if b.PeriodStart.IsZero() || b.PeriodEnd.IsZero() {
		return ValidationErrorf("budget period is required")
	}
	if b.PeriodEnd.Before(b.PeriodStart) {
		return ValidationErrorf("budget period end before start")
	}
	if !b.Amount.IsPositive() {
		return ValidationErrorf("budget amount must be positive, got %s", b.Amount)
	}
	if strings.TrimSpace(b.AccountID) == "" {
		return ValidationErrorf("budget account id is required")
	}
	return nil
}

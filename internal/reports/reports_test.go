package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
)

// Shared fixtures for the report builder tests.

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func day(dayOfMonth int) time.Time {
	return time.Date(2024, 1, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func januaryRange() finance.DateRange {
	rng, err := finance.NewDateRange(day(1), day(31), day(15))
	if err != nil {
		panic(err)
	}
	return rng
}

func register(id string, opening, balance int64) finance.CashBankRegister {
	return finance.CashBankRegister{
		ID:             id,
		Code:           "KAS-" + id,
		Name:           "Register " + id,
		Type:           finance.RegisterCash,
		OpeningBalance: d(opening),
		Balance:        d(balance),
		IsActive:       true,
	}
}

func approved(id string, date time.Time, kind finance.TxnKind, amount int64, accountID, registerID string) finance.Transaction {
	return finance.Transaction{
		ID:                id,
		TxnDate:           date,
		Kind:              kind,
		Amount:            d(amount),
		AccountID:         accountID,
		CashBankAccountID: registerID,
		ApprovalStatus:    finance.StatusApproved,
	}
}

func transferPair(ref string, date time.Time, amount int64, fromRegister, toRegister string) []finance.Transaction {
	out := approved(ref+"-out", date, finance.KindTransferOut, amount, "acc-transfer", fromRegister)
	out.TransferRef = ref
	in := approved(ref+"-in", date, finance.KindTransferIn, amount, "acc-transfer", toRegister)
	in.TransferRef = ref
	return []finance.Transaction{out, in}
}

package finance

import (
	"errors"
	"fmt"
)

// Error taxonomy for the finance core. Callers branch with errors.Is; the
// constructors wrap the sentinel so the category survives fmt wrapping.
var (
	// ErrValidation covers malformed input: bad ranges, non-positive
	// amounts, kind/account type mismatches, duplicate codes.
	ErrValidation = errors.New("validation error")

	// ErrNotFound covers references to accounts, registers, budgets or
	// transactions that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrStateConflict covers transitions invoked on a transaction not in
	// the required state. The entry is left exactly as it was.
	ErrStateConflict = errors.New("state conflict")
)

func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func StateConflictErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, fmt.Sprintf(format, args...))
}

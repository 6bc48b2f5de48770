// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound = errors.New("user not found")
	// ErrWalletNotFound signals a data-integrity problem: every user owns
	// exactly one wallet, so a missing wallet row is never a caller error.
	ErrWalletNotFound  = errors.New("wallet record missing for user")
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrBalanceFloor    = errors.New("adjustment would drive the wallet balance negative")
)

// IsError reports whether err matches the target sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

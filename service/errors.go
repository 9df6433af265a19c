package service

import (
	"errors"
	"fmt"
)

// Account lifecycle and ledger failures. Every core operation fails with
// exactly one of these, or with an error wrapping ErrStorage.
var (
	ErrOwnerNotFound              = errors.New("owner not found")
	ErrAccountNotFound            = errors.New("account not found")
	ErrSourceAccountNotFound      = errors.New("source account not found")
	ErrDestinationAccountNotFound = errors.New("destination account not found")
	ErrAccountLimitExceeded       = errors.New("owner already holds the maximum number of accounts")
	ErrDuplicateAccountType       = errors.New("owner already holds an account of this type")
	ErrInvalidBalance             = errors.New("initial balance must be non-negative with at most two decimal places")
	ErrInvalidAmount              = errors.New("transfer amount must be positive with at most two decimal places")
	ErrSelfTransferNotAllowed     = errors.New("cannot transfer money to the same account")
	ErrSourceAccountInactive      = errors.New("source account is not active")
	ErrDestinationAccountInactive = errors.New("destination account is not active")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrCurrencyMismatch           = errors.New("currency mismatch between accounts")
	ErrBalanceLimitExceeded       = errors.New("destination balance would exceed the maximum")
	ErrNonZeroBalance             = errors.New("account balance must be zero")
	ErrAccessDenied               = errors.New("access denied")

	// ErrStorage marks infrastructure failures; the underlying error stays in the chain.
	ErrStorage = errors.New("storage failure")
)

// User directory failures.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is not active")
	ErrInvalidRole        = errors.New("invalid role specified")
	ErrInvalidStatus      = errors.New("invalid status specified")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// settle passes known failure kinds through and wraps anything else, such as
// a failed commit or an expired context, as a storage failure.
func settle(op string, err error) error {
	if err == nil || Outcome(err) != "error" {
		return err
	}
	return storageErr(op, err)
}

var outcomes = []struct {
	err   error
	label string
}{
	{ErrOwnerNotFound, "owner_not_found"},
	{ErrAccountNotFound, "account_not_found"},
	{ErrSourceAccountNotFound, "source_not_found"},
	{ErrDestinationAccountNotFound, "destination_not_found"},
	{ErrAccountLimitExceeded, "limit_exceeded"},
	{ErrDuplicateAccountType, "duplicate_type"},
	{ErrInvalidBalance, "invalid_balance"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrSelfTransferNotAllowed, "self_transfer"},
	{ErrSourceAccountInactive, "source_inactive"},
	{ErrDestinationAccountInactive, "destination_inactive"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrCurrencyMismatch, "currency_mismatch"},
	{ErrBalanceLimitExceeded, "balance_limit"},
	{ErrNonZeroBalance, "non_zero_balance"},
	{ErrAccessDenied, "access_denied"},
	{ErrInvalidStatus, "invalid_status"},
	{ErrUserNotFound, "user_not_found"},
	{ErrUsernameTaken, "username_taken"},
	{ErrEmailTaken, "email_taken"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrUserInactive, "user_inactive"},
	{ErrInvalidRole, "invalid_role"},
	{ErrStorage, "storage"},
}

// Outcome returns a short, bounded label for err suitable for metrics and logs.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}

package handler

import (
	"errors"
	"net/http"

	"go-bank-ledger/common"
	"go-bank-ledger/service"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrSourceAccountNotFound, http.StatusNotFound},
	{service.ErrDestinationAccountNotFound, http.StatusNotFound},
	{service.ErrOwnerNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrAccessDenied, http.StatusForbidden},
	{service.ErrUserInactive, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrAccountLimitExceeded, http.StatusConflict},
	{service.ErrDuplicateAccountType, http.StatusConflict},
	{service.ErrNonZeroBalance, http.StatusConflict},
	{service.ErrUsernameTaken, http.StatusConflict},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrRequestInProgress, http.StatusConflict},
	{service.ErrInvalidBalance, http.StatusBadRequest},
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrSelfTransferNotAllowed, http.StatusBadRequest},
	{service.ErrSourceAccountInactive, http.StatusBadRequest},
	{service.ErrDestinationAccountInactive, http.StatusBadRequest},
	{service.ErrInsufficientFunds, http.StatusBadRequest},
	{service.ErrCurrencyMismatch, http.StatusBadRequest},
	{service.ErrBalanceLimitExceeded, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrInvalidStatus, http.StatusBadRequest},
}

// toAppError maps a service error onto an HTTP status. Unknown and storage
// errors become a 500 carrying fallback as the client-facing message.
func toAppError(err error, fallback string) *common.AppError {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return common.NewAppError(m.status, m.err.Error(), err)
		}
	}
	return common.NewAppError(http.StatusInternalServerError, fallback, err)
}

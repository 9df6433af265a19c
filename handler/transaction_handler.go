package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/service"

	"github.com/sirupsen/logrus"
)

const (
	idempotencyKeyHeader    = "Idempotency-Key"
	idempotentReplayHeader  = "Idempotent-Replayed"
	maxIdempotencyKeyLength = 128
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	transactions *service.TransactionService
	accounts     *service.AccountService
	policy       *service.AccessPolicy
	idempotency  *service.IdempotencyStore
}

// NewTransactionHandler creates a new TransactionHandler. A nil idempotency
// store disables Idempotency-Key handling.
func NewTransactionHandler(transactions *service.TransactionService, accounts *service.AccountService, policy *service.AccessPolicy, idempotency *service.IdempotencyStore) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, accounts: accounts, policy: policy, idempotency: idempotency}
}

// CreateTransfer godoc
// @Summary      Transfer money between accounts
// @Description  Moves funds from an account owned by the caller to any active account in the same currency.
// @Description  A repeated Idempotency-Key replays the first response instead of transferring again.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Client-chosen key for safe retries"
// @Param        transfer         body      model.TransferRequest  true   "Details of the financial transfer"
// @Success      201  {object}  model.TransferResult
// @Failure      400  {object}  common.AppError "Bad Request (e.g., insufficient funds, currency mismatch, invalid amount)"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: User does not own the source account"
// @Failure      404  {object}  common.AppError "Source or destination account not found"
// @Failure      409  {object}  common.AppError "A request with the same Idempotency-Key is in progress"
// @Failure      500  {object}  common.AppError "Internal server error while processing transfer"
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	claims := ClaimsFromContext(r.Context())
	source, err := h.accounts.Get(r.Context(), req.FromAccount)
	if errors.Is(err, service.ErrAccountNotFound) {
		return toAppError(service.ErrSourceAccountNotFound, "")
	}
	if err != nil {
		return toAppError(err, "Could not process transfer")
	}
	if err := h.policy.AuthorizeTransfer(claims, source.OwnerID); err != nil {
		return toAppError(err, "")
	}

	key := r.Header.Get(idempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		return common.NewAppError(http.StatusBadRequest, "Idempotency-Key is too long", nil)
	}
	useKey := key != "" && h.idempotency != nil
	scope := "user:" + strconv.FormatInt(claims.UserID, 10)

	if useKey {
		replay, err := h.idempotency.Reserve(r.Context(), scope, key)
		if err != nil {
			return toAppError(err, "Could not process transfer")
		}
		if replay != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(idempotentReplayHeader, "true")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(replay)
			return nil
		}
	}

	debit, credit, err := h.transactions.Transfer(r.Context(), req.FromAccount, req.ToAccount, req.Amount)
	if err != nil {
		if useKey {
			if relErr := h.idempotency.Release(r.Context(), scope, key); relErr != nil {
				logger.Log.WithError(relErr).Warn("Could not release idempotency key")
			}
		}
		return toAppError(err, "Could not process transfer")
	}

	body, err := json.Marshal(model.TransferResult{Debit: debit, Credit: credit})
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not encode transfer result", err)
	}
	if useKey {
		if err := h.idempotency.Complete(r.Context(), scope, key, body); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id":         claims.UserID,
				"idempotency_key": key,
			}).WithError(err).Error("Transfer committed but its response could not be stored for replay")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
	return nil
}

// ListTransactionsForAccount godoc
// @Summary      List account transaction history
// @Description  Newest first. Visible to the account owner and administrators.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber  path  string  true  "Account number"
// @Success      200  {array}   model.Transaction
// @Failure      403  {object}  common.AppError "Forbidden: User does not own the specified account"
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/accounts/{accountNumber}/transactions [get]
func (h *TransactionHandler) ListTransactionsForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.history(w, r, h.transactions.TransactionsFor)
}

// ListReceivedForAccount godoc
// @Summary      List transfers received by an account
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber  path  string  true  "Account number"
// @Success      200  {array}   model.Transaction
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber}/transactions/received [get]
func (h *TransactionHandler) ListReceivedForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.history(w, r, h.transactions.ReceivedFor)
}

func (h *TransactionHandler) history(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, accountNumber string) ([]*model.Transaction, error)) *common.AppError {
	account, err := h.accounts.Get(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		return toAppError(err, "Could not retrieve transactions")
	}
	if err := h.policy.AuthorizeOwnerAccess(ClaimsFromContext(r.Context()), account.OwnerID); err != nil {
		return toAppError(err, "")
	}

	txns, err := list(r.Context(), account.AccountNumber)
	if err != nil {
		return toAppError(err, "Could not retrieve transactions")
	}
	common.WriteJSON(w, http.StatusOK, txns)
	return nil
}

// ListAllTransactions godoc
// @Summary      List every ledger entry
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Transaction
// @Failure      403  {object}  common.AppError
// @Router       /api/admin/transactions [get]
func (h *TransactionHandler) ListAllTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	txns, err := h.transactions.AllTransactions(r.Context())
	if err != nil {
		return toAppError(err, "Could not retrieve transactions")
	}
	common.WriteJSON(w, http.StatusOK, txns)
	return nil
}

package handler

import (
	"net/http"

	"go-bank-ledger/common"
	"go-bank-ledger/model"
	"go-bank-ledger/service"
)

type AccountHandler struct {
	accounts *service.AccountService
	policy   *service.AccessPolicy
}

func NewAccountHandler(accounts *service.AccountService, policy *service.AccessPolicy) *AccountHandler {
	return &AccountHandler{accounts: accounts, policy: policy}
}

// OpenAccount godoc
// @Summary      Open an account for a customer
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.OpenAccountRequest  true  "Account details"
// @Success      201      {object}  model.Account
// @Failure      400      {object}  common.AppError
// @Failure      404      {object}  common.AppError
// @Failure      409      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/accounts [post]
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.OpenAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	account, err := h.accounts.Open(r.Context(), req.OwnerID, req.AccountType, req.InitialBalance, req.Currency)
	if err != nil {
		return toAppError(err, "Could not open account")
	}
	common.WriteJSON(w, http.StatusCreated, account)
	return nil
}

// ListAccounts godoc
// @Summary      List accounts, optionally filtered by status or type
// @Tags         accounts
// @Produce      json
// @Param        status  query     string  false  "ACTIVE or CLOSED"
// @Param        type    query     string  false  "Account type"
// @Success      200     {array}   model.Account
// @Security     BearerAuth
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	var (
		accounts []*model.Account
		err      error
	)
	query := r.URL.Query()
	switch {
	case query.Get("status") != "" && query.Get("type") != "":
		return common.NewAppError(http.StatusBadRequest, "Filter by either status or type, not both", nil)
	case query.Get("status") != "":
		accounts, err = h.accounts.ListByStatus(r.Context(), query.Get("status"))
	case query.Get("type") != "":
		accounts, err = h.accounts.ListByType(r.Context(), query.Get("type"))
	default:
		accounts, err = h.accounts.ListAll(r.Context())
	}
	if err != nil {
		return toAppError(err, "Could not retrieve accounts")
	}
	common.WriteJSON(w, http.StatusOK, accounts)
	return nil
}

// authorizedAccount loads the account named in the path and checks the
// caller may see it.
func (h *AccountHandler) authorizedAccount(r *http.Request) (*model.Account, *common.AppError) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		return nil, toAppError(err, "Could not retrieve account")
	}
	if err := h.policy.AuthorizeOwnerAccess(ClaimsFromContext(r.Context()), account.OwnerID); err != nil {
		return nil, toAppError(err, "")
	}
	return account, nil
}

// GetAccount godoc
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Param        accountNumber  path      string  true  "Account number"
// @Success      200            {object}  model.Account
// @Failure      403            {object}  common.AppError
// @Failure      404            {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/accounts/{accountNumber} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, appErr := h.authorizedAccount(r)
	if appErr != nil {
		return appErr
	}
	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// UpdateAccountStatus godoc
// @Summary      Set an account's status
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        accountNumber  path      string                     true  "Account number"
// @Param        request        body      model.UpdateStatusRequest  true  "New status"
// @Success      200            {object}  model.Account
// @Failure      404            {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/accounts/{accountNumber}/status [put]
func (h *AccountHandler) UpdateAccountStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateStatusRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	account, err := h.accounts.UpdateStatus(r.Context(), r.PathValue("accountNumber"), req.Status)
	if err != nil {
		return toAppError(err, "Could not update account status")
	}
	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// CloseAccount godoc
// @Summary      Close an account with zero balance
// @Tags         accounts
// @Produce      json
// @Param        accountNumber  path      string  true  "Account number"
// @Success      200            {object}  model.Account
// @Failure      404            {object}  common.AppError
// @Failure      409            {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/accounts/{accountNumber}/close [put]
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, err := h.accounts.Close(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		return toAppError(err, "Could not close account")
	}
	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// DeleteAccount godoc
// @Summary      Remove an account with zero balance
// @Tags         accounts
// @Param        accountNumber  path  string  true  "Account number"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/accounts/{accountNumber} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.accounts.Remove(r.Context(), r.PathValue("accountNumber")); err != nil {
		return toAppError(err, "Could not remove account")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

package handler

import (
	"net/http"
	"strconv"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/service"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	users    *service.UserService
	auth     *service.AuthService
	accounts *service.AccountService
	policy   *service.AccessPolicy
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, accounts *service.AccountService, policy *service.AccessPolicy) *UserHandler {
	return &UserHandler{users: users, auth: auth, accounts: accounts, policy: policy}
}

func pathUserID(r *http.Request) (int64, *common.AppError) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid user ID", err)
	}
	return id, nil
}

// Register godoc
// @Summary      Register a new customer
// @Description  Self-service sign-up always creates a CUSTOMER. A role field is rejected.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterRequest  true  "User details"
// @Success      201      {object}  model.User
// @Failure      400      {object}  common.AppError
// @Failure      409      {object}  common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		return toAppError(err, "Could not register user")
	}

	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	common.WriteJSON(w, http.StatusCreated, user)
	return nil
}

// Login godoc
// @Summary      Log in and receive an access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Credentials"
// @Success      200      {object}  model.LoginResponse
// @Failure      401      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Router       /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	resp, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return toAppError(err, "Could not log in")
	}

	common.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// GetUser godoc
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  model.User
// @Failure      403     {object}  common.AppError
// @Failure      404     {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{userId} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.policy.AuthorizeOwnerAccess(ClaimsFromContext(r.Context()), id); err != nil {
		return toAppError(err, "")
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		return toAppError(err, "Could not retrieve user")
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}

// UpdateUser godoc
// @Summary      Update a user profile
// @Description  Omitted fields keep their current value.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userId   path      int                      true  "User ID"
// @Param        request  body      model.UpdateUserRequest  true  "Profile fields"
// @Success      200      {object}  model.User
// @Failure      400      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Failure      404      {object}  common.AppError
// @Failure      409      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{userId} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.policy.AuthorizeOwnerAccess(ClaimsFromContext(r.Context()), id); err != nil {
		return toAppError(err, "")
	}

	var req model.UpdateUserRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	user, err := h.users.UpdateProfile(r.Context(), id, req)
	if err != nil {
		return toAppError(err, "Could not update user")
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}

// CheckUsername godoc
// @Summary      Check whether a username is taken
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  model.ExistsResponse
// @Router       /check-username/{username} [get]
func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) *common.AppError {
	exists, err := h.users.UsernameExists(r.Context(), r.PathValue("username"))
	if err != nil {
		return toAppError(err, "Could not check username")
	}
	common.WriteJSON(w, http.StatusOK, model.ExistsResponse{Exists: exists})
	return nil
}

// CheckEmail godoc
// @Summary      Check whether an email is registered
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  model.ExistsResponse
// @Router       /check-email/{email} [get]
func (h *UserHandler) CheckEmail(w http.ResponseWriter, r *http.Request) *common.AppError {
	exists, err := h.users.EmailExists(r.Context(), r.PathValue("email"))
	if err != nil {
		return toAppError(err, "Could not check email")
	}
	common.WriteJSON(w, http.StatusOK, model.ExistsResponse{Exists: exists})
	return nil
}

// ListUserAccounts godoc
// @Summary      List the accounts owned by a user
// @Tags         users
// @Produce      json
// @Param        userId  path      int  true  "User ID"
// @Success      200     {array}   model.Account
// @Failure      403     {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{userId}/accounts [get]
func (h *UserHandler) ListUserAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.policy.AuthorizeOwnerAccess(ClaimsFromContext(r.Context()), id); err != nil {
		return toAppError(err, "")
	}

	accounts, err := h.accounts.ListForOwner(r.Context(), id)
	if err != nil {
		return toAppError(err, "Could not retrieve accounts")
	}
	common.WriteJSON(w, http.StatusOK, accounts)
	return nil
}

// UpdatePassword godoc
// @Summary      Change a user's password
// @Tags         users
// @Accept       json
// @Param        userId   path  int                          true  "User ID"
// @Param        request  body  model.UpdatePasswordRequest  true  "New password"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{userId}/password [put]
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.policy.AuthorizeOwnerAccess(ClaimsFromContext(r.Context()), id); err != nil {
		return toAppError(err, "")
	}

	var req model.UpdatePasswordRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	if err := h.users.UpdatePassword(r.Context(), id, req.Password); err != nil {
		return toAppError(err, "Could not update password")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.users.List(r.Context())
	if err != nil {
		return toAppError(err, "Could not retrieve users")
	}
	common.WriteJSON(w, http.StatusOK, users)
	return nil
}

// CreateUser godoc
// @Summary      Create a user with a chosen role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateUserRequest  true  "User details and role"
// @Success      201      {object}  model.User
// @Failure      400      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Failure      409      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateUserRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		return toAppError(err, "Could not create user")
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"role":       user.Role,
		"created_by": ClaimsFromContext(r.Context()).UserID,
	}).Info("User created by admin")
	common.WriteJSON(w, http.StatusCreated, user)
	return nil
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/customers [get]
func (h *UserHandler) ListCustomers(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.listByRole(w, r, model.RoleCustomer)
}

// ListAdmins godoc
// @Summary      List administrators
// @Tags         admin
// @Produce      json
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/admins [get]
func (h *UserHandler) ListAdmins(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.listByRole(w, r, model.RoleAdmin)
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, role model.Role) *common.AppError {
	users, err := h.users.ListByRole(r.Context(), string(role))
	if err != nil {
		return toAppError(err, "Could not retrieve users")
	}
	common.WriteJSON(w, http.StatusOK, users)
	return nil
}

// UpdateUserStatus godoc
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Param        userId   path  int                        true  "User ID"
// @Param        request  body  model.UpdateStatusRequest  true  "ACTIVE or INACTIVE"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users/{userId}/status [put]
func (h *UserHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateStatusRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	if err := h.users.UpdateStatus(r.Context(), id, req.Status); err != nil {
		return toAppError(err, "Could not update user status")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Accounts owned by the user are left in place.
// @Tags         admin
// @Param        userId  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users/{userId} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		return toAppError(err, "Could not delete user")
	}
	logger.Log.WithField("user_id", id).Info("User deleted")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

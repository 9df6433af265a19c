// file: model/request.go

package model

import "github.com/shopspring/decimal"

// Address is the optional postal address carried on a user profile.
type Address struct {
	AddressLine1 string `json:"address_line1" validate:"max=255"`
	AddressLine2 string `json:"address_line2" validate:"max=255"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	PostalCode   string `json:"postal_code" validate:"max=20"`
}

// RegisterRequest defines the payload for self-service sign-up.
// It includes validation tags to ensure data integrity at the entry point.
// There is no role field: self-registered users are always customers.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Address
}

// CreateUserRequest is the admin-only variant of RegisterRequest that picks the role.
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role" validate:"required,oneof=ADMIN CUSTOMER admin customer"`
}

// UpdateUserRequest changes profile fields. Omitted fields keep their value.
type UpdateUserRequest struct {
	FirstName    *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=1,max=20"`
	AddressLine1 *string `json:"address_line1,omitempty" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
}

// ExistsResponse answers the username and email availability checks.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest replaces a user's password.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateStatusRequest is shared by the user and account status endpoints.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
}

// OpenAccountRequest defines the payload for opening an account on behalf of a customer.
// InitialBalance is optional; when omitted the account opens with zero balance.
type OpenAccountRequest struct {
	OwnerID        int64            `json:"owner_id" validate:"required,gt=0"`
	AccountType    string           `json:"account_type" validate:"required,max=30"`
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
	Currency       string           `json:"currency" validate:"omitempty,len=3"`
}

// TransferRequest defines the payload for moving funds between two accounts.
type TransferRequest struct {
	FromAccount string          `json:"from_account" validate:"required"`
	ToAccount   string          `json:"to_account" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransferResult carries the debit/credit pair produced by one transfer.
type TransferResult struct {
	Debit  *Transaction `json:"debit"`
	Credit *Transaction `json:"credit"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

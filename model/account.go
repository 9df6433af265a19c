package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive = "ACTIVE"
	AccountStatusClosed = "CLOSED"
)

// Account is keyed by AccountNumber ("ACC" followed by ten digits).
// Balance is never negative and always carries two fractional digits.
type Account struct {
	AccountNumber string          `json:"account_number"`
	OwnerID       int64           `json:"owner_id"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	OpenedAt      time.Time       `json:"opened_at"`
}

// IsActive reports whether transfers may touch the account.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// MarshalJSON writes the balance with exactly two fractional digits.
func (a Account) MarshalJSON() ([]byte, error) {
	type account Account
	return json.Marshal(struct {
		account
		Balance string `json:"balance"`
	}{account(a), a.Balance.StringFixed(2)})
}

package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeTransferOut = "TRANSFER_OUT"
	TransactionTypeTransferIn  = "TRANSFER_IN"

	TransactionStatusSuccess = "SUCCESS"
)

// Transaction is one ledger entry. Entries are appended once and never
// modified; ID and Timestamp are assigned by the store on append.
type Transaction struct {
	ID              int64           `json:"transaction_id"`
	AccountNumber   string          `json:"account_number"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Timestamp       time.Time       `json:"timestamp"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
}

// MarshalJSON writes the amount with exactly two fractional digits.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type transaction Transaction
	return json.Marshal(struct {
		transaction
		Amount string `json:"amount"`
	}{transaction(t), t.Amount.StringFixed(2)})
}

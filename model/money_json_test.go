package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_MarshalJSONKeepsTwoDecimals(t *testing.T) {
	acc := Account{
		AccountNumber: "ACC0000000001",
		OwnerID:       1,
		AccountType:   "SAVINGS",
		Balance:       decimal.NewFromInt(1000000000),
		Currency:      "INR",
		Status:        AccountStatusActive,
		OpenedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"account_number":"ACC0000000001","owner_id":1,"account_type":"SAVINGS",
		"balance":"1000000000.00","currency":"INR","status":"ACTIVE","opened_at":"2024-05-01T10:00:00Z"}`, string(raw))

	// Pointers and slices use the same encoding, and it decodes back.
	raw, err = json.Marshal([]*Account{&acc})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"balance":"1000000000.00"`)

	var decoded []*Account
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.True(t, acc.Balance.Equal(decoded[0].Balance))
	assert.Equal(t, acc.AccountNumber, decoded[0].AccountNumber)
}

func TestTransaction_MarshalJSONKeepsTwoDecimals(t *testing.T) {
	txn := Transaction{
		ID:              3,
		AccountNumber:   "ACC0000000001",
		TransactionType: TransactionTypeTransferOut,
		Amount:          decimal.RequireFromString("40.5"),
		Description:     "Transferred to ACC0000000002",
		Status:          TransactionStatusSuccess,
	}

	raw, err := json.Marshal(txn)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":"40.50"`)
	assert.Contains(t, string(raw), `"transaction_id":3`)
}

package service

import (
	cryptorand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/shopspring/decimal"
)

const accountNumberSpace = 10_000_000_000

var accountNumberPattern = regexp.MustCompile(`^ACC\d{10}$`)

// NumberSource yields candidate account numbers. Each Open call gets its own
// source, so no generator state is shared between goroutines.
type NumberSource func() string

func newNumberSource() NumberSource {
	var seed [32]byte
	_, _ = cryptorand.Read(seed[:])
	rng := rand.New(rand.NewChaCha8(seed))
	return func() string {
		return fmt.Sprintf("ACC%010d", rng.Int64N(accountNumberSpace))
	}
}

// ValidAccountNumber reports whether s has the ACC + ten digits shape.
func ValidAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}

// MaxMoney is the largest balance or amount the ledger holds; it is the
// ceiling of the NUMERIC(15,2) balance column.
var MaxMoney = decimal.RequireFromString("9999999999999.99")

// hasMoneyScale reports whether d has at most two fractional digits.
func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

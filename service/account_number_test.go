package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNumberSource(t *testing.T) {
	next := newNumberSource()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := next()
		assert.True(t, ValidAccountNumber(n), n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 990)

	// Independent sources do not replay each other.
	assert.NotEqual(t, newNumberSource()(), newNumberSource()())
}

func TestValidAccountNumber(t *testing.T) {
	assert.True(t, ValidAccountNumber("ACC0000000000"))
	assert.True(t, ValidAccountNumber("ACC9876543210"))
	assert.False(t, ValidAccountNumber("ACC123"))
	assert.False(t, ValidAccountNumber("acc0000000000"))
	assert.False(t, ValidAccountNumber("ACC00000000001"))
	assert.False(t, ValidAccountNumber("XYZ0000000000"))
}

func TestHasMoneyScale(t *testing.T) {
	assert.True(t, hasMoneyScale(dec("10")))
	assert.True(t, hasMoneyScale(dec("10.5")))
	assert.True(t, hasMoneyScale(dec("10.50")))
	assert.True(t, hasMoneyScale(dec("10.500")))
	assert.False(t, hasMoneyScale(dec("10.501")))
}

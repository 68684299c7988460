package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionSigned(t *testing.T) {
	expense := Transaction{Type: TransactionExpense, Amount: decimal.NewFromInt(50)}
	assert.True(t, expense.Signed().Equal(decimal.NewFromInt(-50)))

	income := Transaction{Type: TransactionIncome, Amount: decimal.NewFromInt(50)}
	assert.True(t, income.Signed().Equal(decimal.NewFromInt(50)))
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, IsKnownCategory(CategoryFood))
	assert.True(t, IsKnownCategory(CategoryOther))
	assert.False(t, IsKnownCategory("GAMBLING"))
	assert.False(t, IsKnownCategory(""))
	assert.False(t, IsKnownCategory("food")) // categories are uppercase
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBudgetPercentUsed(t *testing.T) {
	b := &Budget{Amount: dec("400.00")}

	assert.True(t, b.PercentUsed(dec("100.00")).Equal(dec("25")))
	assert.True(t, b.PercentUsed(dec("600.00")).Equal(dec("150")), "over-budget is not clamped")
	assert.True(t, b.PercentUsed(decimal.Zero).Equal(decimal.Zero))

	// Zero or negative ceilings never divide.
	b.Amount = decimal.Zero
	assert.True(t, b.PercentUsed(dec("50.00")).Equal(decimal.Zero))
	b.Amount = dec("-10.00")
	assert.True(t, b.PercentUsed(dec("50.00")).Equal(decimal.Zero))
}

func TestBudgetRemaining(t *testing.T) {
	b := &Budget{Amount: dec("400.00")}
	assert.True(t, b.Remaining(dec("150.50")).Equal(dec("249.50")))
	assert.True(t, b.Remaining(dec("450.00")).Equal(dec("-50.00")))
}

func TestAccountComputeBalance(t *testing.T) {
	a := &Account{InitialBalance: dec("100.00")}
	txs := []Transaction{
		{Type: TransactionTypeIncome, Amount: dec("1000.00")},
		{Type: TransactionTypeExpense, Amount: dec("200.50")},
		{Type: TransactionTypeExpense, Amount: dec("0.10")},
	}
	assert.True(t, a.ComputeBalance(txs).Equal(dec("899.40")))
	assert.True(t, a.ComputeBalance(nil).Equal(dec("100.00")))
}

package service

import (
	"testing"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSumTransactionsScenario(t *testing.T) {
	// User adds Salary 1000.00, then Food expense 200.50.
	txs := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: dec("1000.00"), TransactionDate: day("2024-01-05")},
	}
	totals := SumTransactions(txs)
	assert.True(t, totals.Balance.Equal(dec("1000.00")))

	txs = append(txs, models.Transaction{
		Type: models.TransactionTypeExpense, Amount: dec("200.50"), TransactionDate: day("2024-01-06"),
	})
	totals = SumTransactions(txs)
	assert.True(t, totals.Income.Equal(dec("1000.00")))
	assert.True(t, totals.Expense.Equal(dec("200.50")))
	assert.True(t, totals.Balance.Equal(dec("799.50")))
}

func TestSumTransactionsExactDecimal(t *testing.T) {
	// Classic float trap: 0.1 + 0.2 must be exactly 0.3.
	txs := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: dec("0.1")},
		{Type: models.TransactionTypeIncome, Amount: dec("0.2")},
		{Type: models.TransactionTypeExpense, Amount: dec("0.3")},
	}
	totals := SumTransactions(txs)
	assert.True(t, totals.Income.Equal(dec("0.3")))
	assert.True(t, totals.Balance.Equal(decimal.Zero))

	// Many small amounts stay exact.
	many := make([]models.Transaction, 0, 1000)
	for i := 0; i < 1000; i++ {
		many = append(many, models.Transaction{Type: models.TransactionTypeIncome, Amount: dec("0.01")})
	}
	assert.True(t, SumTransactions(many).Balance.Equal(dec("10.00")))
}

func TestSumByCategory(t *testing.T) {
	salary := models.Category{Name: "Salary", Type: models.CategoryTypeIncome}
	food := models.Category{Name: "Food", Type: models.CategoryTypeExpense}

	txs := []models.Transaction{
		{CategoryID: 1, Category: salary, Type: models.TransactionTypeIncome, Amount: dec("1000.00")},
		{CategoryID: 2, Category: food, Type: models.TransactionTypeExpense, Amount: dec("120.00")},
		{CategoryID: 2, Category: food, Type: models.TransactionTypeExpense, Amount: dec("80.50")},
	}

	totals := SumByCategory(txs)
	require.Len(t, totals, 2)

	// Expense bucket sorts before income (type order), food first.
	assert.Equal(t, "Food", totals[0].CategoryName)
	assert.True(t, totals[0].Total.Equal(dec("200.50")))
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, "Salary", totals[1].CategoryName)
}

func TestSumByMonth(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: dec("100.00"), TransactionDate: day("2024-02-10")},
		{Type: models.TransactionTypeExpense, Amount: dec("40.00"), TransactionDate: day("2024-02-20")},
		{Type: models.TransactionTypeIncome, Amount: dec("100.00"), TransactionDate: day("2024-01-15")},
	}

	totals := SumByMonth(txs)
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-01", totals[0].Month)
	assert.Equal(t, "2024-02", totals[1].Month)
	assert.True(t, totals[1].Income.Equal(dec("100.00")))
	assert.True(t, totals[1].Expense.Equal(dec("40.00")))
}

func TestDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	from, to := DateRange(PeriodThisMonth, now)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, day("2024-03-01"), *from)
	assert.Equal(t, day("2024-03-31"), *to)

	from, to = DateRange(PeriodLastMonth, now)
	assert.Equal(t, day("2024-02-01"), *from)
	assert.Equal(t, day("2024-02-29"), *to, "leap February")

	from, to = DateRange(PeriodThisYear, now)
	assert.Equal(t, day("2024-01-01"), *from)
	assert.Equal(t, day("2024-12-31"), *to)

	from, to = DateRange(PeriodAllTime, now)
	assert.Nil(t, from)
	assert.Nil(t, to)

	from, to = DateRange("bogus", now)
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestDateRangeJanuaryEdges(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	from, to := DateRange(PeriodLastMonth, now)
	assert.Equal(t, day("2023-12-01"), *from)
	assert.Equal(t, day("2023-12-31"), *to)
}

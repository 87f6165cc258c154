package service

import (
	"sort"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/shopspring/decimal"
)

// Totals is the income/expense/balance triple for a set of transactions.
// All arithmetic is exact decimal; monetary sums never touch floats.
type Totals struct {
	Income  decimal.Decimal `json:"total_income"`
	Expense decimal.Decimal `json:"total_expense"`
	Balance decimal.Decimal `json:"balance"`
}

// SumTransactions computes the totals over the given transactions
func SumTransactions(transactions []models.Transaction) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for i := range transactions {
		switch transactions[i].Type {
		case models.TransactionTypeIncome:
			income = income.Add(transactions[i].Amount)
		case models.TransactionTypeExpense:
			expense = expense.Add(transactions[i].Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// SumExpenses returns the expense portion only
func SumExpenses(transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		if transactions[i].Type == models.TransactionTypeExpense {
			total = total.Add(transactions[i].Amount)
		}
	}
	return total
}

// CategoryTotal is one row of a per-category breakdown
type CategoryTotal struct {
	CategoryID   uint                `json:"category_id"`
	CategoryName string              `json:"category_name"`
	Type         models.CategoryType `json:"type"`
	Total        decimal.Decimal     `json:"total"`
	Count        int                 `json:"count"`
}

// SumByCategory buckets transactions by category. Transactions must be
// loaded with their Category relation.
func SumByCategory(transactions []models.Transaction) []CategoryTotal {
	byID := make(map[uint]*CategoryTotal)
	for i := range transactions {
		t := &transactions[i]
		bucket, ok := byID[t.CategoryID]
		if !ok {
			bucket = &CategoryTotal{
				CategoryID:   t.CategoryID,
				CategoryName: t.Category.Name,
				Type:         t.Category.Type,
				Total:        decimal.Zero,
			}
			byID[t.CategoryID] = bucket
		}
		bucket.Total = bucket.Total.Add(t.Amount)
		bucket.Count++
	}

	totals := make([]CategoryTotal, 0, len(byID))
	for _, bucket := range byID {
		totals = append(totals, *bucket)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Type != totals[j].Type {
			return totals[i].Type < totals[j].Type
		}
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals
}

// MonthlyTotal is one month's income/expense pair
type MonthlyTotal struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// SumByMonth buckets transactions by calendar month of their transaction
// date, oldest month first.
func SumByMonth(transactions []models.Transaction) []MonthlyTotal {
	byMonth := make(map[string]*MonthlyTotal)
	for i := range transactions {
		t := &transactions[i]
		key := t.TransactionDate.Format("2006-01")
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlyTotal{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = bucket
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			bucket.Income = bucket.Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			bucket.Expense = bucket.Expense.Add(t.Amount)
		}
	}

	totals := make([]MonthlyTotal, 0, len(byMonth))
	for _, bucket := range byMonth {
		totals = append(totals, *bucket)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month < totals[j].Month })
	return totals
}

// Period names accepted by DateRange
const (
	PeriodThisMonth = "this_month"
	PeriodLastMonth = "last_month"
	PeriodThisYear  = "this_year"
	PeriodAllTime   = "all_time"
)

// DateRange resolves a named period to an inclusive [from, to] window.
// Unknown names and all_time return open bounds.
func DateRange(period string, now time.Time) (from, to *time.Time) {
	y, m, _ := now.Date()
	loc := now.Location()

	switch period {
	case PeriodThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, -1)
		return &start, &end
	case PeriodLastMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
		end := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
		return &start, &end
	case PeriodThisYear:
		start := time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		end := time.Date(y, 12, 31, 0, 0, 0, 0, loc)
		return &start, &end
	}
	return nil, nil
}

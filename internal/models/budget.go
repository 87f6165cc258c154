package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod enumerates budget cadences
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether the period is a known value
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget is a spend ceiling for a period, optionally restricted to one
// expense category. Percent used is always computed on demand, never stored.
type Budget struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"not null;index" json:"user_id"`
	CategoryID      *uint            `gorm:"index" json:"category_id,omitempty"`
	Name            string           `gorm:"size:100;not null" json:"name"`
	Amount          decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"amount"`
	Period          BudgetPeriod     `gorm:"size:10;not null" json:"period"`
	StartDate       time.Time        `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time        `gorm:"type:date;not null" json:"end_date"`
	AlertPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"alert_percentage,omitempty"`
	IsActive        bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for Budget model
func (Budget) TableName() string {
	return "budgets"
}

var oneHundred = decimal.NewFromInt(100)

// PercentUsed returns spent / amount × 100. A zero or negative budget
// amount yields 0, never an error.
func (b *Budget) PercentUsed(spent decimal.Decimal) decimal.Decimal {
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return spent.Div(b.Amount).Mul(oneHundred).Round(2)
}

// Remaining returns amount − spent (negative when over budget)
func (b *Budget) Remaining(spent decimal.Decimal) decimal.Decimal {
	return b.Amount.Sub(spent)
}

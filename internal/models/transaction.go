package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType discriminates income from expense transactions.
// The amount column is always positive; direction is carried here.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the two known values
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single dated monetary movement
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index:idx_transactions_user_date" json:"user_id"`
	CategoryID      uint            `gorm:"not null;index" json:"category_id"`
	AccountID       *uint           `gorm:"index" json:"account_id,omitempty"`
	GoalID          *uint           `gorm:"index" json:"goal_id,omitempty"`
	Type            TransactionType `gorm:"size:10;not null" json:"type"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description     string          `gorm:"size:255;not null" json:"description"`
	TransactionDate time.Time       `gorm:"type:date;not null;index:idx_transactions_user_date" json:"transaction_date"`
	Notes           string          `gorm:"size:500" json:"notes,omitempty"`
	PaymentMethod   string          `gorm:"size:50" json:"payment_method,omitempty"`
	Tags            string          `gorm:"size:255" json:"tags,omitempty"`
	Location        string          `gorm:"size:255" json:"location,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns the amount negated for expenses
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

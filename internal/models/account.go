package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named balance container. CurrentBalance is derived from the
// linked transaction set and is never written directly by users.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;uniqueIndex:idx_accounts_user_name" json:"user_id"`
	Name           string          `gorm:"size:100;not null;uniqueIndex:idx_accounts_user_name" json:"name"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:AccountID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for Account model
func (Account) TableName() string {
	return "accounts"
}

// ComputeBalance returns initial_balance + Σ(income) − Σ(expense) over the
// given transactions. Callers pass the account's full transaction set.
func (a *Account) ComputeBalance(transactions []Transaction) decimal.Decimal {
	balance := a.InitialBalance
	for i := range transactions {
		balance = balance.Add(transactions[i].SignedAmount())
	}
	return balance
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus enumerates the goal life cycle
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Valid reports whether s is a known goal status
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusPaused, GoalStatusCompleted, GoalStatusCancelled:
		return true
	}
	return false
}

// Goal is a savings target accumulated via contributions
type Goal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   string          `gorm:"size:500" json:"description,omitempty"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"current_amount"`
	TargetDate    *time.Time      `gorm:"type:date" json:"target_date,omitempty"`
	Status        GoalStatus      `gorm:"size:10;not null;default:'active'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	User          User               `gorm:"foreignKey:UserID" json:"-"`
	Contributions []GoalContribution `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Goal model
func (Goal) TableName() string {
	return "goals"
}

// GoalContribution records a single addition toward a goal. It may reference
// the transaction that funded it.
type GoalContribution struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	GoalID        uint            `gorm:"not null;index" json:"goal_id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	TransactionID *uint           `gorm:"index" json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	ContributedAt time.Time       `gorm:"not null" json:"contributed_at"`
}

// TableName specifies the table name for GoalContribution model
func (GoalContribution) TableName() string {
	return "goal_contributions"
}

// PercentComplete returns current / target × 100, clamped to 100
func (g *Goal) PercentComplete() decimal.Decimal {
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(oneHundred).Round(2)
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return pct
}

// IsTerminal reports whether no further status transitions are allowed
func (g *Goal) IsTerminal() bool {
	return g.Status == GoalStatusCompleted || g.Status == GoalStatusCancelled
}

// CanTransition reports whether a user-requested status change is legal.
// active ⇄ paused, (active|paused) → cancelled. Completion only ever happens
// automatically through contributions, never by request.
func (g *Goal) CanTransition(to GoalStatus) bool {
	if g.IsTerminal() {
		return false
	}
	switch to {
	case GoalStatusActive:
		return g.Status == GoalStatusPaused
	case GoalStatusPaused:
		return g.Status == GoalStatusActive
	case GoalStatusCancelled:
		return true
	}
	return false
}

// ApplyContribution adds amount to the running total and flips the goal to
// completed once the target is reached. Returns true on the transition.
func (g *Goal) ApplyContribution(amount decimal.Decimal) bool {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.Status == GoalStatusActive && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalStatusCompleted
		return true
	}
	return false
}

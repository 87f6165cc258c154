package models

import (
	"time"
)

// CategoryType discriminates income from expense categories
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether the type is one of the two known values
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category is a user-scoped bucket partitioning transactions.
// Name is unique per (user, type).
type Category struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;uniqueIndex:idx_categories_user_name_type" json:"user_id"`
	Name        string       `gorm:"size:100;not null;uniqueIndex:idx_categories_user_name_type" json:"name"`
	Type        CategoryType `gorm:"size:10;not null;uniqueIndex:idx_categories_user_name_type" json:"type"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	Color       string       `gorm:"size:7;default:'#007bff'" json:"color"`
	Icon        string       `gorm:"size:50" json:"icon"`
	IsDefault   bool         `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the category set seeded for a new user
func DefaultCategories(userID uint) []Category {
	defaults := []struct {
		name  string
		ctype CategoryType
		color string
		icon  string
	}{
		{"Salary", CategoryTypeIncome, "#27ae60", "dollar-sign"},
		{"Freelance", CategoryTypeIncome, "#2ecc71", "briefcase"},
		{"Investments", CategoryTypeIncome, "#16a085", "trending-up"},
		{"Other", CategoryTypeIncome, "#1abc9c", "plus"},

		{"Food", CategoryTypeExpense, "#e74c3c", "utensils"},
		{"Transport", CategoryTypeExpense, "#f39c12", "car"},
		{"Housing", CategoryTypeExpense, "#8e44ad", "home"},
		{"Health", CategoryTypeExpense, "#e67e22", "heart"},
		{"Education", CategoryTypeExpense, "#3498db", "book"},
		{"Leisure", CategoryTypeExpense, "#9b59b6", "gamepad-2"},
		{"Shopping", CategoryTypeExpense, "#e91e63", "shopping-bag"},
		{"Other", CategoryTypeExpense, "#95a5a6", "tag"},
	}

	categories := make([]Category, len(defaults))
	for i, d := range defaults {
		categories[i] = Category{
			UserID:    userID,
			Name:      d.name,
			Type:      d.ctype,
			Color:     d.color,
			Icon:      d.icon,
			IsDefault: true,
		}
	}
	return categories
}

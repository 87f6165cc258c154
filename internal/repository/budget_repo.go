package repository

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/models"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
)

// BudgetRepository handles budget data access
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *BudgetRepository) WithTx(tx *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: tx}
}

// Create creates a new budget
func (r *BudgetRepository) Create(budget *models.Budget) error {
	return r.db.Create(budget).Error
}

// GetByIDAndUserID retrieves a budget owned by the user
func (r *BudgetRepository) GetByIDAndUserID(id, userID uint) (*models.Budget, error) {
	var budget models.Budget
	result := r.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&budget)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return &budget, nil
}

// GetByUserID retrieves the user's budgets, optionally only active ones
func (r *BudgetRepository) GetByUserID(userID uint, activeOnly bool) ([]models.Budget, error) {
	query := r.db.Preload("Category").Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var budgets []models.Budget
	if err := query.Order("start_date DESC, name").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// Update persists all fields of the budget
func (r *BudgetRepository) Update(budget *models.Budget) error {
	return r.db.Save(budget).Error
}

// Delete removes a budget owned by the user
func (r *BudgetRepository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

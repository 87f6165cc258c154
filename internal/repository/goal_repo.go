package repository

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalRepository handles goal and goal-contribution data access
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GoalRepository) WithTx(tx *gorm.DB) *GoalRepository {
	return &GoalRepository{db: tx}
}

// Create creates a new goal
func (r *GoalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

// GetByIDAndUserID retrieves a goal owned by the user
func (r *GoalRepository) GetByIDAndUserID(id, userID uint) (*models.Goal, error) {
	var goal models.Goal
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&goal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, result.Error
	}
	return &goal, nil
}

// GetByIDForUpdate retrieves a goal under a row-level lock. Must run inside
// a transaction; serializes concurrent contribution writes.
func (r *GoalRepository) GetByIDForUpdate(id, userID uint) (*models.Goal, error) {
	var goal models.Goal
	result := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&goal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, result.Error
	}
	return &goal, nil
}

// GetByUserID retrieves the user's goals, optionally filtered by status
func (r *GoalRepository) GetByUserID(userID uint, statuses ...models.GoalStatus) ([]models.Goal, error) {
	query := r.db.Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var goals []models.Goal
	if err := query.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// Update persists all fields of the goal
func (r *GoalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// Delete removes a goal owned by the user along with its contributions
func (r *GoalRepository) Delete(id, userID uint) error {
	err := r.db.Where("goal_id = ? AND user_id = ?", id, userID).
		Delete(&models.GoalContribution{}).Error
	if err != nil {
		return err
	}

	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Goal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// CreateContribution records a contribution row
func (r *GoalRepository) CreateContribution(contribution *models.GoalContribution) error {
	return r.db.Create(contribution).Error
}

// GetContributions retrieves a goal's contributions, newest first
func (r *GoalRepository) GetContributions(goalID, userID uint) ([]models.GoalContribution, error) {
	var contributions []models.GoalContribution
	err := r.db.Where("goal_id = ? AND user_id = ?", goalID, userID).
		Order("contributed_at DESC").
		Find(&contributions).Error
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

// GetContributionsByTransactionID finds contributions funded by a transaction
func (r *GoalRepository) GetContributionsByTransactionID(userID, transactionID uint) ([]models.GoalContribution, error) {
	var contributions []models.GoalContribution
	err := r.db.Where("user_id = ? AND transaction_id = ?", userID, transactionID).
		Find(&contributions).Error
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

// DeleteContribution removes a contribution row
func (r *GoalRepository) DeleteContribution(id uint) error {
	return r.db.Delete(&models.GoalContribution{}, id).Error
}

package service

import (
	"errors"
	"strings"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGoalNotActive         = errors.New("goal is not active")
	ErrInvalidGoalTransition = errors.New("status transition not allowed")
)

// GoalService handles savings goals and their contributions
type GoalService struct {
	db       *gorm.DB
	goalRepo *repository.GoalRepository
}

// NewGoalService creates a new GoalService
func NewGoalService(db *gorm.DB, goalRepo *repository.GoalRepository) *GoalService {
	return &GoalService{db: db, goalRepo: goalRepo}
}

// GoalRequest represents the create/update payload
type GoalRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   string          `json:"target_date"`
}

func (r *GoalRequest) validate() (*time.Time, ValidationErrors) {
	errs := ValidationErrors{}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs["name"] = "name is required"
	}
	if r.TargetAmount.LessThanOrEqual(decimal.Zero) {
		errs["target_amount"] = "target amount must be greater than zero"
	}

	var targetDate *time.Time
	if r.TargetDate != "" {
		parsed, err := time.Parse(dateLayout, r.TargetDate)
		if err != nil {
			errs["target_date"] = "target date must be YYYY-MM-DD"
		} else {
			targetDate = &parsed
		}
	}

	if len(errs) == 0 {
		return targetDate, nil
	}
	return targetDate, errs
}

// Create creates a new active goal
func (s *GoalService) Create(userID uint, req *GoalRequest) (*models.Goal, error) {
	targetDate, errs := req.validate()
	if errs != nil {
		return nil, errs
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    targetDate,
		Status:        models.GoalStatusActive,
	}

	if err := s.goalRepo.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Update edits a goal's descriptive fields and target
func (s *GoalService) Update(userID, goalID uint, req *GoalRequest) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByIDAndUserID(goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal.IsTerminal() {
		return nil, ErrInvalidGoalTransition
	}

	targetDate, errs := req.validate()
	if errs != nil {
		return nil, errs
	}

	goal.Name = req.Name
	goal.Description = req.Description
	goal.TargetAmount = req.TargetAmount
	goal.TargetDate = targetDate

	if err := s.goalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Delete removes a goal and its contribution history
func (s *GoalService) Delete(userID, goalID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.goalRepo.WithTx(tx).Delete(goalID, userID)
	})
}

// List retrieves the user's goals, optionally filtered by status
func (s *GoalService) List(userID uint, statuses ...models.GoalStatus) ([]models.Goal, error) {
	return s.goalRepo.GetByUserID(userID, statuses...)
}

// Get retrieves a single goal owned by the user
func (s *GoalService) Get(userID, goalID uint) (*models.Goal, error) {
	return s.goalRepo.GetByIDAndUserID(goalID, userID)
}

// ContributionRequest represents the add-contribution payload
type ContributionRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	TransactionID *uint           `json:"transaction_id"`
}

// AddContribution records a contribution and advances the goal, flipping it
// to completed exactly once when the target is reached. The goal row is
// locked so concurrent contributions cannot lose updates.
func (s *GoalService) AddContribution(userID, goalID uint, req *ContributionRequest) (*models.Goal, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ValidationErrors{"amount": "amount must be greater than zero"}
	}

	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		goalRepo := s.goalRepo.WithTx(tx)

		locked, err := goalRepo.GetByIDForUpdate(goalID, userID)
		if err != nil {
			return err
		}
		if locked.Status != models.GoalStatusActive {
			return ErrGoalNotActive
		}

		contribution := &models.GoalContribution{
			GoalID:        goalID,
			UserID:        userID,
			TransactionID: req.TransactionID,
			Amount:        req.Amount,
			ContributedAt: time.Now(),
		}
		if err := goalRepo.CreateContribution(contribution); err != nil {
			return err
		}

		locked.ApplyContribution(req.Amount)
		if err := goalRepo.Update(locked); err != nil {
			return err
		}

		goal = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateStatus applies a user-requested status transition
// (active ⇄ paused, → cancelled). Terminal states never change.
func (s *GoalService) UpdateStatus(userID, goalID uint, status models.GoalStatus) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByIDAndUserID(goalID, userID)
	if err != nil {
		return nil, err
	}

	if !goal.CanTransition(status) {
		return nil, ErrInvalidGoalTransition
	}

	goal.Status = status
	if err := s.goalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Contributions retrieves a goal's contribution history
func (s *GoalService) Contributions(userID, goalID uint) ([]models.GoalContribution, error) {
	if _, err := s.goalRepo.GetByIDAndUserID(goalID, userID); err != nil {
		return nil, err
	}
	return s.goalRepo.GetContributions(goalID, userID)
}

package service

import (
	"strings"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// TransactionService handles transaction CRUD and keeps the derived
// account and goal balances consistent. Every mutation runs in a single DB
// transaction: the row write and the dependent recomputations commit or
// roll back together.
type TransactionService struct {
	db              *gorm.DB
	transactionRepo *repository.TransactionRepository
	categoryRepo    *repository.CategoryRepository
	accountRepo     *repository.AccountRepository
	goalRepo        *repository.GoalRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	db *gorm.DB,
	transactionRepo *repository.TransactionRepository,
	categoryRepo *repository.CategoryRepository,
	accountRepo *repository.AccountRepository,
	goalRepo *repository.GoalRepository,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		accountRepo:     accountRepo,
		goalRepo:        goalRepo,
	}
}

// CreateTransactionRequest represents the create payload
type CreateTransactionRequest struct {
	CategoryID      uint                   `json:"category_id"`
	Type            models.TransactionType `json:"type"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	TransactionDate string                 `json:"transaction_date"`
	Notes           string                 `json:"notes"`
	PaymentMethod   string                 `json:"payment_method"`
	Tags            string                 `json:"tags"`
	Location        string                 `json:"location"`
	AccountID       *uint                  `json:"account_id"`
	GoalID          *uint                  `json:"goal_id"`
}

// validateCore collects field errors shared by create and update
func validateTransactionFields(amount decimal.Decimal, ttype models.TransactionType, description, date string) (time.Time, ValidationErrors) {
	errs := ValidationErrors{}

	if !ttype.Valid() {
		errs["type"] = "type must be income or expense"
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		errs["amount"] = "amount must be greater than zero"
	}
	if strings.TrimSpace(description) == "" {
		errs["description"] = "description is required"
	}

	var parsed time.Time
	if date == "" {
		errs["transaction_date"] = "transaction date is required"
	} else {
		var err error
		parsed, err = time.Parse(dateLayout, date)
		if err != nil {
			errs["transaction_date"] = "transaction date must be YYYY-MM-DD"
		}
	}

	if len(errs) == 0 {
		return parsed, nil
	}
	return parsed, errs
}

// Create validates and stores a transaction, updating any linked account
// balance and goal progress in the same unit of work.
func (s *TransactionService) Create(userID uint, req *CreateTransactionRequest) (*models.Transaction, error) {
	date, errs := validateTransactionFields(req.Amount, req.Type, req.Description, req.TransactionDate)
	if errs != nil {
		return nil, errs
	}

	// Ownership before anything else; an unowned category reads as absent.
	category, err := s.categoryRepo.GetByIDAndUserID(req.CategoryID, userID)
	if err != nil {
		return nil, err
	}
	if models.TransactionType(category.Type) != req.Type {
		return nil, ValidationErrors{"category_id": "category type does not match transaction type"}
	}

	if req.AccountID != nil {
		if _, err := s.accountRepo.GetByIDAndUserID(*req.AccountID, userID); err != nil {
			return nil, err
		}
	}
	if req.GoalID != nil {
		goal, err := s.goalRepo.GetByIDAndUserID(*req.GoalID, userID)
		if err != nil {
			return nil, err
		}
		if goal.Status != models.GoalStatusActive {
			return nil, ErrGoalNotActive
		}
	}

	transaction := &models.Transaction{
		UserID:          userID,
		CategoryID:      category.ID,
		AccountID:       req.AccountID,
		GoalID:          req.GoalID,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     strings.TrimSpace(req.Description),
		TransactionDate: date,
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
		Tags:            req.Tags,
		Location:        req.Location,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.WithTx(tx).Create(transaction); err != nil {
			return err
		}
		if transaction.AccountID != nil {
			if err := s.recomputeAccount(tx, userID, *transaction.AccountID); err != nil {
				return err
			}
		}
		if transaction.GoalID != nil {
			contribution := &models.GoalContribution{
				GoalID:        *transaction.GoalID,
				UserID:        userID,
				TransactionID: &transaction.ID,
				Amount:        transaction.Amount,
				ContributedAt: time.Now(),
			}
			if err := s.goalRepo.WithTx(tx).CreateContribution(contribution); err != nil {
				return err
			}
			if err := s.recomputeGoal(tx, userID, *transaction.GoalID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	transaction.Category = *category
	return transaction, nil
}

// UpdateTransactionRequest represents the partial update payload
type UpdateTransactionRequest struct {
	CategoryID      *uint                   `json:"category_id"`
	Type            *models.TransactionType `json:"type"`
	Amount          *decimal.Decimal        `json:"amount"`
	Description     *string                 `json:"description"`
	TransactionDate *string                 `json:"transaction_date"`
	Notes           *string                 `json:"notes"`
	PaymentMethod   *string                 `json:"payment_method"`
	Tags            *string                 `json:"tags"`
	Location        *string                 `json:"location"`
}

// Update applies a partial update, then recomputes the linked account
// balance and goal progress when the money fields moved.
func (s *TransactionService) Update(userID, transactionID uint, req *UpdateTransactionRequest) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByIDAndUserID(transactionID, userID)
	if err != nil {
		return nil, err
	}

	next := *transaction
	if req.Type != nil {
		next.Type = *req.Type
	}
	if req.Amount != nil {
		next.Amount = *req.Amount
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	dateStr := next.TransactionDate.Format(dateLayout)
	if req.TransactionDate != nil {
		dateStr = *req.TransactionDate
	}

	date, errs := validateTransactionFields(next.Amount, next.Type, next.Description, dateStr)
	if errs != nil {
		return nil, errs
	}
	next.TransactionDate = date

	if req.CategoryID != nil {
		next.CategoryID = *req.CategoryID
	}
	category, err := s.categoryRepo.GetByIDAndUserID(next.CategoryID, userID)
	if err != nil {
		return nil, err
	}
	if models.TransactionType(category.Type) != next.Type {
		return nil, ValidationErrors{"category_id": "category type does not match transaction type"}
	}

	if req.Notes != nil {
		next.Notes = *req.Notes
	}
	if req.PaymentMethod != nil {
		next.PaymentMethod = *req.PaymentMethod
	}
	if req.Tags != nil {
		next.Tags = *req.Tags
	}
	if req.Location != nil {
		next.Location = *req.Location
	}

	moneyMoved := !next.Amount.Equal(transaction.Amount) || next.Type != transaction.Type

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.WithTx(tx).Update(&next); err != nil {
			return err
		}
		if moneyMoved && next.AccountID != nil {
			if err := s.recomputeAccount(tx, userID, *next.AccountID); err != nil {
				return err
			}
		}
		if moneyMoved && next.GoalID != nil {
			goalRepo := s.goalRepo.WithTx(tx)
			contributions, err := goalRepo.GetContributionsByTransactionID(userID, next.ID)
			if err != nil {
				return err
			}
			for i := range contributions {
				contributions[i].Amount = next.Amount
				if err := tx.Save(&contributions[i]).Error; err != nil {
					return err
				}
			}
			if err := s.recomputeGoal(tx, userID, *next.GoalID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	next.Category = *category
	return &next, nil
}

// Delete removes a transaction. Contributions it funded are removed and the
// dependent account balance and goal progress are recomputed atomically.
func (s *TransactionService) Delete(userID, transactionID uint) error {
	transaction, err := s.transactionRepo.GetByIDAndUserID(transactionID, userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		goalRepo := s.goalRepo.WithTx(tx)

		contributions, err := goalRepo.GetContributionsByTransactionID(userID, transactionID)
		if err != nil {
			return err
		}
		for i := range contributions {
			if err := goalRepo.DeleteContribution(contributions[i].ID); err != nil {
				return err
			}
		}

		if err := s.transactionRepo.WithTx(tx).Delete(transactionID, userID); err != nil {
			return err
		}

		if transaction.AccountID != nil {
			if err := s.recomputeAccount(tx, userID, *transaction.AccountID); err != nil {
				return err
			}
		}
		for i := range contributions {
			if err := s.recomputeGoal(tx, userID, contributions[i].GoalID); err != nil {
				return err
			}
		}
		return nil
	})
}

// recomputeAccount rebuilds an account's derived balance from its full
// transaction set. The row is locked for the duration of the surrounding
// transaction so concurrent writers cannot interleave stale sums.
func (s *TransactionService) recomputeAccount(tx *gorm.DB, userID, accountID uint) error {
	accountRepo := s.accountRepo.WithTx(tx)

	account, err := accountRepo.GetByIDForUpdate(accountID, userID)
	if err != nil {
		return err
	}

	transactions, err := s.transactionRepo.WithTx(tx).GetByAccountID(userID, accountID)
	if err != nil {
		return err
	}

	account.CurrentBalance = account.ComputeBalance(transactions)
	return accountRepo.Update(account)
}

// recomputeGoal rebuilds a goal's current amount from its contribution set.
// Completion latches: a completed goal never reverts, even if contributions
// funding it are later removed.
func (s *TransactionService) recomputeGoal(tx *gorm.DB, userID, goalID uint) error {
	goalRepo := s.goalRepo.WithTx(tx)

	goal, err := goalRepo.GetByIDForUpdate(goalID, userID)
	if err != nil {
		return err
	}

	contributions, err := goalRepo.GetContributions(goalID, userID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for i := range contributions {
		total = total.Add(contributions[i].Amount)
	}

	goal.CurrentAmount = total
	if goal.Status == models.GoalStatusActive && total.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = models.GoalStatusCompleted
	}
	return goalRepo.Update(goal)
}

// List retrieves a page of the user's transactions
func (s *TransactionService) List(userID uint, filter repository.TransactionFilter, page, perPage int) ([]models.Transaction, int64, error) {
	return s.transactionRepo.List(userID, filter, page, perPage)
}

// Get retrieves a single transaction owned by the user
func (s *TransactionService) Get(userID, transactionID uint) (*models.Transaction, error) {
	return s.transactionRepo.GetByIDAndUserID(transactionID, userID)
}

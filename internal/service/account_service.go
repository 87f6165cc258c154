package service

import (
	"errors"
	"strings"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNameTaken = errors.New("account name already used")
)

// AccountService handles balance-container accounts. The current balance is
// owned by TransactionService's recompute step; this service never writes it
// except to seed it from the initial balance or rebase it when the initial
// balance changes.
type AccountService struct {
	db              *gorm.DB
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(
	db *gorm.DB,
	accountRepo *repository.AccountRepository,
	transactionRepo *repository.TransactionRepository,
) *AccountService {
	return &AccountService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// AccountRequest represents the create/update payload. There is
// intentionally no current_balance field.
type AccountRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (r *AccountRequest) validate() ValidationErrors {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ValidationErrors{"name": "name is required"}
	}
	return nil
}

// Create creates an account, seeding the derived balance from the initial one
func (s *AccountService) Create(userID uint, req *AccountRequest) (*models.Account, error) {
	if errs := req.validate(); errs != nil {
		return nil, errs
	}

	taken, err := s.accountRepo.ExistsByName(userID, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrAccountNameTaken
	}

	account := &models.Account{
		UserID:         userID,
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update renames an account and adjusts its initial balance, rebasing the
// derived balance from the linked transaction set. The rebase runs with the
// account row locked so a concurrent transaction recompute cannot be
// overwritten with a stale balance.
func (s *AccountService) Update(userID, accountID uint, req *AccountRequest) (*models.Account, error) {
	if errs := req.validate(); errs != nil {
		return nil, errs
	}

	taken, err := s.accountRepo.ExistsByName(userID, req.Name, accountID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrAccountNameTaken
	}

	var account *models.Account
	err = s.db.Transaction(func(tx *gorm.DB) error {
		accounts := s.accountRepo.WithTx(tx)

		var err error
		account, err = accounts.GetByIDForUpdate(accountID, userID)
		if err != nil {
			return err
		}

		account.Name = req.Name
		if !account.InitialBalance.Equal(req.InitialBalance) {
			account.InitialBalance = req.InitialBalance
			transactions, err := s.transactionRepo.WithTx(tx).GetByAccountID(userID, accountID)
			if err != nil {
				return err
			}
			account.CurrentBalance = account.ComputeBalance(transactions)
		}

		return accounts.Update(account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account; its transactions are detached, not deleted
func (s *AccountService) Delete(userID, accountID uint) error {
	return s.accountRepo.Delete(accountID, userID)
}

// List retrieves the user's accounts
func (s *AccountService) List(userID uint) ([]models.Account, error) {
	return s.accountRepo.GetByUserID(userID)
}

// Get retrieves a single account owned by the user
func (s *AccountService) Get(userID, accountID uint) (*models.Account, error) {
	return s.accountRepo.GetByIDAndUserID(accountID, userID)
}

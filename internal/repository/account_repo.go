package repository

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// AccountRepository handles account data access
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *AccountRepository) WithTx(tx *gorm.DB) *AccountRepository {
	return &AccountRepository{db: tx}
}

// Create creates a new account
func (r *AccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByIDAndUserID retrieves an account owned by the user
func (r *AccountRepository) GetByIDAndUserID(id, userID uint) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}
	return &account, nil
}

// GetByIDForUpdate retrieves an account under a row-level lock. Must run
// inside a transaction; serializes concurrent balance recomputations.
func (r *AccountRepository) GetByIDForUpdate(id, userID uint) (*models.Account, error) {
	var account models.Account
	result := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}
	return &account, nil
}

// GetByUserID retrieves all accounts for a user ordered by name
func (r *AccountRepository) GetByUserID(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	result := r.db.Where("user_id = ?", userID).Order("name").Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}
	return accounts, nil
}

// ExistsByName checks the per-user account name uniqueness rule
func (r *AccountRepository) ExistsByName(userID uint, name string, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Account{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Update persists all fields of the account
func (r *AccountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}

// Delete removes an account owned by the user. Linked transactions are
// detached (account_id set to NULL), not deleted. Detach and delete commit
// together or not at all.
func (r *AccountRepository) Delete(id, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND account_id = ?", userID, id).
			Update("account_id", nil).Error
		if err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Account{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

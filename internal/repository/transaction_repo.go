package repository

import (
	"errors"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionRepository handles transaction data access, always scoped by the
// owning user id.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	return r.db.Create(transaction).Error
}

// GetByIDAndUserID retrieves a transaction owned by the user
func (r *TransactionRepository) GetByIDAndUserID(id, userID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	result := r.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return &transaction, nil
}

// TransactionFilter narrows List results
type TransactionFilter struct {
	Search     string
	Type       models.TransactionType
	CategoryID uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

func (r *TransactionRepository) filtered(userID uint, filter TransactionFilter) *gorm.DB {
	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date <= ?", *filter.DateTo)
	}
	return query
}

// List retrieves a page of the user's transactions, newest first
// (transaction date descending, ties broken by creation time descending).
func (r *TransactionRepository) List(userID uint, filter TransactionFilter, page, perPage int) ([]models.Transaction, int64, error) {
	query := r.filtered(userID, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.Transaction
	err := query.Preload("Category").
		Order("transaction_date DESC, created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// ListAll retrieves every matching transaction for aggregation, oldest first
func (r *TransactionRepository) ListAll(userID uint, filter TransactionFilter) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.filtered(userID, filter).
		Order("transaction_date, created_at").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetRecent retrieves the user's most recently created transactions
func (r *TransactionRepository) GetRecent(userID uint, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetByAccountID retrieves all transactions linked to an account, for
// derived-balance recomputation
func (r *TransactionRepository) GetByAccountID(userID, accountID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("user_id = ? AND account_id = ?", userID, accountID).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Update persists all fields of the transaction
func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	return r.db.Save(transaction).Error
}

// Delete removes a transaction owned by the user
func (r *TransactionRepository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// CountByCategoryID counts the user's transactions referencing a category.
// Categories with a non-zero count must not be deleted.
func (r *TransactionRepository) CountByCategoryID(userID, categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error
	return count, err
}

// CountByUserID counts the user's transactions
func (r *TransactionRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

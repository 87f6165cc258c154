package repository

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository handles category data access. Every query is scoped by
// the owning user id; there is deliberately no lookup by primary key alone.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

// Create creates a new category
func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// CreateBatch inserts several categories in one statement
func (r *CategoryRepository) CreateBatch(categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.Create(&categories).Error
}

// GetByIDAndUserID retrieves a category owned by the user
func (r *CategoryRepository) GetByIDAndUserID(id, userID uint) (*models.Category, error) {
	var category models.Category
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// CategoryFilter narrows List results
type CategoryFilter struct {
	Search string
	Type   models.CategoryType
}

// List retrieves the user's categories ordered by type then name
func (r *CategoryRepository) List(userID uint, filter CategoryFilter) ([]models.Category, error) {
	query := r.db.Where("user_id = ?", userID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var categories []models.Category
	if err := query.Order("type, name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByType retrieves the user's categories of one type ordered by name
func (r *CategoryRepository) GetByType(userID uint, ctype models.CategoryType) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("user_id = ? AND type = ?", userID, ctype).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// ExistsByNameAndType checks the per-(user, name, type) uniqueness rule.
// excludeID skips the row being updated; pass 0 on create.
func (r *CategoryRepository) ExistsByNameAndType(userID uint, name string, ctype models.CategoryType, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, ctype)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Update persists all fields of the category
func (r *CategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete removes a category owned by the user
func (r *CategoryRepository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CountByUserID counts the user's categories
func (r *CategoryRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

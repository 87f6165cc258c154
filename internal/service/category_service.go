package service

import (
	"errors"
	"strings"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
)

var (
	ErrCategoryNameTaken = errors.New("category name already used for this type")
	ErrCategoryInUse     = errors.New("category has transactions and cannot be deleted")
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo    *repository.CategoryRepository
	transactionRepo *repository.TransactionRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo *repository.CategoryRepository,
	transactionRepo *repository.TransactionRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// CategoryRequest represents the create/update payload
type CategoryRequest struct {
	Name        string              `json:"name"`
	Type        models.CategoryType `json:"type"`
	Description string              `json:"description"`
	Color       string              `json:"color"`
	Icon        string              `json:"icon"`
}

func (r *CategoryRequest) validate(requireType bool) ValidationErrors {
	errs := ValidationErrors{}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs["name"] = "name is required"
	} else if len(r.Name) > 100 {
		errs["name"] = "name must be at most 100 characters"
	}
	if requireType && !r.Type.Valid() {
		errs["type"] = "type must be income or expense"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Create creates a category for the user, enforcing (user, name, type)
// uniqueness.
func (s *CategoryService) Create(userID uint, req *CategoryRequest) (*models.Category, error) {
	if errs := req.validate(true); errs != nil {
		return nil, errs
	}

	taken, err := s.categoryRepo.ExistsByNameAndType(userID, req.Name, req.Type, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	category := &models.Category{
		UserID:      userID,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	}
	if category.Color == "" {
		category.Color = "#007bff"
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update edits a category's display fields. The type is immutable once
// created; changing it would silently re-sign existing transactions.
func (s *CategoryService) Update(userID, categoryID uint, req *CategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		return nil, err
	}

	if errs := req.validate(false); errs != nil {
		return nil, errs
	}

	taken, err := s.categoryRepo.ExistsByNameAndType(userID, req.Name, category.Type, categoryID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.Color != "" {
		category.Color = req.Color
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Rejected while any transaction references it;
// both rows stay intact.
func (s *CategoryService) Delete(userID, categoryID uint) error {
	if _, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID); err != nil {
		return err
	}

	count, err := s.transactionRepo.CountByCategoryID(userID, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.categoryRepo.Delete(categoryID, userID)
}

// List retrieves the user's categories with optional search/type filters
func (s *CategoryService) List(userID uint, filter repository.CategoryFilter) ([]models.Category, error) {
	return s.categoryRepo.List(userID, filter)
}

// GetByType retrieves the user's categories of one type
func (s *CategoryService) GetByType(userID uint, ctype models.CategoryType) ([]models.Category, error) {
	return s.categoryRepo.GetByType(userID, ctype)
}

// Get retrieves a single category owned by the user
func (s *CategoryService) Get(userID, categoryID uint) (*models.Category, error) {
	return s.categoryRepo.GetByIDAndUserID(categoryID, userID)
}

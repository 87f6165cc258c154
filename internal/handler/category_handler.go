package handler

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category API requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns the user's categories, optionally filtered by search text
// and type
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	filter := repository.CategoryFilter{
		Search: c.Query("search"),
		Type:   models.CategoryType(c.Query("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		response.BadRequest(c, "type must be income or expense")
		return
	}

	categories, err := h.categoryService.List(middleware.GetUserID(c), filter)
	if err != nil {
		response.InternalError(c, "failed to list categories")
		return
	}

	response.Success(c, categories)
}

// ListByType returns a compact list used to populate transaction forms
// GET /api/v1/categories/type/:type
func (h *CategoryHandler) ListByType(c *gin.Context) {
	ctype := models.CategoryType(c.Param("type"))
	if !ctype.Valid() {
		response.BadRequest(c, "type must be income or expense")
		return
	}

	categories, err := h.categoryService.GetByType(middleware.GetUserID(c), ctype)
	if err != nil {
		response.InternalError(c, "failed to list categories")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		items = append(items, gin.H{
			"id":    cat.ID,
			"name":  cat.Name,
			"icon":  cat.Icon,
			"color": cat.Color,
		})
	}

	response.Success(c, items)
}

// Get returns a single category
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.InternalError(c, "failed to get category")
		return
	}

	response.Success(c, category)
}

// Create adds a new category
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, service.ErrCategoryNameTaken) {
			response.Conflict(c, "a category with this name and type already exists")
			return
		}
		response.InternalError(c, "failed to create category")
		return
	}

	response.Created(c, category)
}

// Update edits a category's name, color or icon. The type is fixed at
// creation.
// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Update(middleware.GetUserID(c), id, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNameTaken) {
			response.Conflict(c, "a category with this name and type already exists")
			return
		}
		response.InternalError(c, "failed to update category")
		return
	}

	response.Success(c, category)
}

// Delete removes a category that has no transactions
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		if errors.Is(err, service.ErrCategoryInUse) {
			response.Conflict(c, "category has transactions and cannot be deleted")
			return
		}
		response.InternalError(c, "failed to delete category")
		return
	}

	response.Success(c, gin.H{"message": "category deleted"})
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/type/:type", h.ListByType)
		categories.GET("/:id", h.Get)
		categories.POST("", h.Create)
		categories.PUT("/:id", h.Update)
		categories.DELETE("/:id", h.Delete)
	}
}

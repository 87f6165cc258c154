package handler

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

// BudgetHandler handles budget API requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// List returns the user's budgets with spending evaluated against each
// GET /api/v1/budgets
func (h *BudgetHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "false") == "true"

	budgets, err := h.budgetService.List(middleware.GetUserID(c), activeOnly)
	if err != nil {
		response.InternalError(c, "failed to list budgets")
		return
	}
	response.Success(c, budgets)
}

// Get returns a single budget with its evaluated status
// GET /api/v1/budgets/:id
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	status, err := h.budgetService.Get(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			response.NotFound(c, "budget not found")
			return
		}
		response.InternalError(c, "failed to get budget")
		return
	}
	response.Success(c, status)
}

// Create adds a new budget
// POST /api/v1/budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	var req service.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	budget, err := h.budgetService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.InternalError(c, "failed to create budget")
		return
	}

	response.Created(c, budget)
}

// Update edits a budget
// PUT /api/v1/budgets/:id
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	budget, err := h.budgetService.Update(middleware.GetUserID(c), id, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrBudgetNotFound) {
			response.NotFound(c, "budget not found")
			return
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.InternalError(c, "failed to update budget")
		return
	}

	response.Success(c, budget)
}

// Delete removes a budget
// DELETE /api/v1/budgets/:id
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.budgetService.Delete(middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			response.NotFound(c, "budget not found")
			return
		}
		response.InternalError(c, "failed to delete budget")
		return
	}

	response.Success(c, gin.H{"message": "budget deleted"})
}

// RegisterRoutes registers budget routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.List)
		budgets.GET("/:id", h.Get)
		budgets.POST("", h.Create)
		budgets.PUT("/:id", h.Update)
		budgets.DELETE("/:id", h.Delete)
	}
}

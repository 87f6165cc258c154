package handler

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/notify"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

// GoalHandler handles savings goal API requests
type GoalHandler struct {
	goalService *service.GoalService
	hub         *notify.Hub
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService, hub *notify.Hub) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		hub:         hub,
	}
}

func (h *GoalHandler) notifyChanged(userID uint) {
	h.hub.Push(userID, notify.Event{Type: "goals.changed"})
}

// List returns the user's goals, optionally filtered by status
// GET /api/v1/goals
func (h *GoalHandler) List(c *gin.Context) {
	var statuses []models.GoalStatus
	if raw := c.Query("status"); raw != "" {
		status := models.GoalStatus(raw)
		if !status.Valid() {
			response.BadRequest(c, "invalid status")
			return
		}
		statuses = append(statuses, status)
	}

	goals, err := h.goalService.List(middleware.GetUserID(c), statuses...)
	if err != nil {
		response.InternalError(c, "failed to list goals")
		return
	}
	response.Success(c, goals)
}

// Get returns a single goal
// GET /api/v1/goals/:id
func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	goal, err := h.goalService.Get(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			response.NotFound(c, "goal not found")
			return
		}
		response.InternalError(c, "failed to get goal")
		return
	}
	response.Success(c, goal)
}

// Create adds a new goal in active status
// POST /api/v1/goals
func (h *GoalHandler) Create(c *gin.Context) {
	var req service.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	goal, err := h.goalService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		response.InternalError(c, "failed to create goal")
		return
	}

	response.Created(c, goal)
}

// Update edits a goal's name, description, target amount or target date
// PUT /api/v1/goals/:id
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	goal, err := h.goalService.Update(userID, id, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrGoalNotFound) {
			response.NotFound(c, "goal not found")
			return
		}
		if errors.Is(err, service.ErrInvalidGoalTransition) {
			response.Conflict(c, "goal is completed or cancelled and cannot be edited")
			return
		}
		response.InternalError(c, "failed to update goal")
		return
	}

	h.notifyChanged(userID)
	response.Success(c, goal)
}

// Delete removes a goal and its contribution history
// DELETE /api/v1/goals/:id
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.goalService.Delete(userID, id); err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			response.NotFound(c, "goal not found")
			return
		}
		response.InternalError(c, "failed to delete goal")
		return
	}

	h.notifyChanged(userID)
	response.Success(c, gin.H{"message": "goal deleted"})
}

// AddContribution records a contribution toward an active goal
// POST /api/v1/goals/:id/contributions
func (h *GoalHandler) AddContribution(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	goal, err := h.goalService.AddContribution(userID, id, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrGoalNotFound) {
			response.NotFound(c, "goal not found")
			return
		}
		if errors.Is(err, service.ErrGoalNotActive) {
			response.Conflict(c, "goal is not active")
			return
		}
		response.InternalError(c, "failed to add contribution")
		return
	}

	h.notifyChanged(userID)
	response.Created(c, goal)
}

// Contributions returns a goal's contribution history, newest first
// GET /api/v1/goals/:id/contributions
func (h *GoalHandler) Contributions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contributions, err := h.goalService.Contributions(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			response.NotFound(c, "goal not found")
			return
		}
		response.InternalError(c, "failed to list contributions")
		return
	}
	response.Success(c, contributions)
}

// UpdateStatus transitions a goal between active, paused and cancelled.
// Completed is reached only by contributions, never by request.
// PUT /api/v1/goals/:id/status
func (h *GoalHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.GoalStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !req.Status.Valid() {
		response.BadRequest(c, "invalid status")
		return
	}

	userID := middleware.GetUserID(c)
	goal, err := h.goalService.UpdateStatus(userID, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			response.NotFound(c, "goal not found")
			return
		}
		if errors.Is(err, service.ErrInvalidGoalTransition) {
			response.Conflict(c, "status transition not allowed")
			return
		}
		response.InternalError(c, "failed to update goal status")
		return
	}

	h.notifyChanged(userID)
	response.Success(c, goal)
}

// RegisterRoutes registers goal routes
func (h *GoalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	goals := rg.Group("/goals")
	{
		goals.GET("", h.List)
		goals.GET("/:id", h.Get)
		goals.POST("", h.Create)
		goals.PUT("/:id", h.Update)
		goals.DELETE("/:id", h.Delete)
		goals.POST("/:id/contributions", h.AddContribution)
		goals.GET("/:id/contributions", h.Contributions)
		goals.PUT("/:id/status", h.UpdateStatus)
	}
}

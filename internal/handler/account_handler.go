package handler

import (
	"errors"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles account API requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List returns the user's accounts with their derived balances
// GET /api/v1/accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.List(middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "failed to list accounts")
		return
	}
	response.Success(c, accounts)
}

// Get returns a single account
// GET /api/v1/accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.InternalError(c, "failed to get account")
		return
	}
	response.Success(c, account)
}

// Create adds a new account. The current balance starts at the initial
// balance; it is never set directly.
// POST /api/v1/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req service.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, service.ErrAccountNameTaken) {
			response.Conflict(c, "an account with this name already exists")
			return
		}
		response.InternalError(c, "failed to create account")
		return
	}

	response.Created(c, account)
}

// Update edits an account; changing the initial balance rebases the derived
// current balance
// PUT /api/v1/accounts/:id
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Update(middleware.GetUserID(c), id, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		if errors.Is(err, service.ErrAccountNameTaken) {
			response.Conflict(c, "an account with this name already exists")
			return
		}
		response.InternalError(c, "failed to update account")
		return
	}

	response.Success(c, account)
}

// Delete removes an account; its transactions survive, detached
// DELETE /api/v1/accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.Delete(middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.InternalError(c, "failed to delete account")
		return
	}

	response.Success(c, gin.H{"message": "account deleted"})
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.List)
		accounts.GET("/:id", h.Get)
		accounts.POST("", h.Create)
		accounts.PUT("/:id", h.Update)
		accounts.DELETE("/:id", h.Delete)
	}
}

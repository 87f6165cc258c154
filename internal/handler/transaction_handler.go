package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/notify"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// TransactionHandler handles transaction API requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	hub                *notify.Hub
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, hub *notify.Hub) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		hub:                hub,
	}
}

func (h *TransactionHandler) notifyChanged(userID uint) {
	h.hub.Push(userID, notify.Event{Type: "transactions.changed"})
}

func parsePagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func parseTransactionFilter(c *gin.Context) (repository.TransactionFilter, error) {
	filter := repository.TransactionFilter{
		Search: c.Query("search"),
		Type:   models.TransactionType(c.Query("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return filter, errors.New("type must be income or expense")
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, errors.New("invalid category_id")
		}
		filter.CategoryID = uint(id)
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"date_from", &filter.DateFrom},
		{"date_to", &filter.DateTo},
	} {
		if raw := c.Query(q.name); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return filter, errors.New(q.name + " must be YYYY-MM-DD")
			}
			*q.dst = &t
		}
	}
	return filter, nil
}

// List returns a filtered, paginated page of the user's transactions,
// newest first
// GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, perPage := parsePagination(c)

	transactions, total, err := h.transactionService.List(middleware.GetUserID(c), filter, page, perPage)
	if err != nil {
		response.InternalError(c, "failed to list transactions")
		return
	}

	response.SuccessPaginated(c, transactions, total, page, perPage)
}

// Get returns a single transaction
// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	transaction, err := h.transactionService.Get(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			response.NotFound(c, "transaction not found")
			return
		}
		response.InternalError(c, "failed to get transaction")
		return
	}

	response.Success(c, transaction)
}

// Create records a new transaction, updating any linked account balance and
// goal progress in the same database transaction
// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	transaction, err := h.transactionService.Create(userID, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
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
		response.InternalError(c, "failed to create transaction")
		return
	}

	h.notifyChanged(userID)
	response.Created(c, transaction)
}

// Update applies a partial edit and keeps derived balances in sync
// PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	transaction, err := h.transactionService.Update(userID, id, &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, repository.ErrTransactionNotFound) {
			response.NotFound(c, "transaction not found")
			return
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.InternalError(c, "failed to update transaction")
		return
	}

	h.notifyChanged(userID)
	response.Success(c, transaction)
}

// Delete removes a transaction and rolls its effect out of any linked
// account balance and goal progress
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.transactionService.Delete(userID, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			response.NotFound(c, "transaction not found")
			return
		}
		response.InternalError(c, "failed to delete transaction")
		return
	}

	h.notifyChanged(userID)
	response.Success(c, gin.H{"message": "transaction deleted"})
}

// RegisterRoutes registers transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.List)
		transactions.GET("/:id", h.Get)
		transactions.POST("", h.Create)
		transactions.PUT("/:id", h.Update)
		transactions.DELETE("/:id", h.Delete)
	}
}

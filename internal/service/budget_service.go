package service

import (
	"strings"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/shopspring/decimal"
)

// BudgetService handles budgets and their on-demand evaluation
type BudgetService struct {
	budgetRepo      *repository.BudgetRepository
	categoryRepo    *repository.CategoryRepository
	transactionRepo *repository.TransactionRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo *repository.BudgetRepository,
	categoryRepo *repository.CategoryRepository,
	transactionRepo *repository.TransactionRepository,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// BudgetRequest represents the create/update payload
type BudgetRequest struct {
	Name            string              `json:"name"`
	Amount          decimal.Decimal     `json:"amount"`
	Period          models.BudgetPeriod `json:"period"`
	CategoryID      *uint               `json:"category_id"`
	StartDate       string              `json:"start_date"`
	EndDate         string              `json:"end_date"`
	AlertPercentage *decimal.Decimal    `json:"alert_percentage"`
}

func (r *BudgetRequest) validate() (start, end time.Time, errs ValidationErrors) {
	errs = ValidationErrors{}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs["name"] = "name is required"
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs["amount"] = "amount must be greater than zero"
	}
	if !r.Period.Valid() {
		errs["period"] = "period must be weekly, monthly or yearly"
	}

	var err error
	if r.StartDate == "" {
		errs["start_date"] = "start date is required"
	} else if start, err = time.Parse(dateLayout, r.StartDate); err != nil {
		errs["start_date"] = "start date must be YYYY-MM-DD"
	}
	if r.EndDate == "" {
		errs["end_date"] = "end date is required"
	} else if end, err = time.Parse(dateLayout, r.EndDate); err != nil {
		errs["end_date"] = "end date must be YYYY-MM-DD"
	}
	if len(errs) == 0 && end.Before(start) {
		errs["end_date"] = "end date must not precede start date"
	}

	if r.AlertPercentage != nil {
		if r.AlertPercentage.IsNegative() || r.AlertPercentage.GreaterThan(decimal.NewFromInt(100)) {
			errs["alert_percentage"] = "alert percentage must be between 0 and 100"
		}
	}

	if len(errs) == 0 {
		errs = nil
	}
	return start, end, errs
}

// Create creates a budget; a category restriction must reference an owned
// expense category.
func (s *BudgetService) Create(userID uint, req *BudgetRequest) (*models.Budget, error) {
	start, end, errs := req.validate()
	if errs != nil {
		return nil, errs
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByIDAndUserID(*req.CategoryID, userID)
		if err != nil {
			return nil, err
		}
		if category.Type != models.CategoryTypeExpense {
			return nil, ValidationErrors{"category_id": "budgets track expense categories only"}
		}
	}

	budget := &models.Budget{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Amount:          req.Amount,
		Period:          req.Period,
		StartDate:       start,
		EndDate:         end,
		AlertPercentage: req.AlertPercentage,
		IsActive:        true,
	}

	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Update edits a budget
func (s *BudgetService) Update(userID, budgetID uint, req *BudgetRequest) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByIDAndUserID(budgetID, userID)
	if err != nil {
		return nil, err
	}

	start, end, errs := req.validate()
	if errs != nil {
		return nil, errs
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByIDAndUserID(*req.CategoryID, userID)
		if err != nil {
			return nil, err
		}
		if category.Type != models.CategoryTypeExpense {
			return nil, ValidationErrors{"category_id": "budgets track expense categories only"}
		}
	}

	budget.Name = req.Name
	budget.Amount = req.Amount
	budget.Period = req.Period
	budget.CategoryID = req.CategoryID
	budget.StartDate = start
	budget.EndDate = end
	budget.AlertPercentage = req.AlertPercentage

	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Delete removes a budget
func (s *BudgetService) Delete(userID, budgetID uint) error {
	return s.budgetRepo.Delete(budgetID, userID)
}

// BudgetStatus is a budget with its computed evaluation
type BudgetStatus struct {
	models.Budget
	Spent       decimal.Decimal `json:"spent"`
	PercentUsed decimal.Decimal `json:"percent_used"`
	Remaining   decimal.Decimal `json:"remaining"`
	OverBudget  bool            `json:"over_budget"`
	Alert       bool            `json:"alert"`
}

// Evaluate computes the live status of one budget
func (s *BudgetService) Evaluate(userID uint, budget *models.Budget) (*BudgetStatus, error) {
	filter := repository.TransactionFilter{
		Type:     models.TransactionTypeExpense,
		DateFrom: &budget.StartDate,
		DateTo:   &budget.EndDate,
	}
	if budget.CategoryID != nil {
		filter.CategoryID = *budget.CategoryID
	}

	transactions, err := s.transactionRepo.ListAll(userID, filter)
	if err != nil {
		return nil, err
	}

	spent := SumExpenses(transactions)
	percentUsed := budget.PercentUsed(spent)

	status := &BudgetStatus{
		Budget:      *budget,
		Spent:       spent,
		PercentUsed: percentUsed,
		Remaining:   budget.Remaining(spent),
		OverBudget:  spent.GreaterThan(budget.Amount),
	}
	if budget.AlertPercentage != nil {
		status.Alert = percentUsed.GreaterThanOrEqual(*budget.AlertPercentage)
	}
	return status, nil
}

// List retrieves the user's budgets with their computed status
func (s *BudgetService) List(userID uint, activeOnly bool) ([]BudgetStatus, error) {
	budgets, err := s.budgetRepo.GetByUserID(userID, activeOnly)
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for i := range budgets {
		status, err := s.Evaluate(userID, &budgets[i])
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

// Get retrieves one budget with its computed status
func (s *BudgetService) Get(userID, budgetID uint) (*BudgetStatus, error) {
	budget, err := s.budgetRepo.GetByIDAndUserID(budgetID, userID)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(userID, budget)
}

package service

import (
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
)

// DashboardService produces read-only aggregation views
type DashboardService struct {
	transactionRepo *repository.TransactionRepository
	categoryRepo    *repository.CategoryRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	transactionRepo *repository.TransactionRepository,
	categoryRepo *repository.CategoryRepository,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Summary is the dashboard headline view
type Summary struct {
	Totals
	TotalCategories    int64                `json:"total_categories"`
	TotalTransactions  int64                `json:"total_transactions"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// GetSummary computes the totals for an optional named period plus counts
// and the five most recent transactions.
func (s *DashboardService) GetSummary(userID uint, period string) (*Summary, error) {
	from, to := DateRange(period, time.Now())

	transactions, err := s.transactionRepo.ListAll(userID, repository.TransactionFilter{
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}

	categoryCount, err := s.categoryRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	transactionCount, err := s.transactionRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.transactionRepo.GetRecent(userID, 5)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Totals:             SumTransactions(transactions),
		TotalCategories:    categoryCount,
		TotalTransactions:  transactionCount,
		RecentTransactions: recent,
	}, nil
}

// GetByCategory computes per-category totals for an optional named period
func (s *DashboardService) GetByCategory(userID uint, period string) ([]CategoryTotal, error) {
	from, to := DateRange(period, time.Now())

	transactions, err := s.transactionRepo.ListAll(userID, repository.TransactionFilter{
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}

	// ListAll does not preload categories; SumByCategory needs names.
	if err := s.attachCategories(userID, transactions); err != nil {
		return nil, err
	}
	return SumByCategory(transactions), nil
}

func (s *DashboardService) attachCategories(userID uint, transactions []models.Transaction) error {
	categories, err := s.categoryRepo.List(userID, repository.CategoryFilter{})
	if err != nil {
		return err
	}
	byID := make(map[uint]models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = categories[i]
	}
	for i := range transactions {
		transactions[i].Category = byID[transactions[i].CategoryID]
	}
	return nil
}

// GetMonthly computes month-bucketed totals over the last twelve months
func (s *DashboardService) GetMonthly(userID uint) ([]MonthlyTotal, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	transactions, err := s.transactionRepo.ListAll(userID, repository.TransactionFilter{
		DateFrom: &from,
	})
	if err != nil {
		return nil, err
	}
	return SumByMonth(transactions), nil
}

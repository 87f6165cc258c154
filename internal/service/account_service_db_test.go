package service

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// These tests need a disposable postgres; set TEST_DATABASE_DSN to run them,
// e.g. "host=localhost user=coinctrl password=coinctrl dbname=coinctrl_test
// sslmode=disable".
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Account{},
	))
	return db
}

func seedAccountFixture(t *testing.T, db *gorm.DB) (*models.User, *models.Account, *models.Transaction) {
	t.Helper()

	suffix := time.Now().UnixNano()
	user := &models.User{
		Email:        fmt.Sprintf("fixture%d@test.local", suffix),
		Username:     fmt.Sprintf("fixture%d", suffix),
		PasswordHash: "x",
		FirstName:    "Fixture",
		AuthProvider: models.AuthProviderLocal,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	category := &models.Category{
		UserID: user.ID,
		Name:   "Salary",
		Type:   models.CategoryTypeIncome,
	}
	require.NoError(t, db.Create(category).Error)

	account := &models.Account{
		UserID:         user.ID,
		Name:           "Checking",
		InitialBalance: decimal.NewFromInt(100),
		CurrentBalance: decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(account).Error)

	txn := &models.Transaction{
		UserID:          user.ID,
		CategoryID:      category.ID,
		AccountID:       &account.ID,
		Type:            models.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(50),
		Description:     "paycheck",
		TransactionDate: time.Now(),
	}
	require.NoError(t, db.Create(txn).Error)

	account.CurrentBalance = decimal.NewFromInt(150)
	require.NoError(t, db.Save(account).Error)

	return user, account, txn
}

func TestAccountDeleteRollsBackDetachWhenDeleteFails(t *testing.T) {
	db := openTestDB(t)
	user, account, txn := seedAccountFixture(t, db)

	forced := errors.New("forced failure")
	failing := false
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").
		Register("test_fail_delete", func(tx *gorm.DB) {
			if failing {
				tx.AddError(forced)
			}
		}))
	defer db.Callback().Delete().Remove("test_fail_delete")

	accountRepo := repository.NewAccountRepository(db)

	failing = true
	err := accountRepo.Delete(account.ID, user.ID)
	failing = false
	require.ErrorIs(t, err, forced)

	// The detach must have rolled back with the failed delete
	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, txn.ID).Error)
	require.NotNil(t, reloaded.AccountID)
	assert.Equal(t, account.ID, *reloaded.AccountID)

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Where("id = ?", account.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAccountDeleteNotOwnedLeavesTransactionsAttached(t *testing.T) {
	db := openTestDB(t)
	_, account, txn := seedAccountFixture(t, db)

	accountRepo := repository.NewAccountRepository(db)
	err := accountRepo.Delete(account.ID, account.UserID+1)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, txn.ID).Error)
	require.NotNil(t, reloaded.AccountID)
	assert.Equal(t, account.ID, *reloaded.AccountID)
}

func TestAccountUpdateRebasesBalanceFromTransactions(t *testing.T) {
	db := openTestDB(t)
	user, account, _ := seedAccountFixture(t, db)

	svc := NewAccountService(db,
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db))

	updated, err := svc.Update(user.ID, account.ID, &AccountRequest{
		Name:           "Checking",
		InitialBalance: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// 200 initial + 50 income
	assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(250)),
		"got %s", updated.CurrentBalance)
}

func TestAccountRenameKeepsDerivedBalance(t *testing.T) {
	db := openTestDB(t)
	user, account, _ := seedAccountFixture(t, db)

	svc := NewAccountService(db,
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db))

	updated, err := svc.Update(user.ID, account.ID, &AccountRequest{
		Name:           "Everyday",
		InitialBalance: account.InitialBalance,
	})
	require.NoError(t, err)

	assert.Equal(t, "Everyday", updated.Name)
	assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(150)),
		"got %s", updated.CurrentBalance)
}

package models_test

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/envelopay/backend/internal/models"
)

func (suite *TestSuiteStandard) TestAccountTrimWhitespace() {
	account := suite.createTestAccount(models.Account{
		Name: " Joint checking ",
		Note: " Bills ",
	})

	assert.Equal(suite.T(), "Joint checking", account.Name)
	assert.Equal(suite.T(), "Bills", account.Note)
}

func (suite *TestSuiteStandard) TestAccountTypeDefault() {
	account := suite.createTestAccount(models.Account{})

	assert.Equal(suite.T(), models.AccountTypeChecking, account.Type)
}

func (suite *TestSuiteStandard) TestAccountNameUniquePerUser() {
	_ = suite.createTestAccount(models.Account{Name: "Checking"})

	account := models.Account{UserID: suite.userID, Name: "Checking"}
	err := models.DB.Create(&account).Error
	assert.ErrorIs(suite.T(), err, models.ErrAccountNameNotUnique)

	// The same name is fine for another user
	account = models.Account{UserID: uuid.New(), Name: "Checking"}
	err = models.DB.Create(&account).Error
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestAccountBalances() {
	_ = suite.createTestAccount(models.Account{
		CurrentBalance: decimal.NewFromFloat(512.23),
	})
	_ = suite.createTestAccount(models.Account{
		CurrentBalance: decimal.NewFromFloat(-110.01),
		Type:           models.AccountTypeCreditCard,
	})
	_ = suite.createTestAccount(models.Account{
		CurrentBalance: decimal.NewFromFloat(10000),
		Archived:       true,
	})

	// Belongs to another user, must not count
	_ = suite.createTestAccount(models.Account{
		UserID:         uuid.New(),
		CurrentBalance: decimal.NewFromFloat(99),
	})

	total, err := models.Balances(models.DB, suite.userID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.NewFromFloat(402.22)), "Total is %s", total)
}

func (suite *TestSuiteStandard) TestAccountTransactions() {
	account := suite.createTestAccount(models.Account{})
	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Amount:    decimal.NewFromFloat(-20),
	})
	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Amount:    decimal.NewFromFloat(100),
	})

	transactions := account.Transactions(models.DB)
	assert.Len(suite.T(), transactions, 2)
}

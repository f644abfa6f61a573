package v1_test

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/debts"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/test"
)

func (suite *TestSuiteStandard) TestDebtComparisonLive() {
	suite.createTestAccount(models.Account{
		Name:           "High APR",
		Type:           models.AccountTypeCreditCard,
		CurrentBalance: decimal.NewFromFloat(-3000),
		APR:            decimal.NewFromFloat(0.24),
		MinimumPayment: decimal.NewFromFloat(90),
	})
	suite.createTestAccount(models.Account{
		Name:           "Low APR",
		Type:           models.AccountTypeCreditCard,
		CurrentBalance: decimal.NewFromFloat(-500),
		APR:            decimal.NewFromFloat(0.12),
		MinimumPayment: decimal.NewFromFloat(25),
	})

	// Paid-off card, must not be part of the comparison
	suite.createTestAccount(models.Account{
		Name:           "Paid off",
		Type:           models.AccountTypeCreditCard,
		CurrentBalance: decimal.Zero,
	})

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/debts?extraBudget=150", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.DebtComparisonResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.Len(suite.T(), response.Data.Debts, 2)
	assert.True(suite.T(), response.Data.Comparison.InterestDifference.GreaterThanOrEqual(decimal.Zero))
	assert.Equal(suite.T(), "High APR", response.Data.Comparison.Avalanche.PayoffOrder[0])
	assert.Equal(suite.T(), "Low APR", response.Data.Comparison.Snowball.PayoffOrder[0])
}

func (suite *TestSuiteStandard) TestDebtComparisonNoDebts() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/debts", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDebtComparisonExplicit() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/debts", v1.DebtCompareEditable{
		Debts: []debts.CardDebt{
			{AccountID: uuid.New(), Name: "Card A", Balance: decimal.NewFromFloat(1200), APR: decimal.NewFromFloat(0.2), MinimumPayment: decimal.NewFromFloat(35)},
			{AccountID: uuid.New(), Name: "Card B", Balance: decimal.NewFromFloat(400), APR: decimal.NewFromFloat(0.1), MinimumPayment: decimal.NewFromFloat(15)},
		},
		ExtraBudget: decimal.NewFromFloat(100),
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.DebtComparisonResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), 2, len(response.Data.Comparison.Avalanche.PayoffOrder))
	assert.True(suite.T(), response.Data.Comparison.Avalanche.MonthsToPayoff > 0)
}

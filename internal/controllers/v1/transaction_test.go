package v1_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/test"
)

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{
		{
			AccountID:  account.ID,
			Date:       time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC),
			Amount:     decimal.NewFromFloat(-14.57),
			Payee:      "SuperMarket Inc",
			EnvelopeID: &envelope.ID,
		},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.TransactionCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), models.TypeExpense, response.Data[0].Data.Type)
	assert.False(suite.T(), response.Data[0].Data.Reconciled)
}

func (suite *TestSuiteStandard) TestTransactionsCreateUnknownAccount() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{
		{AccountID: uuid.New(), Amount: decimal.NewFromFloat(-14.57)},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsCreateForeignEnvelope() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})
	foreign := suite.createTestEnvelope(models.Envelope{Name: "Not yours", UserID: uuid.New()})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{
		{AccountID: account.ID, Amount: decimal.NewFromFloat(-14.57), EnvelopeID: &foreign.ID},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsListFilter() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})
	other := suite.createTestAccount(models.Account{Name: "Savings", Type: models.AccountTypeSavings})

	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromFloat(-14.57),
		Payee:     "SuperMarket Inc",
	})
	_ = suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromFloat(2800),
		Type:      models.TypeIncome,
		Payee:     "ACME CORP PAYROLL",
	})
	_ = suite.createTestTransaction(models.Transaction{
		AccountID: other.ID,
		Date:      time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromFloat(-50),
	})

	var response v1.TransactionListResponse

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?account=%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/transactions?payee=PAYROLL", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/transactions?amountMoreOrEqual=0", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/transactions?fromDate=2026-03-10T00:00:00Z&untilDate=2026-03-16T00:00:00Z", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
}

func (suite *TestSuiteStandard) TestTransactionsUpdateEnvelope() {
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})
	transaction := suite.createTestTransaction(models.Transaction{Amount: decimal.NewFromFloat(-20)})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPatch, fmt.Sprintf("http://example.com/v1/transactions/%s", transaction.ID), map[string]any{
		"envelopeId": envelope.ID.String(),
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), &envelope.ID, response.Data.EnvelopeID)
}

func (suite *TestSuiteStandard) TestTransactionsLinkedImmutable() {
	out, in := suite.transferPair(250)

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transfers/link", v1.LinkEditable{
		TransactionID:      out.ID,
		OtherTransactionID: in.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.T(), suite.userID, http.MethodPatch, fmt.Sprintf("http://example.com/v1/transactions/%s", out.ID), map[string]any{
		"note": "edited",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	recorder = test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/transactions/%s", out.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	transaction := suite.createTestTransaction(models.Transaction{Amount: decimal.NewFromFloat(-20)})

	recorder := test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/transactions/%s", transaction.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/%s", transaction.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

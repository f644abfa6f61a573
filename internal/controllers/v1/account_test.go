package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/test"
)

func (suite *TestSuiteStandard) TestAccountsRequireAuthentication() {
	recorder := test.Request(suite.T(), uuid.Nil, http.MethodGet, "http://example.com/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAccountsCreate() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/accounts", []v1.AccountEditable{
		{Name: "Joint checking", CurrentBalance: decimal.NewFromFloat(1317.62)},
		{Name: "Visa", Type: models.AccountTypeCreditCard, CurrentBalance: decimal.NewFromFloat(-110.01)},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "Joint checking", response.Data[0].Data.Name)
}

func (suite *TestSuiteStandard) TestAccountsCreateDuplicateName() {
	_ = suite.createTestAccount(models.Account{Name: "Checking"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/accounts", []v1.AccountEditable{
		{Name: "Checking"},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, "must be unique")
}

func (suite *TestSuiteStandard) TestAccountsList() {
	_ = suite.createTestAccount(models.Account{Name: "Checking"})
	_ = suite.createTestAccount(models.Account{Name: "Savings"})
	_ = suite.createTestAccount(models.Account{Name: "Old", Archived: true})

	// Belongs to another user, must not be returned
	_ = suite.createTestAccount(models.Account{UserID: uuid.New(), Name: "Foreign"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)
	assert.Equal(suite.T(), 3, response.Pagination.Count)

	// Filtering for archived accounts
	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/accounts?archived=true", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Old", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestAccountGetNotFound() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountOtherUserIsNotFound() {
	account := suite.createTestAccount(models.Account{UserID: uuid.New(), Name: "Foreign"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountUpdate() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPatch, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), map[string]any{
		"note": "The account we pay bills from",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var reloaded models.Account
	assert.Nil(suite.T(), models.DB.First(&reloaded, account.ID).Error)
	assert.Equal(suite.T(), "The account we pay bills from", reloaded.Note)
	assert.Equal(suite.T(), "Checking", reloaded.Name)
}

func (suite *TestSuiteStandard) TestAccountDelete() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

// An account with transactions cannot be deleted, they have to be
// removed or moved first.
func (suite *TestSuiteStandard) TestAccountDeleteWithTransactions() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})
	_ = suite.createTestTransaction(models.Transaction{AccountID: account.ID, Payee: "Grocery store"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestAccountOptions() {
	account := suite.createTestAccount(models.Account{Name: "Checking"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodOptions, "http://example.com/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET, POST", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), suite.userID, http.MethodOptions, fmt.Sprintf("http://example.com/v1/accounts/%s", account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "GET, PATCH, DELETE", recorder.Header().Get("allow"))
}

package v1_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/test"
)

// transferPair creates an outflow on a fresh checking account and the
// matching inflow on a fresh savings account, dated relative to today
// so that scans pick them up.
func (suite *TestSuiteStandard) transferPair(amount float64) (models.Transaction, models.Transaction) {
	checking := suite.createTestAccount(models.Account{Name: "Checking " + fmt.Sprint(time.Now().UnixNano())})
	savings := suite.createTestAccount(models.Account{Name: "Savings " + fmt.Sprint(time.Now().UnixNano()), Type: models.AccountTypeSavings})

	date := time.Now().In(time.UTC).AddDate(0, 0, -1)

	out := suite.createTestTransaction(models.Transaction{
		AccountID: checking.ID,
		Date:      date,
		Amount:    decimal.NewFromFloat(-amount),
		Payee:     "Transfer to savings",
	})
	in := suite.createTestTransaction(models.Transaction{
		AccountID: savings.ID,
		Date:      date,
		Amount:    decimal.NewFromFloat(amount),
		Type:      models.TypeIncome,
		Payee:     "Transfer from checking",
	})

	return out, in
}

func (suite *TestSuiteStandard) TestTransferScan() {
	out, in := suite.transferPair(250)

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/transfers/scan", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CandidateListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	ids := []string{response.Data[0].Transaction.ID.String(), response.Data[0].Counterpart.ID.String()}
	assert.Contains(suite.T(), ids, out.ID.String())
	assert.Contains(suite.T(), ids, in.ID.String())
}

func (suite *TestSuiteStandard) TestTransferCandidates() {
	out, in := suite.transferPair(250)

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/transfers/candidates/%s", out.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CandidateListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), in.ID, response.Data[0].Counterpart.ID)
	assert.True(suite.T(), response.Data[0].HighlyLikely)
}

func (suite *TestSuiteStandard) TestTransferLink() {
	out, in := suite.transferPair(250)

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transfers/link", v1.LinkEditable{
		TransactionID:      out.ID,
		OtherTransactionID: in.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.LinkResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
	for _, transaction := range response.Data {
		assert.Equal(suite.T(), models.TypeTransfer, transaction.Type)
		assert.NotNil(suite.T(), transaction.LinkedTransactionID)
	}

	// Linking an already linked transaction conflicts
	recorder = test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transfers/link", v1.LinkEditable{
		TransactionID:      out.ID,
		OtherTransactionID: in.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestTransferLinkValidation() {
	out, _ := suite.transferPair(250)

	// Self link
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transfers/link", v1.LinkEditable{
		TransactionID:      out.ID,
		OtherTransactionID: out.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// Amounts that are not inverse
	other := suite.createTestTransaction(models.Transaction{
		Date:   time.Now().In(time.UTC).AddDate(0, 0, -1),
		Amount: decimal.NewFromFloat(260),
		Type:   models.TypeIncome,
	})
	recorder = test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transfers/link", v1.LinkEditable{
		TransactionID:      out.ID,
		OtherTransactionID: other.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransferUnlink() {
	out, in := suite.transferPair(250)

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/transfers/link", v1.LinkEditable{
		TransactionID:      out.ID,
		OtherTransactionID: in.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/transfers/link/%s", out.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.LinkResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
	assert.True(suite.T(), response.TypeRestored)
	for _, transaction := range response.Data {
		assert.Nil(suite.T(), transaction.LinkedTransactionID)
		assert.NotEqual(suite.T(), models.TypeTransfer, transaction.Type)
	}

	// Unlinking again fails
	recorder = test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/transfers/link/%s", out.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransferPending() {
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})
	transaction := suite.createTestTransaction(models.Transaction{
		Amount:     decimal.NewFromFloat(-120),
		EnvelopeID: &envelope.ID,
	})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, fmt.Sprintf("http://example.com/v1/transfers/pending/%s", transaction.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.TransferPending)
	assert.Nil(suite.T(), response.Data.EnvelopeID)

	recorder = test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/transfers/pending/%s", transaction.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.False(suite.T(), response.Data.TransferPending)
}

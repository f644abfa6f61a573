package v1_test

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/test"
)

func (suite *TestSuiteStandard) TestIncomeSourcesCreate() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/income-sources", []v1.IncomeSourceEditable{
		{Name: "Salary", Amount: decimal.NewFromFloat(2800), MatchPattern: "ACME*PAYROLL*"},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.IncomeSourceCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), models.PayCycleMonthly, response.Data[0].Data.PayCycle)
	assert.Equal(suite.T(), "ACME*PAYROLL*", response.Data[0].Data.MatchPattern)

	// An income source is active unless the request says otherwise
	assert.NotNil(suite.T(), response.Data[0].Data.Active)
	assert.True(suite.T(), *response.Data[0].Data.Active)
}

// Creating an inactive income source has to store Active as false, both
// when set via the API and when written directly.
func (suite *TestSuiteStandard) TestIncomeSourcesCreateInactive() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/income-sources", []map[string]any{
		{"name": "Old gig", "amount": "150", "active": false},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.IncomeSourceCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.NotNil(suite.T(), response.Data[0].Data.Active)
	assert.False(suite.T(), *response.Data[0].Data.Active)

	var source models.IncomeSource
	assert.Nil(suite.T(), models.DB.Where("id = ?", response.Data[0].Data.ID).First(&source).Error)
	assert.False(suite.T(), source.Active)
}

func (suite *TestSuiteStandard) TestIncomeSourcesNegativeAmount() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/income-sources", []v1.IncomeSourceEditable{
		{Name: "Salary", Amount: decimal.NewFromFloat(-10)},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestIncomeSourcesList() {
	_ = suite.createTestIncomeSource(models.IncomeSource{Name: "Salary"})
	_ = suite.createTestIncomeSource(models.IncomeSource{Name: "Side gig"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/income-sources", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.IncomeSourceListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestIncomeSourcesUpdate() {
	source := suite.createTestIncomeSource(models.IncomeSource{Name: "Salary", Amount: decimal.NewFromFloat(2800)})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPatch, fmt.Sprintf("http://example.com/v1/income-sources/%s", source.ID), map[string]any{
		"amount": "2950",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.IncomeSourceResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Salary", response.Data.Name)
	assert.True(suite.T(), response.Data.Amount.Equal(decimal.NewFromFloat(2950)))
}

func (suite *TestSuiteStandard) TestIncomeSourcesDeleteCascades() {
	source := suite.createTestIncomeSource(models.IncomeSource{Name: "Salary"})
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})

	allocationRow := models.Allocation{
		UserID:         suite.userID,
		EnvelopeID:     envelope.ID,
		IncomeSourceID: source.ID,
		Amount:         decimal.NewFromFloat(300),
	}
	assert.Nil(suite.T(), models.DB.Create(&allocationRow).Error)

	recorder := test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/income-sources/%s", source.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	var count int64
	assert.Nil(suite.T(), models.DB.Model(&models.Allocation{}).Where("income_source_id = ?", source.ID).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)
}

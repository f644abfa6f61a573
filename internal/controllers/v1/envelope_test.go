package v1_test

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/envelopay/backend/internal/allocation"
	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/test"
)

func (suite *TestSuiteStandard) TestEnvelopesCreate() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/envelopes", []v1.EnvelopeEditable{
		{Name: "Groceries", Priority: models.PriorityEssential, TargetAmount: decimal.NewFromFloat(400)},
		{Name: "Fun money"},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.EnvelopeCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), models.PriorityEssential, response.Data[0].Data.Priority)
	assert.Equal(suite.T(), models.PriorityDiscretionary, response.Data[1].Data.Priority)
}

func (suite *TestSuiteStandard) TestEnvelopesSurplusAndCCHolding() {
	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, "http://example.com/v1/envelopes", []v1.EnvelopeEditable{
		{Name: "Both", SurplusEnvelope: true, CCHolding: true},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestEnvelopesGetDeficit() {
	envelope := suite.createTestEnvelope(models.Envelope{
		Name:          "Groceries",
		TargetAmount:  decimal.NewFromFloat(400),
		CurrentAmount: decimal.NewFromFloat(291.41),
	})

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes/%s", envelope.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Deficit.Equal(decimal.NewFromFloat(108.59)), "Deficit is %s", response.Data.Deficit)
}

func (suite *TestSuiteStandard) TestEnvelopesList() {
	_ = suite.createTestEnvelope(models.Envelope{Name: "Groceries"})
	_ = suite.createTestEnvelope(models.Envelope{Name: "Rent"})
	_ = suite.createTestEnvelope(models.Envelope{Name: "Old", Dismissed: true})

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/envelopes", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/envelopes?dismissed=true", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Old", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestEnvelopesUpdate() {
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPatch, fmt.Sprintf("http://example.com/v1/envelopes/%s", envelope.ID), map[string]any{
		"targetAmount": "450",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Groceries", response.Data.Name)
	assert.True(suite.T(), response.Data.TargetAmount.Equal(decimal.NewFromFloat(450)))
}

func (suite *TestSuiteStandard) TestEnvelopesDelete() {
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodDelete, fmt.Sprintf("http://example.com/v1/envelopes/%s", envelope.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes/%s", envelope.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestEnvelopeAllocationsReplace() {
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})
	salary := suite.createTestIncomeSource(models.IncomeSource{Name: "Salary"})
	sideGig := suite.createTestIncomeSource(models.IncomeSource{Name: "Side gig"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPost, fmt.Sprintf("http://example.com/v1/envelopes/%s/allocations", envelope.ID), []allocation.Entry{
		{IncomeSourceID: salary.ID, Amount: decimal.NewFromFloat(300)},
		{IncomeSourceID: sideGig.ID, Amount: decimal.NewFromFloat(100)},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), uint(0), response.Data[0].Priority)
	assert.Equal(suite.T(), uint(1), response.Data[1].Priority)

	// Replacing drops the previous plan
	recorder = test.Request(suite.T(), suite.userID, http.MethodPost, fmt.Sprintf("http://example.com/v1/envelopes/%s/allocations", envelope.ID), []allocation.Entry{
		{IncomeSourceID: salary.ID, Amount: decimal.NewFromFloat(350)},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes/%s/allocations", envelope.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.True(suite.T(), response.Data[0].Amount.Equal(decimal.NewFromFloat(350)))
}

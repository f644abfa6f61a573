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

func (suite *TestSuiteStandard) createTestAllocation(allocation models.Allocation) models.Allocation {
	if allocation.UserID == uuid.Nil {
		allocation.UserID = suite.userID
	}

	err := models.DB.Create(&allocation).Error
	if err != nil {
		suite.Assert().FailNow("Allocation could not be saved", "Error: %s, Allocation: %#v", err, allocation)
	}

	return allocation
}

func (suite *TestSuiteStandard) TestAllocationsList() {
	salary := suite.createTestIncomeSource(models.IncomeSource{Name: "Salary"})
	sideGig := suite.createTestIncomeSource(models.IncomeSource{Name: "Side gig"})
	groceries := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})
	rent := suite.createTestEnvelope(models.Envelope{Name: "Rent"})

	_ = suite.createTestAllocation(models.Allocation{EnvelopeID: groceries.ID, IncomeSourceID: salary.ID, Amount: decimal.NewFromFloat(300)})
	_ = suite.createTestAllocation(models.Allocation{EnvelopeID: groceries.ID, IncomeSourceID: sideGig.ID, Amount: decimal.NewFromFloat(100), Priority: 1})
	_ = suite.createTestAllocation(models.Allocation{EnvelopeID: rent.ID, IncomeSourceID: salary.ID, Amount: decimal.NewFromFloat(1000)})

	var response v1.AllocationListResponse

	recorder := test.Request(suite.T(), suite.userID, http.MethodGet, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?envelope=%s", groceries.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)

	recorder = test.Request(suite.T(), suite.userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?source=%s", sideGig.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
}

func (suite *TestSuiteStandard) TestAllocationsUpsert() {
	salary := suite.createTestIncomeSource(models.IncomeSource{Name: "Salary"})
	groceries := suite.createTestEnvelope(models.Envelope{Name: "Groceries"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPatch, "http://example.com/v1/allocations", v1.AllocationEditable{
		EnvelopeID:     groceries.ID,
		IncomeSourceID: salary.ID,
		Amount:         decimal.NewFromFloat(300),
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	created := response.Data.ID

	// Updating the same pair keeps the ID
	recorder = test.Request(suite.T(), suite.userID, http.MethodPatch, "http://example.com/v1/allocations", v1.AllocationEditable{
		EnvelopeID:     groceries.ID,
		IncomeSourceID: salary.ID,
		Amount:         decimal.NewFromFloat(350),
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), created, response.Data.ID)
	assert.True(suite.T(), response.Data.Amount.Equal(decimal.NewFromFloat(350)))

	// A zero amount removes the allocation
	recorder = test.Request(suite.T(), suite.userID, http.MethodPatch, "http://example.com/v1/allocations", v1.AllocationEditable{
		EnvelopeID:     groceries.ID,
		IncomeSourceID: salary.ID,
		Amount:         decimal.Zero,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Nil(suite.T(), response.Data)
}

func (suite *TestSuiteStandard) TestAllocationsUpsertUnknownEnvelope() {
	salary := suite.createTestIncomeSource(models.IncomeSource{Name: "Salary"})

	recorder := test.Request(suite.T(), suite.userID, http.MethodPatch, "http://example.com/v1/allocations", v1.AllocationEditable{
		EnvelopeID:     uuid.New(),
		IncomeSourceID: salary.ID,
		Amount:         decimal.NewFromFloat(300),
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
	ep_uuid "github.com/envelopay/backend/internal/uuid"
)

// AllocationEditable addresses the allocation by the (envelope, income
// source) pair it belongs to. An amount of zero or less removes the
// allocation.
type AllocationEditable struct {
	EnvelopeID     uuid.UUID       `json:"envelopeId" example:"45b6b5b9-f746-4ae9-b77b-7688b91f8166"`
	IncomeSourceID uuid.UUID       `json:"incomeSourceId" example:"91d1265c-8d5a-4b07-a2a4-12f5bfec6e25"`
	Amount         decimal.Decimal `json:"amount" example:"200"`
}

type AllocationLinks struct {
	Self         string `json:"self" example:"https://example.com/v1/allocations/a5f03e06-2928-4e55-a1bc-6ba9e04ba6ad"`
	Envelope     string `json:"envelope" example:"https://example.com/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166"`
	IncomeSource string `json:"incomeSource" example:"https://example.com/v1/income-sources/91d1265c-8d5a-4b07-a2a4-12f5bfec6e25"`
}

// Allocation is the API representation of an allocation.
type Allocation struct {
	models.DefaultModel
	AllocationEditable
	Priority uint            `json:"priority" example:"0"` // Order of the allocation within the envelope
	Links    AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := httputil.RequestHost(c)

	return Allocation{
		DefaultModel: model.DefaultModel,
		AllocationEditable: AllocationEditable{
			EnvelopeID:     model.EnvelopeID,
			IncomeSourceID: model.IncomeSourceID,
			Amount:         model.Amount,
		},
		Priority: model.Priority,
		Links: AllocationLinks{
			Self:         fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Envelope:     fmt.Sprintf("%s/v1/envelopes/%s", url, model.EnvelopeID),
			IncomeSource: fmt.Sprintf("%s/v1/income-sources/%s", url, model.IncomeSourceID),
		},
	}
}

type AllocationListResponse struct {
	Data  []Allocation `json:"data"`
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type AllocationResponse struct {
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  *Allocation `json:"data"` // nil when the allocation was removed
}

type AllocationQueryFilter struct {
	EnvelopeID     ep_uuid.UUID `form:"envelope"` // ID of the envelope
	IncomeSourceID ep_uuid.UUID `form:"source"`   // ID of the income source
}

func (f AllocationQueryFilter) model() models.Allocation {
	return models.Allocation{
		EnvelopeID:     f.EnvelopeID.UUID,
		IncomeSourceID: f.IncomeSourceID.UUID,
	}
}

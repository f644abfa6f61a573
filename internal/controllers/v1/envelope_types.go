package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
)

type EnvelopeEditable struct {
	Name           string                  `json:"name" example:"Groceries"`
	Priority       models.EnvelopePriority `json:"priority" example:"essential" default:"discretionary"`
	Note           string                  `json:"note" example:"Everything from the supermarket" default:""`
	TargetAmount   decimal.Decimal         `json:"targetAmount" example:"400"`
	CurrentAmount  decimal.Decimal         `json:"currentAmount" example:"291.41"`
	PayCycleAmount decimal.Decimal         `json:"payCycleAmount" example:"200"`

	SurplusEnvelope bool `json:"surplusEnvelope" example:"false" default:"false"`
	CCHolding       bool `json:"ccHolding" example:"false" default:"false"`
	Dismissed       bool `json:"dismissed" example:"false" default:"false"`
	Suggested       bool `json:"suggested" example:"false" default:"false"`
}

// model returns the database resource for the API representation of the editable fields
func (editable EnvelopeEditable) model(userID uuid.UUID) models.Envelope {
	return models.Envelope{
		UserID:          userID,
		Name:            editable.Name,
		Priority:        editable.Priority,
		Note:            editable.Note,
		TargetAmount:    editable.TargetAmount,
		CurrentAmount:   editable.CurrentAmount,
		PayCycleAmount:  editable.PayCycleAmount,
		SurplusEnvelope: editable.SurplusEnvelope,
		CCHolding:       editable.CCHolding,
		Dismissed:       editable.Dismissed,
		Suggested:       editable.Suggested,
	}
}

type EnvelopeLinks struct {
	Self        string `json:"self" example:"https://example.com/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166"`
	Allocations string `json:"allocations" example:"https://example.com/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166/allocations"`
}

// Envelope is the API representation of an envelope.
type Envelope struct {
	models.DefaultModel
	EnvelopeEditable
	Deficit decimal.Decimal `json:"deficit" example:"108.59"` // How far the envelope is from its target
	Links   EnvelopeLinks   `json:"links"`
}

func newEnvelope(c *gin.Context, model models.Envelope) Envelope {
	url := httputil.RequestHost(c)

	return Envelope{
		DefaultModel: model.DefaultModel,
		EnvelopeEditable: EnvelopeEditable{
			Name:            model.Name,
			Priority:        model.Priority,
			Note:            model.Note,
			TargetAmount:    model.TargetAmount,
			CurrentAmount:   model.CurrentAmount,
			PayCycleAmount:  model.PayCycleAmount,
			SurplusEnvelope: model.SurplusEnvelope,
			CCHolding:       model.CCHolding,
			Dismissed:       model.Dismissed,
			Suggested:       model.Suggested,
		},
		Deficit: model.Deficit(),
		Links: EnvelopeLinks{
			Self:        fmt.Sprintf("%s/v1/envelopes/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/envelopes/%s/allocations", url, model.ID),
		},
	}
}

type EnvelopeListResponse struct {
	Data       []Envelope  `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type EnvelopeCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  []EnvelopeResponse `json:"data"`
}

func (e *EnvelopeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, EnvelopeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type EnvelopeResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  *Envelope `json:"data"`
}

type EnvelopeQueryFilter struct {
	Name      string `form:"name" filterField:"false"`   // Filter by name
	Priority  string `form:"priority"`                   // Filter by priority
	Dismissed bool   `form:"dismissed"`                  // Is the envelope dismissed?
	Suggested bool   `form:"suggested"`                  // Is the envelope a suggestion?
	Offset    uint   `form:"offset" filterField:"false"` // The offset of the first envelope returned. Defaults to 0.
	Limit     int    `form:"limit" filterField:"false"`  // Maximum number of envelopes to return. Defaults to 50.
}

func (f EnvelopeQueryFilter) model() models.Envelope {
	return models.Envelope{
		Priority:  models.EnvelopePriority(f.Priority),
		Dismissed: f.Dismissed,
		Suggested: f.Suggested,
	}
}

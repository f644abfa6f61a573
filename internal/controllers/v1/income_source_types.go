package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
)

type IncomeSourceEditable struct {
	Name         string          `json:"name" example:"ACME Corp salary"`
	Amount       decimal.Decimal `json:"amount" example:"2800"`
	PayCycle     models.PayCycle `json:"payCycle" example:"monthly" default:"monthly"`
	MatchPattern string          `json:"matchPattern" example:"ACME*PAYROLL*" default:""` // Glob pattern matched against transaction payees
	Active       *bool           `json:"active" example:"true" default:"true"` // Defaults to true when not set
}

// model returns the database resource for the API representation of the editable fields
func (editable IncomeSourceEditable) model(userID uuid.UUID) models.IncomeSource {
	// An income source is active unless the request says otherwise
	active := true
	if editable.Active != nil {
		active = *editable.Active
	}

	return models.IncomeSource{
		UserID:       userID,
		Name:         editable.Name,
		Amount:       editable.Amount,
		PayCycle:     editable.PayCycle,
		MatchPattern: editable.MatchPattern,
		Active:       active,
	}
}

type IncomeSourceLinks struct {
	Self string `json:"self" example:"https://example.com/v1/income-sources/91d1265c-8d5a-4b07-a2a4-12f5bfec6e25"`
}

// IncomeSource is the API representation of an income source.
type IncomeSource struct {
	models.DefaultModel
	IncomeSourceEditable
	Links IncomeSourceLinks `json:"links"`
}

func newIncomeSource(c *gin.Context, model models.IncomeSource) IncomeSource {
	url := httputil.RequestHost(c)

	return IncomeSource{
		DefaultModel: model.DefaultModel,
		IncomeSourceEditable: IncomeSourceEditable{
			Name:         model.Name,
			Amount:       model.Amount,
			PayCycle:     model.PayCycle,
			MatchPattern: model.MatchPattern,
			Active:       &model.Active,
		},
		Links: IncomeSourceLinks{
			Self: fmt.Sprintf("%s/v1/income-sources/%s", url, model.ID),
		},
	}
}

type IncomeSourceListResponse struct {
	Data       []IncomeSource `json:"data"`
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination    `json:"pagination"`
}

type IncomeSourceCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  []IncomeSourceResponse `json:"data"`
}

func (i *IncomeSourceCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	i.Data = append(i.Data, IncomeSourceResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type IncomeSourceResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  *IncomeSource `json:"data"`
}

type IncomeSourceQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Filter by name
	Active bool   `form:"active"`                     // Is the income source active?
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first income source returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of income sources to return. Defaults to 50.
}

func (f IncomeSourceQueryFilter) model() models.IncomeSource {
	return models.IncomeSource{
		Active: f.Active,
	}
}

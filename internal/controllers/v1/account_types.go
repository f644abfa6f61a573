package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
)

type AccountEditable struct {
	Name           string             `json:"name" example:"Joint checking"`
	Type           models.AccountType `json:"type" example:"checking" default:"checking"`
	Note           string             `json:"note" example:"The account we pay bills from" default:""`
	CurrentBalance decimal.Decimal    `json:"currentBalance" example:"1317.62"`
	Archived       bool               `json:"archived" example:"false" default:"false"`

	// Credit card fields, only used for accounts of the creditCard type
	APR            decimal.Decimal `json:"apr" example:"0.24"`
	MinimumPayment decimal.Decimal `json:"minimumPayment" example:"30"`
}

// model returns the database resource for the API representation of the editable fields
func (editable AccountEditable) model(userID uuid.UUID) models.Account {
	return models.Account{
		UserID:         userID,
		Name:           editable.Name,
		Type:           editable.Type,
		Note:           editable.Note,
		CurrentBalance: editable.CurrentBalance,
		Archived:       editable.Archived,
		APR:            editable.APR,
		MinimumPayment: editable.MinimumPayment,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/v1/accounts/d430d7c3-d14c-4712-9336-ee56965a6673"`
	Transactions string `json:"transactions" example:"https://example.com/v1/transactions?account=d430d7c3-d14c-4712-9336-ee56965a6673"`
}

// Account is the API representation of an account.
type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`
}

func newAccount(c *gin.Context, model models.Account) Account {
	url := httputil.RequestHost(c)

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:           model.Name,
			Type:           model.Type,
			Note:           model.Note,
			CurrentBalance: model.CurrentBalance,
			Archived:       model.Archived,
			APR:            model.APR,
			MinimumPayment: model.MinimumPayment,
		},
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  []AccountResponse `json:"data"`
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  *Account `json:"data"`
}

type AccountQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // Filter by name
	Type     string `form:"type"`                       // Filter by account type
	Archived bool   `form:"archived"`                   // Is the account archived?
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first account returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() models.Account {
	return models.Account{
		Type:     models.AccountType(f.Type),
		Archived: f.Archived,
	}
}

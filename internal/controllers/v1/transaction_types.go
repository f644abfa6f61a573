package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
	ep_uuid "github.com/envelopay/backend/internal/uuid"
)

type TransactionEditable struct {
	AccountID  uuid.UUID              `json:"accountId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`
	Date       time.Time              `json:"date" example:"2024-03-28T00:00:00Z"`
	Amount     decimal.Decimal        `json:"amount" example:"-14.57"` // Signed amount, positive amounts are inflows
	Payee      string                 `json:"payee" example:"SuperMarket Inc" default:""`
	Note       string                 `json:"note" example:"Weekly groceries" default:""`
	EnvelopeID *uuid.UUID             `json:"envelopeId" example:"45b6b5b9-f746-4ae9-b77b-7688b91f8166"`
	Type       models.TransactionType `json:"type" example:"expense"`
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model(userID uuid.UUID) models.Transaction {
	return models.Transaction{
		UserID:     userID,
		AccountID:  editable.AccountID,
		Date:       editable.Date,
		Amount:     editable.Amount,
		Payee:      editable.Payee,
		Note:       editable.Note,
		EnvelopeID: editable.EnvelopeID,
		Type:       editable.Type,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/v1/transactions/6a4f5a34-59bb-4aef-9b4c-c50bcbd24b9a"`
}

// Transaction is the API representation of a transaction.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	LinkedTransactionID *uuid.UUID       `json:"linkedTransactionId" example:"9b9ce1db-c6b4-4d48-a1b2-7083f15dd5a1"`
	TransferPending     bool             `json:"transferPending" example:"false"`
	Reconciled          bool             `json:"reconciled" example:"false"`
	Links               TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := httputil.RequestHost(c)

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			AccountID:  model.AccountID,
			Date:       model.Date,
			Amount:     model.Amount,
			Payee:      model.Payee,
			Note:       model.Note,
			EnvelopeID: model.EnvelopeID,
			Type:       model.Type,
		},
		LinkedTransactionID: model.LinkedTransactionID,
		TransferPending:     model.TransferPending,
		Reconciled:          model.Reconciled,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination   `json:"pagination"`
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  []TransactionResponse `json:"data"`
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  *Transaction `json:"data"`
}

type TransactionQueryFilter struct {
	AccountID         ep_uuid.UUID           `form:"account"`                               // ID of the account
	EnvelopeID        ep_uuid.UUID           `form:"envelope"`                              // ID of the envelope
	Type              models.TransactionType `form:"type"`                                  // Type of the transaction
	Payee             string                 `form:"payee" filterField:"false"`             // Payee contains this string
	TransferPending   bool                   `form:"transferPending"`                       // Is the transaction a pending transfer?
	Reconciled        bool                   `form:"reconciled"`                            // Has a pay event been approved for the transaction?
	AmountMoreOrEqual decimal.Decimal        `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	AmountLessOrEqual decimal.Decimal        `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	FromDate          time.Time              `form:"fromDate" filterField:"false"`          // From this date. Time is ignored.
	UntilDate         time.Time              `form:"untilDate" filterField:"false"`         // Until this date. Time is ignored.
	Offset            uint                   `form:"offset" filterField:"false"`            // The offset of the first Transaction returned. Defaults to 0.
	Limit             int                    `form:"limit" filterField:"false"`             // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.Transaction {
	// If the envelopeID is nil, use an actual nil, not uuid.Nil
	var eID *uuid.UUID
	if f.EnvelopeID != ep_uuid.Nil {
		eID = &f.EnvelopeID.UUID
	}

	return models.Transaction{
		AccountID:       f.AccountID.UUID,
		EnvelopeID:      eID,
		Type:            f.Type,
		TransferPending: f.TransferPending,
		Reconciled:      f.Reconciled,
	}
}

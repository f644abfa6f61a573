package v1

import (
	"github.com/google/uuid"

	"github.com/envelopay/backend/internal/transfers"
)

type CandidateListResponse struct {
	Data  []transfers.Candidate `json:"data"`
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// LinkEditable names the two transactions to pair as one transfer.
type LinkEditable struct {
	TransactionID      uuid.UUID `json:"transactionId" example:"6a4f5a34-59bb-4aef-9b4c-c50bcbd24b9a"`
	OtherTransactionID uuid.UUID `json:"otherTransactionId" example:"9b9ce1db-c6b4-4d48-a1b2-7083f15dd5a1"`
}

// LinkResponse carries both sides of a linked or unlinked pair.
type LinkResponse struct {
	Error *string       `json:"error" example:"the transaction amounts are not the additive inverse of each other"`
	Data  []Transaction `json:"data"`

	// Set on unlink: the transaction types were re-derived from the
	// amount signs since the types from before the link are not stored.
	TypeRestored bool `json:"typeRestored,omitempty"`
}

type TransferScanQuery struct {
	ScanDays int `form:"scanDays"` // How many days to scan backwards from today. Defaults to 30.
}

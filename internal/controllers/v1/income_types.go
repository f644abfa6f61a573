package v1

import (
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/allocation"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/internal/surplus"
)

type RealityResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"`
	Data  *surplus.Summary `json:"data"`
}

// SurplusAllocationEditable configures a surplus distribution run. When
// the amount is zero, the currently allocatable surplus is used.
type SurplusAllocationEditable struct {
	Amount decimal.Decimal `json:"amount" example:"70"`
}

type SurplusAllocation struct {
	Grants    []allocation.Grant `json:"grants"`
	Remaining decimal.Decimal    `json:"remaining" example:"0"` // Amount that no envelope had a deficit for
}

type SurplusAllocationResponse struct {
	Error *string            `json:"error" example:"the surplus amount to allocate must be positive"`
	Data  *SurplusAllocation `json:"data"`
}

// PayEventProposal is the suggested split for a detected pay event: the
// saved plan of the matched income source capped to the transaction
// amount, the rest as surplus.
type PayEventProposal struct {
	Allocations []allocation.EnvelopeAmount `json:"allocations"`
	Surplus     decimal.Decimal             `json:"surplus"`
}

// DetectedPayEvent is one unreconciled income transaction matched to an
// income source by its payee pattern.
type DetectedPayEvent struct {
	Transaction  Transaction      `json:"transaction"`
	IncomeSource IncomeSource     `json:"incomeSource"`
	Proposal     PayEventProposal `json:"proposal"`
}

type DetectListResponse struct {
	Data  []DetectedPayEvent `json:"data"`
	Error *string            `json:"error" example:"no income source matched the transaction"`
}

type ApproveResponse struct {
	Error *string                   `json:"error" example:"allocations and surplus do not add up to the transaction amount"`
	Data  []models.TransactionSplit `json:"data"`
}

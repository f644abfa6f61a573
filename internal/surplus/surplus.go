// Package surplus computes, per income source, how much of a pay is
// committed to envelopes and how much is left over.
package surplus

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/models"
)

// SourceReality is the computed income situation for one income source.
type SourceReality struct {
	IncomeSourceID       uuid.UUID       `json:"incomeSourceId"`
	Name                 string          `json:"name"`
	IncomeAmount         decimal.Decimal `json:"incomeAmount"`
	TotalCommittedPerPay decimal.Decimal `json:"totalCommittedPerPay"`
	SurplusAmount        decimal.Decimal `json:"surplusAmount"`
}

// Summary aggregates the realities of all active income sources.
type Summary struct {
	Sources            []SourceReality `json:"sources"`
	TotalSurplus       decimal.Decimal `json:"totalSurplus"`
	CCHoldingBalance   decimal.Decimal `json:"ccHoldingBalance"`
	AllocatableSurplus decimal.Decimal `json:"allocatableSurplus"`
}

// Calculate computes the committed total and surplus for every active
// income source.
//
// Committed amounts come from the allocation ledger where it has
// entries. Envelope commitments that exist only as a PayCycleAmount
// without ledger rows are attributed to sources proportionally to their
// share of total income; with zero total income every source carries an
// equal share.
//
// Money already earmarked for a pending credit card payment (the CC
// holding balance) is excluded from the allocatable surplus.
func Calculate(sources []models.IncomeSource, envelopes []models.Envelope, committed map[uuid.UUID]decimal.Decimal, ccHolding decimal.Decimal) Summary {
	summary := Summary{
		Sources:          []SourceReality{},
		CCHoldingBalance: ccHolding,
	}

	var totalIncome, ledgerTotal, planTotal decimal.Decimal

	var active []models.IncomeSource
	for _, source := range sources {
		if !source.Active {
			continue
		}
		active = append(active, source)
		totalIncome = totalIncome.Add(source.Amount)
	}

	for _, amount := range committed {
		ledgerTotal = ledgerTotal.Add(amount)
	}

	for _, envelope := range envelopes {
		if envelope.SurplusEnvelope || envelope.Dismissed {
			continue
		}
		planTotal = planTotal.Add(envelope.PayCycleAmount)
	}

	// Commitments that are planned on envelopes but not backed by
	// ledger rows yet
	unattributed := planTotal.Sub(ledgerTotal)
	if unattributed.IsNegative() {
		unattributed = decimal.Zero
	}

	for _, source := range active {
		share := incomeShare(source.Amount, totalIncome, len(active))

		total := committed[source.ID].Add(unattributed.Mul(share))

		leftover := source.Amount.Sub(total)
		if leftover.IsNegative() {
			leftover = decimal.Zero
		}

		summary.Sources = append(summary.Sources, SourceReality{
			IncomeSourceID:       source.ID,
			Name:                 source.Name,
			IncomeAmount:         source.Amount,
			TotalCommittedPerPay: total,
			SurplusAmount:        leftover,
		})
		summary.TotalSurplus = summary.TotalSurplus.Add(leftover)
	}

	summary.AllocatableSurplus = summary.TotalSurplus.Sub(ccHolding)
	if summary.AllocatableSurplus.IsNegative() {
		summary.AllocatableSurplus = decimal.Zero
	}

	return summary
}

// incomeShare returns the proportional share one source has of the
// total income.
func incomeShare(amount, total decimal.Decimal, count int) decimal.Decimal {
	if total.IsZero() {
		if count == 0 {
			return decimal.Zero
		}
		return decimal.New(1, 0).Div(decimal.NewFromInt(int64(count)))
	}

	return amount.Div(total)
}

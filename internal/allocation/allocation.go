// Package allocation implements the income allocation plan: which
// envelopes an income source funds, approval of concrete pay events and
// greedy redistribution of surplus money.
package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/envelopay/backend/internal/models"
)

var (
	ErrSumMismatch   = errors.New("allocations and surplus do not add up to the transaction amount")
	ErrNoAllocations = errors.New("at least one allocation or a surplus amount is required")
)

// MinimumDeficit is the smallest envelope deficit the greedy surplus
// distribution considers worth funding.
var MinimumDeficit = decimal.RequireFromString("0.5")

// Entry is one planned amount from an income source.
type Entry struct {
	IncomeSourceID uuid.UUID       `json:"incomeSourceId"`
	Amount         decimal.Decimal `json:"amount"`
}

// ReplaceForEnvelope replaces all allocations for one envelope with the
// entries passed in. Zero and negative amounts are skipped, priorities
// are assigned sequentially in input order. Runs in one database
// transaction so a failed insert leaves the previous plan intact.
func ReplaceForEnvelope(db *gorm.DB, userID, envelopeID uuid.UUID, entries []Entry) ([]models.Allocation, error) {
	var envelope models.Envelope
	err := db.Where(&models.Envelope{UserID: userID}).First(&envelope, envelopeID).Error
	if err != nil {
		return nil, err
	}

	allocations := make([]models.Allocation, 0)

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&models.Allocation{UserID: userID, EnvelopeID: envelopeID}).
			Delete(&models.Allocation{}).Error
		if err != nil {
			return err
		}

		var priority uint
		for _, entry := range entries {
			if !entry.Amount.IsPositive() {
				continue
			}

			var source models.IncomeSource
			err := tx.Where(&models.IncomeSource{UserID: userID}).First(&source, entry.IncomeSourceID).Error
			if err != nil {
				return err
			}

			allocation := models.Allocation{
				UserID:         userID,
				EnvelopeID:     envelopeID,
				IncomeSourceID: entry.IncomeSourceID,
				Amount:         entry.Amount,
				Priority:       priority,
			}
			if err := tx.Create(&allocation).Error; err != nil {
				return err
			}

			allocations = append(allocations, allocation)
			priority++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// Upsert creates or updates the single allocation for an (envelope,
// income source) pair. An amount of zero or less deletes the row.
//
// The returned allocation is nil when the row was deleted.
func Upsert(db *gorm.DB, userID, envelopeID, incomeSourceID uuid.UUID, amount decimal.Decimal) (*models.Allocation, error) {
	var envelope models.Envelope
	err := db.Where(&models.Envelope{UserID: userID}).First(&envelope, envelopeID).Error
	if err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		err := db.Where(&models.Allocation{UserID: userID, EnvelopeID: envelopeID, IncomeSourceID: incomeSourceID}).
			Delete(&models.Allocation{}).Error
		if err != nil {
			return nil, err
		}
		return nil, nil
	}

	var source models.IncomeSource
	err = db.Where(&models.IncomeSource{UserID: userID}).First(&source, incomeSourceID).Error
	if err != nil {
		return nil, err
	}

	var allocation models.Allocation
	err = db.Where(&models.Allocation{UserID: userID, EnvelopeID: envelopeID, IncomeSourceID: incomeSourceID}).
		First(&allocation).Error
	if err != nil {
		if !errors.Is(err, models.ErrResourceNotFound) && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		allocation = models.Allocation{
			UserID:         userID,
			EnvelopeID:     envelopeID,
			IncomeSourceID: incomeSourceID,
			Amount:         amount,
		}
		if err := db.Create(&allocation).Error; err != nil {
			return nil, err
		}
		return &allocation, nil
	}

	err = db.Model(&allocation).Update("amount", amount).Error
	if err != nil {
		return nil, err
	}

	allocation.Amount = amount
	return &allocation, nil
}

// EnvelopeAmount is one funded envelope in an approval request.
type EnvelopeAmount struct {
	EnvelopeID uuid.UUID       `json:"envelopeId"`
	Amount     decimal.Decimal `json:"amount"`
}

// ApprovalRequest describes a concrete pay event: the transaction that
// carried the money, how the caller wants it split across envelopes and
// the amount left as surplus.
type ApprovalRequest struct {
	TransactionID  uuid.UUID        `json:"transactionId"`
	IncomeSourceID uuid.UUID        `json:"incomeSourceId"`
	Allocations    []EnvelopeAmount `json:"allocations"`
	Surplus        decimal.Decimal  `json:"surplus"`

	// When set, the approved amounts overwrite the saved plan for the
	// income source.
	UpdatePlan bool `json:"updatePlan"`
}

// Approve validates and persists a pay event allocation.
//
// The allocation amounts plus the surplus must reconstruct the
// transaction amount within one cent, otherwise the request is rejected
// before anything is written.
//
// All writes happen in a single database transaction: one split row per
// funded envelope plus one for the surplus, a conditional balance
// increment per envelope, and a compare-and-swap marking the source
// transaction reconciled. Re-running an approval for an already
// reconciled transaction fails without touching any balance.
func Approve(db *gorm.DB, userID uuid.UUID, request ApprovalRequest) ([]models.TransactionSplit, error) {
	if len(request.Allocations) == 0 && request.Surplus.IsZero() {
		return nil, ErrNoAllocations
	}

	var transaction models.Transaction
	err := db.Where(&models.Transaction{UserID: userID}).First(&transaction, request.TransactionID).Error
	if err != nil {
		return nil, err
	}

	if transaction.Reconciled {
		return nil, models.ErrTransactionAlreadyReconciled
	}

	total := request.Surplus
	for _, entry := range request.Allocations {
		total = total.Add(entry.Amount)
	}

	if !models.WithinTolerance(total, transaction.Amount) {
		return nil, fmt.Errorf("%w: allocated %s of %s, a difference of %s",
			ErrSumMismatch, total, transaction.Amount, total.Sub(transaction.Amount).Abs())
	}

	splits := make([]models.TransactionSplit, 0, len(request.Allocations)+1)

	err = db.Transaction(func(tx *gorm.DB) error {
		// Compare-and-swap on the reconciled flag. A concurrent or
		// retried approval of the same transaction finds zero rows and
		// aborts before any balance is touched.
		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ? AND reconciled = ?", request.TransactionID, userID, false).
			Update("reconciled", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrTransactionAlreadyReconciled
		}

		for _, entry := range request.Allocations {
			var envelope models.Envelope
			err := tx.Where(&models.Envelope{UserID: userID}).First(&envelope, entry.EnvelopeID).Error
			if err != nil {
				return err
			}

			envelopeID := entry.EnvelopeID
			split := models.TransactionSplit{
				UserID:        userID,
				TransactionID: request.TransactionID,
				EnvelopeID:    &envelopeID,
				Amount:        entry.Amount,
			}
			if err := tx.Create(&split).Error; err != nil {
				return err
			}
			splits = append(splits, split)

			// Increment in the database, not read-then-write, so two
			// approvals funding the same envelope cannot lose updates
			err = tx.Model(&models.Envelope{}).
				Where("id = ? AND user_id = ?", entry.EnvelopeID, userID).
				Update("current_amount", gorm.Expr("current_amount + ?", entry.Amount)).Error
			if err != nil {
				return err
			}
		}

		if !request.Surplus.IsZero() {
			split := models.TransactionSplit{
				UserID:        userID,
				TransactionID: request.TransactionID,
				Amount:        request.Surplus,
			}
			if err := tx.Create(&split).Error; err != nil {
				return err
			}
			splits = append(splits, split)
		}

		if request.UpdatePlan {
			if err := overwritePlan(tx, userID, request); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return splits, nil
}

// overwritePlan replaces the saved allocations of the income source
// with the amounts that were just approved.
func overwritePlan(tx *gorm.DB, userID uuid.UUID, request ApprovalRequest) error {
	var source models.IncomeSource
	err := tx.Where(&models.IncomeSource{UserID: userID}).First(&source, request.IncomeSourceID).Error
	if err != nil {
		return err
	}

	err = tx.Where(&models.Allocation{UserID: userID, IncomeSourceID: request.IncomeSourceID}).
		Delete(&models.Allocation{}).Error
	if err != nil {
		return err
	}

	for i, entry := range request.Allocations {
		if !entry.Amount.IsPositive() {
			continue
		}

		allocation := models.Allocation{
			UserID:         userID,
			EnvelopeID:     entry.EnvelopeID,
			IncomeSourceID: request.IncomeSourceID,
			Amount:         entry.Amount,
			Priority:       uint(i),
		}
		if err := tx.Create(&allocation).Error; err != nil {
			return err
		}
	}

	return nil
}

// Grant is one envelope funded by the greedy surplus distribution.
type Grant struct {
	EnvelopeID uuid.UUID       `json:"envelopeId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

// Distribute hands out a surplus to underfunded envelopes, largest
// deficit first, with a stable tie-break on the envelope ID.
//
// Every envelope receives at most its deficit; deficits of fifty cents
// or less are skipped. One deterministic pass, no backtracking. Surplus
// and CC holding envelopes never receive surplus money.
func Distribute(amount decimal.Decimal, envelopes []models.Envelope) (grants []Grant, remaining decimal.Decimal) {
	grants = []Grant{}
	remaining = amount

	candidates := make([]models.Envelope, 0, len(envelopes))
	for _, envelope := range envelopes {
		if envelope.SurplusEnvelope || envelope.CCHolding || envelope.Dismissed {
			continue
		}
		if envelope.Deficit().LessThanOrEqual(MinimumDeficit) {
			continue
		}
		candidates = append(candidates, envelope)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].Deficit(), candidates[j].Deficit()
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	for _, envelope := range candidates {
		if !remaining.IsPositive() {
			break
		}

		grant := decimal.Min(remaining, envelope.Deficit())
		grants = append(grants, Grant{
			EnvelopeID: envelope.ID,
			Name:       envelope.Name,
			Amount:     grant,
		})
		remaining = remaining.Sub(grant)
	}

	return grants, remaining
}

// ApplySurplus runs the greedy distribution over the user's envelopes
// and persists the resulting balance increments in one transaction.
func ApplySurplus(db *gorm.DB, userID uuid.UUID, amount decimal.Decimal) ([]Grant, decimal.Decimal, error) {
	var envelopes []models.Envelope
	err := db.Where(&models.Envelope{UserID: userID}).Order("name ASC").Find(&envelopes).Error
	if err != nil {
		return nil, decimal.Zero, err
	}

	grants, remaining := Distribute(amount, envelopes)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, grant := range grants {
			err := tx.Model(&models.Envelope{}).
				Where("id = ? AND user_id = ?", grant.EnvelopeID, userID).
				Update("current_amount", gorm.Expr("current_amount + ?", grant.Amount)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return grants, remaining, nil
}

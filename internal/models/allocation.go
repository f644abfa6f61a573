package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation is the plan layer: the amount one income source commits to
// one envelope each pay cycle. There is at most one allocation per
// (income source, envelope) pair.
type Allocation struct {
	DefaultModel
	UserID         uuid.UUID    `gorm:"index"`
	EnvelopeID     uuid.UUID    `gorm:"uniqueIndex:allocation_envelope_income_source"`
	Envelope       Envelope     `json:"-"`
	IncomeSourceID uuid.UUID    `gorm:"uniqueIndex:allocation_envelope_income_source"`
	IncomeSource   IncomeSource `json:"-"`

	Amount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Priority uint            // Order of the allocation within the envelope
}

// BeforeSave validates the amount. Zero-amount allocations are deleted,
// never stored.
func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if !a.Amount.IsPositive() {
		return ErrAllocationAmountNegative
	}

	return nil
}

// CommittedPerSource returns the summed allocation amounts for a user,
// keyed by income source.
func CommittedPerSource(db *gorm.DB, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var allocations []Allocation

	err := db.Where(&Allocation{UserID: userID}).Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	committed := make(map[uuid.UUID]decimal.Decimal)
	for _, allocation := range allocations {
		committed[allocation.IncomeSourceID] = committed[allocation.IncomeSourceID].Add(allocation.Amount)
	}

	return committed, nil
}

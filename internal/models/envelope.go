package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EnvelopePriority orders envelopes by how important funding them is.
type EnvelopePriority string

const (
	PriorityEssential     EnvelopePriority = "essential"
	PriorityImportant     EnvelopePriority = "important"
	PriorityDiscretionary EnvelopePriority = "discretionary"
)

// Envelope represents a budget category: a named bucket with a funding
// target and the actual money currently held for it.
type Envelope struct {
	DefaultModel
	UserID   uuid.UUID        `gorm:"uniqueIndex:envelope_name_user_id;index"`
	Name     string           `gorm:"uniqueIndex:envelope_name_user_id"`
	Priority EnvelopePriority `gorm:"default:discretionary"`
	Note     string

	TargetAmount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The amount the envelope should hold
	CurrentAmount  decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The amount the envelope actually holds
	PayCycleAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The planned commitment per pay cycle

	SurplusEnvelope bool // Receives unallocated income
	CCHolding       bool // Holds money set aside for a pending credit card payment
	Dismissed       bool
	Suggested       bool
}

// BeforeSave trims whitespace and enforces that an envelope cannot be
// both the surplus target and a credit card holding envelope.
func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Note = strings.TrimSpace(e.Note)

	if e.SurplusEnvelope && e.CCHolding {
		return ErrEnvelopeSurplusAndCCHolding
	}

	if e.Priority == "" {
		e.Priority = PriorityDiscretionary
	}

	return nil
}

// Deficit returns how far the envelope is from its target. Negative
// values mean the envelope holds more than its target.
func (e Envelope) Deficit() decimal.Decimal {
	return e.TargetAmount.Sub(e.CurrentAmount)
}

// EnvelopeBalances returns the summed current amount of all non-surplus
// envelopes and the balance of the CC holding envelopes for a user.
func EnvelopeBalances(db *gorm.DB, userID uuid.UUID) (total, ccHolding decimal.Decimal, err error) {
	var envelopes []Envelope

	err = db.Where(&Envelope{UserID: userID}).Find(&envelopes).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	for _, envelope := range envelopes {
		total = total.Add(envelope.CurrentAmount)
		if envelope.CCHolding {
			ccHolding = ccHolding.Add(envelope.CurrentAmount)
		}
	}

	return total, ccHolding, nil
}

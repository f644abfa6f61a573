package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionSplit records how an approved pay event was divided across
// envelopes. A split with a nil EnvelopeID is the surplus portion.
type TransactionSplit struct {
	DefaultModel
	UserID        uuid.UUID   `gorm:"index"`
	TransactionID uuid.UUID   `gorm:"index"`
	Transaction   Transaction `json:"-"`

	EnvelopeID *uuid.UUID
	Envelope   Envelope `json:"-"`

	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType classifies a transaction.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// TypeForAmount infers the transaction type from the sign of the
// amount. Inflows are income, outflows are expenses.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeExpense
	}

	return TypeIncome
}

// Transaction represents money moving in or out of an account. The
// amount is signed, positive amounts are inflows.
type Transaction struct {
	DefaultModel
	UserID    uuid.UUID `gorm:"index"`
	AccountID uuid.UUID `gorm:"index"`
	Account   Account   `json:"-"`

	Date   time.Time       // Time of day is currently only used for sorting
	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Payee  string
	Note   string

	EnvelopeID *uuid.UUID
	Envelope   Envelope `json:"-"`

	Type TransactionType `gorm:"default:expense"`

	// Transfer state. A pending transaction waits for its counterpart
	// on another account; a linked pair references each other mutually.
	LinkedTransactionID *uuid.UUID
	TransferPending     bool

	// Set when a pay event has been approved for this transaction
	Reconciled bool
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - defaults the type from the sign of the amount
//   - enforces that pending transfers carry no envelope
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	// Ensure that the Envelope ID is nil and not a pointer to a nil UUID
	// when it is set
	if t.EnvelopeID != nil && *t.EnvelopeID == uuid.Nil {
		t.EnvelopeID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.Type == "" {
		t.Type = TypeForAmount(t.Amount)
	}

	if t.TransferPending && t.EnvelopeID != nil {
		return ErrTransactionPendingWithEnvelope
	}

	return
}

// CountsTowardEnvelopes reports whether the transaction contributes to
// envelope totals. Pending and linked transfers do not: they move money
// between owned accounts without being income or spending.
func (t Transaction) CountsTowardEnvelopes() bool {
	return !t.TransferPending && t.Type != TypeTransfer
}

// TransferCounts returns the number of one-sided pending transfers and
// the number of linked transfer pairs for a user.
func TransferCounts(db *gorm.DB, userID uuid.UUID) (pending, linkedPairs int64, err error) {
	err = db.Model(&Transaction{}).
		Where(&Transaction{UserID: userID, TransferPending: true}).
		Count(&pending).Error
	if err != nil {
		return 0, 0, err
	}

	var linked int64
	err = db.Model(&Transaction{}).
		Where(&Transaction{UserID: userID}).
		Where("linked_transaction_id IS NOT NULL").
		Count(&linked).Error
	if err != nil {
		return 0, 0, err
	}

	// Every linked transfer occupies two transaction rows
	return pending, linked / 2, nil
}

package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountType describes what kind of account this is.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "creditCard"
	AccountTypeCash       AccountType = "cash"
)

// Account represents a real-world account money moves through, e.g. a
// bank account or a credit card.
type Account struct {
	DefaultModel
	UserID         uuid.UUID   `gorm:"uniqueIndex:account_name_user_id;index"`
	Name           string      `gorm:"uniqueIndex:account_name_user_id"`
	Type           AccountType `gorm:"default:checking"`
	Note           string
	CurrentBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived       bool

	// Credit card fields, used to build debt snapshots. Zero for other
	// account types.
	APR            decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	MinimumPayment decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// BeforeSave trims whitespace from all strings and defaults the type.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	if a.Type == "" {
		a.Type = AccountTypeChecking
	}

	return nil
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	db.Where(&Transaction{AccountID: a.ID}).Find(&transactions)
	return transactions
}

// Balances returns the sum of the current balances of all matching
// accounts for a user.
func Balances(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(&Account{}).
		Where(&Account{UserID: userID}).
		Where("archived = ?", false).
		Select("SUM(current_balance)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

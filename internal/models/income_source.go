package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayCycle is the frequency an income source pays out with.
type PayCycle string

const (
	PayCycleWeekly      PayCycle = "weekly"
	PayCycleFortnightly PayCycle = "fortnightly"
	PayCycleMonthly     PayCycle = "monthly"
	PayCycleQuarterly   PayCycle = "quarterly"
)

// IncomeSource represents a recurring inflow, e.g. a salary.
type IncomeSource struct {
	DefaultModel
	UserID uuid.UUID `gorm:"uniqueIndex:income_source_name_user_id;index"`
	Name   string    `gorm:"uniqueIndex:income_source_name_user_id"`

	Amount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Amount per pay cycle
	PayCycle PayCycle        `gorm:"default:monthly"`

	// Glob pattern matched against the payee of incoming transactions
	// to detect pay events, e.g. "ACME*PAYROLL*".
	MatchPattern string

	// No column default here. gorm does not send zero values on Create,
	// so a default of true would silently overwrite Active: false.
	Active bool
}

// BeforeSave trims whitespace and validates the amount.
func (i *IncomeSource) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.MatchPattern = strings.TrimSpace(i.MatchPattern)

	if i.Amount.IsNegative() {
		return ErrIncomeSourceAmountNegative
	}

	if i.PayCycle == "" {
		i.PayCycle = PayCycleMonthly
	}

	return nil
}

// Package reconciliation verifies the arithmetic identity between
// account balances and envelope balances. It computes a report and
// never mutates state: a violated identity is surfaced, not repaired.
package reconciliation

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/envelopay/backend/internal/models"
)

var driftGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "reconciliation_surplus",
	Help: "The surplus computed by the last reconciliation run, account totals minus envelope totals plus CC holding.",
})

// AccountBalance is one account's contribution to the report.
type AccountBalance struct {
	AccountID uuid.UUID       `json:"accountId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// EnvelopeBalance is one envelope's contribution to the report.
type EnvelopeBalance struct {
	EnvelopeID uuid.UUID       `json:"envelopeId"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	CCHolding  bool            `json:"ccHolding"`
}

// Report is the full balance identity breakdown.
//
// The identity is
//
//	sum(accounts) == sum(envelopes) - ccHolding + surplus
//
// rearranged here to compute the surplus term. A surplus far from the
// expected value indicates money that is in accounts but not planned in
// any envelope, or vice versa.
type Report struct {
	Accounts  []AccountBalance  `json:"accounts"`
	Envelopes []EnvelopeBalance `json:"envelopes"`

	AccountTotal     decimal.Decimal `json:"accountTotal"`
	EnvelopeTotal    decimal.Decimal `json:"envelopeTotal"`
	CCHoldingBalance decimal.Decimal `json:"ccHoldingBalance"`
	Surplus          decimal.Decimal `json:"surplus"`

	// The surplus envelope is part of the envelope total, so with
	// perfect books the residual surplus is zero. Balanced is whether
	// it is within one cent of that; money in accounts that no
	// envelope accounts for (or vice versa) shows up here.
	SurplusEnvelopeBalance decimal.Decimal `json:"surplusEnvelopeBalance"`
	Balanced               bool            `json:"balanced"`

	PendingTransfers int64 `json:"pendingTransfers"`
	LinkedPairs      int64 `json:"linkedPairs"`
}

// Compute builds the reconciliation report for one user from the
// current account and envelope snapshots.
func Compute(db *gorm.DB, userID uuid.UUID) (Report, error) {
	report := Report{
		Accounts:  []AccountBalance{},
		Envelopes: []EnvelopeBalance{},
	}

	var accounts []models.Account
	err := db.Where(&models.Account{UserID: userID}).
		Where("archived = ?", false).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		return report, err
	}

	for _, account := range accounts {
		report.Accounts = append(report.Accounts, AccountBalance{
			AccountID: account.ID,
			Name:      account.Name,
			Balance:   account.CurrentBalance,
		})
	}

	report.AccountTotal, err = models.Balances(db, userID)
	if err != nil {
		return report, err
	}

	var envelopes []models.Envelope
	err = db.Where(&models.Envelope{UserID: userID}).Order("name ASC").Find(&envelopes).Error
	if err != nil {
		return report, err
	}

	for _, envelope := range envelopes {
		report.Envelopes = append(report.Envelopes, EnvelopeBalance{
			EnvelopeID: envelope.ID,
			Name:       envelope.Name,
			Balance:    envelope.CurrentAmount,
			CCHolding:  envelope.CCHolding,
		})
		report.EnvelopeTotal = report.EnvelopeTotal.Add(envelope.CurrentAmount)
		if envelope.CCHolding {
			report.CCHoldingBalance = report.CCHoldingBalance.Add(envelope.CurrentAmount)
		}
		if envelope.SurplusEnvelope {
			report.SurplusEnvelopeBalance = report.SurplusEnvelopeBalance.Add(envelope.CurrentAmount)
		}
	}

	report.Surplus = report.AccountTotal.Sub(report.EnvelopeTotal).Add(report.CCHoldingBalance)
	report.Balanced = models.WithinTolerance(report.Surplus, decimal.Zero)

	report.PendingTransfers, report.LinkedPairs, err = models.TransferCounts(db, userID)
	if err != nil {
		return report, err
	}

	surplus, _ := report.Surplus.Float64()
	driftGauge.Set(surplus)

	return report, nil
}

// Package transfers detects and manages internal transfers: pairs of
// transactions on different accounts that represent one movement of
// money and must not count as income or spending.
package transfers

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/envelopay/backend/internal/models"
)

// MatchWindowDays is the symmetric window within which two transactions
// can be considered sides of the same transfer.
const MatchWindowDays = 3

// DefaultScanDays bounds how far back the candidate scan looks, so the
// work stays proportional to recent activity.
const DefaultScanDays = 30

// HighConfidence is the score at or above which a candidate pair is
// presented as a probable transfer.
const HighConfidence = 0.65

var linkedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "transfers_linked_total",
	Help: "How many transfer pairs have been linked.",
})

var unlinkedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "transfers_unlinked_total",
	Help: "How many transfer pairs have been unlinked.",
})

// Candidate is a probable transfer pair with its confidence score.
type Candidate struct {
	Transaction  models.Transaction `json:"transaction"`
	Counterpart  models.Transaction `json:"counterpart"`
	Confidence   float64            `json:"confidence"`
	HighlyLikely bool               `json:"highlyLikely"`
}

// CandidatesFor returns all eligible counterparts for one transaction,
// ordered by descending confidence.
//
// Eligible partners are unlinked, belong to a different account and lie
// within the match window with an amount that is the additive inverse
// within one cent.
func CandidatesFor(db *gorm.DB, transaction models.Transaction) ([]Candidate, error) {
	var partners []models.Transaction

	windowStart := transaction.Date.AddDate(0, 0, -MatchWindowDays)
	windowEnd := transaction.Date.AddDate(0, 0, MatchWindowDays)

	err := db.
		Preload("Account").
		Where(&models.Transaction{UserID: transaction.UserID}).
		Where("linked_transaction_id IS NULL").
		Where("account_id != ?", transaction.AccountID).
		Where("date >= ? AND date <= ?", windowStart, windowEnd).
		Find(&partners).Error
	if err != nil {
		return nil, err
	}

	candidates := []Candidate{}
	for _, partner := range partners {
		if !models.WithinTolerance(transaction.Amount.Neg(), partner.Amount) {
			continue
		}

		confidence := score(transaction, partner, partner.Account.Name)
		candidates = append(candidates, Candidate{
			Transaction:  transaction,
			Counterpart:  partner,
			Confidence:   confidence,
			HighlyLikely: confidence >= HighConfidence,
		})
	}

	// Highest confidence first, stable on the counterpart ID so the
	// proposal order is deterministic
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Counterpart.ID.String() < candidates[j].Counterpart.ID.String()
	})

	return candidates, nil
}

// Scan proposes transfer pairs among all unlinked transactions of the
// last scanDays days.
//
// Matching is greedy: each transaction is paired with its highest
// confidence counterpart that has not been claimed by an earlier
// proposal. This is deliberately not a minimum-cost assignment; with
// many simultaneous ambiguous candidates the pairing is first-come.
func Scan(db *gorm.DB, userID uuid.UUID, scanDays int) ([]Candidate, error) {
	if scanDays <= 0 {
		scanDays = DefaultScanDays
	}

	var transactions []models.Transaction
	err := db.
		Where(&models.Transaction{UserID: userID}).
		Where("linked_transaction_id IS NULL").
		Where("date >= ?", time.Now().In(time.UTC).AddDate(0, 0, -scanDays)).
		Order("date DESC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	claimed := make(map[uuid.UUID]bool)
	proposals := []Candidate{}

	for _, transaction := range transactions {
		if claimed[transaction.ID] {
			continue
		}

		candidates, err := CandidatesFor(db, transaction)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			if claimed[candidate.Counterpart.ID] {
				continue
			}

			claimed[transaction.ID] = true
			claimed[candidate.Counterpart.ID] = true
			proposals = append(proposals, candidate)
			break
		}
	}

	return proposals, nil
}

// score combines date proximity and textual evidence into a bounded
// confidence value.
//
// An eligible pair starts at 0.5. Date proximity contributes up to 0.3,
// linearly falling off over the match window. Textual evidence, the
// counter account's name or the word "transfer" appearing in payee or
// note, contributes 0.2. A same-day pair with text evidence scores 1.0.
func score(a, b models.Transaction, counterAccountName string) float64 {
	confidence := 0.5

	days := a.Date.Sub(b.Date).Hours() / 24
	if days < 0 {
		days = -days
	}
	if days > MatchWindowDays {
		days = MatchWindowDays
	}
	confidence += 0.3 * (1 - days/MatchWindowDays)

	if hasTextEvidence(a, counterAccountName) || hasTextEvidence(b, counterAccountName) {
		confidence += 0.2
	}

	return confidence
}

var fold = cases.Fold()

func hasTextEvidence(t models.Transaction, counterAccountName string) bool {
	text := fold.String(t.Payee + " " + t.Note)

	if strings.Contains(text, fold.String("transfer")) {
		return true
	}

	name := strings.TrimSpace(counterAccountName)
	return name != "" && strings.Contains(text, fold.String(name))
}

// Package debts simulates multi-card debt repayment schedules and
// compares the avalanche and snowball strategies.
package debts

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/models"
)

// maxMonths caps the simulation so a budget below the accruing interest
// cannot loop forever.
const maxMonths = 1200

var twelve = decimal.NewFromInt(12)

// CardDebt is a point-in-time snapshot of one revolving debt. Snapshots
// are recomputed from live account data per request and never stored.
type CardDebt struct {
	AccountID      uuid.UUID       `json:"accountId"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	APR            decimal.Decimal `json:"apr"`
	MinimumPayment decimal.Decimal `json:"minimumPayment"`
}

// Schedule is the outcome of simulating one repayment strategy.
type Schedule struct {
	Strategy       string          `json:"strategy"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	MonthsToPayoff int             `json:"monthsToPayoff"`
	PayoffOrder    []string        `json:"payoffOrder"`
}

// Comparison holds both strategies side by side.
//
// Avalanche is interest-optimal under the greedy assumption that extra
// money goes to one card at a time; the difference column shows what
// the snowball ordering costs.
type Comparison struct {
	Avalanche          Schedule        `json:"avalanche"`
	Snowball           Schedule        `json:"snowball"`
	InterestDifference decimal.Decimal `json:"interestDifference"`
}

// Snapshots builds debt snapshots from the user's credit card accounts.
// Only cards that actually carry debt (a negative balance) are
// included.
func Snapshots(accounts []models.Account) []CardDebt {
	debts := []CardDebt{}

	for _, account := range accounts {
		if account.Type != models.AccountTypeCreditCard {
			continue
		}
		if !account.CurrentBalance.IsNegative() {
			continue
		}

		debts = append(debts, CardDebt{
			AccountID:      account.ID,
			Name:           account.Name,
			Balance:        account.CurrentBalance.Neg(),
			APR:            account.APR,
			MinimumPayment: account.MinimumPayment,
		})
	}

	return debts
}

// Compare simulates both repayment strategies over the same debts and
// extra monthly budget.
func Compare(debts []CardDebt, extraBudget decimal.Decimal) Comparison {
	avalanche := simulate("avalanche", debts, extraBudget, byAPRDescending)
	snowball := simulate("snowball", debts, extraBudget, byBalanceAscending)

	return Comparison{
		Avalanche:          avalanche,
		Snowball:           snowball,
		InterestDifference: snowball.TotalInterest.Sub(avalanche.TotalInterest),
	}
}

// byAPRDescending is the avalanche order: most expensive debt first.
func byAPRDescending(debts []CardDebt) {
	sort.SliceStable(debts, func(i, j int) bool {
		if !debts[i].APR.Equal(debts[j].APR) {
			return debts[i].APR.GreaterThan(debts[j].APR)
		}
		return debts[i].Balance.LessThan(debts[j].Balance)
	})
}

// byBalanceAscending is the snowball order: smallest debt first.
func byBalanceAscending(debts []CardDebt) {
	sort.SliceStable(debts, func(i, j int) bool {
		if !debts[i].Balance.Equal(debts[j].Balance) {
			return debts[i].Balance.LessThan(debts[j].Balance)
		}
		return debts[i].APR.GreaterThan(debts[j].APR)
	})
}

// simulate runs a month-by-month amortization.
//
// Each month every open card accrues apr/12 interest and receives its
// minimum payment. The extra budget, together with minimums freed by
// already-zeroed cards, goes entirely to the highest-priority card
// still carrying a balance, cascading to the next one when it is paid
// off mid-month.
func simulate(strategy string, debts []CardDebt, extraBudget decimal.Decimal, order func([]CardDebt)) Schedule {
	cards := make([]CardDebt, len(debts))
	copy(cards, debts)
	order(cards)

	schedule := Schedule{
		Strategy:    strategy,
		PayoffOrder: []string{},
	}

	// The monthly budget is constant: all minimums plus the extra.
	// Minimums of paid-off cards stay in the budget and roll into the
	// extra payment.
	budget := extraBudget
	for _, card := range cards {
		budget = budget.Add(card.MinimumPayment)
	}

	open := func() bool {
		for _, card := range cards {
			if card.Balance.IsPositive() {
				return true
			}
		}
		return false
	}

	for open() && schedule.MonthsToPayoff < maxMonths {
		schedule.MonthsToPayoff++
		remaining := budget

		// Interest accrual
		for i := range cards {
			if !cards[i].Balance.IsPositive() {
				continue
			}

			interest := cards[i].Balance.Mul(cards[i].APR).Div(twelve)
			cards[i].Balance = cards[i].Balance.Add(interest)
			schedule.TotalInterest = schedule.TotalInterest.Add(interest)
		}

		// Minimum payments
		for i := range cards {
			if !cards[i].Balance.IsPositive() {
				continue
			}

			payment := decimal.Min(cards[i].MinimumPayment, cards[i].Balance, remaining)
			cards[i].Balance = cards[i].Balance.Sub(payment)
			remaining = remaining.Sub(payment)
		}

		// Everything left goes to the highest-priority open card,
		// cascading when a card is cleared mid-month
		for i := range cards {
			if !remaining.IsPositive() {
				break
			}
			if !cards[i].Balance.IsPositive() {
				continue
			}

			payment := decimal.Min(remaining, cards[i].Balance)
			cards[i].Balance = cards[i].Balance.Sub(payment)
			remaining = remaining.Sub(payment)
		}

		for i := range cards {
			if !cards[i].Balance.IsPositive() && !contains(schedule.PayoffOrder, cards[i].Name) {
				schedule.PayoffOrder = append(schedule.PayoffOrder, cards[i].Name)
			}
		}
	}

	schedule.TotalInterest = schedule.TotalInterest.Round(2)

	return schedule
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

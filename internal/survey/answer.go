package survey

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
)

// HighDownPaymentRatio is the down payment share at which PMI is not required
const HighDownPaymentRatio = 0.20

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Answer is a committed value for one survey step
type Answer interface {
	// Step returns the state this answer belongs to
	Step() model.State

	// apply writes the answer into the record and returns the next state
	apply(a *model.Answers, now time.Time) (model.State, error)
}

// ConventionalAnswer answers step 1
type ConventionalAnswer struct {
	Conventional bool
}

func (ConventionalAnswer) Step() model.State { return model.StateConventional }

func (c ConventionalAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if err := a.SetConventional(c.Conventional); err != nil {
		return "", err
	}
	if !c.Conventional {
		return model.StateExitNonConventional, nil
	}
	return model.StatePurchase, nil
}

// PurchaseAnswer answers step 2
type PurchaseAnswer struct {
	Price       float64
	DownPayment float64
}

func (PurchaseAnswer) Step() model.State { return model.StatePurchase }

func (p PurchaseAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if p.DownPayment < 0 || p.DownPayment > p.Price {
		return "", fmt.Errorf("down payment %v outside [0, %v]", p.DownPayment, p.Price)
	}
	if err := a.SetPurchase(p.Price, p.DownPayment); err != nil {
		return "", err
	}
	if p.DownPayment/p.Price >= HighDownPaymentRatio {
		return model.StateExitHighDownPayment, nil
	}
	return model.StatePurchaseDate, nil
}

// PurchaseDateAnswer answers step 3
type PurchaseDateAnswer struct {
	Year  int
	Month int // 1-12
}

func (PurchaseDateAnswer) Step() model.State { return model.StatePurchaseDate }

func (d PurchaseDateAnswer) apply(a *model.Answers, now time.Time) (model.State, error) {
	months := MonthsSince(d.Year, d.Month, now)
	if err := a.SetPurchaseDate(d.Year, d.Month, months); err != nil {
		return "", err
	}
	return model.StateZip, nil
}

// ZipAnswer answers step 4
type ZipAnswer struct {
	Zip string
}

func (ZipAnswer) Step() model.State { return model.StateZip }

func (z ZipAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if !zipPattern.MatchString(z.Zip) {
		return "", fmt.Errorf("invalid ZIP code %q", z.Zip)
	}
	if err := a.SetZipCode(z.Zip); err != nil {
		return "", err
	}
	return model.StateInterest, nil
}

// InterestAnswer answers step 5. A nil Rate means the homeowner skipped the
// question and the service should use the average rate for the purchase month.
type InterestAnswer struct {
	Rate *float64
}

func (InterestAnswer) Step() model.State { return model.StateInterest }

func (i InterestAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if err := a.SetInterestRate(i.Rate); err != nil {
		return "", err
	}
	return model.StateCreditScore, nil
}

// CreditScoreAnswer answers step 6; nil Score means skipped
type CreditScoreAnswer struct {
	Score *string
}

func (CreditScoreAnswer) Step() model.State { return model.StateCreditScore }

func (c CreditScoreAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if c.Score != nil && !isCreditScore(*c.Score) {
		return "", fmt.Errorf("unknown credit score bucket %q", *c.Score)
	}
	if err := a.SetCreditScore(c.Score); err != nil {
		return "", err
	}
	return model.StateDelinquency, nil
}

// DelinquencyAnswer answers step 7
type DelinquencyAnswer struct {
	CurrentlyDelinquent bool
	Late30              bool
	Late60              bool
}

func (DelinquencyAnswer) Step() model.State { return model.StateDelinquency }

func (d DelinquencyAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if err := a.SetDelinquency(d.CurrentlyDelinquent, d.Late30, d.Late60); err != nil {
		return "", err
	}
	return model.StateEquityBoost, nil
}

// EquityBoostAnswer answers step 8
type EquityBoostAnswer struct {
	EquityBoost        bool
	RenovationValue    float64
	AdditionalPayments float64
}

func (EquityBoostAnswer) Step() model.State { return model.StateEquityBoost }

func (e EquityBoostAnswer) apply(a *model.Answers, _ time.Time) (model.State, error) {
	if err := a.SetEquityBoost(e.EquityBoost, e.RenovationValue, e.AdditionalPayments); err != nil {
		return "", err
	}
	return model.StateDone, nil
}

// MonthsSince returns whole months between the purchase month and now.
// Day of month is ignored.
func MonthsSince(year, month int, now time.Time) int {
	return (now.Year()-year)*12 + (int(now.Month()) - month)
}

func isCreditScore(label string) bool {
	for _, s := range model.CreditScores {
		if s == label {
			return true
		}
	}
	return false
}

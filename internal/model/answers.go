package model

import (
	"errors"
	"fmt"
)

// ErrAnswerAlreadySet is returned when a key of the record is written twice
var ErrAnswerAlreadySet = errors.New("answer already set")

// Key identifies a single answer in the record
type Key uint

const (
	KeyConventional Key = iota
	KeyPurchasePrice
	KeyDownPayment
	KeyOriginalLTV
	KeyOwnershipMonths
	KeyPurchaseYear
	KeyPurchaseMonth
	KeyZipCode
	KeyInterestRate
	KeyCreditScore
	KeyCurrentlyDelinquent
	KeyLate30
	KeyLate60
	KeyEquityBoost
	KeyRenovationValue
	KeyAdditionalPayments
)

var keyNames = [...]string{
	"conventional",
	"purchasePrice",
	"downPayment",
	"originalLTV",
	"ownershipMonths",
	"purchaseYear",
	"purchaseMonth",
	"zipCode",
	"interestRate",
	"creditScore",
	"currentlyDelinquent",
	"late30",
	"late60",
	"equityBoost",
	"renovationValue",
	"additionalPayments",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// KeySet is a bit set of written keys
type KeySet uint32

// Has reports whether k is in the set
func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

// Credit score buckets offered by the survey
const (
	CreditExcellent = "Excellent (760+)"
	CreditGreat     = "Great (720 - 759)"
	CreditGood      = "Good (660 - 719)"
	CreditFair      = "Fair (Below 660)"
)

// CreditScores lists the selectable credit score labels in display order
var CreditScores = []string{CreditExcellent, CreditGreat, CreditGood, CreditFair}

// DefaultCreditScore is sent when the homeowner skips the credit score step
const DefaultCreditScore = CreditGreat

// Answers is the record built up while the homeowner moves through the survey.
// Every key is written at most once; InterestRate and CreditScore stay nil
// when the corresponding step was skipped.
type Answers struct {
	Conventional        bool     `json:"conventional"`
	PurchasePrice       float64  `json:"purchasePrice"`
	DownPayment         float64  `json:"downPayment"`
	OriginalLTV         float64  `json:"originalLTV"`
	OwnershipMonths     int      `json:"ownershipMonths"`
	PurchaseYear        int      `json:"purchaseYear"`
	PurchaseMonth       int      `json:"purchaseMonth"`
	ZipCode             string   `json:"zipCode"`
	InterestRate        *float64 `json:"interestRate"` // fraction, e.g. 0.045
	CreditScore         *string  `json:"creditScore"`
	CurrentlyDelinquent bool     `json:"currentlyDelinquent"`
	Late30              bool     `json:"late30"`
	Late60              bool     `json:"late60"`
	EquityBoost         bool     `json:"equityBoost"`
	RenovationValue     float64  `json:"renovationValue"`
	AdditionalPayments  float64  `json:"additionalPayments"`

	Written KeySet `json:"written"`
}

// Has reports whether k has been written
func (a *Answers) Has(k Key) bool {
	return a.Written.Has(k)
}

// Keys returns the written keys in declaration order
func (a *Answers) Keys() []Key {
	var keys []Key
	for k := KeyConventional; k <= KeyAdditionalPayments; k++ {
		if a.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// claim marks keys as written, failing without side effects if any is already set
func (a *Answers) claim(keys ...Key) error {
	for _, k := range keys {
		if a.Has(k) {
			return fmt.Errorf("%s: %w", k, ErrAnswerAlreadySet)
		}
	}
	for _, k := range keys {
		a.Written |= 1 << k
	}
	return nil
}

// SetConventional records whether the mortgage is a 30-year conventional loan
func (a *Answers) SetConventional(v bool) error {
	if err := a.claim(KeyConventional); err != nil {
		return err
	}
	a.Conventional = v
	return nil
}

// SetPurchase records price, down payment and the derived original LTV.
// price must be positive.
func (a *Answers) SetPurchase(price, downPayment float64) error {
	if price <= 0 {
		return fmt.Errorf("purchase price must be positive, got %v", price)
	}
	if err := a.claim(KeyPurchasePrice, KeyDownPayment, KeyOriginalLTV); err != nil {
		return err
	}
	a.PurchasePrice = price
	a.DownPayment = downPayment
	a.OriginalLTV = (price - downPayment) / price
	return nil
}

// SetPurchaseDate records the purchase month and year with the ownership length
func (a *Answers) SetPurchaseDate(year, month, ownershipMonths int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("purchase month out of range: %d", month)
	}
	if err := a.claim(KeyPurchaseYear, KeyPurchaseMonth, KeyOwnershipMonths); err != nil {
		return err
	}
	a.PurchaseYear = year
	a.PurchaseMonth = month
	a.OwnershipMonths = ownershipMonths
	return nil
}

// SetZipCode records the 5-digit ZIP code
func (a *Answers) SetZipCode(zip string) error {
	if err := a.claim(KeyZipCode); err != nil {
		return err
	}
	a.ZipCode = zip
	return nil
}

// SetInterestRate records the rate as a fraction; nil means skipped
func (a *Answers) SetInterestRate(rate *float64) error {
	if err := a.claim(KeyInterestRate); err != nil {
		return err
	}
	if rate != nil {
		v := *rate
		rate = &v
	}
	a.InterestRate = rate
	return nil
}

// SetCreditScore records the credit score bucket; nil means skipped
func (a *Answers) SetCreditScore(score *string) error {
	if err := a.claim(KeyCreditScore); err != nil {
		return err
	}
	if score != nil {
		v := *score
		score = &v
	}
	a.CreditScore = score
	return nil
}

// SetDelinquency records the three payment history flags
func (a *Answers) SetDelinquency(current, late30, late60 bool) error {
	if err := a.claim(KeyCurrentlyDelinquent, KeyLate30, KeyLate60); err != nil {
		return err
	}
	a.CurrentlyDelinquent = current
	a.Late30 = late30
	a.Late60 = late60
	return nil
}

// SetEquityBoost records the equity boost answer and its two estimates
func (a *Answers) SetEquityBoost(boost bool, renovationValue, additionalPayments float64) error {
	if renovationValue < 0 || additionalPayments < 0 {
		return fmt.Errorf("equity estimates must be non-negative")
	}
	if err := a.claim(KeyEquityBoost, KeyRenovationValue, KeyAdditionalPayments); err != nil {
		return err
	}
	a.EquityBoost = boost
	a.RenovationValue = renovationValue
	a.AdditionalPayments = additionalPayments
	return nil
}

// Clone returns a deep copy safe to hand out as a read-only view
func (a Answers) Clone() Answers {
	if a.InterestRate != nil {
		v := *a.InterestRate
		a.InterestRate = &v
	}
	if a.CreditScore != nil {
		v := *a.CreditScore
		a.CreditScore = &v
	}
	return a
}

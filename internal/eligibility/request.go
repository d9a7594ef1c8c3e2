// Package eligibility sends the completed answer record to the PMI scoring
// service and decodes its verdict.
package eligibility

import (
	"github.com/ppiankov/pmicheck/internal/model"
)

// BuildRequest maps an answer record onto the service payload. A skipped
// interest rate is left out so the service can use the average rate for the
// purchase month; a skipped credit score becomes the default bucket.
func BuildRequest(a model.Answers) model.Request {
	req := model.Request{
		Zip:                 a.ZipCode,
		PurchaseYear:        a.PurchaseYear,
		PurchaseMonth:       a.PurchaseMonth,
		PurchasePrice:       a.PurchasePrice,
		DownPayment:         a.DownPayment,
		CreditScore:         model.DefaultCreditScore,
		CurrentlyDelinquent: a.CurrentlyDelinquent,
		Late30In12Mo:        a.Late30,
		Late60In24Mo:        a.Late60,
		EquityBoost:         a.EquityBoost,
		RenovationValue:     a.RenovationValue,
		AdditionalPayments:  a.AdditionalPayments,
	}

	if a.InterestRate != nil {
		rate := *a.InterestRate
		req.InterestRate = &rate
	}
	if a.CreditScore != nil && *a.CreditScore != "" {
		req.CreditScore = *a.CreditScore
	}

	return req
}

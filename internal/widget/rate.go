package widget

import (
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// MaxInterestRate is the highest accepted rate in percent
const MaxInterestRate = 20

// RateField takes the mortgage interest rate in percent
type RateField struct {
	raw string
}

func (f *RateField) Step() model.State { return model.StateInterest }

// Input replaces the draft, keeping digits and one decimal point
func (f *RateField) Input(raw string) {
	f.raw = DecimalOnly(raw)
}

// Percent returns the parsed rate in percent
func (f *RateField) Percent() (float64, bool) {
	return parseAmount(f.raw)
}

// Display returns the blurred form, e.g. 4.5%
func (f *RateField) Display() string {
	v, ok := f.Percent()
	if !ok {
		return f.raw
	}
	return FormatNumber(v) + "%"
}

// Valid reports whether the rate is in (0, 20]
func (f *RateField) Valid() bool {
	v, ok := f.Percent()
	return ok && v > 0 && v <= MaxInterestRate
}

// Commit returns the rate as a fraction: 4.5 becomes 0.045
func (f *RateField) Commit() (survey.Answer, error) {
	if !f.Valid() {
		return nil, invalid(f.Step())
	}
	v, _ := f.Percent()
	rate := v / 100
	return survey.InterestAnswer{Rate: &rate}, nil
}

// Skip commits no rate; the service falls back to the average for the purchase month
func (f *RateField) Skip() (survey.Answer, error) {
	return survey.InterestAnswer{Rate: nil}, nil
}

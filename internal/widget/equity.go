package widget

import (
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// EquityBoost asks about renovations and extra principal payments. "No"
// commits immediately; "Yes" reveals two optional estimate inputs.
type EquityBoost struct {
	revealed           bool
	renovationValue    string
	additionalPayments string
}

func (e *EquityBoost) Step() model.State { return model.StateEquityBoost }

// No commits {false, 0, 0} without revealing the estimate inputs
func (e *EquityBoost) No() survey.Answer {
	return survey.EquityBoostAnswer{EquityBoost: false}
}

// Yes reveals the estimate inputs
func (e *EquityBoost) Yes() {
	e.revealed = true
}

// Revealed reports whether the estimate inputs are shown
func (e *EquityBoost) Revealed() bool { return e.revealed }

// SetRenovationValue replaces the renovation estimate draft
func (e *EquityBoost) SetRenovationValue(raw string) {
	e.renovationValue = DecimalOnly(raw)
}

// SetAdditionalPayments replaces the additional payments draft
func (e *EquityBoost) SetAdditionalPayments(raw string) {
	e.additionalPayments = DecimalOnly(raw)
}

// RenovationDisplay returns the formatted estimate, e.g. $10,000
func (e *EquityBoost) RenovationDisplay() string {
	return displayEstimate(e.renovationValue)
}

// AdditionalPaymentsDisplay returns the formatted estimate
func (e *EquityBoost) AdditionalPaymentsDisplay() string {
	return displayEstimate(e.additionalPayments)
}

// Valid reports whether Continue is enabled: the inputs are revealed and at
// least one estimate is a non-negative number
func (e *EquityBoost) Valid() bool {
	if !e.revealed {
		return false
	}
	reno, renoOK := parseAmount(e.renovationValue)
	pay, payOK := parseAmount(e.additionalPayments)
	return (renoOK && reno >= 0) || (payOK && pay >= 0)
}

// Commit is the Continue action; blank or unparseable estimates become 0
func (e *EquityBoost) Commit() (survey.Answer, error) {
	if !e.revealed {
		return nil, ErrNotRevealed
	}
	if !e.Valid() {
		return nil, invalid(e.Step())
	}
	reno, _ := parseAmount(e.renovationValue)
	pay, _ := parseAmount(e.additionalPayments)
	return survey.EquityBoostAnswer{
		EquityBoost:        true,
		RenovationValue:    reno,
		AdditionalPayments: pay,
	}, nil
}

// Skip commits {true, 0, 0}; only available once the inputs are revealed
func (e *EquityBoost) Skip() (survey.Answer, error) {
	if !e.revealed {
		return nil, ErrNotRevealed
	}
	return survey.EquityBoostAnswer{EquityBoost: true}, nil
}

func displayEstimate(raw string) string {
	v, ok := parseAmount(raw)
	if !ok {
		return ""
	}
	return FormatCurrency(v)
}

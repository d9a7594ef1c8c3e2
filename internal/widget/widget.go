// Package widget implements the survey's input controls. Each widget keeps
// its own draft state, reports whether that draft is valid and turns it into
// a survey.Answer only when the homeowner confirms. Widgets never change the
// survey state themselves.
package widget

import (
	"errors"
	"fmt"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

var (
	// ErrInvalid is returned when committing a widget whose draft is not valid
	ErrInvalid = errors.New("input not valid")

	// ErrNotRevealed is returned when an estimate action is used before "yes"
	ErrNotRevealed = errors.New("estimate inputs not revealed")
)

// Widget is the capability set shared by all input controls
type Widget interface {
	// Step returns the survey state the widget answers
	Step() model.State

	// Valid reports whether Commit would succeed
	Valid() bool

	// Commit turns the current draft into an answer
	Commit() (survey.Answer, error)
}

// Skipper is implemented by widgets with an explicit skip path
type Skipper interface {
	Skip() (survey.Answer, error)
}

// ForState returns a fresh widget for a question step
func ForState(s model.State) (Widget, error) {
	switch s {
	case model.StateConventional:
		return &YesNo{}, nil
	case model.StatePurchase:
		return NewPurchaseWidget(), nil
	case model.StatePurchaseDate:
		return &DateSelector{}, nil
	case model.StateZip:
		return &ZipField{}, nil
	case model.StateInterest:
		return &RateField{}, nil
	case model.StateCreditScore:
		return NewCreditScoreField(), nil
	case model.StateDelinquency:
		return &DelinquencyGroup{}, nil
	case model.StateEquityBoost:
		return &EquityBoost{}, nil
	default:
		return nil, fmt.Errorf("no widget for state %s", s)
	}
}

func invalid(step model.State) error {
	return fmt.Errorf("%s: %w", step, ErrInvalid)
}

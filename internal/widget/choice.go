package widget

import (
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// YesNo is the conventional mortgage gate. Choosing commits right away.
type YesNo struct {
	choice *bool
}

func (y *YesNo) Step() model.State { return model.StateConventional }

// Choose records the answer
func (y *YesNo) Choose(yes bool) {
	y.choice = &yes
}

// Valid reports whether a choice was made
func (y *YesNo) Valid() bool {
	return y.choice != nil
}

// Commit returns the conventional answer
func (y *YesNo) Commit() (survey.Answer, error) {
	if y.choice == nil {
		return nil, invalid(y.Step())
	}
	return survey.ConventionalAnswer{Conventional: *y.choice}, nil
}

// CreditScoreField is a single select over the credit score buckets
type CreditScoreField struct {
	options  []string
	selected string
}

// NewCreditScoreField creates the credit score select
func NewCreditScoreField() *CreditScoreField {
	return &CreditScoreField{options: append([]string(nil), model.CreditScores...)}
}

func (f *CreditScoreField) Step() model.State { return model.StateCreditScore }

// Options returns the selectable labels
func (f *CreditScoreField) Options() []string {
	return f.options
}

// Select picks label if it is one of the options
func (f *CreditScoreField) Select(label string) bool {
	for _, o := range f.options {
		if o == label {
			f.selected = label
			return true
		}
	}
	return false
}

// SelectIndex picks the i-th option
func (f *CreditScoreField) SelectIndex(i int) bool {
	if i < 0 || i >= len(f.options) {
		return false
	}
	f.selected = f.options[i]
	return true
}

// Selected returns the chosen label or ""
func (f *CreditScoreField) Selected() string { return f.selected }

// Valid reports whether an option is selected
func (f *CreditScoreField) Valid() bool {
	return f.selected != ""
}

// Commit returns the credit score answer
func (f *CreditScoreField) Commit() (survey.Answer, error) {
	if !f.Valid() {
		return nil, invalid(f.Step())
	}
	score := f.selected
	return survey.CreditScoreAnswer{Score: &score}, nil
}

// Skip commits no credit score
func (f *CreditScoreField) Skip() (survey.Answer, error) {
	return survey.CreditScoreAnswer{Score: nil}, nil
}

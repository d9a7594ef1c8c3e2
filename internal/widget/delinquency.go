package widget

import (
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// DelinquencyOption is one checkbox of the payment history question
type DelinquencyOption int

const (
	OptionCurrentlyDelinquent DelinquencyOption = iota
	OptionLate30
	OptionLate60
	OptionNoneMissed
)

// DelinquencyOptions lists the checkboxes in display order
var DelinquencyOptions = []DelinquencyOption{
	OptionCurrentlyDelinquent,
	OptionLate30,
	OptionLate60,
	OptionNoneMissed,
}

// Label returns the checkbox text
func (o DelinquencyOption) Label() string {
	switch o {
	case OptionCurrentlyDelinquent:
		return "Yes, I’m currently behind on my mortgage."
	case OptionLate30:
		return "Yes, I’ve been 30+ days late in the past 12 months."
	case OptionLate60:
		return "Yes, I’ve been 60+ days late in the past 24 months."
	case OptionNoneMissed:
		return "No, I have not recently missed any payments."
	default:
		return ""
	}
}

var optionNames = [...]string{"currently", "late30", "late60", "none"}

// Name is the short form used in answers files and form values
func (o DelinquencyOption) Name() string {
	if o < OptionCurrentlyDelinquent || o > OptionNoneMissed {
		return ""
	}
	return optionNames[o]
}

// ParseDelinquencyOption maps a short name back to its option
func ParseDelinquencyOption(name string) (DelinquencyOption, bool) {
	for i, n := range optionNames {
		if n == name {
			return DelinquencyOption(i), true
		}
	}
	return 0, false
}

// DelinquencyGroup is the payment history checkbox group. "None of the above"
// and the three late-payment boxes exclude each other.
type DelinquencyGroup struct {
	checked [4]bool
}

func (g *DelinquencyGroup) Step() model.State { return model.StateDelinquency }

// Set checks or unchecks an option, clearing the options it excludes
func (g *DelinquencyGroup) Set(o DelinquencyOption, checked bool) {
	if o < OptionCurrentlyDelinquent || o > OptionNoneMissed {
		return
	}
	g.checked[o] = checked
	if !checked {
		return
	}
	if o == OptionNoneMissed {
		g.checked[OptionCurrentlyDelinquent] = false
		g.checked[OptionLate30] = false
		g.checked[OptionLate60] = false
	} else {
		g.checked[OptionNoneMissed] = false
	}
}

// Toggle flips an option
func (g *DelinquencyGroup) Toggle(o DelinquencyOption) {
	if o < OptionCurrentlyDelinquent || o > OptionNoneMissed {
		return
	}
	g.Set(o, !g.checked[o])
}

// Checked reports whether an option is checked
func (g *DelinquencyGroup) Checked(o DelinquencyOption) bool {
	if o < OptionCurrentlyDelinquent || o > OptionNoneMissed {
		return false
	}
	return g.checked[o]
}

// Valid reports whether at least one box is checked
func (g *DelinquencyGroup) Valid() bool {
	for _, c := range g.checked {
		if c {
			return true
		}
	}
	return false
}

// Commit returns the three payment history flags
func (g *DelinquencyGroup) Commit() (survey.Answer, error) {
	if !g.Valid() {
		return nil, invalid(g.Step())
	}
	return survey.DelinquencyAnswer{
		CurrentlyDelinquent: g.checked[OptionCurrentlyDelinquent],
		Late30:              g.checked[OptionLate30],
		Late60:              g.checked[OptionLate60],
	}, nil
}

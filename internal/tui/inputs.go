package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/pmicheck/internal/widget"
)

var (
	errDigits  = errors.New("digits only")
	errDecimal = errors.New("digits and one decimal point only")
)

func digitsOnly(s string) error {
	if widget.DigitsOnly(s) != s {
		return errDigits
	}
	return nil
}

func decimalOnly(s string) error {
	if widget.DecimalOnly(s) != s {
		return errDecimal
	}
	return nil
}

func newInput(placeholder string, limit int, validate textinput.ValidateFunc) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 14
	ti.Validate = validate
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// inputsFor builds the text inputs of a screen, indexed by field. Screens
// without text entry get unused placeholders.
func inputsFor(w widget.Widget) [3]textinput.Model {
	in := [3]textinput.Model{
		newInput("", 0, nil),
		newInput("", 0, nil),
		newInput("", 0, nil),
	}
	switch w.(type) {
	case *widget.PurchaseWidget:
		in[0] = newInput("$350,000", 7, digitsOnly)
		in[1] = newInput("$30,000", 7, digitsOnly)
		in[2] = newInput("10%", 5, decimalOnly)
	case *widget.DateSelector:
		in[1] = newInput("Enter Year", 4, digitsOnly)
	case *widget.RateField:
		in[0] = newInput("4.5", 6, decimalOnly)
	case *widget.EquityBoost:
		in[0] = newInput("$10,000", 10, decimalOnly)
		in[1] = newInput("$5,000", 10, decimalOnly)
	}
	return in
}

// focusInput moves keyboard focus to field i
func (m *Model) focusInput(i int) {
	m.field = i
	for j := range m.inputs {
		if j == i {
			_ = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// editInput feeds msg to input i and reports whether its value changed.
// Edits the validator rejects are rolled back.
func (m *Model) editInput(i int, msg tea.Msg) bool {
	prev := m.inputs[i].Value()
	m.inputs[i], _ = m.inputs[i].Update(msg)
	if m.inputs[i].Err != nil {
		m.inputs[i].SetValue(prev)
	}
	return m.inputs[i].Value() != prev
}

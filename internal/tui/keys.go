package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/pmicheck/internal/widget"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch w := m.widget.(type) {
	case *widget.YesNo:
		return m.yesNoKey(key, func(yes bool) (tea.Model, tea.Cmd) {
			w.Choose(yes)
			return m.commit(w.Commit())
		})

	case *widget.PurchaseWidget:
		return m.purchaseKey(w, msg)

	case *widget.DateSelector:
		return m.dateKey(w, msg)

	case *widget.ZipField:
		switch key {
		case "enter":
			return m.commit(w.Commit())
		case "backspace":
			w.Backspace()
		case "left":
			w.SetFocus(w.Focus() - 1)
		case "right":
			w.SetFocus(w.Focus() + 1)
		default:
			for _, r := range msg.Runes {
				w.Type(r)
			}
		}
		return m, nil

	case *widget.RateField:
		switch key {
		case "enter":
			return m.commit(w.Commit())
		case "s":
			return m.commit(w.Skip())
		}
		if m.editInput(0, msg) {
			w.Input(m.inputs[0].Value())
		}
		return m, nil

	case *widget.CreditScoreField:
		switch key {
		case "up", "k":
			m.moveCursor(-1, len(w.Options()))
		case "down", "j":
			m.moveCursor(1, len(w.Options()))
		case "s":
			return m.commit(w.Skip())
		case "enter":
			w.SelectIndex(m.cursor)
			return m.commit(w.Commit())
		}
		return m, nil

	case *widget.DelinquencyGroup:
		switch key {
		case "up", "k":
			m.moveCursor(-1, len(widget.DelinquencyOptions))
		case "down", "j":
			m.moveCursor(1, len(widget.DelinquencyOptions))
		case " ", "space", "x":
			w.Toggle(widget.DelinquencyOptions[m.cursor])
		case "enter":
			return m.commit(w.Commit())
		}
		return m, nil

	case *widget.EquityBoost:
		return m.equityKey(w, msg)
	}
	return m, nil
}

// yesNoKey handles two-button screens: y/n, or arrows and enter
func (m Model) yesNoKey(key string, choose func(bool) (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	switch key {
	case "y":
		return choose(true)
	case "n":
		return choose(false)
	case "left", "up":
		m.cursor = 0
	case "right", "down":
		m.cursor = 1
	case "enter":
		return choose(m.cursor == 0)
	}
	return m, nil
}

func (m Model) purchaseKey(w *widget.PurchaseWidget, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.commit(w.Commit())
	case "tab", "down":
		m.focusInput((m.field + 1) % 3)
		return m, nil
	case "shift+tab", "up":
		m.focusInput((m.field + 2) % 3)
		return m, nil
	}

	if !m.editInput(m.field, msg) {
		return m, nil
	}
	switch m.field {
	case 0:
		w.SetPrice(m.inputs[0].Value())
		m.inputs[1].SetValue("")
		m.inputs[2].SetValue("")
	case 1:
		w.SetDownDollar(m.inputs[1].Value())
		m.inputs[2].SetValue("")
		if v, ok := w.DownPercent(); ok {
			m.inputs[2].SetValue(formatRaw(v))
		}
	case 2:
		w.SetDownPercent(m.inputs[2].Value())
		m.inputs[1].SetValue("")
		if v, ok := w.DownDollar(); ok {
			m.inputs[1].SetValue(formatRaw(v))
		}
	}
	return m, nil
}

func (m Model) dateKey(w *widget.DateSelector, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.commit(w.Commit())
	case "tab", "shift+tab":
		m.focusInput(1 - m.field)
		return m, nil
	}
	if m.field == 1 {
		if m.editInput(1, msg) {
			w.SetYear(m.inputs[1].Value())
		}
		return m, nil
	}
	switch msg.String() {
	case "up", "left":
		w.SetMonth((w.Month()+10)%12 + 1)
	case "down", "right":
		w.SetMonth(w.Month()%12 + 1)
	}
	return m, nil
}

func (m Model) equityKey(w *widget.EquityBoost, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if !w.Revealed() {
		return m.yesNoKey(key, func(yes bool) (tea.Model, tea.Cmd) {
			if !yes {
				return m.commit(w.No(), nil)
			}
			w.Yes()
			return m, nil
		})
	}

	switch key {
	case "enter":
		return m.commit(w.Commit())
	case "s":
		return m.commit(w.Skip())
	case "tab", "shift+tab", "up", "down":
		m.focusInput(1 - m.field)
		return m, nil
	}
	if !m.editInput(m.field, msg) {
		return m, nil
	}
	if m.field == 0 {
		w.SetRenovationValue(m.inputs[0].Value())
	} else {
		w.SetAdditionalPayments(m.inputs[1].Value())
	}
	return m, nil
}

func (m *Model) moveCursor(delta, n int) {
	m.cursor = (m.cursor + delta + n) % n
}

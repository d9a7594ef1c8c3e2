package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/widget"
)

// View implements tea.Model
func (m Model) View() string {
	state := m.State()
	if m.quitting && state.IsStep() {
		return ""
	}

	var body string
	switch {
	case state.IsStep():
		body = m.stepView()
	case state == model.StateDone:
		body = m.renderer.Text(m.doc)
		if m.doc.Status != report.StatusPending {
			body += keysStyle.Render("enter/q: quit")
		}
	default:
		exit, _ := widget.ExitFor(state)
		body = titleStyle.Render(exit.Headline) + "\n" + exit.Body + "\n" + keysStyle.Render("enter/q: quit")
	}
	return panelStyle.Render(body) + "\n"
}

func (m Model) stepView() string {
	prompt, _ := widget.PromptFor(m.State())

	var b strings.Builder
	b.WriteString(titleStyle.Render(prompt.Question))
	b.WriteString("\n")
	if prompt.Help != "" {
		b.WriteString(helpStyle.Width(70).Render(prompt.Help))
		b.WriteString("\n\n")
	}

	body, keys := m.widgetView()
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(keysStyle.Render(keys + " · esc: quit"))
	b.WriteString("\n\n")

	pct, label := m.progress()
	b.WriteString(m.bar.ViewAs(pct / 100))
	b.WriteString(" ")
	b.WriteString(strongStyle.Render(label))
	return b.String()
}

func (m Model) widgetView() (string, string) {
	switch w := m.widget.(type) {
	case *widget.YesNo:
		return m.choices([]string{"Yes", "No"}), "y/n or ←/→ enter"

	case *widget.PurchaseWidget:
		fields := []string{
			m.inputField(0, "Original purchase price", w.Price().Display()),
			m.inputField(1, "Down payment ($)", w.DownDollarDisplay()),
			m.inputField(2, "Down payment (%)", w.DownPercentDisplay()),
		}
		return strings.Join(fields, "\n"), "tab: next field · enter: continue"

	case *widget.DateSelector:
		month := "Select Month"
		if w.Month() > 0 {
			month = widget.MonthOptions()[w.Month()-1]
		}
		year := w.Year()
		switch {
		case m.field == 1:
			year = m.inputs[1].View()
		case year == "":
			year = "Enter Year"
		}
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.box(m.field == 0, month),
			" ",
			m.box(m.field == 1, year),
		), "tab: month/year · ↑/↓: month · enter: continue"

	case *widget.ZipField:
		boxes := make([]string, 0, widget.ZipLength*2)
		for i := 0; i < widget.ZipLength; i++ {
			style := zipBoxStyle
			if i == w.Focus() {
				style = zipBoxFocusedStyle
			}
			boxes = append(boxes, style.Render(w.Digit(i)), " ")
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, boxes...), "digits · backspace · enter: continue"

	case *widget.RateField:
		return m.box(true, m.inputs[0].View()+"%"), "s: skip · enter: continue"

	case *widget.CreditScoreField:
		return m.choices(w.Options()), "↑/↓ · enter: select · s: skip"

	case *widget.DelinquencyGroup:
		lines := make([]string, len(widget.DelinquencyOptions))
		for i, o := range widget.DelinquencyOptions {
			mark := "[ ]"
			if w.Checked(o) {
				mark = "[x]"
			}
			lines[i] = m.option(i, mark+" "+o.Label())
		}
		return strings.Join(lines, "\n"), "↑/↓ · space: toggle · enter: continue"

	case *widget.EquityBoost:
		if !w.Revealed() {
			return m.choices([]string{"Yes", "No"}), "y/n or ←/→ enter"
		}
		fields := []string{
			m.inputField(0, "Estimated value added by renovations", w.RenovationDisplay()),
			m.inputField(1, "Additional principal payments", w.AdditionalPaymentsDisplay()),
		}
		return strings.Join(fields, "\n"), "tab: next field · s: skip · enter: continue"
	}
	return "", ""
}

// inputField renders a labelled input: the text input while focused, the
// formatted value otherwise
func (m Model) inputField(i int, label, formatted string) string {
	v := formatted
	switch {
	case m.field == i:
		v = m.inputs[i].View()
	case v == "":
		v = helpStyle.Render(m.inputs[i].Placeholder)
	}
	return label + "\n" + m.box(m.field == i, v)
}

func (m Model) box(focused bool, v string) string {
	if focused {
		return focusedFieldStyle.Render(v)
	}
	return fieldStyle.Render(v)
}

func (m Model) choices(labels []string) string {
	lines := make([]string, len(labels))
	for i, l := range labels {
		lines[i] = m.option(i, l)
	}
	return strings.Join(lines, "\n")
}

func (m Model) option(i int, label string) string {
	if i == m.cursor {
		return selectedStyle.Render("› " + label)
	}
	return optionStyle.Render("  " + label)
}

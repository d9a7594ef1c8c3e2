package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/widget"
)

type fakeChecker struct {
	mu       sync.Mutex
	requests []model.Request
	result   *model.Result
	err      error
}

func (f *fakeChecker) Check(_ context.Context, req model.Request) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func testResult() *model.Result {
	return &model.Result{
		EligibilityLevel:    model.FlexStrings{"LIKELY"},
		EligibilityMessage:  "<p>Good news.</p>",
		CBSAUsed:            model.FlexStrings{"Austin-Round Rock, TX"},
		AppreciationPercent: 12,
		PurchasePrice:       400000,
		CurrentHomeValue:    448000,
		InterestRate:        0.032,
		UnpaidBalance:       340000,
		EstimatedEquity:     108000,
		EquityPercent:       24.1,
		AutoCancelDate:      "June 2032",
		EstimatedPMISavings: 5400,
		CurrentMonth:        5,
		CurrentYear:         2026,
	}
}

func newModel(t *testing.T, checker *fakeChecker) Model {
	t.Helper()
	m, err := New(context.Background(), checker, WithTick(time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func pressKey(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = pressKey(m, k)
	}
	return m
}

func typeText(m Model, input string) Model {
	for _, r := range input {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

// runCmd executes cmd and feeds back scoring results
func runCmd(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = runCmd(m, c)
		}
		return m
	}
	if res, ok := msg.(resultMsg); ok {
		updated, _ := m.Update(res)
		m = updated.(Model)
	}
	return m
}

// toDelinquency answers the first six questions, skipping rate and credit
func toDelinquency(t *testing.T, m Model) Model {
	t.Helper()
	m = press(m, "y")
	m = typeText(m, "400000")
	m = press(m, "tab")
	m = typeText(m, "40000")
	m = press(m, "enter")
	if m.State() != model.StatePurchaseDate {
		t.Fatalf("expected date step, got %s", m.State())
	}
	m = press(m, "down", "down", "down", "down", "down", "down", "tab")
	m = typeText(m, "2021")
	m = press(m, "enter")
	m = typeText(m, "90210")
	m = press(m, "enter", "s", "s")
	if m.State() != model.StateDelinquency {
		t.Fatalf("expected delinquency step, got %s", m.State())
	}
	return m
}

func TestFullRun(t *testing.T) {
	checker := &fakeChecker{result: testResult()}
	m := newModel(t, checker)
	m = toDelinquency(t, m)

	m = press(m, "down", "down", "down", "space", "enter")
	if m.State() != model.StateEquityBoost {
		t.Fatalf("expected equity step, got %s", m.State())
	}

	m, cmd := pressKey(m, "n")
	if m.State() != model.StateDone {
		t.Fatalf("expected done, got %s", m.State())
	}
	if m.Document().Status != report.StatusPending {
		t.Errorf("expected pending document before the response")
	}

	m = runCmd(m, cmd)
	doc := m.Document()
	if doc.Status != report.StatusReady {
		t.Fatalf("expected ready, got %s", doc.Status)
	}
	if !strings.Contains(m.View(), "LIKELY eligible") {
		t.Error("expected headline in view")
	}

	if len(checker.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(checker.requests))
	}
	req := checker.requests[0]
	if req.InterestRate != nil || req.CreditScore != model.CreditGreat {
		t.Errorf("expected skipped rate and default credit, got %+v", req)
	}
	if req.PurchasePrice != 400000 || req.DownPayment != 40000 || req.PurchaseMonth != 6 || req.PurchaseYear != 2021 {
		t.Errorf("unexpected request %+v", req)
	}
	if req.CurrentlyDelinquent || req.Late30In12Mo || req.Late60In24Mo || req.EquityBoost {
		t.Errorf("unexpected flags %+v", req)
	}
}

func TestPurchaseDerivesDollarFromPercent(t *testing.T) {
	m := newModel(t, &fakeChecker{})
	m = press(m, "y")
	m = typeText(m, "300000")
	m = press(m, "tab", "tab")
	m = typeText(m, "10")

	w := m.widget.(*widget.PurchaseWidget)
	if v, ok := w.DownDollar(); !ok || v != 30000 {
		t.Errorf("expected 30000, got %v", v)
	}
	if got := m.inputs[1].Value(); got != "30000" {
		t.Errorf("expected dollar input 30000, got %q", got)
	}

	// editing the price clears both down payment forms
	m = press(m, "tab")
	m = typeText(m, "5")
	if m.inputs[1].Value() != "" || m.inputs[2].Value() != "" {
		t.Errorf("expected cleared down payment, got %q %q", m.inputs[1].Value(), m.inputs[2].Value())
	}
}

func TestTextInputsFilterAndLimit(t *testing.T) {
	m := newModel(t, &fakeChecker{})
	m = press(m, "y")

	// price takes digits only, at most seven of them
	m = typeText(m, "4a0,0000009")
	w := m.widget.(*widget.PurchaseWidget)
	if got := m.inputs[0].Value(); got != "4000000" {
		t.Errorf("expected filtered price input, got %q", got)
	}
	if v, ok := w.Price().Value(); !ok || v != 4000000 {
		t.Errorf("widget price = %v, %v", v, ok)
	}
	m = press(m, "backspace")
	if v, _ := w.Price().Value(); v != 400000 {
		t.Errorf("backspace should reach the widget, got %v", v)
	}

	// percent keeps a single decimal point
	m = press(m, "tab", "tab")
	m = typeText(m, "1.2.5")
	if got := m.inputs[2].Value(); got != "1.25" {
		t.Errorf("expected 1.25, got %q", got)
	}
	if v, ok := w.DownDollar(); !ok || v != 5000 {
		t.Errorf("expected derived 5000, got %v", v)
	}

	m = press(m, "enter")
	if m.State() != model.StatePurchaseDate {
		t.Fatalf("expected date step, got %s", m.State())
	}
	m = press(m, "down", "tab")
	m = typeText(m, "20201")
	d := m.widget.(*widget.DateSelector)
	if d.Year() != "2020" || m.inputs[1].Value() != "2020" {
		t.Errorf("year should stop at four digits, got %q / %q", d.Year(), m.inputs[1].Value())
	}
}

func TestZipIgnoresNonDigits(t *testing.T) {
	m := newModel(t, &fakeChecker{})
	m = press(m, "y")
	m = typeText(m, "400000")
	m = press(m, "tab")
	m = typeText(m, "40000")
	m = press(m, "enter", "down", "tab")
	m = typeText(m, "2021")
	m = press(m, "enter")

	m = typeText(m, "9a0")
	z := m.widget.(*widget.ZipField)
	if z.Value() != "90" || z.Focus() != 2 {
		t.Errorf("expected 90 with focus 2, got %q focus %d", z.Value(), z.Focus())
	}

	m = press(m, "enter")
	if m.State() != model.StateZip {
		t.Errorf("incomplete ZIP must not advance, got %s", m.State())
	}
	if !strings.Contains(m.View(), "43%") {
		t.Error("expected 43% progress on the ZIP step")
	}
}

func TestExitNonConventional(t *testing.T) {
	checker := &fakeChecker{}
	m := newModel(t, checker)
	m = press(m, "n")

	if m.State() != model.StateExitNonConventional {
		t.Fatalf("expected exit, got %s", m.State())
	}
	if !strings.Contains(m.View(), "30-year conventional mortgages") {
		t.Error("expected exit message")
	}
	if _, cmd := pressKey(m, "enter"); cmd == nil {
		t.Error("expected quit command")
	}
	if len(checker.requests) != 0 {
		t.Error("exit must not contact the service")
	}
}

func TestPendingDotsCycle(t *testing.T) {
	m := newModel(t, &fakeChecker{result: testResult()})
	m = toDelinquency(t, m)
	m = press(m, "space", "enter", "n")

	want := []string{"Checking eligibility..", "Checking eligibility...", "Checking eligibility."}
	for _, w := range want {
		updated, cmd := m.Update(dotsMsg{})
		m = updated.(Model)
		if m.Document().Headline != w {
			t.Errorf("expected %q, got %q", w, m.Document().Headline)
		}
		if cmd == nil {
			t.Error("expected another tick while pending")
		}
	}
}

func TestFailureShowsMessage(t *testing.T) {
	m := newModel(t, &fakeChecker{err: errors.New("dial tcp: refused")})
	m = toDelinquency(t, m)
	m = press(m, "space", "enter")
	m, cmd := pressKey(m, "n")
	m = runCmd(m, cmd)

	doc := m.Document()
	if doc.Status != report.StatusFailed || doc.Headline != model.MessageFailure {
		t.Errorf("expected failure document, got %+v", doc)
	}

	if _, cmd := m.Update(dotsMsg{}); cmd != nil {
		t.Error("ticks stop once settled")
	}
}

func TestEquityBoostYes(t *testing.T) {
	checker := &fakeChecker{result: testResult()}
	m := newModel(t, checker)
	m = toDelinquency(t, m)
	m = press(m, "down", "down", "space", "enter")

	m = press(m, "y")
	if !m.widget.(*widget.EquityBoost).Revealed() {
		t.Fatal("expected estimate inputs")
	}
	m = typeText(m, "25000")
	m, cmd := pressKey(m, "enter")
	m = runCmd(m, cmd)

	req := checker.requests[0]
	if !req.EquityBoost || req.RenovationValue != 25000 || req.AdditionalPayments != 0 {
		t.Errorf("unexpected equity fields %+v", req)
	}
	if !req.Late60In24Mo {
		t.Error("expected late60 checked")
	}
}

func TestDelinquencyExclusive(t *testing.T) {
	m := newModel(t, &fakeChecker{})
	m = toDelinquency(t, m)
	m = press(m, "space", "down", "space", "down", "down", "space")

	g := m.widget.(*widget.DelinquencyGroup)
	if g.Checked(widget.OptionCurrentlyDelinquent) || g.Checked(widget.OptionLate30) || !g.Checked(widget.OptionNoneMissed) {
		t.Error("none of the above must clear the other boxes")
	}
}

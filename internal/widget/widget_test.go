package widget

import (
	"errors"
	"testing"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

func TestZipField_TypeFiveDigits(t *testing.T) {
	z := &ZipField{}
	for i, r := range "90210" {
		if z.Focus() != i {
			t.Fatalf("before digit %d expected focus %d, got %d", i, i, z.Focus())
		}
		if !z.Type(r) {
			t.Fatalf("digit %q rejected", r)
		}
	}
	if z.Value() != "90210" {
		t.Errorf("expected 90210, got %q", z.Value())
	}
	if !z.Valid() {
		t.Error("expected continue to be enabled")
	}
	if z.Focus() != ZipLength-1 {
		t.Errorf("focus should stay on last box, got %d", z.Focus())
	}

	a, err := z.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if a.(survey.ZipAnswer).Zip != "90210" {
		t.Errorf("unexpected answer %+v", a)
	}
}

func TestZipField_IgnoresNonDigits(t *testing.T) {
	z := &ZipField{}
	z.Type('1')
	for _, r := range "a-. x" {
		if z.Type(r) {
			t.Errorf("non-digit %q accepted", r)
		}
		if z.Focus() != 1 {
			t.Errorf("focus moved on %q: %d", r, z.Focus())
		}
	}
	if z.Value() != "1" {
		t.Errorf("expected only 1, got %q", z.Value())
	}
	if z.Valid() {
		t.Error("partial ZIP should not be valid")
	}
	if _, err := z.Commit(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestZipField_Backspace(t *testing.T) {
	z := &ZipField{}
	z.Type('9')
	z.Type('0')
	// focus is on empty box 2
	z.Backspace()
	if z.Focus() != 1 {
		t.Fatalf("backspace on empty box should move back, focus %d", z.Focus())
	}
	if z.Digit(1) != "0" {
		t.Errorf("moving back must not clear the previous box")
	}
	z.Backspace()
	if z.Digit(1) != "" || z.Focus() != 1 {
		t.Errorf("backspace on filled box should clear it in place")
	}

	z.SetFocus(0)
	z.Backspace()
	z.Backspace()
	if z.Focus() != 0 {
		t.Errorf("focus cannot go before the first box")
	}
}

func TestZipField_FillRejectsMultipleCharacters(t *testing.T) {
	z := &ZipField{}
	if z.Fill(0, "12") {
		t.Error("two characters accepted in one box")
	}
	if !z.Fill(0, "1") || z.Focus() != 1 {
		t.Error("single digit should fill and advance")
	}
	if !z.Fill(0, "") || z.Focus() != 1 {
		t.Error("clearing a box should not move focus")
	}
}

func TestPurchaseWidget_PercentToDollar(t *testing.T) {
	w := NewPurchaseWidget()
	w.SetPrice("$300,000")
	w.SetDownPercent("10")

	dollar, ok := w.DownDollar()
	if !ok || dollar != 30000 {
		t.Fatalf("expected $30,000, got %v (%v)", dollar, ok)
	}
	if w.DownDollarDisplay() != "$30,000" {
		t.Errorf("expected display $30,000, got %q", w.DownDollarDisplay())
	}
	if w.DownPercentDisplay() != "10%" {
		t.Errorf("expected 10%%, got %q", w.DownPercentDisplay())
	}
}

func TestPurchaseWidget_DollarToPercent(t *testing.T) {
	w := NewPurchaseWidget()
	w.SetPrice("300000")
	w.SetDownDollar("45000")

	if w.DownPercentDisplay() != "15%" {
		t.Errorf("expected 15%%, got %q", w.DownPercentDisplay())
	}

	w.SetDownDollar("37,500")
	if w.DownPercentDisplay() != "12.5%" {
		t.Errorf("expected 12.5%%, got %q", w.DownPercentDisplay())
	}
}

func TestPurchaseWidget_PriceEditClearsDownPayment(t *testing.T) {
	w := NewPurchaseWidget()
	w.SetPrice("300000")
	w.SetDownPercent("10")
	w.SetPrice("400000")

	if _, ok := w.DownDollar(); ok {
		t.Error("dollar buffer should be cleared by a price edit")
	}
	if w.DownPercentDisplay() != "" {
		t.Error("percent buffer should be cleared by a price edit")
	}
	if w.Valid() {
		t.Error("widget should be invalid without a down payment")
	}
}

func TestPurchaseWidget_Validity(t *testing.T) {
	tests := []struct {
		name  string
		price string
		down  string
		valid bool
	}{
		{"typical", "400000", "40000", true},
		{"zero down", "250000", "0", true},
		{"price too low", "49999", "1000", false},
		{"price too high", "5000001", "1000", false},
		{"down above max", "5000000", "3000001", false},
		{"down above price", "100000", "150000", false},
		{"no down", "300000", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewPurchaseWidget()
			w.SetPrice(tt.price)
			if tt.down != "" {
				w.SetDownDollar(tt.down)
			}
			if w.Valid() != tt.valid {
				t.Errorf("expected valid=%v", tt.valid)
			}
		})
	}
}

func TestPurchaseWidget_Commit(t *testing.T) {
	w := NewPurchaseWidget()
	w.SetPrice("$400,000")
	w.SetDownPercent("10")

	a, err := w.Commit()
	if err != nil {
		t.Fatal(err)
	}
	p := a.(survey.PurchaseAnswer)
	if p.Price != 400000 || p.DownPayment != 40000 {
		t.Errorf("unexpected answer %+v", p)
	}
}

func TestPriceField_Display(t *testing.T) {
	f := NewPriceField(MinPurchasePrice, MaxPurchasePrice)
	f.Input("abc1234567")
	if f.raw != "1234567" {
		t.Errorf("expected digits only, got %q", f.raw)
	}
	if f.Display() != "$1,234,567" {
		t.Errorf("unexpected display %q", f.Display())
	}
	if !f.Valid() {
		t.Error("expected valid price")
	}
}

func TestDelinquencyGroup_NoneClearsOthers(t *testing.T) {
	g := &DelinquencyGroup{}
	g.Set(OptionCurrentlyDelinquent, true)
	g.Set(OptionLate30, true)
	g.Set(OptionLate60, true)

	g.Set(OptionNoneMissed, true)
	for _, o := range []DelinquencyOption{OptionCurrentlyDelinquent, OptionLate30, OptionLate60} {
		if g.Checked(o) {
			t.Errorf("option %d should be cleared by none", o)
		}
	}
	if !g.Checked(OptionNoneMissed) {
		t.Error("none should be checked")
	}
}

func TestDelinquencyGroup_OthersClearNone(t *testing.T) {
	for _, o := range []DelinquencyOption{OptionCurrentlyDelinquent, OptionLate30, OptionLate60} {
		g := &DelinquencyGroup{}
		g.Set(OptionNoneMissed, true)
		g.Set(o, true)
		if g.Checked(OptionNoneMissed) {
			t.Errorf("checking %d should clear none", o)
		}
		if !g.Checked(o) {
			t.Errorf("option %d should be checked", o)
		}
	}
}

func TestDelinquencyGroup_Commit(t *testing.T) {
	g := &DelinquencyGroup{}
	if g.Valid() {
		t.Fatal("empty group must not be valid")
	}

	g.Toggle(OptionNoneMissed)
	a, err := g.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if (a.(survey.DelinquencyAnswer) != survey.DelinquencyAnswer{}) {
		t.Errorf("none should commit all false, got %+v", a)
	}

	g.Toggle(OptionLate60)
	a, _ = g.Commit()
	if !a.(survey.DelinquencyAnswer).Late60 {
		t.Errorf("expected late60, got %+v", a)
	}
}

func TestRateField(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"4.5", true},
		{"20", true},
		{"0.01", true},
		{"0", false},
		{"20.01", false},
		{"35", false},
		{"", false},
		{".", false},
	}

	for _, tt := range tests {
		f := &RateField{}
		f.Input(tt.input)
		if f.Valid() != tt.valid {
			t.Errorf("%q: expected valid=%v", tt.input, tt.valid)
		}
	}
}

func TestRateField_CommitFraction(t *testing.T) {
	f := &RateField{}
	f.Input("4.5%")
	if f.raw != "4.5" {
		t.Errorf("expected filtered 4.5, got %q", f.raw)
	}
	a, err := f.Commit()
	if err != nil {
		t.Fatal(err)
	}
	rate := a.(survey.InterestAnswer).Rate
	if rate == nil || *rate != 0.045 {
		t.Errorf("expected 0.045, got %v", rate)
	}

	f.Input("1.2.3")
	if f.raw != "1.23" {
		t.Errorf("expected a single decimal point, got %q", f.raw)
	}

	skip, _ := f.Skip()
	if skip.(survey.InterestAnswer).Rate != nil {
		t.Error("skip should commit a nil rate")
	}
}

func TestDateSelector(t *testing.T) {
	tests := []struct {
		month int
		year  string
		valid bool
	}{
		{6, "2020", true},
		{1, "1990", true},
		{12, "2050", true},
		{0, "2020", false},
		{6, "1989", false},
		{6, "2051", false},
		{6, "20201", false},
		{6, "202", false},
		{6, "20a0", false},
	}

	for _, tt := range tests {
		d := &DateSelector{}
		d.SetMonth(tt.month)
		d.SetYear(tt.year)
		if d.Valid() != tt.valid {
			t.Errorf("%d/%s: expected valid=%v", tt.month, tt.year, tt.valid)
		}
	}

	d := &DateSelector{}
	d.SetMonth(6)
	d.SetYear("2020")
	a, err := d.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if a != (survey.PurchaseDateAnswer{Year: 2020, Month: 6}) {
		t.Errorf("unexpected answer %+v", a)
	}
}

func TestCreditScoreField(t *testing.T) {
	f := NewCreditScoreField()
	if f.Select("Superb") {
		t.Error("unknown label accepted")
	}
	if f.Valid() {
		t.Error("nothing selected yet")
	}
	f.Select(model.CreditGood)
	a, _ := f.Commit()
	if s := a.(survey.CreditScoreAnswer).Score; s == nil || *s != model.CreditGood {
		t.Errorf("unexpected score %v", s)
	}
	skip, _ := f.Skip()
	if skip.(survey.CreditScoreAnswer).Score != nil {
		t.Error("skip should commit nil")
	}
}

func reachEquityBoost(t *testing.T) *survey.Controller {
	t.Helper()
	c := survey.NewController(&model.Answers{})
	steps := []survey.Answer{
		survey.ConventionalAnswer{Conventional: true},
		survey.PurchaseAnswer{Price: 400000, DownPayment: 40000},
		survey.PurchaseDateAnswer{Year: 2020, Month: 6},
		survey.ZipAnswer{Zip: "90210"},
		survey.InterestAnswer{},
		survey.CreditScoreAnswer{},
		survey.DelinquencyAnswer{},
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	for _, a := range steps {
		if err := c.HandleAnswer(a); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestEquityBoost_NoCommitsDefaults(t *testing.T) {
	c := reachEquityBoost(t)
	e := &EquityBoost{}

	a := e.No()
	if e.Revealed() {
		t.Error("no must not reveal the estimate inputs")
	}
	if a != (survey.EquityBoostAnswer{EquityBoost: false, RenovationValue: 0, AdditionalPayments: 0}) {
		t.Errorf("unexpected answer %+v", a)
	}
	if err := c.HandleAnswer(a); err != nil {
		t.Fatal(err)
	}
	if c.State() != model.StateDone {
		t.Errorf("expected done, got %s", c.State())
	}
}

func TestEquityBoost_YesPath(t *testing.T) {
	e := &EquityBoost{}
	if _, err := e.Skip(); !errors.Is(err, ErrNotRevealed) {
		t.Errorf("skip before yes: expected ErrNotRevealed, got %v", err)
	}

	e.Yes()
	if e.Valid() {
		t.Error("continue should be disabled with both inputs blank")
	}

	skip, _ := e.Skip()
	if skip != (survey.EquityBoostAnswer{EquityBoost: true}) {
		t.Errorf("unexpected skip answer %+v", skip)
	}

	e.SetRenovationValue("$10,000")
	if e.RenovationDisplay() != "$10,000" {
		t.Errorf("unexpected display %q", e.RenovationDisplay())
	}
	if !e.Valid() {
		t.Fatal("one estimate should enable continue")
	}
	a, err := e.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if a != (survey.EquityBoostAnswer{EquityBoost: true, RenovationValue: 10000, AdditionalPayments: 0}) {
		t.Errorf("unexpected answer %+v", a)
	}
}

func TestForState(t *testing.T) {
	for _, s := range model.Steps {
		w, err := ForState(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if w.Step() != s {
			t.Errorf("widget for %s answers %s", s, w.Step())
		}
		if w.Valid() {
			t.Errorf("fresh widget for %s should not be valid", s)
		}
	}
	if _, err := ForState(model.StateDone); err == nil {
		t.Error("expected error for done")
	}
}

func TestPromptsCoverEveryStep(t *testing.T) {
	for _, s := range model.Steps {
		p, ok := PromptFor(s)
		if !ok || p.Question == "" {
			t.Errorf("missing prompt for %s", s)
		}
	}
	if _, ok := PromptFor(model.StateDone); ok {
		t.Error("done has no prompt")
	}

	for _, s := range []model.State{model.StateExitNonConventional, model.StateExitHighDownPayment} {
		if m, ok := ExitFor(s); !ok || m.Headline == "" {
			t.Errorf("missing exit message for %s", s)
		}
	}
	if _, ok := ExitFor(model.StateZip); ok {
		t.Error("zip is not an exit state")
	}
}

func TestParseDelinquencyOption(t *testing.T) {
	for _, o := range DelinquencyOptions {
		got, ok := ParseDelinquencyOption(o.Name())
		if !ok || got != o {
			t.Errorf("%q: expected %v, got %v (%v)", o.Name(), o, got, ok)
		}
	}
	if _, ok := ParseDelinquencyOption("late90"); ok {
		t.Error("late90 is not an option")
	}
}

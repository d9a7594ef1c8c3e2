package survey

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
)

var fixedNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func newTestController() *Controller {
	return NewController(&model.Answers{}, WithClock(func() time.Time { return fixedNow }))
}

func advanceToPurchase(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.HandleAnswer(ConventionalAnswer{Conventional: true}); err != nil {
		t.Fatalf("conventional: %v", err)
	}
}

func TestController_StartsAtStart(t *testing.T) {
	c := newTestController()
	if c.State() != model.StateStart {
		t.Fatalf("expected start, got %s", c.State())
	}
	if _, ok := c.Progress(); ok {
		t.Error("expected no progress on start screen")
	}
}

func TestController_NonConventionalExits(t *testing.T) {
	c := newTestController()
	_ = c.Start()
	if err := c.HandleAnswer(ConventionalAnswer{Conventional: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != model.StateExitNonConventional {
		t.Fatalf("expected exit_non_conventional, got %s", c.State())
	}
	if err := c.HandleAnswer(PurchaseAnswer{Price: 300000, DownPayment: 1000}); !errors.Is(err, ErrTerminal) {
		t.Errorf("expected ErrTerminal after exit, got %v", err)
	}
}

func TestController_HighDownPaymentExits(t *testing.T) {
	tests := []struct {
		price float64
		down  float64
	}{
		{price: 100000, down: 20000}, // exactly 20%
		{price: 400000, down: 80000},
		{price: 250000, down: 100000},
		{price: 5000000, down: 3000000},
	}

	for _, tt := range tests {
		c := newTestController()
		advanceToPurchase(t, c)

		var visited []model.State
		c.Subscribe(func(tr Transition) { visited = append(visited, tr.To) })

		if err := c.HandleAnswer(PurchaseAnswer{Price: tt.price, DownPayment: tt.down}); err != nil {
			t.Fatalf("purchase %v/%v: %v", tt.price, tt.down, err)
		}
		if c.State() != model.StateExitHighDownPayment {
			t.Errorf("price %v down %v: expected exit_high_downpayment, got %s", tt.price, tt.down, c.State())
		}
		for _, s := range visited {
			if s == model.StatePurchaseDate {
				t.Errorf("price %v down %v: reached step3_date", tt.price, tt.down)
			}
		}
	}
}

func TestController_LowDownPaymentContinues(t *testing.T) {
	tests := []struct {
		price float64
		down  float64
	}{
		{price: 400000, down: 40000},
		{price: 100000, down: 19999},
		{price: 50000, down: 0},
		{price: 333333, down: 12345},
	}

	for _, tt := range tests {
		c := newTestController()
		advanceToPurchase(t, c)

		if err := c.HandleAnswer(PurchaseAnswer{Price: tt.price, DownPayment: tt.down}); err != nil {
			t.Fatalf("purchase: %v", err)
		}
		if c.State() != model.StatePurchaseDate {
			t.Errorf("price %v down %v: expected step3_date, got %s", tt.price, tt.down, c.State())
		}
		a := c.Answers()
		want := (tt.price - tt.down) / tt.price
		if a.OriginalLTV != want {
			t.Errorf("expected originalLTV %v, got %v", want, a.OriginalLTV)
		}
	}
}

func TestController_WrongStepRejected(t *testing.T) {
	c := newTestController()
	_ = c.Start()

	err := c.HandleAnswer(ZipAnswer{Zip: "90210"})
	if !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
	if c.State() != model.StateConventional {
		t.Errorf("state changed on rejected answer: %s", c.State())
	}
	answers := c.Answers()
	if answers.Has(model.KeyZipCode) {
		t.Error("rejected answer was written")
	}
}

func TestController_StartTwice(t *testing.T) {
	c := newTestController()
	_ = c.Start()
	if err := c.Start(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("expected ErrWrongStep on second start, got %v", err)
	}
}

func TestController_InvalidAnswerLeavesRecord(t *testing.T) {
	c := newTestController()
	advanceToPurchase(t, c)
	_ = c.HandleAnswer(PurchaseAnswer{Price: 400000, DownPayment: 40000})
	_ = c.HandleAnswer(PurchaseDateAnswer{Year: 2020, Month: 6})

	if err := c.HandleAnswer(ZipAnswer{Zip: "9021"}); err == nil {
		t.Fatal("expected error for 4-digit ZIP")
	}
	if c.State() != model.StateZip {
		t.Errorf("expected to stay on step4_zip, got %s", c.State())
	}
	if err := c.HandleAnswer(ZipAnswer{Zip: "90210"}); err != nil {
		t.Fatalf("valid ZIP after rejected one: %v", err)
	}
}

func TestController_OwnershipMonths(t *testing.T) {
	c := newTestController()
	advanceToPurchase(t, c)
	_ = c.HandleAnswer(PurchaseAnswer{Price: 400000, DownPayment: 40000})

	if err := c.HandleAnswer(PurchaseDateAnswer{Year: 2020, Month: 6}); err != nil {
		t.Fatalf("date: %v", err)
	}
	a := c.Answers()
	// 2026-10 minus 2020-06
	if a.OwnershipMonths != 76 {
		t.Errorf("expected 76 ownership months, got %d", a.OwnershipMonths)
	}
	if a.PurchaseYear != 2020 || a.PurchaseMonth != 6 {
		t.Errorf("unexpected purchase date %d/%d", a.PurchaseMonth, a.PurchaseYear)
	}
}

func TestMonthsSince_IgnoresDay(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthsSince(2024, 2, now); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := MonthsSince(2023, 12, now); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestProgress(t *testing.T) {
	pct, ok := Progress(model.StateZip)
	if !ok {
		t.Fatal("expected progress on step4_zip")
	}
	if math.Abs(pct-300.0/7.0) > 1e-9 {
		t.Errorf("expected %.4f, got %.4f", 300.0/7.0, pct)
	}

	if pct, _ := Progress(model.StateConventional); pct != 0 {
		t.Errorf("expected 0 on first step, got %v", pct)
	}
	if pct, _ := Progress(model.StateEquityBoost); pct != 100 {
		t.Errorf("expected 100 on last step, got %v", pct)
	}

	for _, s := range []model.State{model.StateStart, model.StateDone, model.StateExitNonConventional, model.StateExitHighDownPayment} {
		if _, ok := Progress(s); ok {
			t.Errorf("expected no progress for %s", s)
		}
	}
}

func TestController_ProgressLabel(t *testing.T) {
	c := newTestController()
	advanceToPurchase(t, c)
	_ = c.HandleAnswer(PurchaseAnswer{Price: 400000, DownPayment: 40000})
	_ = c.HandleAnswer(PurchaseDateAnswer{Year: 2020, Month: 6})

	if got := c.ProgressLabel(); got != "43%" {
		t.Errorf("expected 43%%, got %q", got)
	}
}

func TestController_FullFlow(t *testing.T) {
	c := newTestController()
	var transitions []Transition
	c.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	rate := 0.045
	score := model.CreditExcellent
	answers := []Answer{
		ConventionalAnswer{Conventional: true},
		PurchaseAnswer{Price: 400000, DownPayment: 40000},
		PurchaseDateAnswer{Year: 2020, Month: 6},
		ZipAnswer{Zip: "90210"},
		InterestAnswer{Rate: &rate},
		CreditScoreAnswer{Score: &score},
		DelinquencyAnswer{},
		EquityBoostAnswer{EquityBoost: true, RenovationValue: 10000},
	}

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	for _, a := range answers {
		if err := c.HandleAnswer(a); err != nil {
			t.Fatalf("%s: %v", a.Step(), err)
		}
	}

	if c.State() != model.StateDone {
		t.Fatalf("expected done, got %s", c.State())
	}
	if len(transitions) != 9 {
		t.Fatalf("expected 9 transitions, got %d", len(transitions))
	}
	for i, want := range model.Steps {
		if transitions[i].To != want {
			t.Errorf("transition %d: expected %s, got %s", i, want, transitions[i].To)
		}
	}

	last := transitions[len(transitions)-1]
	if !last.Answers.Has(model.KeyAdditionalPayments) {
		t.Error("transition into done should carry the final answers")
	}

	// mutating the caller's rate must not leak into the record
	rate = 0.09
	if got := *c.Answers().InterestRate; got != 0.045 {
		t.Errorf("expected stored rate 0.045, got %v", got)
	}
}

func TestController_CreditScoreBucketChecked(t *testing.T) {
	c := NewController(&model.Answers{})
	c.restore(model.StateCreditScore)
	bogus := "Superb (900)"
	if err := c.HandleAnswer(CreditScoreAnswer{Score: &bogus}); err == nil {
		t.Error("expected unknown bucket to be rejected")
	}
	if err := c.HandleAnswer(CreditScoreAnswer{}); err != nil {
		t.Errorf("skip should be accepted: %v", err)
	}
}

package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
	"github.com/ppiankov/pmicheck/internal/widget"
)

var (
	errStale  = errors.New("form does not match the current step")
	errReveal = errors.New("reveal estimate inputs")

	errDelinquencyConflict = errors.New("none of the above cannot be combined with a missed payment")
)

// answerFromForm feeds posted values through the step's widget, the same
// way keystrokes would, and commits it. action selects the widget's gate
// or skip operation.
func answerFromForm(state model.State, form url.Values) (survey.Answer, error) {
	w, err := widget.ForState(state)
	if err != nil {
		return nil, err
	}
	action := form.Get("action")

	switch w := w.(type) {
	case *widget.YesNo:
		switch action {
		case "yes":
			w.Choose(true)
		case "no":
			w.Choose(false)
		}

	case *widget.PurchaseWidget:
		w.SetPrice(form.Get("price"))
		if form.Get("down_source") == "percent" {
			w.SetDownPercent(form.Get("down_percent"))
		} else {
			w.SetDownDollar(form.Get("down_dollar"))
		}

	case *widget.DateSelector:
		m, _ := strconv.Atoi(form.Get("month"))
		w.SetMonth(m)
		w.SetYear(strings.TrimSpace(form.Get("year")))

	case *widget.ZipField:
		if zip := form.Get("zip"); zip != "" {
			for _, r := range zip {
				w.Type(r)
			}
			break
		}
		for i := 0; i < widget.ZipLength; i++ {
			w.Fill(i, form.Get("zip"+strconv.Itoa(i)))
		}

	case *widget.RateField:
		w.Input(form.Get("rate"))

	case *widget.CreditScoreField:
		w.Select(form.Get("credit_score"))

	case *widget.DelinquencyGroup:
		var none, missed bool
		for _, name := range form["delinquency"] {
			o, ok := widget.ParseDelinquencyOption(name)
			if !ok {
				continue
			}
			if o == widget.OptionNoneMissed {
				none = true
			} else {
				missed = true
			}
			w.Set(o, true)
		}
		// a form cannot express toggle order, so both kinds together are rejected
		if none && missed {
			return nil, errDelinquencyConflict
		}

	case *widget.EquityBoost:
		switch action {
		case "no":
			return w.No(), nil
		case "yes":
			return nil, errReveal
		}
		w.Yes()
		w.SetRenovationValue(form.Get("renovation_value"))
		w.SetAdditionalPayments(form.Get("additional_payments"))
	}

	if action == "skip" {
		if sk, ok := w.(widget.Skipper); ok {
			return sk.Skip()
		}
	}
	return w.Commit()
}

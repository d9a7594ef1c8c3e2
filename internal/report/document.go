// Package report turns an answer record and a scoring result into the
// explanation shown on the result screen. Building is pure; rendering to
// text, Markdown or HTML happens separately.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
	"github.com/ppiankov/pmicheck/internal/widget"
)

// Intro precedes the bullet list
const Intro = "Here’s how your responses translated into PMI eligibility:"

// Status tells the renderers which parts of a Document are filled in
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Segment is a run of text, optionally emphasized
type Segment struct {
	Text   string `json:"text"`
	Strong bool   `json:"strong,omitempty"`
}

// Line is a sentence made of segments
type Line []Segment

// String returns the line without emphasis
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Document is the rendered-independent result explanation
type Document struct {
	Status   Status `json:"status"`
	Headline string `json:"headline"`
	Level    string `json:"level,omitempty"`

	// Message is the service's eligibility message, an HTML fragment
	Message string `json:"message,omitempty"`
	Bullets []Line `json:"bullets,omitempty"`
	Closing Line   `json:"closing,omitempty"`

	// Explanation is an optional plain-language summary added after building
	Explanation string `json:"explanation,omitempty"`
}

func plain(s string) Segment  { return Segment{Text: s} }
func strong(s string) Segment { return Segment{Text: s, Strong: true} }

// Pending returns the placeholder shown while the request is in flight
func Pending(dots int) Document {
	return Document{Status: StatusPending, Headline: PendingHeadline(dots)}
}

// PendingHeadline is "Checking eligibility" followed by one to three dots
func PendingHeadline(dots int) string {
	if dots < 1 {
		dots = 1
	}
	if dots > 3 {
		dots = 3
	}
	return "Checking eligibility" + strings.Repeat(".", dots)
}

// NextDots cycles 1, 2, 3, 1, ...
func NextDots(dots int) int {
	if dots < 3 {
		return dots + 1
	}
	return 1
}

// Failure returns the document shown when the service could not be reached
func Failure(message string) Document {
	if message == "" {
		message = model.MessageFailure
	}
	return Document{Status: StatusFailed, Headline: message}
}

// Build explains result in terms of the homeowner's answers
func Build(a model.Answers, r *model.Result) Document {
	if r == nil {
		return Failure(model.MessageFailure)
	}

	doc := Document{
		Status:  StatusReady,
		Level:   r.Level(),
		Message: r.EligibilityMessage,
	}

	if doc.Level != "" {
		doc.Headline = "You’re " + strings.Join(r.EligibilityLevel, ",") + " eligible for PMI cancellation."
	} else {
		doc.Headline = model.MessageMissing
	}

	direction := "rose"
	if r.AppreciationPercent < 0 {
		direction = "fell"
	}
	doc.Bullets = append(doc.Bullets, Line{
		plain("The typical house purchased in "), strong(r.Region()), plain(" "),
		strong(direction), plain(" in value by "),
		strong(number(r.AppreciationPercent) + "%"), plain(" between "),
		strong(monthYear(a.PurchaseMonth, a.PurchaseYear)), plain(" and "),
		strong(monthYear(r.CurrentMonth, r.CurrentYear)), plain("."),
	})

	doc.Bullets = append(doc.Bullets, Line{
		plain("Your home, originally purchased for "), strong(currency(r.PurchasePrice)),
		plain(", would now be worth around "), strong(currency(r.CurrentHomeValue)),
		plain(" based on area price trends."),
	})

	if r.RenovationValue > 0 {
		doc.Bullets = append(doc.Bullets, Line{
			plain("With a reported renovation value of "), strong(currency(r.RenovationValue)),
			plain(", your estimated home value increases to "), strong(currency(r.AdjustedCurrentValue)),
			plain("."),
		})
	}

	balance := Line{plain("With a down payment of "), strong(currency(a.DownPayment))}
	if r.AdditionalPayments > 0 {
		balance = append(balance, plain(", additional payments of "), strong(currency(r.AdditionalPayments)))
	}
	rateKind := "a reported "
	if a.InterestRate == nil {
		rateKind = "an estimated "
	}
	balance = append(balance,
		plain(", and "+rateKind+"mortgage rate of "),
		strong(strconv.FormatFloat(r.InterestRate*100, 'f', 1, 64)+"%"),
		plain(", your remaining loan balance is approximately "), strong(currency(r.UnpaidBalance)),
		plain("."),
	)
	doc.Bullets = append(doc.Bullets, balance)

	doc.Bullets = append(doc.Bullets, Line{
		plain("Your estimated home equity is "), strong(currency(r.EstimatedEquity)),
		plain(", which is "), strong(number(r.EquityPercent) + "%"),
		plain(" of your current home value."),
	})

	doc.Closing = Line{
		plain("Without any additional or missed payments, your PMI would likely automatically cancel around "),
		strong(r.AutoCancelDate), plain("."),
	}
	if doc.Level == "LIKELY" || doc.Level == "POSSIBLY" {
		doc.Closing = append(doc.Closing,
			plain(" Requesting cancellation now could save you "), strong(currency(r.EstimatedPMISavings)),
			plain(" in PMI fees."),
		)
	}

	return doc
}

func number(v float64) string   { return widget.FormatNumber(v) }
func currency(v float64) string { return widget.FormatCurrency(v) }

func monthYear(month, year int) string {
	name := ""
	if month >= 1 && month <= 12 {
		name = time.Month(month).String()
	}
	return strings.TrimSpace(name + " " + strconv.Itoa(year))
}

// ForSession returns the document for a session's current outcome. A
// session that never submitted has no outcome and yields a zero Document.
func ForSession(s *survey.Session, dots int) Document {
	if r := s.Result(); r != nil {
		return Build(s.Controller().Answers(), r)
	}
	if msg := s.Message(); msg != "" {
		return Failure(msg)
	}
	if s.Pending() {
		return Pending(dots)
	}
	return Document{}
}

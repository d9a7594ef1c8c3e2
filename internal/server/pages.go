package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/survey"
	"github.com/ppiankov/pmicheck/internal/widget"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() (*template.Template, error) {
	t, err := template.New("pages").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// page is the data every template receives
type page struct {
	Title         string
	Step          string
	Prompt        widget.Prompt
	Progress      string
	ProgressLabel string
	Invalid       bool
	Form          url.Values
	Reveal        bool
	Months        []option
	CreditScores  []option
	Delinquency   []option
	Exit          widget.ExitMessage
	Pending       bool
	Result        template.HTML
}

func (s *Server) render(w http.ResponseWriter, status int, name string, p page) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, p); err != nil {
		s.log.Error("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func indexPage() page {
	return page{Title: "Are you paying unnecessary PMI?"}
}

// sessionPage picks the template for the session's state
func (s *Server) sessionPage(sess *survey.Session, form url.Values, invalid, reveal bool) (string, page) {
	state := sess.State()
	switch {
	case state.IsStep():
		return "step", stepPage(sess, form, invalid, reveal)
	case state == model.StateDone:
		doc := s.document(sess, s.dots())
		return "result", page{
			Title:   "Your results",
			Pending: doc.Status == report.StatusPending,
			Result:  template.HTML(s.renderer.HTML(doc)),
		}
	default:
		if m, ok := widget.ExitFor(state); ok {
			return "exit", page{Title: m.Headline, Exit: m}
		}
		return "index", indexPage()
	}
}

func stepPage(sess *survey.Session, form url.Values, invalid, reveal bool) page {
	state := sess.State()
	prompt, _ := widget.PromptFor(state)
	pct, _ := sess.Controller().Progress()

	p := page{
		Title:         prompt.Question,
		Step:          string(state),
		Prompt:        prompt,
		Progress:      strconv.FormatFloat(pct, 'f', 1, 64),
		ProgressLabel: sess.Controller().ProgressLabel(),
		Invalid:       invalid,
		Form:          form,
		Reveal:        reveal,
	}

	switch state {
	case model.StatePurchaseDate:
		for i, name := range widget.MonthOptions() {
			v := strconv.Itoa(i + 1)
			p.Months = append(p.Months, option{Value: v, Label: name, Selected: form.Get("month") == v})
		}
	case model.StateCreditScore:
		for _, label := range model.CreditScores {
			p.CreditScores = append(p.CreditScores, option{Value: label, Label: label, Selected: form.Get("credit_score") == label})
		}
	case model.StateDelinquency:
		checked := form["delinquency"]
		for _, o := range widget.DelinquencyOptions {
			p.Delinquency = append(p.Delinquency, option{Value: o.Name(), Label: o.Label(), Selected: slices.Contains(checked, o.Name())})
		}
	}
	return p
}

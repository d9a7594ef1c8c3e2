// Package tui runs the survey in the terminal. Keystrokes are routed into
// the same widgets the web front end uses; the scoring request runs as a
// tea.Cmd while the result screen cycles its dots.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/pmicheck/internal/eligibility"
	"github.com/ppiankov/pmicheck/internal/llm"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/survey"
	"github.com/ppiankov/pmicheck/internal/util"
	"github.com/ppiankov/pmicheck/internal/widget"
)

// DefaultTick is the interval between pending dot updates
const DefaultTick = 500 * time.Millisecond

type dotsMsg struct{}

type resultMsg struct {
	result      *model.Result
	err         error
	explanation string
}

// submission is shared by copies of the Model so the submit hook set on
// the session can hand the answers back to Update
type submission struct {
	answers *model.Answers
}

// Model is the bubbletea model of one survey run
type Model struct {
	ctx        context.Context
	sess       *survey.Session
	checker    eligibility.Checker
	timeout    time.Duration
	summarizer *llm.Summarizer
	renderer   *report.Renderer
	log        *util.Logger
	tick       time.Duration

	widget widget.Widget
	cursor int                // highlighted option on choice screens
	field  int                // focused input on multi-input screens
	inputs [3]textinput.Model // text entry of the current screen, by field

	sub  *submission
	dots int
	doc  report.Document

	bar      progress.Model
	quitting bool
}

// Option configures a Model
type Option func(*Model)

// WithTimeout bounds the scoring request; zero waits indefinitely
func WithTimeout(d time.Duration) Option {
	return func(m *Model) { m.timeout = d }
}

// WithSummarizer adds a plain-language explanation to the result
func WithSummarizer(s *llm.Summarizer) Option {
	return func(m *Model) { m.summarizer = s }
}

// WithRenderer sets the result renderer
func WithRenderer(r *report.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// WithLogger sets the logger
func WithLogger(l *util.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithTick sets the pending dot interval
func WithTick(d time.Duration) Option {
	return func(m *Model) { m.tick = d }
}

// WithClock sets the clock used for ownership months
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.sess = survey.NewSession("tui", survey.WithClock(now)) }
}

// New creates a model positioned on the first question
func New(ctx context.Context, checker eligibility.Checker, opts ...Option) (Model, error) {
	m := Model{
		ctx:      ctx,
		sess:     survey.NewSession("tui"),
		checker:  checker,
		renderer: report.NewRenderer(model.ReportConfig{}),
		log:      util.Discard(),
		tick:     DefaultTick,
		sub:      &submission{},
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
	for _, opt := range opts {
		opt(&m)
	}

	sub := m.sub
	m.sess.OnSubmit(func(a model.Answers) {
		sub.answers = &a
	})
	if err := m.sess.Controller().Start(); err != nil {
		return m, err
	}
	m.resetWidget()
	return m, nil
}

// Run starts the terminal program and blocks until the homeowner quits
func Run(ctx context.Context, checker eligibility.Checker, opts ...Option) error {
	m, err := New(ctx, checker, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// State returns the survey state
func (m Model) State() model.State {
	return m.sess.State()
}

// Document returns the result document, empty before done
func (m Model) Document() report.Document {
	return m.doc
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w > 10 {
			m.bar.Width = w
		}
		return m, nil

	case dotsMsg:
		if m.doc.Status != report.StatusPending {
			return m, nil
		}
		m.dots = report.NextDots(m.dots)
		m.doc = report.Pending(m.dots)
		return m, m.dotsTick()

	case resultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		state := m.State()
		if !state.IsStep() {
			if msg.String() == "q" || msg.String() == "enter" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// commit hands an answer to the controller. An answer that is rejected
// leaves the screen as it is.
func (m Model) commit(answer survey.Answer, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m, nil
	}
	if err := m.sess.Controller().HandleAnswer(answer); err != nil {
		m.log.Debug("answer rejected: %v", err)
		return m, nil
	}

	if m.State() != model.StateDone {
		m.resetWidget()
		return m, nil
	}

	m.widget = nil
	m.dots = 1
	m.doc = report.Pending(m.dots)
	if m.sub.answers == nil {
		return m, nil
	}
	answers := *m.sub.answers
	return m, tea.Batch(m.check(answers), m.dotsTick())
}

func (m *Model) resetWidget() {
	w, err := widget.ForState(m.State())
	if err != nil {
		m.widget = nil
		return
	}
	m.widget = w
	m.cursor = 0
	m.inputs = inputsFor(w)
	m.focusInput(0)
}

func (m Model) check(answers model.Answers) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := eligibility.WithTimeout(m.ctx, m.timeout)
		defer cancel()

		result, err := m.checker.Check(ctx, eligibility.BuildRequest(answers))
		msg := resultMsg{result: result, err: err}
		if err != nil || !m.summarizer.IsEnabled() {
			return msg
		}

		text, xerr := m.summarizer.Explain(ctx, report.Build(answers, result))
		if xerr != nil {
			m.log.Warn("%v", xerr)
		}
		msg.explanation = text
		return msg
	}
}

func (m Model) dotsTick() tea.Cmd {
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return dotsMsg{}
	})
}

func (m Model) handleResult(msg resultMsg) Model {
	if msg.err != nil {
		m.log.Warn("eligibility check failed: %v", msg.err)
		_ = m.sess.SetFailure()
	} else if err := m.sess.SetResult(msg.result); err != nil {
		m.log.Warn("record result: %v", err)
	}
	m.doc = report.ForSession(m.sess, m.dots)
	if m.doc.Status == report.StatusReady {
		m.doc.Explanation = msg.explanation
	}
	return m
}

func (m Model) progress() (float64, string) {
	pct, _ := m.sess.Controller().Progress()
	return pct, m.sess.Controller().ProgressLabel()
}

func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

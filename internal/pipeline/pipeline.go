package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/pmicheck/internal/eligibility"
	"github.com/ppiankov/pmicheck/internal/llm"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/script"
	"github.com/ppiankov/pmicheck/internal/survey"
	"github.com/ppiankov/pmicheck/internal/util"
)

// Pipeline runs answers files end to end: replay, score, build the report
type Pipeline struct {
	checker    eligibility.Checker
	summarizer *llm.Summarizer // nil if disabled
	timeout    time.Duration
	clock      func() time.Time
	log        *util.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithSummarizer adds plain-language explanations to ready reports
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// WithTimeout bounds each scoring request; zero waits indefinitely
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithClock sets the clock used for ownership months
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.clock = now }
}

// WithLogger sets the logger
func WithLogger(l *util.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a pipeline scoring through checker
func New(checker eligibility.Checker, opts ...Option) *Pipeline {
	p := &Pipeline{
		checker: checker,
		clock:   time.Now,
		log:     util.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckResult is the outcome of one answers file
type CheckResult struct {
	Name     string          `json:"name"`
	Path     string          `json:"path,omitempty"`
	State    model.State     `json:"state"`
	Answers  model.Answers   `json:"answers"`
	Result   *model.Result   `json:"result,omitempty"`
	Message  string          `json:"message,omitempty"`
	Document report.Document `json:"document"`
}

// Scored reports whether the survey reached the scoring step and the
// service answered, whatever the eligibility level
func (r *CheckResult) Scored() bool {
	return r.Result != nil
}

// CheckFile loads and checks an answers file
func (p *Pipeline) CheckFile(ctx context.Context, path string) (*CheckResult, error) {
	f, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := p.Check(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path
	return res, nil
}

// Check replays f through a fresh session. Files that end on an exit state
// are returned without contacting the service. Scoring failures are part of
// the result, not an error.
func (p *Pipeline) Check(ctx context.Context, f *script.File) (*CheckResult, error) {
	session := survey.NewSession(f.Name, survey.WithClock(p.clock))

	var submitted *model.Answers
	session.OnSubmit(func(a model.Answers) {
		submitted = &a
	})

	if err := f.Replay(session.Controller()); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	res := &CheckResult{
		Name:    f.Name,
		State:   session.State(),
		Answers: session.Controller().Answers(),
	}
	p.log.Debug("%s answered %v", f.Name, res.Answers.Keys())

	if submitted == nil {
		p.log.Debug("%s ended at %s, not scored", f.Name, res.State)
		return res, nil
	}

	reqCtx, cancel := eligibility.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.checker.Check(reqCtx, eligibility.BuildRequest(*submitted))
	if err != nil {
		p.log.Warn("%s: eligibility check failed: %v", f.Name, err)
		_ = session.SetFailure()
	} else {
		_ = session.SetResult(result)
	}

	res.Result = session.Result()
	res.Message = session.Message()
	res.Document = report.ForSession(session, 1)

	if p.summarizer.IsEnabled() {
		text, err := p.summarizer.Explain(ctx, res.Document)
		if err != nil {
			p.log.Warn("%s: %v", f.Name, err)
		} else {
			res.Document.Explanation = text
		}
	}

	return res, nil
}

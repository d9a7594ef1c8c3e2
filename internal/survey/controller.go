package survey

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
)

var (
	// ErrWrongStep is returned when an answer does not belong to the current state
	ErrWrongStep = errors.New("answer does not match current step")

	// ErrTerminal is returned when the survey has already finished
	ErrTerminal = errors.New("survey already finished")
)

// Transition describes a single state change
type Transition struct {
	From    model.State
	To      model.State
	Answers model.Answers // snapshot after the answer was written
}

// Option configures a Controller or Session
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for ownership month calculation
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Controller is the survey state machine. It owns the current state and
// writes every answer into the record before changing state.
type Controller struct {
	mu        sync.Mutex
	state     model.State
	answers   *model.Answers
	now       func() time.Time
	listeners []func(Transition)
}

// NewController creates a controller in the start state writing into answers
func NewController(answers *model.Answers, opts ...Option) *Controller {
	if answers == nil {
		answers = &model.Answers{}
	}
	o := buildOptions(opts)
	return &Controller{
		state:   model.StateStart,
		answers: answers,
		now:     o.now,
	}
}

// State returns the current state
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Answers returns a copy of the record
func (c *Controller) Answers() model.Answers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Clone()
}

// Subscribe registers fn to be called after every transition
func (c *Controller) Subscribe(fn func(Transition)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start moves from the start screen to the first question
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != model.StateStart {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("start from %s: %w", state, ErrWrongStep)
	}
	t := c.transitionLocked(model.StateConventional)
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, t)
	return nil
}

// HandleAnswer writes the answer for the current step and advances
func (c *Controller) HandleAnswer(a Answer) error {
	if a == nil {
		return fmt.Errorf("nil answer: %w", ErrWrongStep)
	}

	c.mu.Lock()
	if c.state.IsTerminal() {
		c.mu.Unlock()
		return ErrTerminal
	}
	if a.Step() != c.state {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%s answer in %s: %w", a.Step(), state, ErrWrongStep)
	}

	// Write into a scratch copy so a rejected answer leaves the record untouched
	scratch := c.answers.Clone()
	next, err := a.apply(&scratch, c.now())
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", a.Step(), err)
	}
	*c.answers = scratch

	t := c.transitionLocked(next)
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, t)
	return nil
}

// Progress returns the completion percentage while on a question step
func (c *Controller) Progress() (float64, bool) {
	return Progress(c.State())
}

// ProgressLabel returns the rounded percentage, e.g. "43%", or "" off the steps
func (c *Controller) ProgressLabel() string {
	pct, ok := c.Progress()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d%%", int(math.Round(pct)))
}

// Progress computes index/(steps-1)*100 for a question step
func Progress(s model.State) (float64, bool) {
	idx := s.StepIndex()
	if idx < 0 {
		return 0, false
	}
	return float64(idx) / float64(len(model.Steps)-1) * 100, true
}

func (c *Controller) transitionLocked(next model.State) Transition {
	t := Transition{
		From:    c.state,
		To:      next,
		Answers: c.answers.Clone(),
	}
	c.state = next
	return t
}

// restore places the controller at a previously reached state
func (c *Controller) restore(state model.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

func notify(listeners []func(Transition), t Transition) {
	for _, fn := range listeners {
		fn(t)
	}
}

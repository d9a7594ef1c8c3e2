package survey

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
)

// ErrResultAlreadySet is returned when a session receives a second outcome
var ErrResultAlreadySet = errors.New("eligibility outcome already recorded")

// Session is one homeowner's pass through the survey. It owns the answer
// record, the controller and the single eligibility outcome.
type Session struct {
	ID        string
	CreatedAt time.Time

	controller *Controller

	mu        sync.Mutex
	submitted bool // set once on the first entry into done
	result    *model.Result
	message   string
	updatedAt time.Time
	onSubmit  func(model.Answers)
	now       func() time.Time
}

// NewSession creates a session in the start state
func NewSession(id string, opts ...Option) *Session {
	o := buildOptions(opts)
	s := &Session{
		ID:        id,
		CreatedAt: o.now(),
		updatedAt: o.now(),
		now:       o.now,
	}
	s.controller = NewController(&model.Answers{}, opts...)
	s.controller.Subscribe(s.handleTransition)
	return s
}

// Controller returns the session's state machine
func (s *Session) Controller() *Controller {
	return s.controller
}

// State is shorthand for Controller().State()
func (s *Session) State() model.State {
	return s.controller.State()
}

// OnSubmit registers the eligibility trigger. It runs at most once per
// session, on the transition into done.
func (s *Session) OnSubmit(fn func(answers model.Answers)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSubmit = fn
}

func (s *Session) handleTransition(t Transition) {
	s.mu.Lock()
	s.updatedAt = s.now()
	if t.To != model.StateDone || s.submitted {
		s.mu.Unlock()
		return
	}
	s.submitted = true
	fn := s.onSubmit
	s.mu.Unlock()

	if fn != nil {
		fn(t.Answers)
	}
}

// Submitted reports whether the eligibility request has been triggered
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Pending reports whether the request was triggered but has not settled
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted && s.result == nil && s.message == ""
}

// SetResult stores the service response
func (s *Session) SetResult(r *model.Result) error {
	if r == nil {
		return fmt.Errorf("nil result")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil || s.message != "" {
		return ErrResultAlreadySet
	}
	s.result = r
	s.message = r.EligibilityMessage
	if s.message == "" {
		s.message = model.MessageMissing
	}
	s.updatedAt = s.now()
	return nil
}

// SetFailure records a network or decode failure. No structured result is kept.
func (s *Session) SetFailure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil || s.message != "" {
		return ErrResultAlreadySet
	}
	s.message = model.MessageFailure
	s.updatedAt = s.now()
	return nil
}

// Result returns the service response, or nil
func (s *Session) Result() *model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Message returns the eligibility status text, or "" while pending
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Snapshot is the serializable form of a session
type Snapshot struct {
	ID        string        `json:"id"`
	State     model.State   `json:"state"`
	Answers   model.Answers `json:"answers"`
	Submitted bool          `json:"submitted"`
	Result    *model.Result `json:"result,omitempty"`
	Message   string        `json:"message,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Snapshot captures the session for storage
func (s *Session) Snapshot() Snapshot {
	state := s.controller.State()
	answers := s.controller.Answers()

	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.ID,
		State:     state,
		Answers:   answers,
		Submitted: s.submitted,
		Result:    s.result,
		Message:   s.message,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}

// Restore rebuilds a session from a snapshot. A restored session that is
// already in done keeps its submitted flag and never triggers again.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	if !snap.State.Valid() {
		return nil, fmt.Errorf("restore session %s: unknown state %q", snap.ID, snap.State)
	}
	if snap.State == model.StateDone && !snap.Submitted {
		return nil, fmt.Errorf("restore session %s: done without submission", snap.ID)
	}

	answers := snap.Answers.Clone()
	o := buildOptions(opts)
	s := &Session{
		ID:        snap.ID,
		CreatedAt: snap.CreatedAt,
		submitted: snap.Submitted,
		result:    snap.Result,
		message:   snap.Message,
		updatedAt: snap.UpdatedAt,
		now:       o.now,
	}
	s.controller = NewController(&answers, opts...)
	s.controller.restore(snap.State)
	s.controller.Subscribe(s.handleTransition)
	return s, nil
}

package model

// State is a position in the survey flow
type State string

const (
	StateStart               State = "start"
	StateConventional        State = "step1_conventional"
	StatePurchase            State = "step2_purchase"
	StatePurchaseDate        State = "step3_date"
	StateZip                 State = "step4_zip"
	StateInterest            State = "step5_interest"
	StateCreditScore         State = "step6_credit_score"
	StateDelinquency         State = "step7_delinquency"
	StateEquityBoost         State = "step8_equity_boost"
	StateDone                State = "done"
	StateExitNonConventional State = "exit_non_conventional"
	StateExitHighDownPayment State = "exit_high_downpayment"
)

// Steps is the ordered list of question steps used for progress tracking
var Steps = []State{
	StateConventional,
	StatePurchase,
	StatePurchaseDate,
	StateZip,
	StateInterest,
	StateCreditScore,
	StateDelinquency,
	StateEquityBoost,
}

// IsTerminal reports whether no further transition can happen from s
func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateExitNonConventional, StateExitHighDownPayment:
		return true
	default:
		return false
	}
}

// StepIndex returns the zero-based position of s in Steps, or -1
func (s State) StepIndex() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsStep reports whether s is one of the eight question steps
func (s State) IsStep() bool {
	return s.StepIndex() >= 0
}

// Valid reports whether s names a known state
func (s State) Valid() bool {
	return s == StateStart || s.IsStep() || s.IsTerminal()
}

func (s State) String() string {
	return string(s)
}

package widget

import "github.com/ppiankov/pmicheck/internal/model"

// Prompt is the question text and help line shown for a step
type Prompt struct {
	Question string
	Help     string
}

var prompts = map[model.State]Prompt{
	model.StateConventional: {
		Question: "Do you have a 30-year conventional mortgage?",
		Help:     `Most mortgages are conventional loans. If you have an FHA, VA, or USDA loan and/or your mortgage is for a term less than 30 years, select "No".`,
	},
	model.StatePurchase: {
		Question: "Tell us more about your home purchase.",
		Help:     "Enter the original purchase price and your down payment, either in dollars or as a percentage.",
	},
	model.StatePurchaseDate: {
		Question: "When did you purchase your home?",
	},
	model.StateZip: {
		Question: "What is your home's ZIP code?",
	},
	model.StateInterest: {
		Question: "What is your mortgage interest rate?",
		Help:     "This is the annual interest rate on your mortgage, not your APR. It's okay if you don't know; we'll use the average interest rate in the month you purchased your home.",
	},
	model.StateCreditScore: {
		Question: "What is your credit score range?",
		Help:     "Your credit score will not affect your eligibility for cancellation, but it will help estimate savings.",
	},
	model.StateDelinquency: {
		Question: "Have you recently missed any mortgage payments?",
		Help:     "Missed payments generally mean 30 or more days past due, not just a few days late.",
	},
	model.StateEquityBoost: {
		Question: "Have you made renovations or additional mortgage payments?",
		Help:     "If you've made extra payments on your mortgage or completed major renovations, you may have more equity than this tool assumes.",
	},
}

// PromptFor returns the prompt of a question step
func PromptFor(s model.State) (Prompt, bool) {
	p, ok := prompts[s]
	return p, ok
}

// ExitMessage is shown on the two early exit screens
type ExitMessage struct {
	Headline string
	Body     string
}

// ExitFor returns the message of an exit state
func ExitFor(s model.State) (ExitMessage, bool) {
	const body = "But you can still take action by exploring our resources and templates for contacting servicers."
	switch s {
	case model.StateExitNonConventional:
		return ExitMessage{Headline: "This tool only applies to 30-year conventional mortgages.", Body: body}, true
	case model.StateExitHighDownPayment:
		return ExitMessage{Headline: "PMI is not required with 20% or more down.", Body: body}, true
	default:
		return ExitMessage{}, false
	}
}

package model

import (
	"encoding/json"
	"fmt"
)

// Request is the fixed payload sent to the scoring service
type Request struct {
	Zip                 string   `json:"zip"`
	PurchaseYear        int      `json:"purchase_year"`
	PurchaseMonth       int      `json:"purchase_month"`
	PurchasePrice       float64  `json:"purchase_price"`
	DownPayment         float64  `json:"down_payment"`
	InterestRate        *float64 `json:"interest_rate,omitempty"` // omitted: server uses the average rate for the purchase month
	CreditScore         string   `json:"credit_score"`
	CurrentlyDelinquent bool     `json:"currently_delinquent"`
	Late30In12Mo        bool     `json:"late_30_in_12mo"`
	Late60In24Mo        bool     `json:"late_60_in_24mo"`
	EquityBoost         bool     `json:"equity_boost"`
	RenovationValue     float64  `json:"renovation_value"`
	AdditionalPayments  float64  `json:"additional_payments"`
}

// Result is the scoring service response. Fields the service leaves out
// decode to their zero value.
type Result struct {
	EligibilityLevel     FlexStrings `json:"eligibility_level"`
	EligibilityMessage   string      `json:"eligibility_message"`
	CBSAUsed             FlexStrings `json:"cbsa_used,omitempty"`
	StateUsed            FlexStrings `json:"state_used,omitempty"`
	AppreciationPercent  float64     `json:"appreciation_percent"`
	PurchasePrice        float64     `json:"purchase_price"`
	CurrentHomeValue     float64     `json:"current_home_value"`
	RenovationValue      float64     `json:"renovation_value"`
	AdjustedCurrentValue float64     `json:"adjusted_current_value"`
	AdditionalPayments   float64     `json:"additional_payments"`
	InterestRate         float64     `json:"interest_rate"`
	UnpaidBalance        float64     `json:"unpaid_balance"`
	EstimatedEquity      float64     `json:"estimated_equity"`
	EquityPercent        float64     `json:"equity_percent"`
	AutoCancelDate       string      `json:"auto_cancel_date"`
	EstimatedPMISavings  float64     `json:"estimated_pmi_savings"`
	CurrentMonth         int         `json:"current_month"`
	CurrentYear          int         `json:"current_year"`
}

// Level returns the primary eligibility level, e.g. "LIKELY"
func (r *Result) Level() string {
	return r.EligibilityLevel.First()
}

// Region returns the metro area used for appreciation, falling back to the state
func (r *Result) Region() string {
	if cbsa := r.CBSAUsed.First(); cbsa != "" {
		return cbsa
	}
	return r.StateUsed.First()
}

// FlexStrings accepts either a JSON string or an array of strings
type FlexStrings []string

// First returns the first element or ""
func (f FlexStrings) First() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FlexStrings{single}
		return nil
	}

	var many []json.RawMessage
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array: %w", err)
	}
	out := make(FlexStrings, 0, len(many))
	for _, raw := range many {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw) // numbers and other scalars keep their JSON text
		}
		out = append(out, s)
	}
	*f = out
	return nil
}

// Status messages shown in place of the service's eligibility message
const (
	MessageFailure = "❌ Failed to connect to the backend."
	MessageMissing = "Something went wrong."
)

// Package script replays a homeowner's answers from a YAML file through the
// same widgets and controller the interactive front ends use.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
	"github.com/ppiankov/pmicheck/internal/widget"
)

// ErrMissing is returned when the file has no value for a step the survey reaches
var ErrMissing = errors.New("no answer in file")

// File is one survey run. Amounts are kept as typed text so they pass
// through the same input filtering as keystrokes. Optional steps are
// skipped when left blank.
type File struct {
	Name string `yaml:"name,omitempty"`

	Conventional *bool `yaml:"conventional"`

	PurchasePrice      string `yaml:"purchase_price"`
	DownPayment        string `yaml:"down_payment,omitempty"`         // dollars
	DownPaymentPercent string `yaml:"down_payment_percent,omitempty"` // used when down_payment is blank

	PurchaseMonth int    `yaml:"purchase_month"`
	PurchaseYear  string `yaml:"purchase_year"`

	Zip string `yaml:"zip"`

	InterestRate string `yaml:"interest_rate,omitempty"` // percent, e.g. 4.5
	CreditScore  string `yaml:"credit_score,omitempty"`

	// Delinquency lists checked boxes: currently, late30, late60 or none
	Delinquency []string `yaml:"delinquency"`

	EquityBoost        bool   `yaml:"equity_boost"`
	RenovationValue    string `yaml:"renovation_value,omitempty"`
	AdditionalPayments string `yaml:"additional_payments,omitempty"`
}

// Load reads an answers file. The file name is used when no name is set.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Parse decodes an answers file
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return &f, nil
}

// Replay starts c and feeds it one answer per step until the survey ends.
// It stops at the first step whose input is missing or invalid.
func (f *File) Replay(c *survey.Controller) error {
	if c.State() == model.StateStart {
		if err := c.Start(); err != nil {
			return err
		}
	}

	for !c.State().IsTerminal() {
		step := c.State()
		answer, err := f.answer(step)
		if err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		if err := c.HandleAnswer(answer); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return nil
}

func (f *File) answer(step model.State) (survey.Answer, error) {
	w, err := widget.ForState(step)
	if err != nil {
		return nil, err
	}

	switch w := w.(type) {
	case *widget.YesNo:
		if f.Conventional == nil {
			return nil, fmt.Errorf("conventional: %w", ErrMissing)
		}
		w.Choose(*f.Conventional)

	case *widget.PurchaseWidget:
		w.SetPrice(f.PurchasePrice)
		if f.DownPayment != "" || f.DownPaymentPercent == "" {
			w.SetDownDollar(f.DownPayment)
		} else {
			w.SetDownPercent(f.DownPaymentPercent)
		}

	case *widget.DateSelector:
		w.SetMonth(f.PurchaseMonth)
		w.SetYear(f.PurchaseYear)

	case *widget.ZipField:
		for _, r := range f.Zip {
			w.Type(r)
		}

	case *widget.RateField:
		if strings.TrimSpace(f.InterestRate) == "" {
			return w.Skip()
		}
		w.Input(f.InterestRate)

	case *widget.CreditScoreField:
		if strings.TrimSpace(f.CreditScore) == "" {
			return w.Skip()
		}
		if !w.Select(f.CreditScore) {
			return nil, fmt.Errorf("unknown credit score %q: %w", f.CreditScore, widget.ErrInvalid)
		}

	case *widget.DelinquencyGroup:
		if len(f.Delinquency) == 0 {
			return nil, fmt.Errorf("delinquency: %w", ErrMissing)
		}
		for _, name := range f.Delinquency {
			opt, ok := widget.ParseDelinquencyOption(strings.ToLower(strings.TrimSpace(name)))
			if !ok {
				return nil, fmt.Errorf("unknown delinquency option %q: %w", name, widget.ErrInvalid)
			}
			w.Set(opt, true)
		}

	case *widget.EquityBoost:
		if !f.EquityBoost {
			return w.No(), nil
		}
		w.Yes()
		if f.RenovationValue == "" && f.AdditionalPayments == "" {
			return w.Skip()
		}
		w.SetRenovationValue(f.RenovationValue)
		w.SetAdditionalPayments(f.AdditionalPayments)
	}

	return w.Commit()
}

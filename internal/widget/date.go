package widget

import (
	"regexp"
	"strconv"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// Accepted purchase years
const (
	MinPurchaseYear = 1990
	MaxPurchaseYear = 2050
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// DateSelector picks the purchase month from a list and takes the year as text
type DateSelector struct {
	month int
	year  string
}

func (d *DateSelector) Step() model.State { return model.StatePurchaseDate }

// MonthOptions returns the month names in order, January first
func MonthOptions() []string {
	names := make([]string, 12)
	for i := range names {
		names[i] = time.Month(i + 1).String()
	}
	return names
}

// SetMonth selects a month 1-12; 0 clears the selection
func (d *DateSelector) SetMonth(m int) {
	if m < 0 || m > 12 {
		return
	}
	d.month = m
}

// SetYear replaces the year text
func (d *DateSelector) SetYear(raw string) {
	d.year = raw
}

// Month returns the selected month, 0 if none
func (d *DateSelector) Month() int { return d.month }

// Year returns the year text
func (d *DateSelector) Year() string { return d.year }

// Valid reports whether a month is selected and the year is four digits in range
func (d *DateSelector) Valid() bool {
	if d.month == 0 || !yearPattern.MatchString(d.year) {
		return false
	}
	y, _ := strconv.Atoi(d.year)
	return y >= MinPurchaseYear && y <= MaxPurchaseYear
}

// Commit returns the purchase date answer
func (d *DateSelector) Commit() (survey.Answer, error) {
	if !d.Valid() {
		return nil, invalid(d.Step())
	}
	y, _ := strconv.Atoi(d.year)
	return survey.PurchaseDateAnswer{Year: y, Month: d.month}, nil
}

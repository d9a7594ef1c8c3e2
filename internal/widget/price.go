package widget

import (
	"math"
	"strconv"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// Price and down payment bounds accepted by the purchase question
const (
	MinPurchasePrice = 50_000
	MaxPurchasePrice = 5_000_000
	MinDownPayment   = 0
	MaxDownPayment   = 3_000_000
)

// PriceField is a digit-only currency input with an inclusive valid range
type PriceField struct {
	raw string
	min float64
	max float64
}

// NewPriceField creates a price field accepting values in [min, max]
func NewPriceField(min, max float64) *PriceField {
	return &PriceField{min: min, max: max}
}

// Input replaces the draft with the digits of raw
func (f *PriceField) Input(raw string) {
	f.raw = DigitsOnly(raw)
}

// Value returns the parsed amount
func (f *PriceField) Value() (float64, bool) {
	return parseAmount(f.raw)
}

// Display returns the grouped currency form, e.g. $350,000
func (f *PriceField) Display() string {
	v, ok := f.Value()
	if !ok {
		return ""
	}
	return FormatCurrency(v)
}

// Valid reports whether the amount lies within the field's range
func (f *PriceField) Valid() bool {
	v, ok := f.Value()
	return ok && v >= f.min && v <= f.max
}

// PurchaseWidget collects the purchase price and the down payment. The down
// payment can be typed either as a percentage or in dollars; whichever field
// was edited last is the source of truth and the other is recomputed from it.
type PurchaseWidget struct {
	price       *PriceField
	downDollar  string // digits
	downPercent string // digits and one decimal point
}

// NewPurchaseWidget creates an empty purchase widget
func NewPurchaseWidget() *PurchaseWidget {
	return &PurchaseWidget{
		price: NewPriceField(MinPurchasePrice, MaxPurchasePrice),
	}
}

func (w *PurchaseWidget) Step() model.State { return model.StatePurchase }

// SetPrice edits the price and clears both down payment buffers
func (w *PurchaseWidget) SetPrice(raw string) {
	w.price.Input(raw)
	w.downDollar = ""
	w.downPercent = ""
}

// SetDownPercent makes the percentage the source of truth and derives dollars
func (w *PurchaseWidget) SetDownPercent(raw string) {
	w.downPercent = DecimalOnly(raw)
	w.downDollar = ""

	pct, ok := parseAmount(w.downPercent)
	price, priceOK := w.price.Value()
	if ok && priceOK && price > 0 {
		w.downDollar = strconv.FormatFloat(math.Round(pct/100*price), 'f', 0, 64)
	}
}

// SetDownDollar makes the dollar amount the source of truth and derives the percentage
func (w *PurchaseWidget) SetDownDollar(raw string) {
	w.downDollar = DigitsOnly(raw)
	w.downPercent = ""

	dollar, ok := parseAmount(w.downDollar)
	price, priceOK := w.price.Value()
	if ok && priceOK && price > 0 {
		pct := math.Round(dollar/price*100*10) / 10
		w.downPercent = strconv.FormatFloat(pct, 'f', -1, 64)
	}
}

// Price returns the price field
func (w *PurchaseWidget) Price() *PriceField {
	return w.price
}

// DownDollar returns the down payment in dollars
func (w *PurchaseWidget) DownDollar() (float64, bool) {
	return parseAmount(w.downDollar)
}

// DownPercent returns the down payment percentage
func (w *PurchaseWidget) DownPercent() (float64, bool) {
	return parseAmount(w.downPercent)
}

// DownDollarDisplay returns e.g. $30,000
func (w *PurchaseWidget) DownDollarDisplay() string {
	v, ok := w.DownDollar()
	if !ok {
		return ""
	}
	return FormatCurrency(v)
}

// DownPercentDisplay returns e.g. 15%
func (w *PurchaseWidget) DownPercentDisplay() string {
	if w.downPercent == "" {
		return ""
	}
	v, ok := w.DownPercent()
	if !ok {
		return w.downPercent
	}
	return FormatPercent(v)
}

// Valid reports whether price and both down payment forms are in range
func (w *PurchaseWidget) Valid() bool {
	if !w.price.Valid() {
		return false
	}
	dollar, ok := w.DownDollar()
	if !ok || dollar < MinDownPayment || dollar > MaxDownPayment {
		return false
	}
	pct, ok := w.DownPercent()
	return ok && pct >= 0 && pct <= 100
}

// Commit returns the purchase answer using the dollar down payment
func (w *PurchaseWidget) Commit() (survey.Answer, error) {
	if !w.Valid() {
		return nil, invalid(w.Step())
	}
	price, _ := w.price.Value()
	down, _ := w.DownDollar()
	return survey.PurchaseAnswer{Price: price, DownPayment: down}, nil
}

package widget

import (
	"strings"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// ZipLength is the number of ZIP code boxes
const ZipLength = 5

// ZipField is five single-digit boxes with a moving focus
type ZipField struct {
	digits [ZipLength]string
	focus  int
}

func (z *ZipField) Step() model.State { return model.StateZip }

// Focus returns the index of the focused box
func (z *ZipField) Focus() int { return z.focus }

// SetFocus moves focus to box i
func (z *ZipField) SetFocus(i int) {
	if i >= 0 && i < ZipLength {
		z.focus = i
	}
}

// Digit returns the content of box i
func (z *ZipField) Digit(i int) string {
	if i < 0 || i >= ZipLength {
		return ""
	}
	return z.digits[i]
}

// Fill sets box i to val, which must be empty or a single digit. A digit
// moves focus to the next box. Anything else is ignored.
func (z *ZipField) Fill(i int, val string) bool {
	if i < 0 || i >= ZipLength || !isZipDigit(val) {
		return false
	}
	z.digits[i] = val
	if val != "" && i < ZipLength-1 {
		z.focus = i + 1
	}
	return true
}

// Type enters r into the focused box. Non-digits and full boxes are ignored
// and leave focus where it is.
func (z *ZipField) Type(r rune) bool {
	if r < '0' || r > '9' || z.digits[z.focus] != "" {
		return false
	}
	return z.Fill(z.focus, string(r))
}

// Backspace clears the focused box, or moves back one box when it is already empty
func (z *ZipField) Backspace() {
	if z.digits[z.focus] != "" {
		z.digits[z.focus] = ""
		return
	}
	if z.focus > 0 {
		z.focus--
	}
}

// Value returns the digits joined
func (z *ZipField) Value() string {
	return strings.Join(z.digits[:], "")
}

// Valid reports whether all five boxes are filled
func (z *ZipField) Valid() bool {
	return len(z.Value()) == ZipLength
}

// Commit returns the ZIP answer
func (z *ZipField) Commit() (survey.Answer, error) {
	if !z.Valid() {
		return nil, invalid(z.Step())
	}
	return survey.ZipAnswer{Zip: z.Value()}, nil
}

func isZipDigit(val string) bool {
	return val == "" || (len(val) == 1 && val[0] >= '0' && val[0] <= '9')
}

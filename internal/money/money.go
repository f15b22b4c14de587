// Package money holds currency amounts as integer cents.
package money

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units. It renders in JSON as a
// number with exactly two decimals (3000 -> 30.00).
type Cents int64

// FromDecimal rounds d to two decimal places and converts it to Cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Shift(2).IntPart())
}

// Parse reads a decimal amount such as "40", "32.5" or "12.345".
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal returns c in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*c = 0
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Package money wraps shopspring/decimal so balances never pass through floating point.
package money

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pocketledger/internal/util"
)

// DefaultMaxLength mirrors the 10-character cap of the amount input field.
const DefaultMaxLength = 10

// Money is a fixed-precision monetary quantity.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{d: decimal.Zero}

// New wraps a decimal value.
func New(d decimal.Decimal) Money { return Money{d: d} }

// FromInt returns a whole-unit amount.
func FromInt(v int64) Money { return Money{d: decimal.NewFromInt(v)} }

// MustParse parses s and panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Money{d: d}
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) Neg() Money { return Money{d: m.d.Neg()} }

func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) String() string { return m.d.String() }

// MarshalJSON encodes the amount as a JSON string to keep full precision.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.d.MarshalJSON()
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.d.UnmarshalJSON(data)
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(value interface{}) error {
	return m.d.Scan(value)
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.d.Value()
}

// Limits bounds what Parse accepts.
type Limits struct {
	MaxLength    int
	MaxMagnitude decimal.Decimal
}

// DefaultLimits applies the input-length cap and no extra magnitude bound.
func DefaultLimits() Limits {
	return Limits{MaxLength: DefaultMaxLength}
}

// Parse turns user input into Money. Empty input is a missing field, everything else that is
// not a plain number within limits is ErrInvalidAmount.
func Parse(input string, lim Limits) (Money, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Zero, util.MissingField("amount")
	}
	if lim.MaxLength > 0 && len(s) > lim.MaxLength {
		return Zero, fmt.Errorf("%w: longer than %d characters", util.ErrInvalidAmount, lim.MaxLength)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q is not a number", util.ErrInvalidAmount, s)
	}
	if lim.MaxMagnitude.IsPositive() && d.Abs().GreaterThan(lim.MaxMagnitude) {
		return Zero, fmt.Errorf("%w: exceeds %s", util.ErrInvalidAmount, lim.MaxMagnitude)
	}
	return Money{d: d}, nil
}

// Input is the raw amount text of a request body. It accepts JSON strings and numbers so
// validation happens in Parse rather than in the decoder.
type Input string

func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*in = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}
	*in = Input(data)
	return nil
}

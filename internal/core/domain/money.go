package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits carried by every Money value.
const MoneyScale = 4

var (
	ErrOverflow        = errors.New("money overflow")
	ErrMalformedAmount = errors.New("malformed amount")
	ErrPrecisionLoss   = errors.New("amount exceeds 4 fractional digits")
)

// Money is a fixed-point amount scaled by 10^MoneyScale.
// One unit is 0.0001 of the major currency unit; the int64 range covers
// roughly 922 trillion major units.
type Money struct {
	units int64
}

// FromUnits builds a Money from its scaled integer representation.
// Only storage adapters should need it.
func FromUnits(units int64) Money {
	return Money{units: units}
}

// ParseMoney parses a decimal text such as "10", "2.5" or "0.0001".
// Text with more than MoneyScale significant fractional digits is rejected,
// never rounded.
func ParseMoney(text string) (Money, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Money{}, ErrMalformedAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}

	if d.IsZero() {
		return Money{}, nil
	}
	if err := checkMagnitude(d); err != nil {
		return Money{}, fmt.Errorf("%w: %q", err, s)
	}

	scaled := d.Shift(MoneyScale)
	if !scaled.IsInteger() {
		return Money{}, fmt.Errorf("%w: %q", ErrPrecisionLoss, s)
	}
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return Money{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return Money{units: bi.Int64()}, nil
}

// maxUnitDigits is the digit count of math.MaxInt64.
const maxUnitDigits = 19

// checkMagnitude rejects exponents that cannot yield an int64 unit count
// before the decimal is rescaled, so the cost stays bounded by the text length.
func checkMagnitude(d decimal.Decimal) error {
	coef := d.Coefficient()
	digits := int64(len(coef.Abs(coef).String()))
	exp := int64(d.Exponent()) + MoneyScale
	switch {
	case exp > 0 && digits+exp > maxUnitDigits:
		return ErrOverflow
	case exp < 0 && -exp > digits:
		return ErrPrecisionLoss
	}
	return nil
}

// MustParseMoney is ParseMoney for literals in tests and fixtures.
func MustParseMoney(text string) Money {
	m, err := ParseMoney(text)
	if err != nil {
		panic(err)
	}
	return m
}

// Units returns the scaled integer representation.
func (m Money) Units() int64 { return m.units }

// Add returns m + o, or ErrOverflow when the result leaves the int64 range.
func (m Money) Add(o Money) (Money, error) {
	sum := m.units + o.units
	if (o.units > 0 && sum < m.units) || (o.units < 0 && sum > m.units) {
		return Money{}, ErrOverflow
	}
	return Money{units: sum}, nil
}

// Sub returns m - o, or ErrOverflow when the result leaves the int64 range.
func (m Money) Sub(o Money) (Money, error) {
	diff := m.units - o.units
	if (o.units > 0 && diff > m.units) || (o.units < 0 && diff < m.units) {
		return Money{}, ErrOverflow
	}
	return Money{units: diff}, nil
}

func (m Money) Cmp(o Money) int {
	switch {
	case m.units < o.units:
		return -1
	case m.units > o.units:
		return 1
	}
	return 0
}

func (m Money) LessThan(o Money) bool { return m.units < o.units }
func (m Money) IsNegative() bool      { return m.units < 0 }
func (m Money) IsZero() bool          { return m.units == 0 }

// String formats with exactly MoneyScale fractional digits, e.g. "7.0000".
func (m Money) String() string {
	return decimal.New(m.units, -MoneyScale).StringFixed(MoneyScale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// bare JSON numbers are accepted as well
		s = string(data)
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

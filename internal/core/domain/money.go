package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// MaxMoneyScale bounds the number of fractional digits a Money value may carry.
const MaxMoneyScale = 6

var (
	errScaleOutOfRange = errors.New("money scale out of range")
	errExcessPrecision = errors.New("amount has more fractional digits than the currency allows")
	errMoneyOverflow   = errors.New("amount out of range")
)

var pow10 = [...]int64{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000, 10_000_000_000, 100_000_000_000, 1_000_000_000_000}

// Money is an exact amount held as an integer count of minor units at a fixed scale.
// A value of 1234 at scale 2 represents 12.34. The zero value is a valid zero amount.
//
// Values at different scales compare and combine exactly: the narrower operand is
// rescaled to the wider scale before the operation.
type Money struct {
	units int64
	scale int32
}

// NewMoney returns units minor units at the given scale.
func NewMoney(units int64, scale int32) Money {
	return Money{units: units, scale: scale}
}

// ZeroMoney is a zero amount at the given scale.
func ZeroMoney(scale int32) Money {
	return Money{scale: scale}
}

// MoneyFromDecimal converts d to Money at the given scale. Amounts with more
// significant fractional digits than the scale allows are rejected, never rounded.
func MoneyFromDecimal(d decimal.Decimal, scale int32) (Money, error) {
	if scale < 0 || scale > MaxMoneyScale {
		return Money{}, fmt.Errorf("%w: %d", errScaleOutOfRange, scale)
	}
	shifted := d.Shift(scale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return Money{}, fmt.Errorf("%w: %s at scale %d", errExcessPrecision, d.String(), scale)
	}
	if !shifted.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s", errMoneyOverflow, d.String())
	}
	return Money{units: shifted.IntPart(), scale: scale}, nil
}

// ParseMoney parses a plain decimal string such as "1000.00" or "-3.5".
func ParseMoney(s string, scale int32) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d, scale)
}

// MustParseMoney is ParseMoney for literals known to be valid. It panics otherwise.
func MustParseMoney(s string, scale int32) Money {
	m, err := ParseMoney(s, scale)
	if err != nil {
		panic(err)
	}
	return m
}

// naturalScale returns the number of fractional digits present in d, never negative.
func naturalScale(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// Units returns the raw minor-unit count.
func (m Money) Units() int64 { return m.units }

// Scale returns the number of fractional digits.
func (m Money) Scale() int32 { return m.scale }

// WithScale expresses m at another scale. Narrowing succeeds only when the
// dropped digits are all zero, so the numeric value never changes.
func (m Money) WithScale(scale int32) (Money, error) {
	if scale < 0 || scale > MaxMoneyScale {
		return Money{}, fmt.Errorf("%w: %d", errScaleOutOfRange, scale)
	}
	if scale >= m.scale {
		return m.rescale(scale), nil
	}
	div := pow10[m.scale-scale]
	if m.units%div != 0 {
		return Money{}, fmt.Errorf("%w: %s at scale %d", errExcessPrecision, m.String(), scale)
	}
	return Money{units: m.units / div, scale: scale}, nil
}

func (m Money) rescale(scale int32) Money {
	if scale <= m.scale {
		return m
	}
	return Money{units: m.units * pow10[scale-m.scale], scale: scale}
}

func align(a, b Money) (Money, Money) {
	if a.scale == b.scale {
		return a, b
	}
	if a.scale < b.scale {
		return a.rescale(b.scale), b
	}
	return a, b.rescale(a.scale)
}

// Add returns m + o. Like int64 addition it wraps when the result leaves the
// int64 range of minor units; use CheckedAdd where operands are not bounded.
// Posted lines are capped far below that range.
func (m Money) Add(o Money) Money {
	a, b := align(m, o)
	return Money{units: a.units + b.units, scale: a.scale}
}

// Sub returns m - o. It wraps on overflow the same way Add does.
func (m Money) Sub(o Money) Money {
	a, b := align(m, o)
	return Money{units: a.units - b.units, scale: a.scale}
}

// CheckedAdd returns m + o, or an error when the result does not fit in int64 minor units.
func (m Money) CheckedAdd(o Money) (Money, error) {
	a, b, err := checkedAlign(m, o)
	if err != nil {
		return Money{}, err
	}
	sum := a.units + b.units
	if (a.units > 0 && b.units > 0 && sum < 0) || (a.units < 0 && b.units < 0 && sum >= 0) {
		return Money{}, fmt.Errorf("%w: %s + %s", errMoneyOverflow, m, o)
	}
	return Money{units: sum, scale: a.scale}, nil
}

// CheckedSub returns m - o, or an error when the result does not fit in int64 minor units.
func (m Money) CheckedSub(o Money) (Money, error) {
	a, b, err := checkedAlign(m, o)
	if err != nil {
		return Money{}, err
	}
	diff := a.units - b.units
	if (a.units >= 0 && b.units < 0 && diff < 0) || (a.units < 0 && b.units > 0 && diff >= 0) {
		return Money{}, fmt.Errorf("%w: %s - %s", errMoneyOverflow, m, o)
	}
	return Money{units: diff, scale: a.scale}, nil
}

func checkedAlign(a, b Money) (Money, Money, error) {
	var err error
	switch {
	case a.scale < b.scale:
		a, err = a.checkedRescale(b.scale)
	case b.scale < a.scale:
		b, err = b.checkedRescale(a.scale)
	}
	return a, b, err
}

func (m Money) checkedRescale(scale int32) (Money, error) {
	f := pow10[scale-m.scale]
	if m.units > math.MaxInt64/f || m.units < math.MinInt64/f {
		return Money{}, fmt.Errorf("%w: %s at scale %d", errMoneyOverflow, m, scale)
	}
	return m.rescale(scale), nil
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{units: -m.units, scale: m.scale}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	if m.units < 0 {
		return m.Neg()
	}
	return m
}

// Cmp returns -1, 0 or 1 comparing the numeric values of m and o.
func (m Money) Cmp(o Money) int {
	a, b := align(m, o)
	switch {
	case a.units < b.units:
		return -1
	case a.units > b.units:
		return 1
	default:
		return 0
	}
}

// Equal reports numeric equality; 1.5 at scale 1 equals 1.50 at scale 2.
func (m Money) Equal(o Money) bool { return m.Cmp(o) == 0 }

func (m Money) IsZero() bool     { return m.units == 0 }
func (m Money) IsPositive() bool { return m.units > 0 }
func (m Money) IsNegative() bool { return m.units < 0 }

// Mul multiplies by an arbitrary decimal factor, rounding half to even at m's scale.
func (m Money) Mul(factor decimal.Decimal) (Money, error) {
	r := m.Decimal().Mul(factor).RoundBank(m.scale).Shift(m.scale)
	if !r.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s x %s", errMoneyOverflow, m, factor)
	}
	return Money{units: r.IntPart(), scale: m.scale}, nil
}

// MulRat multiplies by num/den, rounding half to even at m's scale.
// Used for allocations where a decimal factor would not be exact (e.g. thirds).
func (m Money) MulRat(num, den int64) (Money, error) {
	if den == 0 {
		return Money{}, errors.New("division by zero")
	}
	n := decimal.NewFromInt(m.units).Mul(decimal.NewFromInt(num))
	d := decimal.NewFromInt(den)
	q, r := n.QuoRem(d, 0)

	twice := r.Abs().Mul(decimal.NewFromInt(2))
	if c := twice.Cmp(d.Abs()); c > 0 || (c == 0 && !q.Mod(decimal.NewFromInt(2)).IsZero()) {
		step := decimal.NewFromInt(int64(n.Sign() * d.Sign()))
		q = q.Add(step)
	}
	if !q.BigInt().IsInt64() {
		return Money{}, errMoneyOverflow
	}
	return Money{units: q.IntPart(), scale: m.scale}, nil
}

// Decimal converts m to a shopspring decimal without loss.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -m.scale)
}

// String renders m with exactly Scale fractional digits, e.g. "-12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(m.scale)
}

// MarshalJSON encodes m as a decimal string to keep clients from parsing it as a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal or a bare JSON number.
// The scale is taken from the digits present; callers rescale to the currency.
func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	scale := naturalScale(d)
	if scale > MaxMoneyScale {
		// trailing zeros past the limit carry no value: 1.0000000 is 1.000000
		scale = MaxMoneyScale
	}
	v, err := MoneyFromDecimal(d, scale)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value implements driver.Valuer; amounts are stored as NUMERIC.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	v, err := MoneyFromDecimal(d, min(naturalScale(d), MaxMoneyScale))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// CurrencyScale returns the number of minor-unit digits for an ISO 4217 code,
// e.g. 2 for USD and 0 for JPY.
func CurrencyScale(code string) (int32, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("unknown currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

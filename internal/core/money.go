// Package core provides the ledger's domain records and money handling.
//
// Money is stored as integer minor units (cents). Conversions from decimal
// input and to display strings happen only at the edges of the system.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the ISO code used when formatting amounts for people.
// The ledger itself is single-currency; this only drives the symbol and grouping.
var DisplayCurrency = money.USD

// Money is an amount in integer minor units. Sums saturate at the int64
// limits instead of wrapping.
type Money struct {
	Cents int64
}

// maxCents bounds parsed amounts so that shifting to cents cannot overflow int64.
var maxCents = decimal.NewFromInt(math.MaxInt64 / 100)

// Cents builds a Money from a minor-unit amount.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// FromDecimal converts a decimal number or string to Money, rounding to the
// nearest cent. Anything that is not a finite number yields zero.
//
// Examples:
//
//	FromDecimal("12.345") -> 1235 cents
//	FromDecimal(1200)     -> 120000 cents
//	FromDecimal("abc")    -> 0 cents
func FromDecimal(v any) Money {
	d, ok := toDecimal(v)
	if !ok {
		return Money{}
	}
	if d.Abs().GreaterThan(maxCents) {
		return Money{}
	}
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case Money:
		return x.Decimal(), true
	case decimal.Decimal:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case json.Number:
		return toDecimal(string(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return toDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	default:
		return decimal.Zero, false
	}
}

// ParseDecimalToCents converts a user-entered decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("12.344") -> 1234, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func (m Money) Add(n Money) Money { return Money{Cents: addCents(m.Cents, n.Cents)} }
func (m Money) Sub(n Money) Money { return Money{Cents: subCents(m.Cents, n.Cents)} }
func (m Money) Neg() Money        { return Money{Cents: subCents(0, m.Cents)} }
func (m Money) IsZero() bool      { return m.Cents == 0 }
func (m Money) IsPositive() bool  { return m.Cents > 0 }
func (m Money) IsNegative() bool  { return m.Cents < 0 }

func addCents(a, b int64) int64 {
	s := a + b
	switch {
	case a > 0 && b > 0 && s < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && s >= 0:
		return math.MinInt64
	}
	return s
}

func subCents(a, b int64) int64 {
	d := a - b
	switch {
	case a >= 0 && b < 0 && d < 0:
		return math.MaxInt64
	case a < 0 && b > 0 && d >= 0:
		return math.MinInt64
	}
	return d
}

// Compare returns -1, 0 or +1 depending on whether m is less than, equal to or greater than n.
func (m Money) Compare(n Money) int {
	switch {
	case m.Cents < n.Cents:
		return -1
	case m.Cents > n.Cents:
		return 1
	default:
		return 0
	}
}

// Validate rejects amounts that cannot be stored on a transaction.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String returns the plain major-unit amount with two decimals, e.g. "1200.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Display formats the amount for people: currency symbol, grouped thousands
// and two decimals, e.g. "$1,200.00".
func (m Money) Display() string {
	return money.New(m.Cents, DisplayCurrency).Display()
}

// MarshalJSON writes the amount as a major-unit JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or string; anything else decodes to zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		*m = Money{}
		return nil
	}
	*m = FromDecimal(raw)
	return nil
}

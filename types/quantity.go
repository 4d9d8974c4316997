// Package types provides common types used across Tally.
package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Quantity represents an amount of token units as an arbitrary-precision
// integer. All balance arithmetic is integer-only — no floating point — so
// token supplies far beyond the int64 range never overflow or lose precision.
//
// Quantity is immutable: every operation returns a new value and no method
// writes through the receiver, so values can be copied and shared freely.
// The zero value is the number zero.
type Quantity struct {
	i big.Int
}

// Constructors

// Zero returns the zero quantity.
func Zero() Quantity { return Quantity{} }

// FromUint64 creates a Quantity from a native unsigned integer.
func FromUint64(v uint64) Quantity {
	var i big.Int
	i.SetUint64(v)
	return Quantity{i: i}
}

// FromInt64 creates a Quantity from a native signed integer.
func FromInt64(v int64) Quantity {
	var i big.Int
	i.SetInt64(v)
	return Quantity{i: i}
}

// Parse converts a decimal string into a Quantity. The string may carry a
// leading sign but no fraction, exponent, or grouping; anything else fails
// with a ValidationError. This is the single entry point for quantities
// arriving from message payloads, which transmit all numbers as decimal
// strings.
func Parse(s string) (Quantity, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Quantity{}, ValidationError{Field: "quantity", Message: "must not be empty"}
	}

	var i big.Int
	if _, ok := i.SetString(t, 10); !ok {
		return Quantity{}, ValidationError{Field: "quantity", Message: fmt.Sprintf("%q is not a decimal integer", s)}
	}
	return Quantity{i: i}, nil
}

// MustParse is like Parse but panics on failure. Use for literals.
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Arithmetic operations

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity {
	var r big.Int
	r.Add(&q.i, &other.i)
	return Quantity{i: r}
}

// Sub returns q - other. Panics if the result would be negative: callers
// compare before subtracting, so an underflow is a programmer error, not a
// runtime condition.
func (q Quantity) Sub(other Quantity) Quantity {
	if q.i.Cmp(&other.i) < 0 {
		panic(fmt.Sprintf("quantity: underflow: %s - %s", q.i.String(), other.i.String()))
	}
	var r big.Int
	r.Sub(&q.i, &other.i)
	return Quantity{i: r}
}

// Comparison methods

// Cmp compares q and other, returning -1, 0, or +1.
func (q Quantity) Cmp(other Quantity) int { return q.i.Cmp(&other.i) }

// Sign returns -1, 0, or +1 depending on the sign of q.
func (q Quantity) Sign() int { return q.i.Sign() }

// IsZero returns true if the quantity is zero.
func (q Quantity) IsZero() bool { return q.i.Sign() == 0 }

// IsPositive returns true if the quantity is greater than zero.
func (q Quantity) IsPositive() bool { return q.i.Sign() > 0 }

// IsNegative returns true if the quantity is less than zero.
func (q Quantity) IsNegative() bool { return q.i.Sign() < 0 }

// Equal returns true if both quantities are numerically equal.
func (q Quantity) Equal(other Quantity) bool { return q.i.Cmp(&other.i) == 0 }

// LessThan returns true if q is less than other.
func (q Quantity) LessThan(other Quantity) bool { return q.i.Cmp(&other.i) < 0 }

// GreaterThan returns true if q is greater than other.
func (q Quantity) GreaterThan(other Quantity) bool { return q.i.Cmp(&other.i) > 0 }

// Min returns the smaller of two quantities.
func (q Quantity) Min(other Quantity) Quantity {
	if q.i.Cmp(&other.i) < 0 {
		return q
	}
	return other
}

// Max returns the larger of two quantities.
func (q Quantity) Max(other Quantity) Quantity {
	if q.i.Cmp(&other.i) > 0 {
		return q
	}
	return other
}

// Formatting methods

// String returns the plain decimal representation. This is the wire format
// for every quantity leaving the module.
func (q Quantity) String() string { return q.i.String() }

// Display renders the raw integer amount as a human-scale decimal string
// using the token's denomination (number of decimal places).
// Display of 1500000000000 with denomination 12 is "1.500000000000".
func (q Quantity) Display(denomination int) string {
	if denomination <= 0 {
		return q.i.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(denomination)), nil)

	abs := new(big.Int).Abs(&q.i)
	major := new(big.Int)
	minor := new(big.Int)
	major.QuoRem(abs, divisor, minor)

	frac := minor.String()
	if len(frac) < denomination {
		frac = strings.Repeat("0", denomination-len(frac)) + frac
	}

	result := major.String() + "." + frac
	if q.i.Sign() < 0 {
		return "-" + result
	}
	return result
}

// MarshalJSON implements json.Marshaler. Quantities are encoded as decimal
// strings, never JSON numbers, so decoders cannot round them through floats.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.i.String())
}

// UnmarshalJSON implements json.Unmarshaler. Both string and bare number
// tokens are accepted; fractional numbers fail.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quantity) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Sum calculates the sum of multiple quantities.
func Sum(values ...Quantity) Quantity {
	var r big.Int
	for i := range values {
		r.Add(&r, &values[i].i)
	}
	return Quantity{i: r}
}

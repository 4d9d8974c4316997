// Package validate provides chainable predicate checks for message payloads.
//
// A Check is built once from left-to-right rule chaining and reused for every
// evaluation. Checks are immutable: each rule method returns a new Check, so
// package-level chains like Address can be shared and extended safely.
// Every rule takes an optional custom failure message; evaluation stops at
// the first failing rule and reports it as a types.ValidationError naming the
// offending field.
package validate

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"

	"github.com/xraph/tally/types"
)

// Check is a reusable chain of validation rules evaluated left to right.
type Check struct {
	rules []rule
}

type rule func(field string, value any) error

// Prebuilt chains used throughout Tally.
var (
	addressPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// Address accepts the 43 character identifier used for accounts and
	// processes.
	Address = String("must be a string").
		Length(43, "must be exactly 43 characters").
		Match(addressPattern, "must contain only characters in [A-Za-z0-9_-]")

	// Quantity accepts a strictly positive whole number. Mint, burn, and
	// transfer amounts all pass through this chain before any state changes.
	Quantity = Number("must be a number").
		Integer("must be an integer").
		GreaterThan(0, "must be greater than zero")
)

// Validate evaluates the chain against value. The returned error, if any, is
// a types.ValidationError carrying field and the failing rule's message.
func (c *Check) Validate(field string, value any) error {
	for _, r := range c.rules {
		if err := r(field, value); err != nil {
			return err
		}
	}
	return nil
}

// Type constructors

// String starts a chain requiring a string value.
func String(msg ...string) *Check {
	m := message(msg, "must be a string")
	return (&Check{}).add(func(field string, v any) error {
		if _, ok := v.(string); !ok {
			return fail(field, m)
		}
		return nil
	})
}

// Number starts a chain requiring a numeric value. Native integers and
// floats, types.Quantity, and decimal strings all count as numeric, since
// tag payloads carry numbers as strings.
func Number(msg ...string) *Check {
	m := message(msg, "must be a number")
	return (&Check{}).add(func(field string, v any) error {
		if _, ok := toRat(v); !ok {
			return fail(field, m)
		}
		return nil
	})
}

// Bool starts a chain requiring a boolean value.
func Bool(msg ...string) *Check {
	m := message(msg, "must be a boolean")
	return (&Check{}).add(func(field string, v any) error {
		if _, ok := v.(bool); !ok {
			return fail(field, m)
		}
		return nil
	})
}

// Object starts a chain requiring a string-keyed map in which every field
// named in fields is present and passes its own chain. Keys outside fields
// are ignored.
func Object(fields map[string]*Check, msg ...string) *Check {
	return object(fields, false, message(msg, "must be an object"))
}

// StrictObject is Object plus rejection of keys not named in fields.
func StrictObject(fields map[string]*Check, msg ...string) *Check {
	return object(fields, true, message(msg, "must be an object"))
}

// Either starts a chain that passes when any of the alternatives passes.
func Either(alternatives ...*Check) *Check {
	return (&Check{}).Either(alternatives...)
}

// Rule methods

// Length requires a string of exactly n bytes.
func (c *Check) Length(n int, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be exactly %d characters", n))
	return c.add(func(field string, v any) error {
		s, ok := v.(string)
		if !ok || len(s) != n {
			return fail(field, m)
		}
		return nil
	})
}

// LengthLessThan requires a string shorter than n bytes.
func (c *Check) LengthLessThan(n int, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be shorter than %d characters", n))
	return c.add(func(field string, v any) error {
		s, ok := v.(string)
		if !ok || len(s) >= n {
			return fail(field, m)
		}
		return nil
	})
}

// LengthGreaterThan requires a string longer than n bytes.
func (c *Check) LengthGreaterThan(n int, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be longer than %d characters", n))
	return c.add(func(field string, v any) error {
		s, ok := v.(string)
		if !ok || len(s) <= n {
			return fail(field, m)
		}
		return nil
	})
}

// Match requires a string matching the pattern.
func (c *Check) Match(pattern *regexp.Regexp, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must match %s", pattern))
	return c.add(func(field string, v any) error {
		s, ok := v.(string)
		if !ok || !pattern.MatchString(s) {
			return fail(field, m)
		}
		return nil
	})
}

// Integer requires a numeric value with no fractional part.
func (c *Check) Integer(msg ...string) *Check {
	m := message(msg, "must be an integer")
	return c.add(func(field string, v any) error {
		r, ok := toRat(v)
		if !ok || !r.IsInt() {
			return fail(field, m)
		}
		return nil
	})
}

// GreaterThan requires a numeric value strictly greater than n.
func (c *Check) GreaterThan(n int64, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be greater than %d", n))
	bound := new(big.Rat).SetInt64(n)
	return c.add(func(field string, v any) error {
		r, ok := toRat(v)
		if !ok || r.Cmp(bound) <= 0 {
			return fail(field, m)
		}
		return nil
	})
}

// LessThan requires a numeric value strictly less than n.
func (c *Check) LessThan(n int64, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be less than %d", n))
	bound := new(big.Rat).SetInt64(n)
	return c.add(func(field string, v any) error {
		r, ok := toRat(v)
		if !ok || r.Cmp(bound) >= 0 {
			return fail(field, m)
		}
		return nil
	})
}

// Even requires an even integer.
func (c *Check) Even(msg ...string) *Check {
	m := message(msg, "must be even")
	return c.add(func(field string, v any) error {
		r, ok := toRat(v)
		if !ok || !r.IsInt() || r.Num().Bit(0) != 0 {
			return fail(field, m)
		}
		return nil
	})
}

// Odd requires an odd integer.
func (c *Check) Odd(msg ...string) *Check {
	m := message(msg, "must be odd")
	return c.add(func(field string, v any) error {
		r, ok := toRat(v)
		if !ok || !r.IsInt() || r.Num().Bit(0) != 1 {
			return fail(field, m)
		}
		return nil
	})
}

// Is requires the value to equal want. Numeric values compare numerically,
// so Is("20") accepts 20.
func (c *Check) Is(want any, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be %v", want))
	return c.add(func(field string, v any) error {
		if !equalValues(v, want) {
			return fail(field, m)
		}
		return nil
	})
}

// IsNot requires the value to differ from unwanted.
func (c *Check) IsNot(unwanted any, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must not be %v", unwanted))
	return c.add(func(field string, v any) error {
		if equalValues(v, unwanted) {
			return fail(field, m)
		}
		return nil
	})
}

// OneOf requires the value to equal one of the allowed values.
func (c *Check) OneOf(allowed []any, msg ...string) *Check {
	m := message(msg, fmt.Sprintf("must be one of %v", allowed))
	return c.add(func(field string, v any) error {
		for _, want := range allowed {
			if equalValues(v, want) {
				return nil
			}
		}
		return fail(field, m)
	})
}

// Either appends a rule that passes when any alternative passes.
func (c *Check) Either(alternatives ...*Check) *Check {
	return c.add(func(field string, v any) error {
		msgs := make([]string, 0, len(alternatives))
		for _, alt := range alternatives {
			err := alt.Validate(field, v)
			if err == nil {
				return nil
			}
			var ve types.ValidationError
			if errors.As(err, &ve) {
				msgs = append(msgs, ve.Message)
			}
		}
		return fail(field, "no alternative matched: "+strings.Join(msgs, "; "))
	})
}

// Helpers

func object(fields map[string]*Check, strict bool, m string) *Check {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return (&Check{}).add(func(field string, v any) error {
		entries, ok := toMap(v)
		if !ok {
			return fail(field, m)
		}

		for _, name := range names {
			val, present := entries[name]
			if !present {
				return fail(name, "is required")
			}
			if err := fields[name].Validate(name, val); err != nil {
				return err
			}
		}

		if strict {
			extra := make([]string, 0)
			for key := range entries {
				if _, known := fields[key]; !known {
					extra = append(extra, key)
				}
			}
			sort.Strings(extra)
			if len(extra) > 0 {
				return fail(extra[0], "is not a recognized key")
			}
		}
		return nil
	})
}

func (c *Check) add(r rule) *Check {
	rules := make([]rule, len(c.rules), len(c.rules)+1)
	copy(rules, c.rules)
	return &Check{rules: append(rules, r)}
}

func fail(field, msg string) error {
	return types.ValidationError{Field: field, Message: msg}
}

func message(msg []string, fallback string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return fallback
}

// toRat normalizes the numeric representations seen in payloads onto a
// single arbitrary-precision type for comparison.
func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case types.Quantity:
		r, ok := new(big.Rat).SetString(n.String())
		return r, ok
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, false
		}
		r, ok := new(big.Rat).SetString(s)
		return r, ok
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	case float32:
		r := new(big.Rat).SetFloat64(float64(n))
		return r, r != nil
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	default:
		return nil, false
	}
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func equalValues(a, b any) bool {
	if ra, ok := toRat(a); ok {
		if rb, ok := toRat(b); ok {
			return ra.Cmp(rb) == 0
		}
	}
	return a == b
}

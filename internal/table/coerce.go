package table

import (
	"math"
	"strconv"
	"strings"
)

// Coercion is the outcome of converting a Value to an integer.
// When OK is false, Int is meaningless and callers fall back to Value itself.
type Coercion struct {
	Value Value
	Int   int64
	OK    bool
}

// CoerceInt attempts an integer conversion of v. Ints always succeed; strings
// succeed when they hold a base-10 integer or an integral decimal ("12.0").
// Null, dates and other text are reported as raw fallbacks.
func (v Value) CoerceInt() Coercion {
	switch v.kind {
	case KindInt:
		return Coercion{Value: v, Int: v.i, OK: true}
	case KindString:
		s := strings.TrimSpace(v.s)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Coercion{Value: v, Int: n, OK: true}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return Coercion{Value: v, Int: int64(f), OK: true}
		}
	}
	return Coercion{Value: v}
}

// Key is a comparable lookup key derived from a Coercion. Integer keys compare
// by number so "12", "12.0" and 12 collide; raw keys compare by kind and text.
type Key struct {
	numeric bool
	n       int64
	kind    ValueKind
	raw     string
}

// Key returns the lookup key for c.
func (c Coercion) Key() Key {
	if c.OK {
		return Key{numeric: true, n: c.Int}
	}
	return Key{kind: c.Value.kind, raw: c.Value.String()}
}

// KeyOf is shorthand for v.CoerceInt().Key().
func KeyOf(v Value) Key { return v.CoerceInt().Key() }

// String renders the key for logs.
func (k Key) String() string {
	if k.numeric {
		return strconv.FormatInt(k.n, 10)
	}
	return k.kind.String() + ":" + k.raw
}

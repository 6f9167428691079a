// Package table holds the in-memory tabular model shared by every stage:
// an ordered column list plus ordered rows of nullable scalars.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical text form of a Date value.
const DateLayout = "2006-01-02"

// ValueKind identifies which scalar a Value holds.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindDate
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a nullable scalar. The zero value is null.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Date wraps the calendar date of t. Time of day and location are dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind returns the kind of scalar held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload; ok is false for non-string values.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Integer returns the integer payload; ok is false for non-int values.
func (v Value) Integer() (int64, bool) { return v.i, v.kind == KindInt }

// Time returns the date payload; ok is false for non-date values.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDate }

// String renders v as text. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Any converts v to a driver-friendly Go value (nil, string, int64 or time.Time).
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindDate:
		return v.t
	default:
		return nil
	}
}

// ParseCell infers a Value from a text cell: empty is null, a canonical
// base-10 integer is Int, a YYYY-MM-DD date is Date, anything else is String.
// Non-canonical integers such as "007" stay strings so saving them back is lossless.
func ParseCell(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Null()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return Int(n)
	}
	if len(s) == len(DateLayout) {
		if t, err := time.Parse(DateLayout, s); err == nil {
			return Date(t)
		}
	}
	return String(s)
}

// FromAny converts a database/sql scan result into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case int:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case bool:
		if t {
			return Int(1)
		}
		return Int(0)
	case time.Time:
		return Date(t)
	default:
		return String(strings.TrimSpace(fmt.Sprint(x)))
	}
}

func fromFloat(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f))
	}
	return String(strconv.FormatFloat(f, 'f', -1, 64))
}

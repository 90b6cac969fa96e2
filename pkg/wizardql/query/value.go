package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the primitive type of a value. It doubles as the declared field type
// in Constraints.
type Kind int

const (
	KindBoolean Kind = iota + 1
	KindDate
	KindNumber
	KindString
)

// coercionOrder is the priority in which raw text is tried against kinds.
var coercionOrder = []Kind{KindBoolean, KindDate, KindNumber, KindString}

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseKind parses a field type name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boolean", "bool":
		return KindBoolean, nil
	case "date":
		return KindDate, nil
	case "number":
		return KindNumber, nil
	case "string":
		return KindString, nil
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

// Primitive is a single typed scalar.
type Primitive struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
}

func Bool(b bool) Primitive { return Primitive{kind: KindBoolean, b: b} }
func Number(n float64) Primitive { return Primitive{kind: KindNumber, n: n} }
func String(s string) Primitive { return Primitive{kind: KindString, s: s} }

// Date normalises t to UTC without a monotonic reading so equal instants
// compare equal.
func Date(t time.Time) Primitive { return Primitive{kind: KindDate, t: t.UTC().Round(0)} }

func (p Primitive) Kind() Kind { return p.kind }
func (p Primitive) AsBool() bool { return p.b }
func (p Primitive) AsNumber() float64 { return p.n }
func (p Primitive) AsString() string { return p.s }
func (p Primitive) AsTime() time.Time { return p.t }

// Interface returns the Go value held by p.
func (p Primitive) Interface() any {
	switch p.kind {
	case KindBoolean:
		return p.b
	case KindNumber:
		return p.n
	case KindDate:
		return p.t
	default:
		return p.s
	}
}

// String renders p as plain text without any quoting.
func (p Primitive) String() string {
	switch p.kind {
	case KindBoolean:
		return strconv.FormatBool(p.b)
	case KindNumber:
		return formatNumber(p.n)
	case KindDate:
		return p.t.Format(time.RFC3339Nano)
	default:
		return p.s
	}
}

func (p Primitive) MarshalJSON() ([]byte, error) {
	if p.kind == KindDate {
		return json.Marshal(p.t.Format(time.RFC3339Nano))
	}
	return json.Marshal(p.Interface())
}

// Value is a condition operand: a scalar or an array of primitives.
type Value struct {
	items []Primitive
	array bool
}

// Scalar wraps a single primitive.
func Scalar(p Primitive) Value { return Value{items: []Primitive{p}} }

// Array wraps a list of primitives.
func Array(items ...Primitive) Value {
	cp := make([]Primitive, len(items))
	copy(cp, items)
	return Value{items: cp, array: true}
}

func (v Value) IsArray() bool { return v.array }

func (v Value) Len() int { return len(v.items) }

// Scalar returns the single primitive of a scalar value, or the first element
// of an array.
func (v Value) Scalar() Primitive {
	if len(v.items) == 0 {
		return Primitive{}
	}
	return v.items[0]
}

// Items returns a copy of the elements.
func (v Value) Items() []Primitive {
	cp := make([]Primitive, len(v.items))
	copy(cp, v.items)
	return cp
}

// Interface returns a scalar Go value or a []any.
func (v Value) Interface() any {
	if !v.array {
		return v.Scalar().Interface()
	}
	out := make([]any, len(v.items))
	for i, p := range v.items {
		out[i] = p.Interface()
	}
	return out
}

func (v Value) String() string {
	if !v.array {
		return v.Scalar().String()
	}
	parts := make([]string, len(v.items))
	for i, p := range v.items {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.array {
		return json.Marshal(v.Scalar())
	}
	return json.Marshal(v.items)
}

// parseNumber accepts decimal and exponent notation. NaN and infinities are
// left to the string type.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func parseBoolean(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate is the default date interpretation.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

// Value kinds. The zero Value is null.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a single cell of a schema-free result row.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Num returns a numeric Value.
func Num(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Float returns the numeric payload, or 0 when v is not a number.
func (v Value) Float() float64 {
	n, _ := v.Number()
	return n
}

// Text returns the string payload and whether v is a string.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Truthy reports whether v is the boolean true.
func (v Value) Truthy() bool { return v.kind == KindBool && v.flag }

// String renders v the way a tuple or partition key sees it: null is "null",
// numbers use the shortest decimal form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return "null"
	}
}

// Display renders v for option lists, filtering and labels. Null is "N/A".
func (v Value) Display() string {
	if v.kind == KindNull {
		return "N/A"
	}
	return v.String()
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	default:
		return true
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(FormatNumber(v.num)), nil
	case KindBool:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

// FormatNumber formats n with the minimal number of digits that round-trips.
func FormatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Bookkeeping fields attached by the merge engine. They are never rendered
// or exported as columns.
const (
	FieldIsSummary    = "is_summary"
	FieldSummaryLevel = "summary_level"
	FieldPercentBalls = "percent_balls"
)

// IsInternalField reports whether key is merge bookkeeping rather than data.
func IsInternalField(key string) bool {
	return key == FieldIsSummary || key == FieldSummaryLevel
}

// Row is an ordered, schema-free result row. Key order follows the order in
// which fields were first set, which for decoded rows is the JSON order.
// Copies of a Row share storage; Clone before mutating a row you do not own.
type Row struct {
	keys   []string
	values map[string]Value
}

// NewRow builds a row from alternating key/value pairs.
func NewRow(pairs ...any) Row {
	var r Row
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r.Set(key, ValueOf(pairs[i+1]))
	}
	return r
}

// ValueOf converts a Go scalar into a Value. Unsupported types become their
// fmt representation.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return Str(x)
	case bool:
		return Bool(x)
	case int:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case int32:
		return Num(float64(x))
	case float32:
		return Num(float64(x))
	case float64:
		return Num(x)
	default:
		return Str(fmt.Sprintf("%v", x))
	}
}

// Len returns the number of fields.
func (r Row) Len() int { return len(r.keys) }

// Keys returns the field names in order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Has reports whether key is present (null values count as present).
func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Lookup returns the value for key and whether it is present.
func (r Row) Lookup(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Get returns the value for key; missing keys read as null.
func (r Row) Get(key string) Value {
	return r.values[key]
}

// Set assigns key, appending it to the key order when new.
func (r *Row) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Delete removes key if present.
func (r *Row) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Rename moves the value stored under from to to, keeping from's position.
// An existing to field is replaced. Returns false when from is missing.
func (r *Row) Rename(from, to string) bool {
	v, ok := r.values[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	r.Delete(to)
	delete(r.values, from)
	for i, k := range r.keys {
		if k == from {
			r.keys[i] = to
			break
		}
	}
	r.values[to] = v
	return true
}

// Clone returns a deep copy of r.
func (r Row) Clone() Row {
	out := Row{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// IsSummary reports whether the row was synthesized by the merge engine.
func (r Row) IsSummary() bool {
	return r.Get(FieldIsSummary).Truthy()
}

// MarshalJSON writes the row as a JSON object preserving field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping field order. Nested objects and
// arrays are kept as their raw JSON text.
func (r *Row) UnmarshalJSON(data []byte) error {
	*r = Row{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	return jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name := string(key)
		v, err := decodeValue(value, dataType)
		if err != nil {
			return fmt.Errorf("decode field %q: %w", name, err)
		}
		r.Set(name, v)
		return nil
	})
}

func decodeValue(raw []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	case jsonparser.Number:
		n, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return Value{}, err
		}
		return Num(n), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case jsonparser.Object, jsonparser.Array:
		return Str(string(raw)), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value %q", raw)
	}
}

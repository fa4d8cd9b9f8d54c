package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Common record field names.
const (
	FieldObjectID          = "objectID"
	FieldComponentType     = "component_type"
	FieldBrand             = "brand"
	FieldModel             = "model"
	FieldName              = "name"
	FieldPriceUSD          = "price_usd"
	FieldPerformanceTier   = "performance_tier"
	FieldCompatibilityTags = "compatibility_tags"
)

// Record is one hardware part as a field name to value mapping.
// Values are scalars (string, bool, int, float64), lists or nil.
type Record map[string]any

var numberToken = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Clone returns a copy of r. Slice values are copied so the clone can be
// modified without affecting the source.
func (r Record) Clone() Record {
	out := make(Record, len(r))

	for k, v := range r {
		switch list := v.(type) {
		case []any:
			out[k] = append([]any(nil), list...)
		case []string:
			out[k] = append([]string(nil), list...)
		default:
			out[k] = v
		}
	}

	return out
}

// Get returns the value stored under key when it is present and not null.
func (r Record) Get(key string) (any, bool) {
	v, ok := r[key]
	if !ok || IsNull(v) {
		return nil, false
	}

	return v, true
}

// Has reports whether key holds a non-null value.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)

	return ok
}

// Lookup reads a canonical field, falling back to its aliases in table order.
func (r Record) Lookup(field string) (any, bool) {
	if v, ok := r.Get(field); ok {
		return v, true
	}

	for _, alias := range fieldAliases {
		if alias.To != field {
			continue
		}

		if v, ok := r.Get(alias.From); ok {
			return v, true
		}
	}

	return nil, false
}

// String returns the stringified value of field (aliases included), or "".
func (r Record) String(field string) string {
	v, ok := r.Lookup(field)
	if !ok {
		return ""
	}

	return Stringify(v)
}

// Number returns field as a float. Strings yield their first numeric token.
func (r Record) Number(field string) (float64, bool) {
	v, ok := r.Lookup(field)
	if !ok {
		return 0, false
	}

	if f, ok := ToFloat(v); ok {
		return f, true
	}

	s, ok := v.(string)
	if !ok {
		return 0, false
	}

	token := numberToken.FindString(s)
	if token == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// Truthy reports whether field holds a value that counts as set.
func (r Record) Truthy(field string) bool {
	v, ok := r.Lookup(field)
	if !ok {
		return false
	}

	return Truthy(v)
}

// Values returns field as a list of non-null items. A comma-separated string
// is split into trimmed parts and any other scalar becomes a single-element list.
func (r Record) Values(field string) []any {
	v, ok := r.Lookup(field)
	if !ok {
		return nil
	}

	var items []any

	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	case string:
		for _, part := range strings.Split(list, ",") {
			items = append(items, strings.TrimSpace(part))
		}
	default:
		items = []any{v}
	}

	out := make([]any, 0, len(items))

	for _, item := range items {
		if IsNull(item) {
			continue
		}

		if s, ok := item.(string); ok && s == "" {
			continue
		}

		out = append(out, item)
	}

	return out
}

// Strings returns Values rendered as strings.
func (r Record) Strings(field string) []string {
	values := r.Values(field)
	if values == nil {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Stringify(v))
	}

	return out
}

// IsNull reports whether v is nil or a NaN float.
func IsNull(v any) bool {
	switch f := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}

	return false
}

// ToFloat converts numeric kinds to float64. NaN, strings and booleans are rejected.
func ToFloat(v any) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}

		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}

	return f, true
}

// Truthy applies loose truthiness: zero numbers, empty strings and empty
// lists are false.
func Truthy(v any) bool {
	if IsNull(v) {
		return false
	}

	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	}

	if f, ok := ToFloat(v); ok {
		return f != 0
	}

	return true
}

// Stringify renders a value as text. Integral floats keep one decimal place
// so "4.0" and 4.0 render the same.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case json.Number:
		return val.String()
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, Stringify(item))
		}

		return strings.Join(parts, ", ")
	}

	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return fmt.Sprint(v)
}

// FormatInteger renders a numeric value without a fractional part when it is
// integral, e.g. 240.0 becomes "240".
func FormatInteger(v any) string {
	if f, ok := ToFloat(v); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}

	return Stringify(v)
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

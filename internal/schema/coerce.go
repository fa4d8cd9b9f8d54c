package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"speclogic/internal/models"
)

var (
	intToken   = regexp.MustCompile(`\d+`)
	floatToken = regexp.MustCompile(`\d+\.?\d*`)
)

var boolStrings = map[string]bool{"true": true, "yes": true, "1": true, "y": true}

// Coerce converts v to the declared field type.
func Coerce(v any, t FieldType) (any, error) {
	switch t {
	case TypeString:
		return models.Stringify(v), nil
	case TypeInt:
		return coerceInt(v)
	case TypeFloat:
		return coerceFloat(v)
	case TypeBool:
		return coerceBool(v), nil
	case TypeList:
		return coerceList(v), nil
	}

	return v, nil
}

func coerceInt(v any) (any, error) {
	if s, ok := v.(string); ok {
		if token := intToken.FindString(s); token != "" {
			n, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer: %v", ErrCoercion, s, err)
			}

			return n, nil
		}
	}

	f, err := toFloat(v)
	if err != nil {
		return nil, err
	}

	if math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("%w: %v is out of integer range", ErrCoercion, v)
	}

	return int(f), nil
}

func coerceFloat(v any) (any, error) {
	if s, ok := v.(string); ok {
		if token := floatToken.FindString(s); token != "" {
			f, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number: %v", ErrCoercion, s, err)
			}

			return f, nil
		}
	}

	return toFloat(v)
}

// toFloat parses numeric kinds, booleans and numeric strings.
func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case bool:
		if val {
			return 1, nil
		}

		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0, fmt.Errorf("%w: %q is not a number", ErrCoercion, val)
		}

		return f, nil
	}

	f, ok := models.ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: cannot convert %T to a number", ErrCoercion, v)
	}

	return f, nil
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return boolStrings[strings.ToLower(strings.TrimSpace(val))]
	}

	return models.Truthy(v)
}

func coerceList(v any) any {
	switch val := v.(type) {
	case []any, []string:
		return val
	case string:
		if !strings.Contains(val, ",") {
			return []any{val}
		}

		parts := strings.Split(val, ",")

		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}

		return out
	}

	return []any{v}
}

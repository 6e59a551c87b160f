package matchbox

import (
	"fmt"
	"math"
	"time"
)

/*
 * Value normalization and conversion.
 *
 * Canonical runtime representations: bool, int64, float64, string,
 * time.Time, []any, and nil as the absence marker. Enum values are int64
 * ordinals. Constants and subject values are normalized up front so the
 * comparison kernels in predicate.go only ever see canonical types.
 *
 * Conversion is strict: the only cross-kind conversions are numeric
 * widening (int -> float), integral narrowing (float -> int when exact),
 * and enum promotion (ordinal or value name -> enum). Boolean and string
 * conversions are never implicit (avoids "true" vs 1 ambiguity).
 *
 * Zero values come from a fixed table rather than runtime reflection.
 */

// TypeOf infers the static type of a Go value. Unsupported values map to
// the invalid type; nil maps to the nullable invalid type (the type of the
// null literal).
func TypeOf(v any) Type {
	switch e := v.(type) {
	case nil:
		return Type{Nullable: true}
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		return Float
	case string:
		return String
	case time.Time:
		return Time
	case []any:
		return ListOf(elemTypeOf(e))
	case []string:
		return ListOf(String)
	case []int:
		return ListOf(Int)
	case []int64:
		return ListOf(Int)
	case []float64:
		return ListOf(Float)
	case []bool:
		return ListOf(Bool)
	default:
		return Type{}
	}
}

// elemTypeOf infers a list element type from the first non-nil element.
func elemTypeOf(list []any) Type {
	for _, v := range list {
		if v == nil {
			continue
		}
		return TypeOf(v).base()
	}
	return Type{}
}

// normalizeValue converts a Go value to its canonical runtime
// representation. Lists normalize element-wise into []any.
func normalizeValue(v any) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return n, nil
	case time.Time:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		return normalizeUint(uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return normalizeUint(n)
	case float32:
		return float64(n), nil
	case []any:
		return normalizeList(n)
	case []string:
		out := make([]any, len(n))
		for i, s := range n {
			out[i] = s
		}
		return out, nil
	case []int:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = int64(e)
		}
		return out, nil
	case []int64:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = e
		}
		return out, nil
	case []float64:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = e
		}
		return out, nil
	case []bool:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = e
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func normalizeUint(n uint64) (any, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("unsigned value %d overflows int64", n)
	}
	return int64(n), nil
}

func normalizeList(list []any) (any, error) {
	out := make([]any, len(list))
	for i, e := range list {
		n, err := normalizeValue(e)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

// convertValue converts a canonical value to the representation of t.
// nil converts only to nullable types.
func convertValue(v any, t Type) (any, error) {
	if v == nil {
		if t.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("null value for non-nullable type %s", t)
	}

	switch t.Kind {
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case float64:
			return floatToInt(n)
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindTime:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
	case KindEnum:
		return convertEnum(v, t.Enum)
	case KindList:
		if t.Elem == nil {
			break
		}
		if list, ok := v.([]any); ok {
			out := make([]any, len(list))
			for i, e := range list {
				c, err := convertValue(e, *t.Elem)
				if err != nil {
					return nil, fmt.Errorf("list element %d: %w", i, err)
				}
				out[i] = c
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, t)
}

// floatToInt narrows a float to int64 when the value is integral.
func floatToInt(n float64) (any, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Trunc(n) != n {
		return nil, fmt.Errorf("float value %v is not an integer", n)
	}
	if n < -(1 << 63) || n >= (1 << 63) {
		return nil, fmt.Errorf("float value %v overflows int64", n)
	}
	return int64(n), nil
}

// convertEnum promotes an ordinal or a value name to an enum member.
func convertEnum(v any, e *EnumType) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("enum type has no declaration")
	}
	switch m := v.(type) {
	case int64:
		if !e.Has(m) {
			return nil, fmt.Errorf("ordinal %d is not a value of %s", m, e.Name())
		}
		return m, nil
	case float64:
		ord, err := floatToInt(m)
		if err != nil {
			return nil, err
		}
		return convertEnum(ord, e)
	case string:
		ord, ok := e.Ordinal(m)
		if !ok {
			return nil, fmt.Errorf("%q is not a value of %s", m, e.Name())
		}
		return ord, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to %s", v, e.Name())
	}
}

// zeroValue returns the canonical zero of a type. Substituted for the null
// literal when the other operand cannot hold the absence marker.
func zeroValue(t Type) any {
	switch t.Kind {
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindString:
		return ""
	case KindTime:
		return time.Time{}
	case KindEnum:
		return int64(0)
	case KindList:
		return []any{}
	default:
		return nil
	}
}

// assignable reports whether values of src can be converted to dst without
// loss: same kind, or numeric widening from int to float.
func assignable(dst, src Type) bool {
	if dst.base().Equal(src.base()) {
		return true
	}
	return dst.Kind == KindFloat && src.Kind == KindInt
}

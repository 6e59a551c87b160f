package matchbox

import (
	"fmt"
	"strconv"
	"time"
)

/*
 * Operand expressions.
 *
 * Expr is a closed set: Const (a literal, possibly the null literal) and
 * Field (a typed reference into a subject). The exprNode marker keeps the
 * set closed so reconciliation can match exhaustively instead of
 * inspecting runtime types reflectively.
 *
 * Subjects are flat maps. Field resolution treats a missing key and an
 * explicit nil the same way: both yield the absence marker, and lifting
 * decides what a comparison against it means.
 */

// Subject is the record a predicate is evaluated against.
type Subject map[string]any

// Expr is an operand expression: a constant or a field reference.
type Expr interface {
	// Type returns the static type of the expression.
	Type() Type
	// Resolve produces the canonical runtime value for a subject.
	// The absence marker is nil with a nil error.
	Resolve(s Subject) (any, error)

	exprNode()
}

// Const is a literal operand.
type Const struct {
	val any
	typ Type
}

// NewConst builds a constant, inferring its type from the value.
// A nil value yields the null literal.
func NewConst(v any) (Const, error) {
	val, err := normalizeValue(v)
	if err != nil {
		return Const{}, err
	}
	if val == nil {
		return Null(), nil
	}
	t := TypeOf(val)
	if t.Kind == KindInvalid {
		return Const{}, fmt.Errorf("unsupported constant of type %T", v)
	}
	return Const{val: val, typ: t}, nil
}

// TypedConst builds a constant of an explicit type, converting the value
// to that type's representation. Enum constants accept an ordinal or a
// value name. A nil value yields a typed null.
func TypedConst(v any, t Type) (Const, error) {
	val, err := normalizeValue(v)
	if err != nil {
		return Const{}, err
	}
	if val == nil {
		return Const{typ: Nullable(t)}, nil
	}
	converted, err := convertValue(val, t.base())
	if err != nil {
		return Const{}, err
	}
	return Const{val: converted, typ: t}, nil
}

// Null returns the null literal: the absence marker as a constant.
func Null() Const {
	return Const{typ: Type{Nullable: true}}
}

// Value returns the canonical constant value, nil for the null literal.
func (c Const) Value() any { return c.val }

// Type returns the static type of the constant.
func (c Const) Type() Type { return c.typ }

// IsNull reports whether the constant is the null literal.
func (c Const) IsNull() bool { return c.val == nil }

// Resolve returns the constant value regardless of subject.
func (c Const) Resolve(Subject) (any, error) { return c.val, nil }

func (c Const) exprNode() {}

// String renders the constant for display. Enum ordinals render as their
// value name when the declaration knows it.
func (c Const) String() string {
	if c.val == nil {
		return "null"
	}
	switch v := c.val.(type) {
	case string:
		return strconv.Quote(v)
	case int64:
		if c.typ.Kind == KindEnum && c.typ.Enum != nil {
			if name, ok := c.typ.Enum.ValueName(v); ok {
				return name
			}
		}
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Field is a typed reference to a subject key.
type Field struct {
	name string
	typ  Type
}

// NewField builds a field reference with a declared type.
func NewField(name string, t Type) Field {
	return Field{name: name, typ: t}
}

// Name returns the subject key the field reads.
func (f Field) Name() string { return f.name }

// Type returns the declared field type.
func (f Field) Type() Type { return f.typ }

// Resolve looks up the field in the subject and converts the raw value to
// the declared type. Missing keys and nil values resolve to the absence
// marker. A value that cannot convert reports ErrFieldValue.
func (f Field) Resolve(s Subject) (any, error) {
	if s == nil {
		return nil, nil
	}
	raw, ok := s[f.name]
	if !ok || raw == nil {
		return nil, nil
	}

	val, err := normalizeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w: %v", f.name, ErrFieldValue, err)
	}
	converted, err := convertValue(val, f.typ.base())
	if err != nil {
		return nil, fmt.Errorf("field %q: %w: %v", f.name, ErrFieldValue, err)
	}
	return converted, nil
}

func (f Field) exprNode() {}

// String returns the field name.
func (f Field) String() string { return f.name }

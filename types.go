package matchbox

import (
	"fmt"
	"strings"
)

// Kind enumerates the value kinds operands can carry.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindEnum
	KindList
)

// String returns the lowercase kind name used in type syntax.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Type is the static type of an operand expression.
//
// Nullable marks types whose values may be the absence marker (nil). Enum
// is set for KindEnum, Elem for KindList; both are nil otherwise. The zero
// Type (KindInvalid, non-nullable) types nothing; a nullable KindInvalid
// types only the null literal.
type Type struct {
	Kind     Kind
	Nullable bool
	Enum     *EnumType
	Elem     *Type
}

// Scalar base types.
var (
	Bool   = Type{Kind: KindBool}
	Int    = Type{Kind: KindInt}
	Float  = Type{Kind: KindFloat}
	String = Type{Kind: KindString}
	Time   = Type{Kind: KindTime}
)

// Nullable returns t marked as nullable.
func Nullable(t Type) Type {
	t.Nullable = true
	return t
}

// EnumOf returns the type of values of enumeration e.
func EnumOf(e *EnumType) Type {
	return Type{Kind: KindEnum, Enum: e}
}

// ListOf returns the type of lists with the given element type.
func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// String renders the parseable type syntax: "int", "string?", "[]float",
// "enum(Color:Red,Green,Blue)?".
func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindEnum:
		if t.Enum == nil {
			s = "enum"
		} else {
			s = t.Enum.String()
		}
	case KindList:
		if t.Elem == nil {
			s = "[]invalid"
		} else {
			s = "[]" + t.Elem.String()
		}
	default:
		s = t.Kind.String()
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// Equal reports structural equality. Enum types match by name, list types
// by element type.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Nullable != o.Nullable {
		return false
	}
	switch t.Kind {
	case KindEnum:
		return sameEnum(t.Enum, o.Enum)
	case KindList:
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == o.Elem
		}
		return t.Elem.Equal(*o.Elem)
	default:
		return true
	}
}

// base returns t stripped of nullability.
func (t Type) base() Type {
	t.Nullable = false
	return t
}

// scalar reports whether t is a single-valued kind (everything except
// lists and the invalid kind).
func (t Type) scalar() bool {
	switch t.Kind {
	case KindBool, KindInt, KindFloat, KindString, KindTime, KindEnum:
		return true
	default:
		return false
	}
}

// ordered reports whether values of t admit a total order.
func (t Type) ordered() bool {
	switch t.Kind {
	case KindInt, KindFloat, KindString, KindTime, KindEnum:
		return true
	default:
		return false
	}
}

func sameEnum(a, b *EnumType) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.name == b.name
}

// ParseType parses type syntax as produced by Type.String.
//
// Grammar: a base type ("bool", "int", "float", "string", "time"), an
// enumeration ("enum(Name:V1,V2,...)"), or a list ("[]" + element type),
// optionally followed by "?" for nullable. The trailing "?" binds to the
// whole type, so "[]int?" is a nullable list of int.
func ParseType(s string) (Type, error) {
	src := strings.TrimSpace(s)
	nullable := false
	if strings.HasSuffix(src, "?") {
		nullable = true
		src = strings.TrimSuffix(src, "?")
	}

	t, err := parseBaseType(src)
	if err != nil {
		return Type{}, err
	}
	t.Nullable = nullable
	return t, nil
}

func parseBaseType(src string) (Type, error) {
	if strings.HasPrefix(src, "[]") {
		elem, err := parseBaseType(src[2:])
		if err != nil {
			return Type{}, err
		}
		return ListOf(elem), nil
	}
	if strings.HasPrefix(src, "enum(") {
		return parseEnumType(src)
	}

	switch src {
	case "bool":
		return Bool, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "string":
		return String, nil
	case "time":
		return Time, nil
	default:
		return Type{}, fmt.Errorf("unknown type %q", src)
	}
}

// parseEnumType parses "enum(Name:V1,V2,...)". The value list is required:
// an enumeration without declared values cannot promote names or validate
// ordinals.
func parseEnumType(src string) (Type, error) {
	if !strings.HasSuffix(src, ")") {
		return Type{}, fmt.Errorf("malformed enum type %q", src)
	}
	body := src[len("enum(") : len(src)-1]
	name, valueList, ok := strings.Cut(body, ":")
	if !ok || name == "" || valueList == "" {
		return Type{}, fmt.Errorf("enum type %q requires name and values, e.g. enum(Color:Red,Green,Blue)", src)
	}

	values := strings.Split(valueList, ",")
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
		if values[i] == "" {
			return Type{}, fmt.Errorf("enum type %q has an empty value name", src)
		}
	}
	return EnumOf(NewEnum(strings.TrimSpace(name), values...)), nil
}

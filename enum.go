package matchbox

import (
	"fmt"
	"strings"
)

// EnumType describes a named enumeration with an ordered value set.
// Ordinals are assigned by declaration order starting at zero; the ordinal
// is the canonical runtime representation of an enum value.
type EnumType struct {
	name   string
	values []string
	index  map[string]int64
}

// NewEnum declares an enumeration type. Value names are case-sensitive;
// duplicate names keep their first ordinal.
func NewEnum(name string, values ...string) *EnumType {
	e := &EnumType{
		name:   name,
		values: make([]string, 0, len(values)),
		index:  make(map[string]int64, len(values)),
	}
	for _, v := range values {
		if _, ok := e.index[v]; ok {
			continue
		}
		e.index[v] = int64(len(e.values))
		e.values = append(e.values, v)
	}
	return e
}

// Name returns the enumeration name.
func (e *EnumType) Name() string { return e.name }

// Values returns the value names in ordinal order.
func (e *EnumType) Values() []string {
	out := make([]string, len(e.values))
	copy(out, e.values)
	return out
}

// Ordinal returns the ordinal for a value name.
func (e *EnumType) Ordinal(name string) (int64, bool) {
	ord, ok := e.index[name]
	return ord, ok
}

// ValueName returns the value name for an ordinal.
func (e *EnumType) ValueName(ordinal int64) (string, bool) {
	if !e.Has(ordinal) {
		return "", false
	}
	return e.values[ordinal], true
}

// Has reports whether ordinal identifies a declared value.
func (e *EnumType) Has(ordinal int64) bool {
	return ordinal >= 0 && ordinal < int64(len(e.values))
}

// String renders the declaration form, e.g. "enum(Color:Red,Green,Blue)".
func (e *EnumType) String() string {
	return fmt.Sprintf("enum(%s:%s)", e.name, strings.Join(e.values, ","))
}

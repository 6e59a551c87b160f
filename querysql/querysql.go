// Package querysql translates compiled predicates into parameterized SQL.
//
// The engine's compiled path returns an inspectable predicate (operator plus
// reconciled operand pair); this package is the storage-layer consumer of
// that structure. Fragments target the WHERE clause of a SELECT and bind all
// values through ? placeholders, never through interpolation. Use
// sqlx.Rebind to adapt placeholders for drivers with positional syntax
// (PostgreSQL).
//
// SQL comparisons are ternary: any comparison against NULL filters the row
// out. That matches the engine's lifted evaluation, where an absent operand
// yields false. Predicates compiled without lifting translate identically;
// absence-as-error is an evaluation-time policy with no SQL counterpart.
//
// The string family compiles to LIKE with a backslash escape. SQLite treats
// LIKE as case-insensitive for ASCII unless case_sensitive_like is enabled;
// enable it to match the engine's byte-wise matching policy. PostgreSQL LIKE
// is already case-sensitive.
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solatis/matchbox"
)

var (
	// ErrNotTranslatable marks predicates with no SQL rendering: custom
	// operators, constant left operands, list-typed columns, field-valued
	// sets and patterns.
	ErrNotTranslatable = errors.New("predicate is not translatable to SQL")

	// ErrUnsafeIdentifier marks table, column or field names that are not
	// plain SQL identifiers. Identifiers are interpolated into the
	// statement text, so anything beyond [A-Za-z_][A-Za-z0-9_]* is
	// rejected rather than quoted.
	ErrUnsafeIdentifier = errors.New("identifier contains unsupported characters")
)

// comparators maps canonical operator symbols to the SQL comparison
// operators shared by the equality and ordering families.
var comparators = map[string]string{
	"isequalto":              "=",
	"isnotequalto":           "<>",
	"isgreaterthanorequalto": ">=",
	"isgreaterthan":          ">",
	"islessthanorequalto":    "<=",
	"islessthan":             "<",
}

// Fragment renders one compiled predicate as a WHERE-clause fragment with
// its bound arguments. The predicate must come out of Compile or Generate so
// its operands carry reconciled types.
func Fragment(p matchbox.Predicate) (string, []any, error) {
	if p.Op == nil {
		return "", nil, fmt.Errorf("%w: no operator", ErrNotTranslatable)
	}
	column, err := columnOf(p.Left)
	if err != nil {
		return "", nil, err
	}

	switch matchbox.Family(p.Op) {
	case "equality", "ordering":
		return comparison(p.Op, column, p.Right)
	case "null-check":
		return nullCheck(p.Op, column)
	case "string":
		return like(p.Op, column, p.Right)
	case "emptiness":
		return emptiness(p.Op, column, p.Left.Type())
	case "membership":
		return membership(p.Op, column, p.Right)
	default:
		return "", nil, fmt.Errorf("%w: %s operator %q", ErrNotTranslatable, matchbox.Family(p.Op), p.Op.Symbol())
	}
}

// columnOf resolves the left operand to a column reference. Constant left
// operands have no column to compare against.
func columnOf(e matchbox.Expr) (string, error) {
	f, ok := e.(matchbox.Field)
	if !ok {
		return "", fmt.Errorf("%w: left operand %T is not a field reference", ErrNotTranslatable, e)
	}
	if err := validIdentifier(f.Name()); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func comparison(op matchbox.Operator, column string, right matchbox.Expr) (string, []any, error) {
	sqlOp, ok := comparators[strings.ToLower(op.Symbol())]
	if !ok {
		return "", nil, fmt.Errorf("%w: operator %q", ErrNotTranslatable, op.Symbol())
	}
	switch r := right.(type) {
	case matchbox.Const:
		// A null argument keeps SQL's ternary behavior: the comparison
		// is never true, matching lifted evaluation.
		return fmt.Sprintf("%s %s ?", column, sqlOp), []any{r.Value()}, nil
	case matchbox.Field:
		if err := validIdentifier(r.Name()); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s %s", column, sqlOp, r.Name()), nil, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported right operand %T", ErrNotTranslatable, right)
	}
}

func nullCheck(op matchbox.Operator, column string) (string, []any, error) {
	if matchbox.SameOperator(op, matchbox.OpNotNull) {
		return column + " IS NOT NULL", nil, nil
	}
	return column + " IS NULL", nil, nil
}

func like(op matchbox.Operator, column string, right matchbox.Expr) (string, []any, error) {
	rc, ok := right.(matchbox.Const)
	if !ok {
		return "", nil, fmt.Errorf("%w: field-valued pattern", ErrNotTranslatable)
	}

	verb := "LIKE"
	if matchbox.SameOperator(op, matchbox.OpNotContains) {
		verb = "NOT LIKE"
	}
	clause := fmt.Sprintf("%s %s ? ESCAPE '\\'", column, verb)

	if rc.IsNull() {
		return clause, []any{nil}, nil
	}
	needle, ok := rc.Value().(string)
	if !ok {
		return "", nil, fmt.Errorf("%w: pattern value %T", ErrNotTranslatable, rc.Value())
	}

	var pattern string
	switch {
	case matchbox.SameOperator(op, matchbox.OpStartsWith):
		pattern = escapeLike(needle) + "%"
	case matchbox.SameOperator(op, matchbox.OpEndsWith):
		pattern = "%" + escapeLike(needle)
	default:
		pattern = "%" + escapeLike(needle) + "%"
	}
	return clause, []any{pattern}, nil
}

func emptiness(op matchbox.Operator, column string, left matchbox.Type) (string, []any, error) {
	if left.Kind != matchbox.KindString {
		return "", nil, fmt.Errorf("%w: emptiness of a %s column", ErrNotTranslatable, left)
	}
	if matchbox.SameOperator(op, matchbox.OpNotEmpty) {
		return fmt.Sprintf("length(%s) <> 0", column), nil, nil
	}
	return fmt.Sprintf("length(%s) = 0", column), nil, nil
}

func membership(op matchbox.Operator, column string, right matchbox.Expr) (string, []any, error) {
	rc, ok := right.(matchbox.Const)
	if !ok {
		return "", nil, fmt.Errorf("%w: field-valued set", ErrNotTranslatable)
	}
	values, ok := rc.Value().([]any)
	if !ok {
		return "", nil, fmt.Errorf("%w: set value %T", ErrNotTranslatable, rc.Value())
	}
	negate := matchbox.SameOperator(op, matchbox.OpNotIn)

	// Null elements never match during evaluation; keeping them out of the
	// IN list avoids NULL poisoning the NOT IN case.
	args := make([]any, 0, len(values))
	for _, v := range values {
		if v != nil {
			args = append(args, v)
		}
	}

	if len(args) == 0 {
		if negate {
			// Vacuously true for any present value.
			return column + " IS NOT NULL", nil, nil
		}
		return "1 = 0", nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	verb := "IN"
	if negate {
		verb = "NOT IN"
	}
	return fmt.Sprintf("%s %s (%s)", column, verb, placeholders), args, nil
}

// escapeLike escapes the LIKE wildcards and the escape character itself so
// needles match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func validIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty identifier", ErrUnsafeIdentifier)
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return fmt.Errorf("%w: %q", ErrUnsafeIdentifier, name)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnsafeIdentifier, name)
		}
	}
	return nil
}

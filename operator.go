package matchbox

import (
	"strings"
)

/*
 * Operator variants.
 *
 * One implementation per comparison family, each a stateless value type;
 * the built-in operators are package-level singletons shared through the
 * registry. Generate reconciles the operand types, validates the family's
 * operand requirements, and attaches the evaluation kernel from
 * predicate.go.
 *
 * Operator identity is the symbol, compared case-insensitively; instance
 * identity never matters. Two equalityOp values with the same symbol are
 * the same operator.
 *
 * String matching is ordinal: byte-wise and case-sensitive, no locale
 * tables. "ABC" does not start with "ab".
 */

// Operator produces boolean predicates from operand expression pairs.
// Implementations must be stateless so instances can be shared across
// goroutines.
type Operator interface {
	// Symbol returns the canonical operator symbol, e.g. "IsEqualTo".
	Symbol() string

	// Generate reconciles the operand types and compiles the pair into a
	// Predicate. When liftToNull is true an absent operand value evaluates
	// to false; when false it surfaces ErrAbsentValue.
	Generate(left, right Expr, liftToNull bool) (Predicate, error)
}

// MaxSetValues limits membership sets. 64 values supports enum-style
// checks without degrading evaluation to a large linear scan.
const MaxSetValues = 64

// Built-in operators, one singleton per symbol.
var (
	OpEqual          Operator = equalityOp{symbol: "IsEqualTo"}
	OpNotEqual       Operator = equalityOp{symbol: "IsNotEqualTo", negate: true}
	OpNull           Operator = nullCheckOp{symbol: "IsNull"}
	OpNotNull        Operator = nullCheckOp{symbol: "IsNotNull", negate: true}
	OpGreaterOrEqual Operator = orderingOp{symbol: "IsGreaterThanOrEqualTo", allowGreater: true, allowEqual: true}
	OpGreater        Operator = orderingOp{symbol: "IsGreaterThan", allowGreater: true}
	OpLessOrEqual    Operator = orderingOp{symbol: "IsLessThanOrEqualTo", allowLess: true, allowEqual: true}
	OpLess           Operator = orderingOp{symbol: "IsLessThan", allowLess: true}
	OpStartsWith     Operator = stringOp{symbol: "StartsWith", match: strings.HasPrefix}
	OpEndsWith       Operator = stringOp{symbol: "EndsWith", match: strings.HasSuffix}
	OpContains       Operator = stringOp{symbol: "Contains", match: strings.Contains}
	OpNotContains    Operator = stringOp{symbol: "DoesNotContain", match: strings.Contains, negate: true}
	OpEmpty          Operator = emptinessOp{symbol: "IsEmpty"}
	OpNotEmpty       Operator = emptinessOp{symbol: "IsNotEmpty", negate: true}
	OpIn             Operator = membershipOp{symbol: "In"}
	OpNotIn          Operator = membershipOp{symbol: "NotIn", negate: true}
)

// builtinOps is the registration order for new registries.
var builtinOps = []Operator{
	OpEqual, OpNotEqual,
	OpNull, OpNotNull,
	OpGreaterOrEqual, OpGreater, OpLessOrEqual, OpLess,
	OpStartsWith, OpEndsWith, OpContains, OpNotContains,
	OpEmpty, OpNotEmpty,
	OpIn, OpNotIn,
}

// SameOperator reports whether a and b denote the same operator. Identity
// is the symbol, compared case-insensitively.
func SameOperator(a, b Operator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return strings.EqualFold(a.Symbol(), b.Symbol())
}

// Family names the comparison family of an operator: "equality",
// "null-check", "ordering", "string", "emptiness" or "membership".
// External implementations report "custom"; nil and the no-operator value
// report "none".
func Family(op Operator) string {
	switch op.(type) {
	case nil, noneOp:
		return "none"
	case equalityOp:
		return "equality"
	case nullCheckOp:
		return "null-check"
	case orderingOp:
		return "ordering"
	case stringOp:
		return "string"
	case emptinessOp:
		return "emptiness"
	case membershipOp:
		return "membership"
	default:
		return "custom"
	}
}

// operandsOf normalizes the operand pair before reconciliation: a nil
// right operand stands for the null literal, a nil left operand is a
// usage error.
func operandsOf(op Operator, left, right Expr) (Expr, Expr, error) {
	if left == nil {
		return nil, nil, errInvalidUsage(op, "left operand is required")
	}
	if right == nil {
		right = Null()
	}
	return left, right, nil
}

// equalityOp compares reconciled operands for equality. The only family
// whose reconciliation treats type divergence as expected input.
type equalityOp struct {
	symbol string
	negate bool
}

func (o equalityOp) Symbol() string { return o.symbol }

func (o equalityOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	left, right, err := operandsOf(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	l, r, err := Reconcile(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	lt, rt := l.Type(), r.Type()
	if lt.Kind == KindList || rt.Kind == KindList {
		return Predicate{}, errInvalidUsage(o, "list operands are not comparable")
	}
	if !lt.base().Equal(rt.base()) {
		return Predicate{}, errIncompatible(o, left.Type(), right.Type())
	}
	return newPredicate(o, l, r, liftToNull, evalEquality(o.negate)), nil
}

// nullCheckOp tests for the absence marker. Unary: the right operand is
// ignored. Rejects operand types that cannot represent absence.
type nullCheckOp struct {
	symbol string
	negate bool
}

func (o nullCheckOp) Symbol() string { return o.symbol }

func (o nullCheckOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	left, _, err := operandsOf(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	if !left.Type().Nullable {
		return Predicate{}, errInvalidUsage(o, "operand type %s cannot represent absence", left.Type())
	}
	return newPredicate(o, left, Null(), liftToNull, evalNullCheck(o.negate)), nil
}

// orderingOp compares reconciled operands under their total order.
type orderingOp struct {
	symbol       string
	allowLess    bool
	allowEqual   bool
	allowGreater bool
}

func (o orderingOp) Symbol() string { return o.symbol }

func (o orderingOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	left, right, err := operandsOf(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	l, r, err := Reconcile(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	lt, rt := l.Type(), r.Type()
	if !lt.base().Equal(rt.base()) {
		return Predicate{}, errIncompatible(o, left.Type(), right.Type())
	}
	if !lt.ordered() {
		return Predicate{}, errInvalidUsage(o, "type %s has no ordering", lt.base())
	}
	return newPredicate(o, l, r, liftToNull, evalOrdering(o.allowLess, o.allowEqual, o.allowGreater)), nil
}

// stringOp tests substring relations between text operands.
type stringOp struct {
	symbol string
	match  func(s, needle string) bool
	negate bool
}

func (o stringOp) Symbol() string { return o.symbol }

func (o stringOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	left, right, err := operandsOf(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	l, r, err := Reconcile(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	if l.Type().Kind != KindString {
		return Predicate{}, errInvalidUsage(o, "operator requires a text left operand, not %s", left.Type())
	}
	if r.Type().Kind != KindString {
		return Predicate{}, errIncompatible(o, left.Type(), right.Type())
	}
	return newPredicate(o, l, r, liftToNull, evalString(o.match, o.negate)), nil
}

// emptinessOp tests zero length of text or list operands. Unary: the
// right operand is ignored.
type emptinessOp struct {
	symbol string
	negate bool
}

func (o emptinessOp) Symbol() string { return o.symbol }

func (o emptinessOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	left, _, err := operandsOf(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	if k := left.Type().Kind; k != KindString && k != KindList {
		return Predicate{}, errInvalidUsage(o, "operand type %s has no emptiness test", left.Type())
	}
	return newPredicate(o, left, Null(), liftToNull, evalEmptiness(o.negate)), nil
}

// membershipOp tests whether the left value occurs in the right set.
type membershipOp struct {
	symbol string
	negate bool
}

func (o membershipOp) Symbol() string { return o.symbol }

func (o membershipOp) Generate(left, right Expr, liftToNull bool) (Predicate, error) {
	left, right, err := operandsOf(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	l, r, err := Reconcile(o, left, right)
	if err != nil {
		return Predicate{}, err
	}
	return newPredicate(o, l, r, liftToNull, evalMembership(o.negate)), nil
}

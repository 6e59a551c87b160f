package matchbox

import (
	"fmt"
	"strings"
	"time"
)

/*
 * Compiled predicates and their evaluation kernels.
 *
 * A Predicate is a small inspectable IR: operator, reconciled operand
 * pair, lifting flag. Downstream consumers read the structure (querysql
 * translates it to SQL) while Eval executes it through the kernel the
 * operator family attached at compile time.
 *
 * Kernels see canonical runtime values only (bool, int64, float64,
 * string, time.Time, []any, nil). Absence handling is uniform across the
 * binary families: lifted comparisons yield false for an absent operand,
 * unlifted ones surface ErrAbsentValue. The null-check family is defined
 * on absence itself and never consults the lifting flag.
 */

// evalFunc is an evaluation kernel over resolved operand values.
type evalFunc func(left, right any, liftToNull bool) (bool, error)

// Predicate is a compiled comparison, immutable after compilation.
type Predicate struct {
	Op         Operator
	Left       Expr
	Right      Expr
	LiftToNull bool

	eval evalFunc
}

func newPredicate(op Operator, left, right Expr, liftToNull bool, eval evalFunc) Predicate {
	return Predicate{Op: op, Left: left, Right: right, LiftToNull: liftToNull, eval: eval}
}

// Eval resolves both operands against the subject and applies the
// operator kernel. A nil subject is valid when both operands are
// constants.
func (p Predicate) Eval(s Subject) (bool, error) {
	if p.eval == nil {
		return false, &InvalidOperatorUsageError{Reason: "predicate was not compiled"}
	}
	lv, err := p.Left.Resolve(s)
	if err != nil {
		return false, err
	}
	rv, err := p.Right.Resolve(s)
	if err != nil {
		return false, err
	}
	return p.eval(lv, rv, p.LiftToNull)
}

// String renders the predicate as "left Symbol right".
func (p Predicate) String() string {
	if p.Op == nil || p.Left == nil {
		return "(empty predicate)"
	}
	left := fmt.Sprintf("%v", p.Left)
	right := fmt.Sprintf("%v", p.Right)
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", left, p.Op.Symbol(), right))
}

// liftAbsent applies the lifting policy to an absent operand.
func liftAbsent(liftToNull bool) (bool, error) {
	if liftToNull {
		return false, nil
	}
	return false, ErrAbsentValue
}

func evalEquality(negate bool) evalFunc {
	return func(lv, rv any, liftToNull bool) (bool, error) {
		if lv == nil || rv == nil {
			return liftAbsent(liftToNull)
		}
		eq := valuesEqual(lv, rv)
		return eq != negate, nil
	}
}

func evalNullCheck(negate bool) evalFunc {
	return func(lv, _ any, _ bool) (bool, error) {
		return (lv == nil) != negate, nil
	}
}

func evalOrdering(allowLess, allowEqual, allowGreater bool) evalFunc {
	return func(lv, rv any, liftToNull bool) (bool, error) {
		if lv == nil || rv == nil {
			return liftAbsent(liftToNull)
		}
		cmp, ok := compareValues(lv, rv)
		if !ok {
			return false, nil
		}
		switch {
		case cmp < 0:
			return allowLess, nil
		case cmp > 0:
			return allowGreater, nil
		default:
			return allowEqual, nil
		}
	}
}

func evalString(match func(s, needle string) bool, negate bool) evalFunc {
	return func(lv, rv any, liftToNull bool) (bool, error) {
		if lv == nil || rv == nil {
			return liftAbsent(liftToNull)
		}
		ls, ok1 := lv.(string)
		rs, ok2 := rv.(string)
		if !ok1 || !ok2 {
			return false, nil
		}
		return match(ls, rs) != negate, nil
	}
}

func evalEmptiness(negate bool) evalFunc {
	return func(lv, _ any, liftToNull bool) (bool, error) {
		if lv == nil {
			return liftAbsent(liftToNull)
		}
		var empty bool
		switch v := lv.(type) {
		case string:
			empty = len(v) == 0
		case []any:
			empty = len(v) == 0
		default:
			return false, nil
		}
		return empty != negate, nil
	}
}

func evalMembership(negate bool) evalFunc {
	return func(lv, rv any, liftToNull bool) (bool, error) {
		if lv == nil || rv == nil {
			return liftAbsent(liftToNull)
		}
		set, ok := rv.([]any)
		if !ok {
			return false, nil
		}
		found := false
		for _, elem := range set {
			if elem == nil {
				continue
			}
			if valuesEqual(lv, elem) {
				found = true
				break
			}
		}
		return found != negate, nil
	}
}

// valuesEqual performs equality over canonical values. Same-type
// comparison first, then numeric mixing so int64 and float64 compare by
// value.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return false
}

// compareValues performs three-way comparison over canonical values.
// Reports false when the pair has no order.
func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			return compareOrdered(av, bv), true
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av, bv), true
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1, true
			case av.After(bv):
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if na, nb, ok := asNumbers(a, b); ok {
		return compareOrdered(na, nb), true
	}
	return 0, false
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// asNumbers converts both values to float64 for mixed numeric comparison.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

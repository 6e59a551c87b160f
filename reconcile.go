package matchbox

import (
	"fmt"
)

/*
 * Type reconciliation.
 *
 * Adapts an operand pair so both sides carry comparable types before an
 * operator family compiles them. Rules apply in order, first match wins:
 *
 *   1. Enum promotion: when exactly one side is an enumeration and the
 *      types differ, the other side promotes to it (ordinal or value
 *      name); a null literal becomes the typed "no value" of the enum.
 *      Two distinct enumerations never reconcile.
 *   2. Equality divergence: the equality family converts across kinds
 *      when one side is assignable to the other (numeric widening); any
 *      other divergence is IncompatibleOperands.
 *   3. Constant right sides against scalar lefts: a null literal facing
 *      a non-nullable value kind becomes that kind's zero value; facing
 *      a nullable left it becomes a typed null; a constant of a
 *      different kind facing a nullable left converts into the left's
 *      representation.
 *   4. Residual untyped null literals take the opposite side's type.
 *
 * Conversion failures (value out of range, name not declared in the
 * enum) surface as IncompatibleOperands naming the operator and both
 * original types, never as a lower-level error.
 *
 * The membership family reconciles element-wise: the right side becomes
 * a list of the left operand's base type, and a scalar right side
 * becomes a one-element set. Null-check and emptiness ignore the right
 * operand and skip reconciliation.
 */

// Reconcile adapts left and right so their types are comparable under op,
// returning the possibly rewritten pair. The built-in Generate
// implementations call it before compiling; custom operators may reuse it
// the same way.
func Reconcile(op Operator, left, right Expr) (Expr, Expr, error) {
	switch op.(type) {
	case nullCheckOp, emptinessOp:
		return left, right, nil
	case membershipOp:
		return reconcileSet(op, left, right)
	}

	lt, rt := left.Type(), right.Type()

	// Enum promotion.
	if (lt.Kind == KindEnum || rt.Kind == KindEnum) && !lt.base().Equal(rt.base()) {
		return reconcileEnum(op, left, right)
	}

	// Equality-family divergence: assignability-based conversion.
	if _, isEquality := op.(equalityOp); isEquality {
		if !lt.base().Equal(rt.base()) && !isNullExpr(left) && !isNullExpr(right) {
			switch {
			case assignable(lt, rt):
				r, err := convertExpr(right, lt)
				if err != nil {
					return nil, nil, errIncompatible(op, lt, rt)
				}
				return left, r, nil
			case assignable(rt, lt):
				l, err := convertExpr(left, rt)
				if err != nil {
					return nil, nil, errIncompatible(op, lt, rt)
				}
				return l, right, nil
			default:
				return nil, nil, errIncompatible(op, lt, rt)
			}
		}
	}

	// Constant right sides against scalar lefts.
	if rc, ok := right.(Const); ok && lt.scalar() {
		switch {
		case rc.IsNull():
			if !lt.Nullable && valueKind(lt) {
				return left, Const{val: zeroValue(lt.base()), typ: lt.base()}, nil
			}
			return left, Const{typ: Nullable(lt.base())}, nil
		case lt.Nullable && !rc.Type().base().Equal(lt.base()):
			converted, err := convertValue(rc.Value(), lt.base())
			if err != nil {
				return nil, nil, errIncompatible(op, lt, rt)
			}
			return left, Const{val: converted, typ: Nullable(lt.base())}, nil
		case lt.Nullable && !rc.Type().Nullable:
			// Same kind; carry the optional representation through.
			return left, Const{val: rc.Value(), typ: Nullable(lt.base())}, nil
		}
	}

	// A null literal on the left takes the right side's type so lifting
	// applies at evaluation.
	if isNullExpr(left) && rt.scalar() {
		return Const{typ: Nullable(rt.base())}, right, nil
	}

	return left, right, nil
}

// valueKind reports whether t stores fixed-size scalar values. The null
// literal compared against a non-nullable value kind becomes that kind's
// zero value. Text is excluded: a null text comparison stays a null
// comparison instead of becoming the empty string.
func valueKind(t Type) bool {
	switch t.Kind {
	case KindBool, KindInt, KindFloat, KindTime, KindEnum:
		return true
	default:
		return false
	}
}

func isNullExpr(e Expr) bool {
	c, ok := e.(Const)
	return ok && c.IsNull()
}

// reconcileEnum promotes the non-enum side to the enum side's type,
// trying right first.
func reconcileEnum(op Operator, left, right Expr) (Expr, Expr, error) {
	lt, rt := left.Type(), right.Type()

	if lt.Kind == KindEnum && rt.Kind == KindEnum {
		return nil, nil, errIncompatible(op, lt, rt)
	}
	if lt.Kind == KindEnum {
		r, err := convertExpr(right, lt)
		if err != nil {
			return nil, nil, errIncompatible(op, lt, rt)
		}
		return left, r, nil
	}
	l, err := convertExpr(left, rt)
	if err != nil {
		return nil, nil, errIncompatible(op, lt, rt)
	}
	return l, right, nil
}

// reconcileSet normalizes the right side of a membership test to a list
// of the left operand's base type.
func reconcileSet(op Operator, left, right Expr) (Expr, Expr, error) {
	// An untyped null left takes the set's element type so lifting
	// applies at evaluation.
	if isNullExpr(left) && left.Type().Kind == KindInvalid {
		rt := right.Type()
		switch {
		case rt.Kind == KindList && rt.Elem != nil:
			left = Const{typ: Nullable(rt.Elem.base())}
		case rt.scalar():
			left = Const{typ: Nullable(rt.base())}
		}
	}

	lt := left.Type()
	if lt.Kind == KindList {
		return nil, nil, errInvalidUsage(op, "left operand of a membership test must be a scalar, not %s", lt)
	}
	if lt.Kind == KindInvalid {
		return nil, nil, errInvalidUsage(op, "left operand of a membership test requires a typed value")
	}
	elem := lt.base()

	switch r := right.(type) {
	case Const:
		if r.IsNull() {
			return nil, nil, errInvalidUsage(op, "right operand of a membership test requires a value set")
		}
		values, ok := r.Value().([]any)
		if !ok {
			// Scalar right side behaves as a one-element set.
			values = []any{r.Value()}
		}
		if len(values) > MaxSetValues {
			return nil, nil, errInvalidUsage(op, "membership set exceeds %d values", MaxSetValues)
		}
		converted := make([]any, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			c, err := convertValue(v, elem)
			if err != nil {
				return nil, nil, errIncompatible(op, lt, right.Type())
			}
			converted[i] = c
		}
		return left, Const{val: converted, typ: ListOf(elem)}, nil
	case Field:
		ft := r.Type()
		if ft.Kind != KindList || ft.Elem == nil {
			return nil, nil, errInvalidUsage(op, "right operand of a membership test must be a set, not %s", ft)
		}
		if !assignable(elem, ft.Elem.base()) && !assignable(ft.Elem.base(), elem) {
			return nil, nil, errIncompatible(op, lt, ft)
		}
		return left, right, nil
	default:
		return nil, nil, errInvalidUsage(op, "unsupported right operand %T", right)
	}
}

// convertExpr rewrites an expression to carry type t: constants convert
// their value, fields retype and convert at resolution. Nullability of
// the expression is preserved; a null literal becomes a typed null.
func convertExpr(e Expr, t Type) (Expr, error) {
	switch x := e.(type) {
	case Const:
		if x.IsNull() {
			return Const{typ: Nullable(t.base())}, nil
		}
		c, err := TypedConst(x.Value(), t.base())
		if err != nil {
			return nil, err
		}
		if x.typ.Nullable {
			c.typ = Nullable(c.typ)
		}
		return c, nil
	case Field:
		ft := t.base()
		if x.typ.Nullable {
			ft = Nullable(ft)
		}
		return Field{name: x.name, typ: ft}, nil
	default:
		return nil, fmt.Errorf("cannot convert expression of type %T", e)
	}
}

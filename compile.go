package matchbox

/*
 * Evaluation entry points.
 *
 * Compile is the reusable path: it returns the predicate fragment for
 * embedding into larger composite expressions or for translation (see
 * querysql). Evaluate is the convenience path: both values become
 * constants and the compiled predicate runs immediately with lifted
 * semantics, so an absent value yields false rather than an error.
 */

// Compile reconciles the operand pair and compiles it into a Predicate.
// A nil operator or None fails with InvalidOperatorUsageError; a nil
// right operand stands for the null literal.
func Compile(op Operator, left, right Expr, liftToNull bool) (Predicate, error) {
	if op == nil {
		op = None
	}
	return op.Generate(left, right, liftToNull)
}

// Evaluate wraps both values as constants, compiles with lifted
// semantics, and evaluates immediately.
func Evaluate(op Operator, leftValue, rightValue any) (bool, error) {
	left, err := NewConst(leftValue)
	if err != nil {
		return false, err
	}
	right, err := NewConst(rightValue)
	if err != nil {
		return false, err
	}
	p, err := Compile(op, left, right, true)
	if err != nil {
		return false, err
	}
	return p.Eval(nil)
}

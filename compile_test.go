package matchbox

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		op    Operator
		left  any
		right any
		want  bool
	}{
		{name: "equal ints", op: OpEqual, left: 2, right: int64(2), want: true},
		{name: "unequal ints", op: OpEqual, left: 2, right: 3, want: false},
		{name: "int widens against float", op: OpEqual, left: 2, right: 2.0, want: true},
		{name: "greater", op: OpGreater, left: 5, right: 3, want: true},
		{name: "member of set", op: OpIn, left: 2, right: []int{1, 2, 3}, want: true},
		{name: "not a member", op: OpIn, left: 4, right: []int{1, 2, 3}, want: false},
		{name: "scalar set", op: OpIn, left: 2, right: 2, want: true},
		{name: "starts-with is ordinal", op: OpStartsWith, left: "ABC", right: "ab", want: false},
		{name: "starts-with match", op: OpStartsWith, left: "ABC", right: "AB", want: true},
		{name: "absent left lifts to false", op: OpEqual, left: nil, right: 5, want: false},
		{name: "null against nonzero value", op: OpEqual, left: 5, right: nil, want: false},
		{name: "null against zero value", op: OpEqual, left: 0, right: nil, want: true},
		{name: "null is null", op: OpNull, left: nil, right: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.op, tt.left, tt.right)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		op      Operator
		left    any
		right   any
		wantErr func(error) bool
	}{
		{name: "int against string", op: OpEqual, left: 2, right: "2", wantErr: IsIncompatibleOperands},
		{name: "no operator", op: None, left: 1, right: 1, wantErr: IsInvalidOperatorUsage},
		{name: "nil operator", op: nil, left: 1, right: 1, wantErr: IsInvalidOperatorUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.op, tt.left, tt.right)
			if !tt.wantErr(err) {
				t.Errorf("Evaluate() error = %v, want typed failure", err)
			}
		})
	}
}

func TestCompile_Reusable(t *testing.T) {
	p, err := Compile(OpGreaterOrEqual, NewField("age", Int), mustConst(t, 21), true)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		age  int
		want bool
	}{
		{age: 20, want: false},
		{age: 21, want: true},
		{age: 70, want: true},
	}

	for _, tt := range tests {
		got, err := p.Eval(Subject{"age": tt.age})
		if err != nil {
			t.Fatalf("Eval() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("Eval(age=%d) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestCompile_Idempotent(t *testing.T) {
	left := NewField("color", EnumOf(testColor))
	right := mustConst(t, "Green")

	first, err := Compile(OpEqual, left, right, true)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, err := Compile(OpEqual, left, right, true)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !SameOperator(first.Op, second.Op) {
		t.Error("operators differ between compilations")
	}
	if !first.Left.Type().Equal(second.Left.Type()) || !first.Right.Type().Equal(second.Right.Type()) {
		t.Error("reconciled operand types differ between compilations")
	}
	if first.String() != second.String() {
		t.Errorf("structure differs: %q vs %q", first.String(), second.String())
	}

	subject := Subject{"color": "Green"}
	a, err := first.Eval(subject)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	b, err := second.Eval(subject)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if a != b {
		t.Errorf("evaluation differs: %v vs %v", a, b)
	}
}

func TestEvaluateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("equality matches Go equality on ints", prop.ForAll(
		func(a, b int64) bool {
			got, err := Evaluate(OpEqual, a, b)
			return err == nil && got == (a == b)
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("inequality complements equality", prop.ForAll(
		func(a, b int64) bool {
			eq, err1 := Evaluate(OpEqual, a, b)
			ne, err2 := Evaluate(OpNotEqual, a, b)
			return err1 == nil && err2 == nil && eq == !ne
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("ordering matches Go ordering on ints", prop.ForAll(
		func(a, b int64) bool {
			lt, err1 := Evaluate(OpLess, a, b)
			ge, err2 := Evaluate(OpGreaterOrEqual, a, b)
			return err1 == nil && err2 == nil && lt == (a < b) && ge == (a >= b)
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("scalar membership equals one-element set", prop.ForAll(
		func(a, b int64) bool {
			scalar, err1 := Evaluate(OpIn, a, b)
			set, err2 := Evaluate(OpIn, a, []int64{b})
			return err1 == nil && err2 == nil && scalar == set
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("starts-with matches strings.HasPrefix", prop.ForAll(
		func(s, prefix string) bool {
			got, err := Evaluate(OpStartsWith, s, prefix)
			return err == nil && got == strings.HasPrefix(s, prefix)
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("recompilation preserves evaluation", prop.ForAll(
		func(age int64, threshold int64) bool {
			left := NewField("age", Int)
			right, err := NewConst(threshold)
			if err != nil {
				return false
			}
			first, err := Compile(OpGreater, left, right, true)
			if err != nil {
				return false
			}
			second, err := Compile(OpGreater, left, right, true)
			if err != nil {
				return false
			}
			subject := Subject{"age": age}
			a, err1 := first.Eval(subject)
			b, err2 := second.Eval(subject)
			return err1 == nil && err2 == nil && a == b && a == (age > threshold)
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

package querysql

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sebdah/goldie/v2"

	"github.com/solatis/matchbox"
)

func mustConst(t *testing.T, v any) matchbox.Const {
	t.Helper()
	c, err := matchbox.NewConst(v)
	if err != nil {
		t.Fatalf("NewConst(%v) error = %v", v, err)
	}
	return c
}

func mustCompile(t *testing.T, op matchbox.Operator, left, right matchbox.Expr) matchbox.Predicate {
	t.Helper()
	p, err := matchbox.Compile(op, left, right, true)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return p
}

// renderFragment renders a fragment and its arguments for golden comparison.
func renderFragment(sql string, args []any) []byte {
	var b strings.Builder
	b.WriteString(sql)
	b.WriteByte('\n')
	for i, a := range args {
		fmt.Fprintf(&b, "arg[%d] = %v (%T)\n", i, a, a)
	}
	return []byte(b.String())
}

func TestFragment_Golden(t *testing.T) {
	prio := matchbox.NewEnum("Priority", "Low", "Normal", "High")

	tests := []struct {
		name string
		p    matchbox.Predicate
	}{
		{"fragment_equality_int", mustCompile(t, matchbox.OpEqual, matchbox.NewField("age", matchbox.Int), mustConst(t, 21))},
		{"fragment_not_equal_null", mustCompile(t, matchbox.OpNotEqual, matchbox.NewField("note", matchbox.Nullable(matchbox.String)), matchbox.Null())},
		{"fragment_ordering_null_zero", mustCompile(t, matchbox.OpGreaterOrEqual, matchbox.NewField("age", matchbox.Int), matchbox.Null())},
		{"fragment_field_comparison", mustCompile(t, matchbox.OpEqual, matchbox.NewField("age", matchbox.Int), matchbox.NewField("limit", matchbox.Int))},
		{"fragment_starts_with", mustCompile(t, matchbox.OpStartsWith, matchbox.NewField("status", matchbox.String), mustConst(t, "act"))},
		{"fragment_contains_escaped", mustCompile(t, matchbox.OpContains, matchbox.NewField("note", matchbox.Nullable(matchbox.String)), mustConst(t, `50%_\`))},
		{"fragment_not_contains", mustCompile(t, matchbox.OpNotContains, matchbox.NewField("status", matchbox.String), mustConst(t, "in"))},
		{"fragment_is_null", mustCompile(t, matchbox.OpNull, matchbox.NewField("note", matchbox.Nullable(matchbox.String)), nil)},
		{"fragment_is_empty", mustCompile(t, matchbox.OpEmpty, matchbox.NewField("status", matchbox.String), nil)},
		{"fragment_in_enum", mustCompile(t, matchbox.OpIn, matchbox.NewField("priority", matchbox.EnumOf(prio)), mustConst(t, []string{"Low", "High"}))},
		{"fragment_in_scalar", mustCompile(t, matchbox.OpIn, matchbox.NewField("age", matchbox.Int), mustConst(t, 35))},
		{"fragment_not_in_empty", mustCompile(t, matchbox.OpNotIn, matchbox.NewField("age", matchbox.Int), mustConst(t, []int{}))},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := Fragment(tt.p)
			if err != nil {
				t.Fatalf("Fragment() error = %v", err)
			}
			g.Assert(t, tt.name, renderFragment(sql, args))
		})
	}
}

func TestSelect_Golden(t *testing.T) {
	active := mustCompile(t, matchbox.OpEqual, matchbox.NewField("status", matchbox.String), mustConst(t, "active"))
	adult := mustCompile(t, matchbox.OpGreaterOrEqual, matchbox.NewField("age", matchbox.Int), mustConst(t, 21))

	sql, args, err := Select("events", []string{"id", "status"}, active, adult)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "select_conjunction", renderFragment(sql, args))
}

func TestSelect_NoPredicates(t *testing.T) {
	sql, args, err := Select("events", nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if want := "SELECT * FROM events ORDER BY 1 ASC"; sql != want {
		t.Errorf("Select() = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestFragment_Rebind(t *testing.T) {
	p := mustCompile(t, matchbox.OpIn, matchbox.NewField("age", matchbox.Int), mustConst(t, []int{21, 35}))
	sql, _, err := Fragment(p)
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	if got, want := sqlx.Rebind(sqlx.DOLLAR, sql), "age IN ($1, $2)"; got != want {
		t.Errorf("Rebind() = %q, want %q", got, want)
	}
}

func TestFragment_Errors(t *testing.T) {
	tests := []struct {
		name    string
		p       matchbox.Predicate
		wantErr error
	}{
		{
			name:    "constant left operand",
			p:       mustCompile(t, matchbox.OpEqual, mustConst(t, 5), mustConst(t, 5)),
			wantErr: ErrNotTranslatable,
		},
		{
			name:    "custom operator",
			p:       matchbox.Predicate{Op: customOp{}, Left: matchbox.NewField("age", matchbox.Int)},
			wantErr: ErrNotTranslatable,
		},
		{
			name:    "emptiness of a list column",
			p:       mustCompile(t, matchbox.OpEmpty, matchbox.NewField("tags", matchbox.ListOf(matchbox.String)), nil),
			wantErr: ErrNotTranslatable,
		},
		{
			name:    "field-valued set",
			p:       mustCompile(t, matchbox.OpIn, matchbox.NewField("name", matchbox.String), matchbox.NewField("tags", matchbox.ListOf(matchbox.String))),
			wantErr: ErrNotTranslatable,
		},
		{
			name:    "unsafe field name",
			p:       mustCompile(t, matchbox.OpEqual, matchbox.NewField("age; DROP TABLE events", matchbox.Int), mustConst(t, 1)),
			wantErr: ErrUnsafeIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Fragment(tt.p)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fragment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelect_Errors(t *testing.T) {
	valid := mustCompile(t, matchbox.OpEqual, matchbox.NewField("age", matchbox.Int), mustConst(t, 1))

	t.Run("unsafe table name", func(t *testing.T) {
		_, _, err := Select("events; --", []string{"id"}, valid)
		if !errors.Is(err, ErrUnsafeIdentifier) {
			t.Errorf("Select() error = %v, want ErrUnsafeIdentifier", err)
		}
	})

	t.Run("unsafe column name", func(t *testing.T) {
		_, _, err := Select("events", []string{"id, 1"}, valid)
		if !errors.Is(err, ErrUnsafeIdentifier) {
			t.Errorf("Select() error = %v, want ErrUnsafeIdentifier", err)
		}
	})

	t.Run("untranslatable predicate", func(t *testing.T) {
		bad := mustCompile(t, matchbox.OpEqual, mustConst(t, 1), mustConst(t, 1))
		_, _, err := Select("events", []string{"id"}, bad)
		if !errors.Is(err, ErrNotTranslatable) {
			t.Errorf("Select() error = %v, want ErrNotTranslatable", err)
		}
	})
}

// customOp stands in for an externally registered operator with no SQL
// rendering.
type customOp struct{}

func (customOp) Symbol() string { return "Matches" }

func (customOp) Generate(left, right matchbox.Expr, liftToNull bool) (matchbox.Predicate, error) {
	return matchbox.Predicate{}, nil
}

package querysql

import (
	"fmt"
	"strings"

	"github.com/solatis/matchbox"
)

// Select builds a SELECT statement over table, filtering with the
// conjunction of the given predicates. An empty column list selects *.
//
// Every statement carries an ORDER BY over the first selected column (or the
// first output column for *) so result order is deterministic across drivers
// and runs.
func Select(table string, columns []string, preds ...matchbox.Predicate) (string, []any, error) {
	if err := validIdentifier(table); err != nil {
		return "", nil, err
	}

	selectClause := "*"
	orderBy := "1"
	if len(columns) > 0 {
		for _, c := range columns {
			if err := validIdentifier(c); err != nil {
				return "", nil, err
			}
		}
		selectClause = strings.Join(columns, ", ")
		orderBy = columns[0]
	}

	var fragments []string
	var args []any
	for _, p := range preds {
		sql, fragmentArgs, err := Fragment(p)
		if err != nil {
			return "", nil, fmt.Errorf("compile predicate %q: %w", p.String(), err)
		}
		fragments = append(fragments, sql)
		args = append(args, fragmentArgs...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectClause, table)
	if len(fragments) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(fragments, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY %s ASC", orderBy)

	return b.String(), args, nil
}

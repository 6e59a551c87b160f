package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/qustavo/dotsql"
)

// Statements provides access to named SQL statements loaded from .sql files
// in a filesystem, typically an embed.FS. Uses dotsql for name resolution
// and sqlx for execution; placeholders are rebound per driver so ? works
// against both SQLite and PostgreSQL.
type Statements struct {
	dot  *dotsql.DotSql
	conn *sqlx.DB
}

// LoadStatements parses every .sql file under fsys and returns the combined
// named statements bound to conn. Statement names share one namespace across
// files; a duplicated name keeps the last definition.
func LoadStatements(conn *sqlx.DB, fsys fs.FS) (*Statements, error) {
	var combined string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		combined += string(content) + "\n"
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load statement files: %w", err)
	}

	dot, err := dotsql.LoadFromString(combined)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statements: %w", err)
	}

	return &Statements{dot: dot, conn: conn}, nil
}

// Exec executes a named statement.
func (s *Statements) Exec(name string, args ...any) (sql.Result, error) {
	stmt, err := s.dot.Raw(name)
	if err != nil {
		return nil, fmt.Errorf("statement not found: %s", name)
	}
	return s.conn.Exec(s.conn.Rebind(stmt), args...)
}

// Get runs a named statement expected to return one row into dest.
func (s *Statements) Get(dest any, name string, args ...any) error {
	stmt, err := s.dot.Raw(name)
	if err != nil {
		return fmt.Errorf("statement not found: %s", name)
	}
	return s.conn.Get(dest, s.conn.Rebind(stmt), args...)
}

// Select runs a named statement and scans all rows into dest.
func (s *Statements) Select(dest any, name string, args ...any) error {
	stmt, err := s.dot.Raw(name)
	if err != nil {
		return fmt.Errorf("statement not found: %s", name)
	}
	return s.conn.Select(dest, s.conn.Rebind(stmt), args...)
}

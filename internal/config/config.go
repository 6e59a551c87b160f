// Package config provides configuration management for the matchbox CLI.
package config

import "time"

// Config holds CLI behavior settings. The engine itself takes no
// configuration; everything here shapes how commands parse inputs and render
// results.
type Config struct {
	// Output selects the rendering of command results: "text" or "json".
	Output string

	// LiftToNull is the default lifting policy for compiled comparisons:
	// when true an absent operand evaluates to false instead of failing.
	LiftToNull bool

	// TimeLayout is the reference layout used to parse time-typed constant
	// values from command arguments.
	TimeLayout string

	// DBURL optionally points the sql command at a database
	// (sqlite:// or postgres://) to execute generated statements.
	DBURL string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Output:     "text",
		LiftToNull: true,
		TimeLayout: time.RFC3339,
		DBURL:      "",
	}
}

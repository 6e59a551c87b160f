package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/solatis/matchbox"
	"github.com/solatis/matchbox/internal/db"
	"github.com/solatis/matchbox/querysql"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Translate a comparison into a parameterized SQL statement",
	Long:  `Compiles a single field comparison and prints the generated SELECT with its bind arguments. With a database URL the statement also runs and the matching row count is reported.`,
	RunE:  runSQL,
}

func init() {
	rootCmd.AddCommand(sqlCmd)
	sqlCmd.Flags().String("op", "", "operator symbol (see 'matchbox operators')")
	sqlCmd.Flags().String("field", "", "column the comparison reads")
	sqlCmd.Flags().String("type", "string", "field type, e.g. int, string?, enum(Color:Red,Green,Blue)")
	sqlCmd.Flags().String("value", "", "right operand value")
	sqlCmd.Flags().String("values", "", "comma-separated right operand set")
	sqlCmd.Flags().String("table", "", "table to select from")
	sqlCmd.Flags().String("columns", "", "comma-separated columns to select (default *)")
	sqlCmd.Flags().String("db-url", "", "database connection URL (sqlite://path or postgres://...)")
}

type sqlResult struct {
	Predicate string `json:"predicate"`
	Query     string `json:"query"`
	Args      []any  `json:"args"`
	Matches   *int   `json:"matches,omitempty"`
}

func runSQL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DBURL, _ = cmd.Flags().GetString("db-url")
	}

	opSymbol, _ := cmd.Flags().GetString("op")
	fieldName, _ := cmd.Flags().GetString("field")
	typeSyntax, _ := cmd.Flags().GetString("type")
	table, _ := cmd.Flags().GetString("table")
	if opSymbol == "" {
		return fmt.Errorf("--op required")
	}
	if fieldName == "" {
		return fmt.Errorf("--field required")
	}
	if table == "" {
		return fmt.Errorf("--table required")
	}

	op, err := matchbox.FromSymbol(opSymbol)
	if err != nil {
		return err
	}
	fieldType, err := matchbox.ParseType(typeSyntax)
	if err != nil {
		return fmt.Errorf("invalid --type: %w", err)
	}

	right, err := rightOperand(cmd, fieldType, cfg.TimeLayout)
	if err != nil {
		return err
	}

	p, err := matchbox.Compile(op, matchbox.NewField(fieldName, fieldType), right, cfg.LiftToNull)
	if err != nil {
		return err
	}

	var columns []string
	if raw, _ := cmd.Flags().GetString("columns"); raw != "" {
		columns = strings.Split(raw, ",")
		for i := range columns {
			columns[i] = strings.TrimSpace(columns[i])
		}
	}

	query, queryArgs, err := querysql.Select(table, columns, p)
	if err != nil {
		return err
	}

	matches := -1
	if cfg.DBURL != "" {
		matches, err = executeCount(cfg.DBURL, query, queryArgs)
		if err != nil {
			return err
		}
	}

	if cfg.Output == "json" {
		out := sqlResult{Predicate: p.String(), Query: query, Args: queryArgs}
		if matches >= 0 {
			out.Matches = &matches
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Println(query)
	for i, a := range queryArgs {
		fmt.Printf("arg[%d] = %v\n", i, a)
	}
	if matches >= 0 {
		fmt.Printf("%d matching rows\n", matches)
	}
	return nil
}

// executeCount runs the generated statement and counts matching rows.
func executeCount(dbURL, query string, args []any) (int, error) {
	log.Printf("Executing against %s", dbURL)

	database, err := db.Open(dbURL)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	rows, err := database.Queryx(database.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

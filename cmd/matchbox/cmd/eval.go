package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/solatis/matchbox"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Compile one comparison and evaluate it against a subject",
	Long:  `Compiles a single field comparison and evaluates it against a JSON subject, printing true or false.`,
	RunE:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("op", "", "operator symbol (see 'matchbox operators')")
	evalCmd.Flags().String("field", "", "subject field the comparison reads")
	evalCmd.Flags().String("type", "string", "field type, e.g. int, string?, enum(Color:Red,Green,Blue)")
	evalCmd.Flags().String("value", "", "right operand value")
	evalCmd.Flags().String("values", "", "comma-separated right operand set")
	evalCmd.Flags().String("subject", "", `subject JSON object ("-" reads stdin)`)
	evalCmd.Flags().Bool("lift", true, "treat absent values as false instead of failing")
}

type evalResult struct {
	Predicate string `json:"predicate"`
	Result    bool   `json:"result"`
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opSymbol, _ := cmd.Flags().GetString("op")
	fieldName, _ := cmd.Flags().GetString("field")
	typeSyntax, _ := cmd.Flags().GetString("type")
	if opSymbol == "" {
		return fmt.Errorf("--op required")
	}
	if fieldName == "" {
		return fmt.Errorf("--field required")
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

	lift := cfg.LiftToNull
	if cmd.Flags().Changed("lift") {
		lift, _ = cmd.Flags().GetBool("lift")
	}

	p, err := matchbox.Compile(op, matchbox.NewField(fieldName, fieldType), right, lift)
	if err != nil {
		return err
	}

	subject, err := readSubject(cmd, fieldName, fieldType, cfg.TimeLayout)
	if err != nil {
		return err
	}

	result, err := p.Eval(subject)
	if err != nil {
		return err
	}

	if cfg.Output == "json" {
		return json.NewEncoder(os.Stdout).Encode(evalResult{Predicate: p.String(), Result: result})
	}
	fmt.Println(result)
	return nil
}

// rightOperand builds the right operand from --value or --values. Neither
// flag set means the null literal, which the unary operators ignore and
// the comparison operators reconcile.
func rightOperand(cmd *cobra.Command, fieldType matchbox.Type, layout string) (matchbox.Expr, error) {
	valueChanged := cmd.Flags().Changed("value")
	valuesChanged := cmd.Flags().Changed("values")
	if valueChanged && valuesChanged {
		return nil, fmt.Errorf("--value and --values are mutually exclusive")
	}

	base := fieldType
	base.Nullable = false

	switch {
	case valuesChanged:
		raw, _ := cmd.Flags().GetString("values")
		parts := strings.Split(raw, ",")
		elems := make([]any, 0, len(parts))
		for _, part := range parts {
			v, err := parseOperandValue(strings.TrimSpace(part), base, layout)
			if err != nil {
				return nil, fmt.Errorf("invalid --values element %q: %w", part, err)
			}
			elems = append(elems, v)
		}
		c, err := matchbox.TypedConst(elems, matchbox.ListOf(base))
		if err != nil {
			return nil, fmt.Errorf("invalid --values: %w", err)
		}
		return c, nil
	case valueChanged:
		raw, _ := cmd.Flags().GetString("value")
		v, err := parseOperandValue(raw, base, layout)
		if err != nil {
			return nil, fmt.Errorf("invalid --value: %w", err)
		}
		c, err := matchbox.TypedConst(v, base)
		if err != nil {
			return nil, fmt.Errorf("invalid --value: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}

// parseOperandValue parses flag text into the Go value for a target type.
// Enum text is a value name; TypedConst promotes it to the ordinal.
func parseOperandValue(raw string, t matchbox.Type, layout string) (any, error) {
	switch t.Kind {
	case matchbox.KindBool:
		return strconv.ParseBool(raw)
	case matchbox.KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case matchbox.KindFloat:
		return strconv.ParseFloat(raw, 64)
	case matchbox.KindString, matchbox.KindEnum:
		return raw, nil
	case matchbox.KindTime:
		ts, err := time.Parse(layout, raw)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q with layout %q", raw, layout)
		}
		return ts, nil
	default:
		return nil, fmt.Errorf("type %s takes no flag value", t)
	}
}

// readSubject decodes the subject from --subject, reading stdin when the
// flag value is "-". JSON numbers arrive as float64 and convert to int
// fields when integral. A string under a time-typed field parses with the
// configured layout, since JSON has no time syntax.
func readSubject(cmd *cobra.Command, fieldName string, fieldType matchbox.Type, layout string) (matchbox.Subject, error) {
	raw, _ := cmd.Flags().GetString("subject")
	if raw == "" {
		return nil, nil
	}

	data := []byte(raw)
	if raw == "-" {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read subject from stdin: %w", err)
		}
	}

	var subject matchbox.Subject
	if err := json.Unmarshal(data, &subject); err != nil {
		return nil, fmt.Errorf("invalid subject JSON: %w", err)
	}

	if fieldType.Kind == matchbox.KindTime {
		if s, ok := subject[fieldName].(string); ok {
			ts, err := time.Parse(layout, s)
			if err != nil {
				return nil, fmt.Errorf("cannot parse subject field %q with layout %q", fieldName, layout)
			}
			subject[fieldName] = ts
		}
	}
	return subject, nil
}

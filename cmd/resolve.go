package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentic-research/fieldmap/internal/document"
	"github.com/agentic-research/fieldmap/internal/mapping"
	"github.com/spf13/cobra"
)

var (
	exprMappings  []string
	fixedMappings []string
	showMappings  bool
	strictResolve bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [document]",
	Short: "Resolve field mappings against a document",
	Long: `Resolve builds a mapping set from --map and --fixed flags and prints the
value of every mapped field as JSON.

  fieldmap resolve order.json --map orderId='$.order.id' --fixed channel=web`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}

		reg := mapping.NewRegistry[string](mapping.WithLogger(slog.Default()))
		for _, raw := range exprMappings {
			field, expr, err := splitAssignment(raw)
			if err != nil {
				return err
			}
			if err := reg.AddMapping(field, expr); err != nil {
				return fmt.Errorf("--map %s: %w", raw, err)
			}
		}
		for _, raw := range fixedMappings {
			field, literal, err := splitAssignment(raw)
			if err != nil {
				return err
			}
			if err := reg.AddMapping(field, parseLiteral(literal), mapping.AsFixedValue()); err != nil {
				return fmt.Errorf("--fixed %s: %w", raw, err)
			}
		}

		out := cmd.OutOrStdout()
		if showMappings {
			if _, err := fmt.Fprintln(out, reg.FormattedMappings()); err != nil {
				return err
			}
		}

		values, resolveErr := reg.Resolve(doc)
		if resolveErr != nil {
			if strictResolve {
				return resolveErr
			}
			slog.Warn("some fields did not resolve", "error", resolveErr)
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(values)
	},
}

func splitAssignment(raw string) (string, string, error) {
	field, value, ok := strings.Cut(raw, "=")
	if !ok || field == "" {
		return "", "", errors.New("expected field=value, got " + raw)
	}
	return field, value, nil
}

// parseLiteral reads JSON literals (numbers, booleans, quoted strings,
// objects, arrays) as typed values and falls back to the raw string.
func parseLiteral(s string) any {
	v, err := document.DecodeJSON(strings.NewReader(s))
	if err != nil || v == nil {
		return s
	}
	return v
}

func init() {
	resolveCmd.Flags().StringArrayVarP(&exprMappings, "map", "m", nil, "Map a field to a path expression (field=$.path)")
	resolveCmd.Flags().StringArrayVarP(&fixedMappings, "fixed", "f", nil, "Map a field to a fixed literal (field=value)")
	resolveCmd.Flags().BoolVar(&showMappings, "show-mappings", false, "Print the mapping set before the values")
	resolveCmd.Flags().BoolVar(&strictResolve, "strict", false, "Fail when a field does not resolve")
	rootCmd.AddCommand(resolveCmd)
}

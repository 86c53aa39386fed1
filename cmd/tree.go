package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agentic-research/fieldmap/internal/document"
	"github.com/agentic-research/fieldmap/internal/tree"
	"github.com/spf13/cobra"
)

var treeJSON bool

// unresolvableMark flags path expressions that cannot be used with resolve.
const unresolvableMark = "(not resolvable)"

var treeCmd = &cobra.Command{
	Use:   "tree [document]",
	Short: "Print the node tree of a JSON or YAML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		nodes := tree.Build(doc)
		slog.Debug("built tree", "document", args[0], "roots", len(nodes))

		out := cmd.OutOrStdout()
		if treeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(nodes)
		}
		for _, n := range nodes {
			if _, err := fmt.Fprint(out, n.String()); err != nil {
				return err
			}
		}
		return nil
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths [document]",
	Short: "List the path expression of every selectable value",
	Long: `List the path expression of every selectable value.

Keys that are not plain identifiers produce expressions that resolve
cannot evaluate; those lines end with "(not resolvable)".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		idx := tree.NewIndex(tree.Build(doc))
		out := cmd.OutOrStdout()
		for _, n := range idx.Leaves() {
			line := n.ID + "\t" + tree.Describe(n)
			if !n.Path.Resolvable() {
				line += "\t" + unresolvableMark
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Print nodes as JSON")
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(pathsCmd)
}

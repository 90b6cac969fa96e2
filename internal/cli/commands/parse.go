package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/pkg/wizardql"
)

func NewParseCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expr>",
		Short: "Parse and validate a filter and print its tree",
		Long: `Parse and validate a filter and print its tree.

Conditions checked against the constraints file are marked (validated).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, g)
			e, err := parseExpr(g, f, exprText(args))
			if err != nil {
				return err
			}
			if e == nil {
				return f.Success("(empty)", nil)
			}
			var b strings.Builder
			writeTree(&b, e, 0)
			return f.Success(b.String(), e)
		},
	}
}

func writeTree(b *strings.Builder, e wizardql.Expression, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := e.(type) {
	case wizardql.Group:
		fmt.Fprintf(b, "%s%s\n", indent, x.Operation)
		for _, c := range x.Constituents {
			writeTree(b, c, depth+1)
		}
	case wizardql.Condition:
		line := wizardql.Stringify(x, wizardql.StringifyOptions{})
		if x.Validated {
			line += "  (validated)"
		}
		fmt.Fprintf(b, "%s%s\n", indent, line)
	}
}

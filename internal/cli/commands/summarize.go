package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/pkg/wizardql"
)

func NewSummarizeCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <expr>...",
		Short: "List the conditions applied to each field",
		Long: `List the conditions applied to each field.

Every argument is a separate filter. Fields appear in the order they are
first seen; exclusionary conditions are marked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, g)
			exprs := make([]wizardql.Expression, 0, len(args))
			for _, text := range args {
				e, err := parseExpr(g, f, text)
				if err != nil {
					return err
				}
				exprs = append(exprs, e)
			}
			s := wizardql.Summarize(exprs...)

			var b strings.Builder
			for _, field := range s.Fields() {
				fmt.Fprintln(&b, field)
				for _, v := range s.Values(field) {
					fmt.Fprintf(&b, "  %s %s", v.Operation, v.Value)
					if v.Exclusionary {
						b.WriteString("  (exclusionary)")
					}
					b.WriteByte('\n')
				}
			}
			return f.Success(b.String(), s)
		},
	}
}

package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/pkg/wizardql"
	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

type tokenView struct {
	Index   int              `json:"index"`
	Content string           `json:"content"`
	Class   query.TokenClass `json:"class"`
}

func NewTokenizeCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <expr>",
		Short: "Split a filter into classified tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, g)
			tokens := wizardql.Tokenize(exprText(args))

			views := make([]tokenView, len(tokens))
			var b strings.Builder
			tw := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
			for i, t := range tokens {
				views[i] = tokenView{Index: t.Index, Content: t.Content, Class: query.Classify(t)}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", t.Index, views[i].Class, t.Content)
			}
			_ = tw.Flush()
			return f.Success(b.String(), views)
		},
	}
}

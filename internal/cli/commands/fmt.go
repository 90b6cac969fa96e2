package commands

import (
	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/internal/cliutil"
	"github.com/nonibytes/wizardql/pkg/wizardql"
	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

type fmtOptions struct {
	junctions   string
	comparisons string
	compact     bool
	parens      bool
	condense    bool
	complement  bool
}

func NewFmtCommand(g *cliopt.GlobalOptions) *cobra.Command {
	opts := &fmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt <expr>",
		Short: "Print a filter in canonical form",
		Long: `Print a filter in canonical form.

Notations are symbolic (& | = ...), linguistic (AND OR EQUALS ...) or
formal (^ V for junctions).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, g, opts, exprText(args))
		},
	}
	cmd.Flags().StringVar(&opts.junctions, "junctions", "symbolic", "junction notation (symbolic|linguistic|formal)")
	cmd.Flags().StringVar(&opts.comparisons, "comparisons", "symbolic", "comparison notation (symbolic|linguistic|formal)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "omit optional whitespace")
	cmd.Flags().BoolVar(&opts.parens, "parens", false, "parenthesize every nested group")
	cmd.Flags().BoolVar(&opts.condense, "condense", false, "print boolean equalities as bare or negated fields")
	cmd.Flags().BoolVar(&opts.complement, "complement", false, "print the negation of the filter")
	return cmd
}

func runFmt(cmd *cobra.Command, g *cliopt.GlobalOptions, opts *fmtOptions, text string) error {
	f := formatter(cmd, g)
	junctions, err := query.ParseNotation(opts.junctions)
	if err != nil {
		return f.Fail(cliutil.ExitCommandError, cliutil.CodeUsage, err)
	}
	comparisons, err := query.ParseNotation(opts.comparisons)
	if err != nil {
		return f.Fail(cliutil.ExitCommandError, cliutil.CodeUsage, err)
	}

	e, err := parseExpr(g, f, text)
	if err != nil {
		return err
	}
	if opts.complement {
		e = wizardql.Complement(e)
	}
	out := wizardql.Stringify(e, wizardql.StringifyOptions{
		JunctionNotation:   junctions,
		ComparisonNotation: comparisons,
		Compact:            opts.compact,
		AlwaysParenthesize: opts.parens,
		CondenseBooleans:   opts.condense,
	})
	return f.Success(out, map[string]string{"text": out})
}

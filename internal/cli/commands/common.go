package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/internal/cliutil"
	"github.com/nonibytes/wizardql/pkg/wizardql"
)

func formatter(cmd *cobra.Command, g *cliopt.GlobalOptions) *cliutil.OutputFormatter {
	return &cliutil.OutputFormatter{
		Format:    g.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   g.Verbose,
	}
}

// exprText joins the positional arguments so unquoted filters work too.
func exprText(args []string) string {
	return strings.Join(args, " ")
}

// parseExpr loads the configured constraints and parses text. Failures are
// reported through f.
func parseExpr(g *cliopt.GlobalOptions, f *cliutil.OutputFormatter, text string) (wizardql.Expression, error) {
	c, err := cliutil.ResolveConstraints(*g)
	if err != nil {
		return nil, f.Fail(cliutil.ExitCommandError, cliutil.CodeInput, err)
	}
	e, err := wizardql.Parse(text, c)
	if err != nil {
		return nil, f.FailQuery(text, err)
	}
	return e, nil
}

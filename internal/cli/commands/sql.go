package commands

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/internal/cliutil"
	"github.com/nonibytes/wizardql/pkg/wizardql"
	"github.com/nonibytes/wizardql/pkg/wizardql/sqlfilter"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
)

type sqlView struct {
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args"`
}

func NewSQLCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var dialect string
	var columns map[string]string
	cmd := &cobra.Command{
		Use:   "sql <expr>",
		Short: "Compile a filter into a parameterized WHERE clause",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, g)
			d, err := resolveDialect(g, dialect)
			if err != nil {
				return f.Fail(cliutil.ExitCommandError, cliutil.CodeUsage, err)
			}
			e, err := parseExpr(g, f, exprText(args))
			if err != nil {
				return err
			}
			frag, err := sqlfilter.CompileWith(e, sqlfilter.Options{Dialect: d, Columns: columnMap(columns)})
			if err != nil {
				return failCompile(f, err)
			}

			view := sqlView{Dialect: d.String(), SQL: frag.SQL, Args: frag.Args}
			if view.Args == nil {
				view.Args = []any{}
			}
			argsJSON, err := json.Marshal(view.Args)
			if err != nil {
				return f.Fail(cliutil.ExitCommandError, cliutil.CodeInput, err)
			}
			return f.Success(frag.SQL+"\nargs: "+string(argsJSON), view)
		},
	}
	cmd.Flags().StringVar(&dialect, "dialect", "", "sqlite|postgres (default: the --backend dialect)")
	cmd.Flags().StringToStringVarP(&columns, "column", "m", nil, "map field=column; fields not mapped are rejected")
	return cmd
}

// resolveDialect prefers an explicit --dialect over the global backend.
func resolveDialect(g *cliopt.GlobalOptions, flag string) (wizardql.Dialect, error) {
	if flag != "" {
		return sqlfilter.ParseDialect(flag)
	}
	b, err := storage.ParseBackend(g.Backend)
	if err != nil {
		return 0, err
	}
	return sqlfilter.DialectFor(b), nil
}

func columnMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

func failCompile(f *cliutil.OutputFormatter, err error) error {
	if errors.Is(err, sqlfilter.ErrUnknownField) {
		return f.Fail(cliutil.ExitFailure, cliutil.CodeConstraint, err)
	}
	return f.Fail(cliutil.ExitCommandError, cliutil.CodeInput, err)
}

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/internal/cliutil"
	"github.com/nonibytes/wizardql/pkg/wizardql"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
)

type selectView struct {
	Count int              `json:"count"`
	Rows  []map[string]any `json:"rows"`
}

func NewSelectCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var table string
	var columns map[string]string
	cmd := &cobra.Command{
		Use:   "select <expr> --table <name>",
		Short: "Run a filter against a database table",
		Long: `Run a filter against a database table.

The backend is chosen with --backend. Rows are printed as JSON lines.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, g)
			opts := wizardql.OpenOptionsFromCLI(*g)
			if b, _ := storage.ParseBackend(opts.Backend); b == storage.BackendSQLite && opts.SQLitePath == "" {
				return f.Fail(cliutil.ExitCommandError, cliutil.CodeUsage, errors.New("select needs --sqlite-path"))
			}
			e, err := parseExpr(g, f, exprText(args))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := wizardql.Open(ctx, opts)
			if err != nil {
				return f.Fail(cliutil.ExitCommandError, cliutil.CodeBackend, err)
			}
			defer client.Close()

			cols := columnMap(columns)
			if g.Verbose {
				frag, err := client.Compile(e, cols)
				if err == nil {
					f.VerboseLog("%s %v", frag.SQL, frag.Args)
				}
			}
			rows, err := client.Select(ctx, table, e, cols)
			if err != nil {
				if errors.Is(err, wizardql.ErrUnknownField) {
					return failCompile(f, err)
				}
				return f.Fail(cliutil.ExitCommandError, cliutil.CodeBackend, err)
			}

			if f.JSON() {
				return f.Success("", selectView{Count: len(rows), Rows: rows})
			}
			var b strings.Builder
			for _, row := range rows {
				line, err := json.Marshal(row)
				if err != nil {
					return f.Fail(cliutil.ExitCommandError, cliutil.CodeBackend, err)
				}
				fmt.Fprintf(&b, "%s\n", line)
			}
			return f.Success(b.String(), nil)
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "table to query")
	cmd.Flags().StringToStringVarP(&columns, "column", "m", nil, "map field=column; fields not mapped are rejected")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

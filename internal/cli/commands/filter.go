package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/internal/cliutil"
	"github.com/nonibytes/wizardql/pkg/wizardql/match"
)

type filterView struct {
	Scanned int               `json:"scanned"`
	Matched int               `json:"matched"`
	Records []json.RawMessage `json:"records"`
}

func NewFilterCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <expr>",
		Short: "Print the JSON lines from stdin that match a filter",
		Long: `Print the JSON lines from stdin that match a filter.

Each input line must be a JSON object. Missing fields fail positive
comparisons and pass negative ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, g)
			e, err := parseExpr(g, f, exprText(args))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cliutil.NewWriter(ctx, cmd.OutOrStdout())
			m := match.New()
			view := filterView{Records: []json.RawMessage{}}

			err = cliutil.ScanLines(ctx, cmd.InOrStdin(), func(n int, line []byte) error {
				view.Scanned++
				var record map[string]any
				if err := json.Unmarshal(line, &record); err != nil {
					return fmt.Errorf("line %d: %w", n, err)
				}
				ok, err := m.Match(e, record)
				if err != nil {
					return fmt.Errorf("line %d: %w", n, err)
				}
				if !ok {
					return nil
				}
				view.Matched++
				if f.JSON() {
					view.Records = append(view.Records, append(json.RawMessage(nil), line...))
					return nil
				}
				_, err = fmt.Fprintf(out, "%s\n", line)
				return err
			})
			if err != nil {
				return f.Fail(cliutil.ExitCommandError, cliutil.CodeInput, err)
			}
			f.VerboseLog("matched %d of %d records", view.Matched, view.Scanned)
			if f.JSON() {
				return f.Success("", view)
			}
			return nil
		},
	}
}

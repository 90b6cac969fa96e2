package cliutil

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/dolmen-go/contextio"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/pkg/wizardql/query"
	"github.com/nonibytes/wizardql/pkg/wizardql/schema"
)

const maxLine = 16 << 20

// ScanLines calls fn with every non-blank line of r. Reading stops when ctx is
// cancelled.
func ScanLines(ctx context.Context, r io.Reader, fn func(n int, line []byte) error) error {
	sc := bufio.NewScanner(contextio.NewReader(ctx, r))
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	n := 0
	for sc.Scan() {
		n++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// NewWriter returns a writer that fails once ctx is cancelled.
func NewWriter(ctx context.Context, w io.Writer) io.Writer {
	return contextio.NewWriter(ctx, w)
}

// ResolveConstraints loads the --constraints file and applies --dates. It
// returns nil when neither is set.
func ResolveConstraints(g cliopt.GlobalOptions) (*query.Constraints, error) {
	var c *query.Constraints
	if g.Constraints != "" {
		loaded, err := schema.LoadConstraints(g.Constraints)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	if g.InterpretDates {
		if c == nil {
			c = &query.Constraints{}
		}
		c.InterpretDates = true
	}
	return c, nil
}

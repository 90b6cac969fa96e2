package wizardql_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/pkg/wizardql"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
)

func TestFacadeRoundTrip(t *testing.T) {
	e, err := wizardql.Parse("status = open & (priority >= 3 | tags : [urgent, blocker]) & !archived", nil)
	require.NoError(t, err)

	assert.Equal(t,
		"status = open & (priority >= 3 | tags : [urgent, blocker]) & archived = false",
		wizardql.Stringify(e, wizardql.StringifyOptions{}))
	assert.Equal(t,
		"status != open | priority < 3 & tags !: [urgent, blocker] | archived != false",
		wizardql.Stringify(wizardql.Complement(e), wizardql.StringifyOptions{}))

	s := wizardql.Summarize(e)
	assert.Equal(t, []string{"status", "priority", "tags", "archived"}, s.Fields())

	ok, err := wizardql.Match(e, map[string]any{"status": "open", "priority": 5, "archived": false})
	require.NoError(t, err)
	assert.True(t, ok)

	frag, err := wizardql.ToSQL(e, wizardql.DialectPostgres)
	require.NoError(t, err)
	assert.Equal(t, `"status" = $1 AND ("priority" >= $2 OR "tags" IN ($3, $4)) AND "archived" = $5`, frag.SQL)
}

func TestFacadeErrors(t *testing.T) {
	_, err := wizardql.Parse("a = = 1", nil)
	assert.True(t, wizardql.IsSyntaxError(err))
	assert.False(t, wizardql.IsConstraintError(err))

	_, err = wizardql.Parse("a > word", nil)
	assert.True(t, wizardql.IsConstraintError(err))
	assert.True(t, wizardql.IsKind(err, wizardql.ErrConstraint))
	perr, ok := wizardql.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "a", perr.Field)
}

func TestFacadeLoadConstraints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fields":{"level":{"type":"string","allow":["low","high"]}}}`), 0o600))
	c, err := wizardql.LoadConstraints(path)
	require.NoError(t, err)

	_, err = wizardql.Parse("level = mid", c)
	assert.True(t, wizardql.IsConstraintError(err))

	tokens := wizardql.Tokenize("level = high")
	e, err := wizardql.ParseTokens(tokens, c)
	require.NoError(t, err)
	assert.True(t, e.(wizardql.Condition).Validated)
}

func TestOpenOptions(t *testing.T) {
	g := cliopt.GlobalOptions{Backend: "pg", PostgresDSN: "postgres://u@localhost/db", PostgresSchema: "app"}
	opts := wizardql.OpenOptionsFromCLI(g)
	a, err := opts.Adapter()
	require.NoError(t, err)
	assert.Equal(t, storage.BackendPostgres, a.Backend())

	_, err = wizardql.OpenOptions{Backend: "postgres"}.Adapter()
	assert.Error(t, err)

	_, err = wizardql.OpenOptions{Backend: "redis"}.Adapter()
	assert.Error(t, err)

	_, err = wizardql.OpenOptions{SQLiteDriver: "odbc"}.Adapter()
	assert.Error(t, err)
}

func TestOpenSQLiteAndSelect(t *testing.T) {
	ctx := context.Background()
	client, err := wizardql.Open(ctx, wizardql.OpenOptions{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "t.db")})
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, wizardql.DialectSQLite, client.Dialect())

	_, err = client.DB().ExecContext(ctx, `CREATE TABLE items (name TEXT, qty INTEGER)`)
	require.NoError(t, err)
	_, err = client.DB().ExecContext(ctx, `INSERT INTO items VALUES ('bolt', 10), ('nut', 0), ('Bracket', 4)`)
	require.NoError(t, err)

	e, err := wizardql.Parse("qty > 0 & name ~ b", nil)
	require.NoError(t, err)
	rows, err := client.Select(ctx, "items", e, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bolt", rows[0]["name"])
	assert.Equal(t, "Bracket", rows[1]["name"])

	_, err = client.Select(ctx, "items", e, map[string]string{"qty": "qty"})
	assert.ErrorIs(t, err, wizardql.ErrUnknownField)
}

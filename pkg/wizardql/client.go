package wizardql

import (
	"context"
	"database/sql"

	"github.com/nonibytes/wizardql/pkg/wizardql/sqlfilter"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
)

// Client runs filters against a connected database.
type Client struct {
	adapter storage.Adapter
	db      *sql.DB
}

func NewClient(a storage.Adapter, db *sql.DB) *Client { return &Client{adapter: a, db: db} }

func (c *Client) DB() *sql.DB { return c.db }

func (c *Client) Dialect() Dialect { return sqlfilter.DialectFor(c.adapter.Backend()) }

// Compile renders e in the client's dialect. A non-nil columns map restricts
// the fields e may reference.
func (c *Client) Compile(e Expression, columns map[string]string) (Fragment, error) {
	return sqlfilter.CompileWith(e, sqlfilter.Options{Dialect: c.Dialect(), Columns: columns})
}

// Select returns the rows of table matching e.
func (c *Client) Select(ctx context.Context, table string, e Expression, columns map[string]string) ([]map[string]any, error) {
	return sqlfilter.Where(ctx, c.db, table, e, sqlfilter.Options{Dialect: c.Dialect(), Columns: columns})
}

func (c *Client) Close() error {
	err := c.db.Close()
	if aerr := c.adapter.Close(); err == nil {
		err = aerr
	}
	return err
}

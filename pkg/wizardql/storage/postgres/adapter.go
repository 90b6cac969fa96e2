// Package postgres connects to PostgreSQL through pgx's database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlbuilder"
)

type Adapter struct {
	DSN string
	// Schema, when set, is placed first on the search_path.
	Schema string
}

func New(dsn, schema string) *Adapter {
	return &Adapter{DSN: dsn, Schema: schema}
}

func (a *Adapter) Backend() storage.Backend { return storage.BackendPostgres }

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle { return sqlbuilder.PlaceholderDollar }

func (a *Adapter) Close() error { return nil }

var schemaNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (a *Adapter) config() (*pgx.ConnConfig, error) {
	if a.DSN == "" {
		return nil, fmt.Errorf("postgres: empty DSN")
	}
	cfg, err := pgx.ParseConfig(a.DSN)
	if err != nil {
		return nil, err
	}
	if a.Schema != "" {
		if !schemaNameRe.MatchString(a.Schema) {
			return nil, fmt.Errorf("invalid postgres schema name %q (must match %s)", a.Schema, schemaNameRe.String())
		}
		if cfg.RuntimeParams == nil {
			cfg.RuntimeParams = make(map[string]string)
		}
		cfg.RuntimeParams["search_path"] = sqlbuilder.QuoteIdent(a.Schema) + ",public"
	}
	return cfg, nil
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Debug("postgres connected", "host", cfg.Host, "database", cfg.Database, "schema", a.Schema)
	return db, nil
}

// Package storage defines the database connectors that compiled filters run
// against.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// ParseBackend accepts "sqlite", "postgres" and the "pg" shorthand.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "sqlite":
		return BackendSQLite, nil
	case "postgres", "pg":
		return BackendPostgres, nil
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// Adapter abstracts database-specific connection handling.
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error
}

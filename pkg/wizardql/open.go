package wizardql

import (
	"context"
	"fmt"

	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/postgres"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlite"
)

type OpenOptions struct {
	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string
}

// OpenOptionsFromCLI converts CLI global flags into library open options.
func OpenOptionsFromCLI(g cliopt.GlobalOptions) OpenOptions {
	return OpenOptions{
		Backend:        g.Backend,
		SQLitePath:     g.SQLitePath,
		SQLiteDriver:   g.SQLiteDriver,
		PostgresDSN:    g.PostgresDSN,
		PostgresSchema: g.PostgresSchema,
	}
}

// Adapter builds the storage adapter named by opts without connecting.
func (opts OpenOptions) Adapter() (storage.Adapter, error) {
	backend, err := storage.ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}
	switch backend {
	case storage.BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend requires a DSN")
		}
		return postgres.New(opts.PostgresDSN, opts.PostgresSchema), nil
	default:
		driver, err := sqlite.ParseDriver(opts.SQLiteDriver)
		if err != nil {
			return nil, err
		}
		return sqlite.NewWithDriver(opts.SQLitePath, driver), nil
	}
}

// Open selects a backend implementation and connects to it.
func Open(ctx context.Context, opts OpenOptions) (*Client, error) {
	a, err := opts.Adapter()
	if err != nil {
		return nil, err
	}
	db, err := a.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", a.Backend(), err)
	}
	return NewClient(a, db), nil
}

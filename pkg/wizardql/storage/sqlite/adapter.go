// Package sqlite connects to SQLite through the pure Go modernc driver or,
// in cgo builds, through mattn/go-sqlite3. Both connections provide the
// regexp() function behind the REGEXP operator.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlbuilder"
)

const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3-wizardql"
)

// ParseDriver maps a user facing driver name to a registered driver.
func ParseDriver(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "modernc", "sqlite":
		return DriverModernc, nil
	case "mattn", "sqlite3", "cgo":
		return DriverMattn, nil
	}
	return "", fmt.Errorf("unknown sqlite driver %q", name)
}

type Adapter struct {
	// Path is a database file. Empty or ":memory:" opens a private in-memory
	// database.
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DriverModernc}
}

func NewWithDriver(path, driver string) *Adapter {
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	return sqlbuilder.PlaceholderQuestion
}

func (a *Adapter) inMemory() bool {
	return a.Path == "" || a.Path == ":memory:"
}

func (a *Adapter) dsn() string {
	dsn := a.Path
	if a.inMemory() {
		dsn = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	}
	params := "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if a.DriverName == DriverMattn {
		params = "_busy_timeout=5000&_foreign_keys=on"
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	driver := a.DriverName
	if driver == "" {
		driver = DriverModernc
	}
	switch driver {
	case DriverModernc:
		if err := registerModernc(); err != nil {
			return nil, err
		}
	case DriverMattn:
		if !mattnAvailable() {
			return nil, fmt.Errorf("sqlite driver %s requires a cgo build", driver)
		}
	}

	dsn := a.dsn()
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if a.inMemory() {
		// the database lives as long as its last connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Debug("sqlite connected", "driver", driver, "dsn", dsn)
	return db, nil
}

func (a *Adapter) Close() error {
	return nil
}

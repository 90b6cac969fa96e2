package sqlfilter

import (
	"fmt"
	"strings"

	"github.com/nonibytes/wizardql/pkg/wizardql/storage"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlbuilder"
)

type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	}
	return 0, fmt.Errorf("unknown SQL dialect %q", s)
}

// DialectFor returns the dialect spoken by a storage backend.
func DialectFor(b storage.Backend) Dialect {
	if b == storage.BackendPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}

func (d Dialect) placeholders() sqlbuilder.PlaceholderStyle {
	if d == DialectPostgres {
		return sqlbuilder.PlaceholderDollar
	}
	return sqlbuilder.PlaceholderQuestion
}

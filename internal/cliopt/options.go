package cliopt

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// EnvPostgresDSN supplies --pg-dsn when the flag is not given.
const EnvPostgresDSN = "WIZARDQL_PG_DSN"

// ValidFormats are the accepted --format values.
var ValidFormats = []string{"text", "json"}

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
// They mirror wizardql.OpenOptions plus output and parsing flags.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command and per-command code.
type GlobalOptions struct {
	Format  string
	Verbose bool

	Constraints    string
	InterpretDates bool

	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Format:       "text",
		Backend:      "sqlite",
		SQLiteDriver: "modernc",
		PostgresDSN:  os.Getenv(EnvPostgresDSN),
	}
}

func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.Format, "format", g.Format, "output format (json|text)")
	fs.BoolVarP(&g.Verbose, "verbose", "v", g.Verbose, "verbose output")

	fs.StringVarP(&g.Constraints, "constraints", "c", g.Constraints, "constraints file (.json, .yaml or .cue)")
	fs.BoolVar(&g.InterpretDates, "dates", g.InterpretDates, "interpret date-like values as dates")

	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: sqlite|postgres")
	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite database file")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: modernc|mattn")
	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN (default $"+EnvPostgresDSN+")")
	fs.StringVar(&g.PostgresSchema, "pg-schema", g.PostgresSchema, "postgres schema placed first on the search_path")
}

// Validate checks the values that do not depend on the chosen command.
func (g GlobalOptions) Validate() error {
	for _, f := range ValidFormats {
		if f == g.Format {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %v", g.Format, ValidFormats)
}

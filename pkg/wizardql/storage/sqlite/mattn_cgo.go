//go:build cgo

package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

func init() {
	sql.Register(DriverMattn, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("regexp", matchValue, true)
		},
	})
}

func mattnAvailable() bool { return true }

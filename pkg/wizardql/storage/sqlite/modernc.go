package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"

	msqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerModernc installs regexp() for every modernc connection opened
// afterwards.
func registerModernc() error {
	registerOnce.Do(func() {
		registerErr = msqlite.RegisterDeterministicScalarFunction("regexp", 2,
			func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				pattern, ok := args[0].(string)
				if !ok {
					return nil, fmt.Errorf("regexp: pattern must be text, got %T", args[0])
				}
				matched, err := matchValue(pattern, args[1])
				if err != nil {
					return nil, err
				}
				if matched {
					return int64(1), nil
				}
				return int64(0), nil
			})
	})
	return registerErr
}

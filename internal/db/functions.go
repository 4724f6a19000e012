package db

import (
	"database/sql/driver"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
)

// SQLite's LOWER only folds ASCII, so "SÃO" would never match "são".
// unicode_lower folds with Go's Unicode tables instead.
func init() {
	if err := sqlitedrv.RegisterDeterministicScalarFunction("unicode_lower", 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("register unicode_lower: %v", err))
	}
}

func unicodeLower(_ *sqlitedrv.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

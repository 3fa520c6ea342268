package iodb

import (
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for database connection failures.
func ConnectionError(
	host string, port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL

<em>Host:</em> %s:%d
<em>Database:</em> %s
<em>User:</em> %s

<em>Possible causes:</em>
  - PostgreSQL server is not running
  - Wrong host, port, user or password
  - Database does not exist

<em>How to fix:</em>
  1. Check that PostgreSQL is running
  2. Verify connection settings in config.yaml or CLADEDB_DATABASE_* env vars
  3. Create the database if missing: createdb %s`

	vars := []any{host, port, database, user, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to connect to database: %w", err),
	}
}

// NotConnectedError creates an error for operations attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError creates an error for table existence
// check failures.
func TableExistsCheckError(tableName string, err error) error {
	msg := `Failed to check if table <em>%s</em> exists`
	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table existence check failed: %w", err),
	}
}

// QueryTablesError creates an error for failures listing tables.
func QueryTablesError(err error) error {
	msg := "Failed to query tables in public schema"

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError creates an error for table name scan failures.
func ScanTableError(err error) error {
	msg := "Failed to read table name from query result"

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError creates an error for table drop failures.
func DropTableError(tableName string, err error) error {
	msg := `Failed to drop table <em>%s</em>`
	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", tableName, err),
	}
}

package ioschema

import (
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for schema operations attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM connection failures.
func GORMConnectionError(err error) error {
	msg := "Failed to initialize GORM over the pgx connection pool"

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("gorm connection failed: %w", err),
	}
}

// CreateSchemaError creates an error for AutoMigrate failures.
func CreateSchemaError(err error) error {
	msg := `Failed to create or update database schema

<em>Possible causes:</em>
  - Insufficient database privileges
  - Conflicting manual schema changes

<em>How to fix:</em>
  1. Verify the database user can create tables and indexes
  2. Inspect the wrapped error for the failing statement`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("schema migration failed: %w", err),
	}
}

// IndexError creates an error for partial index creation failures.
func IndexError(err error) error {
	msg := "Failed to create partial unique index on ott_id"

	return &gn.Error{
		Code: errcode.SchemaIndexError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("index creation failed: %w", err),
	}
}

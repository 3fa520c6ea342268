package db

import (
	"context"

	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// for high-level lifecycle components (SchemaManager, Ingestor, Enricher)
// to execute their specialized SQL operations internally.
//
// Design rationale:
//   - Keeps interface minimal to avoid bloat with mixed semantics
//   - Pool() enables components to use transactions and bulk operations
//   - Schema creation and migration are handled by GORM AutoMigrate via
//     SchemaManager
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for high-level components
	// to execute specialized SQL operations. Components use this for
	// transactions, bulk inserts, and custom queries.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}

// Package ioschema implements the lifecycle.SchemaManager interface
// for database schema management. This is an impure I/O package that
// wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/cladecanvas/cladedb/pkg/db"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/cladecanvas/cladedb/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate,
// then applies the partial unique indexes GORM cannot express.
func (m *manager) Create(ctx context.Context) error {
	return m.migrate(ctx)
}

// Migrate updates the database schema to the latest version using
// GORM AutoMigrate. AutoMigrate only adds, never drops, so this is
// safe on a populated database.
func (m *manager) Migrate(ctx context.Context) error {
	return m.migrate(ctx)
}

func (m *manager) migrate(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	return m.createPartialIndexes(ctx)
}

// createPartialIndexes applies ott_id uniqueness where not null.
// Synthetic MRCA nodes all carry a null ott_id, so a plain unique
// index would reject them.
func (m *manager) createPartialIndexes(ctx context.Context) error {
	pool := m.operator.Pool()
	for _, ddl := range schema.PartialIndexDDL() {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return IndexError(err)
		}
	}
	return nil
}

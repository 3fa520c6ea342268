// Package lifecycle defines the contracts for the phases of the CladeDB
// database lifecycle: schema management, topology ingestion, metadata
// enrichment, and wrong-metadata requeue. Implementations live in
// internal/io* packages.
package lifecycle

import (
	"context"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations, plus raw DDL for the partial unique indexes that GORM
// cannot express. Schema management is idempotent - safe to run
// multiple times.
type SchemaManager interface {
	// Create creates the initial database schema.
	Create(ctx context.Context) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context) error
}

// Ingestor imports the tree topology into the nodes table.
type Ingestor interface {
	// Ingest fetches the synthesis subtree of the configured root clade
	// from the Open Tree of Life API, wave by wave, and upserts the
	// flattened nodes.
	Ingest(ctx context.Context) error

	// LoadCSV upserts nodes from a previously exported CSV snapshot
	// with columns node_id, ott_id, name, parent_node_id, num_tips.
	LoadCSV(ctx context.Context, path string) error
}

// Enricher runs the metadata enrichment pipeline: select un-enriched
// nodes, resolve them against the external knowledge base, extract
// descriptive metadata and merge it into the metadata table.
type Enricher interface {
	// Run executes the optional priority pass, then the configured
	// number of concurrent workers until their loop budgets are spent
	// or no un-enriched nodes remain.
	Run(ctx context.Context) error
}

// Requeuer finds nodes whose metadata was resolved to the wrong
// external entity and re-enriches them.
type Requeuer interface {
	// Requeue detects suspicious metadata rows and re-enriches them.
	// Returns the number of rows replaced.
	Requeue(ctx context.Context) (int, error)
}

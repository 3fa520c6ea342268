package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Node{},
		&Metadata{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// PartialIndexDDL returns index statements GORM cannot express:
// ott_id is unique only where it is not null, because synthetic MRCA
// nodes all carry a null ott_id.
func PartialIndexDDL() []string {
	return []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ix_nodes_ott_id
		   ON nodes (ott_id) WHERE ott_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ix_metadata_ott_id
		   ON metadata (ott_id) WHERE ott_id IS NOT NULL`,
	}
}

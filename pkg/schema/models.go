// Package schema provides database schema models for CladeDB.
// Models are aligned with the CladeCanvas browser for API compatibility.
package schema

import (
	"database/sql"
	"time"
)

// Node is one taxon or synthetic clade in the tree of life.
//
// The parent chain from any node terminates at the single root node
// (null parent) without cycles. Only the enrichment merge path mutates
// rank and has_metadata; display_name is set by a separate alias
// discovery process and only when currently unset.
type Node struct {
	// ID is the Open Tree node identifier, e.g. "ott691846" or
	// "mrcaott354607ott374748" for synthetic MRCA nodes.
	ID string `gorm:"column:node_id;primaryKey;type:text"`

	// OttID is the stable Open Tree taxonomy id. NULL for synthetic
	// nodes that exist only in the resolved tree. Unique where not
	// null (partial index, see PartialIndexDDL).
	OttID sql.NullInt64 `gorm:"column:ott_id"`

	// Name is the scientific name as delivered by the synthesis API.
	// May carry annotations like "Aus (genus) sp. BOLD:AAB1234".
	Name string `gorm:"column:name;type:text;not null"`

	// ParentNodeID is NULL only for the tree root.
	ParentNodeID sql.NullString `gorm:"column:parent_node_id;type:text;index"`

	// Rank is the taxonomic rank label, filled in by enrichment.
	Rank sql.NullString `gorm:"column:rank;type:text"`

	// ChildCount is the number of direct children.
	ChildCount int `gorm:"column:child_count"`

	// HasMetadata is true once an enrichment record exists for the node.
	HasMetadata bool `gorm:"column:has_metadata;not null;default:false"`

	// NumTips is the number of descendant tips in the synthesis tree.
	// NULL for taxonomy-only nodes not placed in the resolved tree.
	NumTips sql.NullInt64 `gorm:"column:num_tips;index"`

	// DisplayName is a human-assigned alias distinct from the raw
	// scientific name.
	DisplayName sql.NullString `gorm:"column:display_name;type:text"`
}

// TableName returns the PostgreSQL table name for Node.
func (Node) TableName() string { return "nodes" }

// Metadata is the enrichment record for exactly one node.
//
// Rows are created or fully replaced by the enrichment merge path;
// they are never patched field by field anywhere else.
type Metadata struct {
	// NodeID ties the record one-to-one to a Node.
	NodeID string `gorm:"column:node_id;primaryKey;type:text"`

	// OttID duplicates the node's taxonomy id for direct lookups.
	// Unique where not null (partial index, see PartialIndexDDL).
	OttID sql.NullInt64 `gorm:"column:ott_id"`

	// WikidataQ is the matched Wikidata entity id, e.g. "Q5173".
	WikidataQ sql.NullString `gorm:"column:wikidata_q;type:text"`

	// CommonName is the entity label, often an English vernacular name.
	CommonName sql.NullString `gorm:"column:common_name;type:text"`

	// Description is the short Wikidata description.
	Description sql.NullString `gorm:"column:description;type:text"`

	// FullDescription is the whitespace-collapsed lead section of the
	// linked Wikipedia article.
	FullDescription sql.NullString `gorm:"column:full_description;type:text"`

	// ImageURL points at the Wikidata P18 image.
	ImageURL sql.NullString `gorm:"column:image_url;type:text"`

	// ImageThumb currently duplicates ImageURL.
	ImageThumb sql.NullString `gorm:"column:image_thumb;type:text"`

	// WikiPageURL is the canonical Wikipedia article URL.
	WikiPageURL sql.NullString `gorm:"column:wiki_page_url;type:text"`

	// LastUpdated is the time of the last enrichment merge.
	LastUpdated time.Time `gorm:"column:last_updated"`

	// EnrichedScore is 1.0 when FullDescription or ImageURL is present,
	// 0.0 otherwise. Always one of the two values, never graded.
	EnrichedScore float64 `gorm:"column:enriched_score"`

	// Node creates the foreign key constraint to the nodes table.
	Node *Node `gorm:"foreignKey:NodeID;references:ID"`
}

// TableName returns the PostgreSQL table name for Metadata.
func (Metadata) TableName() string { return "metadata" }

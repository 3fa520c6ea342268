// Package enrich holds the pure domain types and logic of the metadata
// enrichment pipeline: resolver and extractor contracts, candidate and
// record shapes, deduplication and completeness scoring. Everything
// here is free of I/O; the impure implementations live in
// internal/iowikidata and internal/ioenrich.
package enrich

import (
	"context"
	"database/sql"
	"time"

	"github.com/cladecanvas/cladedb/pkg/nameclean"
)

// Node is the resolver's batch input: one taxon node as selected by
// the scheduler. OttID is null for synthetic MRCA nodes.
type Node struct {
	NodeID string
	OttID  sql.NullInt64
	Name   string
}

// Candidate is a successful resolution of one node to one external
// entity, before metadata extraction.
type Candidate struct {
	NodeID string
	OttID  sql.NullInt64

	// EntityID is the Wikidata item id, e.g. "Q5173".
	EntityID string

	// Label is the entity's English label, used as the common name.
	Label string

	Description sql.NullString
	ImageURL    sql.NullString
	Rank        sql.NullString
}

// Record is a complete metadata row ready for the merge step.
// Callers must supply complete records: the merge is a full-row
// replace, not a sparse patch.
type Record struct {
	NodeID          string
	OttID           sql.NullInt64
	WikidataQ       string
	CommonName      string
	Description     sql.NullString
	FullDescription sql.NullString
	ImageURL        sql.NullString
	ImageThumb      sql.NullString
	WikiPageURL     sql.NullString
	Rank            sql.NullString
	LastUpdated     time.Time
	EnrichedScore   float64
}

// Miss reasons recorded in the miss log.
const (
	ReasonNoCandidate  = "no candidate found"
	ReasonInformalName = "skipped - informal species name"
)

// Miss is one node that produced no enrichment candidate.
type Miss struct {
	NodeID string `json:"node_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MissSink receives resolution misses for offline follow-up.
// A sink is scoped to one pipeline run and closed by the run's owner;
// the pipeline itself never reads misses back.
type MissSink interface {
	Record(m Miss) error
	Close() error
}

// Resolver matches taxon nodes to external knowledge-base entities.
// The two methods are the two resolution tiers; the pipeline composes
// them, feeding tier-1 misses into tier 2.
type Resolver interface {
	// ResolveByIdentifier issues one bulk query matching the batch's
	// taxonomy ids against the knowledge base's stable cross-reference
	// property. Nodes without a hit are returned as unmatched.
	ResolveByIdentifier(ctx context.Context, batch []Node) (
		matches []Candidate, unmatched []Node, err error)

	// ResolveByName issues a per-node query matching the normalized
	// scientific name, constrained to taxon-like entity classes.
	// First result wins. Callers must pre-filter informal-species
	// names with PartitionFallback; ResolveByName assumes its input
	// is eligible.
	ResolveByName(ctx context.Context, nodes []Node) (
		matches []Candidate, misses []Miss, err error)
}

// Extractor fetches the long-form article text for a resolved entity.
type Extractor interface {
	// Extract returns the whitespace-collapsed lead section of the
	// entity's linked encyclopedia article and the canonical article
	// URL. Both are empty when the entity has no article link; text
	// alone is empty when the article has no extractable lead.
	Extract(ctx context.Context, entityID string) (
		text string, pageURL string, err error)
}

// PartitionFallback splits tier-1 leftovers into nodes eligible for
// name fallback and informal-species skips. The skip is a guard
// against false matches: "Rodentia sp. BX-103" would otherwise match
// the entity for Rodentia itself.
func PartitionFallback(nodes []Node) (eligible []Node, skipped []Miss) {
	for _, n := range nodes {
		if nameclean.HasInformalMarker(n.Name) {
			skipped = append(skipped, Miss{
				NodeID: n.NodeID,
				Name:   n.Name,
				Reason: ReasonInformalName,
			})
			continue
		}
		eligible = append(eligible, n)
	}
	return eligible, skipped
}

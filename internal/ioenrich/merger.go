package ioenrich

import (
	"context"

	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertMetadataSQL = `
INSERT INTO metadata (
  node_id, ott_id, wikidata_q, common_name,
  description, full_description,
  image_url, image_thumb, wiki_page_url,
  last_updated, enriched_score
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (node_id) DO UPDATE SET
  ott_id          = EXCLUDED.ott_id,
  wikidata_q      = EXCLUDED.wikidata_q,
  common_name     = EXCLUDED.common_name,
  description     = EXCLUDED.description,
  full_description = EXCLUDED.full_description,
  image_url       = EXCLUDED.image_url,
  image_thumb     = EXCLUDED.image_thumb,
  wiki_page_url   = EXCLUDED.wiki_page_url,
  last_updated    = EXCLUDED.last_updated,
  enriched_score  = EXCLUDED.enriched_score`

// A re-enriched record overwrites rank even when the new value is
// null. Keeping a stale rank next to fresh metadata would be worse
// than no rank.
const updateNodeSQL = `
UPDATE nodes SET rank = $2, has_metadata = true WHERE node_id = $1`

// MergeRecords writes a deduplicated batch of complete records into
// the metadata table and flips the has_metadata flag on the matching
// nodes. The whole batch is one transaction: either every record
// lands or none does.
func MergeRecords(
	ctx context.Context,
	pool *pgxpool.Pool,
	recs []enrich.Record,
) error {
	recs = enrich.Dedupe(recs)
	if len(recs) == 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return MergeError(err)
	}
	defer tx.Rollback(ctx)

	for _, r := range recs {
		_, err = tx.Exec(ctx, upsertMetadataSQL,
			r.NodeID, r.OttID, r.WikidataQ, r.CommonName,
			r.Description, r.FullDescription,
			r.ImageURL, r.ImageThumb, r.WikiPageURL,
			r.LastUpdated, r.EnrichedScore,
		)
		if err != nil {
			return MergeError(err)
		}

		_, err = tx.Exec(ctx, updateNodeSQL, r.NodeID, r.Rank)
		if err != nil {
			return MergeError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return MergeError(err)
	}
	return nil
}

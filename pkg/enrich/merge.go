package enrich

import (
	"database/sql"
	"time"
)

// NewRecord assembles a complete metadata record from a resolution
// candidate and the extraction result. ImageThumb currently just
// duplicates ImageURL; a thumbnailing step may replace it later.
func NewRecord(c Candidate, text, pageURL string, now time.Time) Record {
	rec := Record{
		NodeID:          c.NodeID,
		OttID:           c.OttID,
		WikidataQ:       c.EntityID,
		CommonName:      c.Label,
		Description:     c.Description,
		FullDescription: nullString(text),
		ImageURL:        c.ImageURL,
		ImageThumb:      c.ImageURL,
		WikiPageURL:     nullString(pageURL),
		Rank:            c.Rank,
		LastUpdated:     now.UTC(),
	}
	rec.EnrichedScore = Score(rec)
	return rec
}

// Score computes the completeness signal of a record: 1.0 when the
// long-form description or the image is present, 0.0 otherwise.
// The score is binary, never graded.
func Score(r Record) float64 {
	if (r.FullDescription.Valid && r.FullDescription.String != "") ||
		(r.ImageURL.Valid && r.ImageURL.String != "") {
		return 1.0
	}
	return 0.0
}

// Dedupe collapses duplicate node identifiers: the record later in
// processing order wins, and the output preserves first-seen order.
// Tier-1 records precede tier-2 records in processing order, so a
// tier-2 duplicate would win; in practice the tiers are disjoint.
func Dedupe(recs []Record) []Record {
	if len(recs) < 2 {
		return recs
	}

	idx := make(map[string]int, len(recs))
	res := make([]Record, 0, len(recs))
	for _, r := range recs {
		if i, ok := idx[r.NodeID]; ok {
			res[i] = r
			continue
		}
		idx[r.NodeID] = len(res)
		res = append(res, r)
	}
	return res
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

package enrich_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestScore_Binary(t *testing.T) {
	tests := []struct {
		msg  string
		rec  enrich.Record
		want float64
	}{
		{"text and image", enrich.Record{
			FullDescription: nullStr("Bilateria are animals."),
			ImageURL:        nullStr("http://example.com/img.jpg"),
		}, 1.0},
		{"text only", enrich.Record{
			FullDescription: nullStr("Bilateria are animals."),
		}, 1.0},
		{"image only", enrich.Record{
			ImageURL: nullStr("http://example.com/img.jpg"),
		}, 1.0},
		{"neither", enrich.Record{
			Description: nullStr("a short description does not count"),
		}, 0.0},
		{"empty strings", enrich.Record{
			FullDescription: nullStr(""),
			ImageURL:        nullStr(""),
		}, 0.0},
	}

	for _, v := range tests {
		assert.Equal(t, v.want, enrich.Score(v.rec), v.msg)
	}
}

func TestNewRecord(t *testing.T) {
	c := enrich.Candidate{
		NodeID:      "ott117569",
		OttID:       sql.NullInt64{Int64: 117569, Valid: true},
		EntityID:    "Q5173",
		Label:       "Bilateria",
		Description: nullStr("large clade of animals"),
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := enrich.NewRecord(
		c, "Bilateria are animals.",
		"https://en.wikipedia.org/wiki/Bilateria", now)

	assert.Equal(t, "ott117569", rec.NodeID)
	assert.Equal(t, "Q5173", rec.WikidataQ)
	assert.Equal(t, "Bilateria", rec.CommonName)
	assert.Equal(t, 1.0, rec.EnrichedScore)
	assert.Equal(t, now, rec.LastUpdated)

	// No text, no image: score drops to zero, URL fields absent.
	rec = enrich.NewRecord(enrich.Candidate{NodeID: "ott999"}, "", "", now)
	assert.Equal(t, 0.0, rec.EnrichedScore)
	assert.False(t, rec.FullDescription.Valid)
	assert.False(t, rec.WikiPageURL.Valid)
}

func TestDedupe_LastWins(t *testing.T) {
	recs := []enrich.Record{
		{NodeID: "a", WikidataQ: "Q1"},
		{NodeID: "b", WikidataQ: "Q2"},
		{NodeID: "a", WikidataQ: "Q3"},
	}

	got := enrich.Dedupe(recs)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].NodeID)
	assert.Equal(t, "Q3", got[0].WikidataQ, "later record wins")
	assert.Equal(t, "b", got[1].NodeID)
}

func TestDedupe_Idempotent(t *testing.T) {
	recs := []enrich.Record{
		{NodeID: "a", WikidataQ: "Q1"},
		{NodeID: "b", WikidataQ: "Q2"},
	}
	once := enrich.Dedupe(recs)
	twice := enrich.Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestPartitionFallback(t *testing.T) {
	nodes := []enrich.Node{
		{NodeID: "ott888", Name: "Rara"},
		{NodeID: "ott77777", Name: "Rodentia sp. BX-103"},
		{NodeID: "mrca1", Name: "Aus sp. BOLD:AAB1234"},
	}

	eligible, skipped := enrich.PartitionFallback(nodes)

	require.Len(t, eligible, 1)
	assert.Equal(t, "ott888", eligible[0].NodeID)

	require.Len(t, skipped, 2)
	for _, m := range skipped {
		assert.Equal(t, enrich.ReasonInformalName, m.Reason)
	}
	assert.Equal(t, "Rodentia sp. BX-103", skipped[0].Name)
}

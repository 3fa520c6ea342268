package ioenrich_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/cladecanvas/cladedb/internal/ioenrich"
	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: true}
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// fakeResolver routes nodes by a fixed identifier map and a fixed
// name map, and counts tier-2 invocations.
type fakeResolver struct {
	byOtt      map[int64]enrich.Candidate
	byName     map[string]enrich.Candidate
	tier2Calls int
	tier2Seen  []enrich.Node
}

func (f *fakeResolver) ResolveByIdentifier(
	_ context.Context, batch []enrich.Node,
) ([]enrich.Candidate, []enrich.Node, error) {
	var matches []enrich.Candidate
	var unmatched []enrich.Node
	for _, n := range batch {
		if n.OttID.Valid {
			if c, ok := f.byOtt[n.OttID.Int64]; ok {
				c.NodeID = n.NodeID
				c.OttID = n.OttID
				matches = append(matches, c)
				continue
			}
		}
		unmatched = append(unmatched, n)
	}
	return matches, unmatched, nil
}

func (f *fakeResolver) ResolveByName(
	_ context.Context, nodes []enrich.Node,
) ([]enrich.Candidate, []enrich.Miss, error) {
	f.tier2Calls++
	f.tier2Seen = append(f.tier2Seen, nodes...)

	var matches []enrich.Candidate
	var misses []enrich.Miss
	for _, n := range nodes {
		if c, ok := f.byName[n.Name]; ok {
			c.NodeID = n.NodeID
			c.OttID = n.OttID
			matches = append(matches, c)
			continue
		}
		misses = append(misses, enrich.Miss{
			NodeID: n.NodeID,
			Name:   n.Name,
			Reason: enrich.ReasonNoCandidate,
		})
	}
	return matches, misses, nil
}

// fakeExtractor returns canned article text per entity id.
type fakeExtractor struct {
	texts map[string]string
	urls  map[string]string
	err   error
}

func (f *fakeExtractor) Extract(
	_ context.Context, entityID string,
) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.texts[entityID], f.urls[entityID], nil
}

// memSink collects misses in memory.
type memSink struct {
	misses []enrich.Miss
}

func (s *memSink) Record(m enrich.Miss) error {
	s.misses = append(s.misses, m)
	return nil
}

func (s *memSink) Close() error { return nil }

func TestEnrichOnce_TierComposition(t *testing.T) {
	resolver := &fakeResolver{
		byOtt: map[int64]enrich.Candidate{
			117569: {
				EntityID: "Q5173",
				Label:    "Bilateria",
				ImageURL: nullStr("http://img/bilateria.jpg"),
			},
		},
		byName: map[string]enrich.Candidate{
			"Rara": {EntityID: "Q888", Label: "Rara"},
		},
	}
	extractor := &fakeExtractor{
		texts: map[string]string{"Q5173": "Bilateria are animals."},
		urls: map[string]string{
			"Q5173": "https://en.wikipedia.org/wiki/Bilateria",
		},
	}
	sink := &memSink{}

	nodes := []enrich.Node{
		{NodeID: "ott117569", OttID: nullInt(117569), Name: "Bilateria"},
		{NodeID: "ott1", OttID: nullInt(1), Name: "Rara"},
		{NodeID: "ott2", OttID: nullInt(2), Name: "Obscurata"},
	}

	recs, err := ioenrich.EnrichOnce(
		context.Background(), resolver, extractor, sink, nodes)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byNode := make(map[string]enrich.Record)
	for _, r := range recs {
		byNode[r.NodeID] = r
	}

	bilateria := byNode["ott117569"]
	assert.Equal(t, "Q5173", bilateria.WikidataQ)
	assert.Equal(t, "Bilateria are animals.",
		bilateria.FullDescription.String)
	assert.Equal(t, 1.0, bilateria.EnrichedScore)

	rara := byNode["ott1"]
	assert.Equal(t, "Q888", rara.WikidataQ)
	assert.Equal(t, 0.0, rara.EnrichedScore)

	require.Len(t, sink.misses, 1)
	assert.Equal(t, "ott2", sink.misses[0].NodeID)
	assert.Equal(t, enrich.ReasonNoCandidate, sink.misses[0].Reason)
}

func TestEnrichOnce_InformalNamesSkipFallback(t *testing.T) {
	resolver := &fakeResolver{}
	extractor := &fakeExtractor{}
	sink := &memSink{}

	nodes := []enrich.Node{
		{NodeID: "ott7", OttID: nullInt(7), Name: "Rodentia sp. BX-103"},
	}

	recs, err := ioenrich.EnrichOnce(
		context.Background(), resolver, extractor, sink, nodes)
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.Zero(t, resolver.tier2Calls,
		"informal names must never reach the name fallback")
	require.Len(t, sink.misses, 1)
	assert.Equal(t, enrich.ReasonInformalName, sink.misses[0].Reason)
}

func TestEnrichOnce_ExtractErrorFailsBatch(t *testing.T) {
	resolver := &fakeResolver{
		byOtt: map[int64]enrich.Candidate{
			5: {
				EntityID: "Q55",
				Label:    "Aves",
				ImageURL: nullStr("http://img/aves.jpg"),
			},
		},
	}
	extractor := &fakeExtractor{
		err: errors.New("connection reset by peer"),
	}
	sink := &memSink{}

	nodes := []enrich.Node{
		{NodeID: "ott5", OttID: nullInt(5), Name: "Aves"},
	}

	recs, err := ioenrich.EnrichOnce(
		context.Background(), resolver, extractor, sink, nodes)

	// A transient extraction failure must fail the whole batch so its
	// nodes stay un-enriched and get selected again on a later pass.
	require.Error(t, err)
	assert.Empty(t, recs)
}

func TestEnrichOnce_EmptyBatch(t *testing.T) {
	recs, err := ioenrich.EnrichOnce(
		context.Background(), &fakeResolver{}, &fakeExtractor{},
		&memSink{}, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

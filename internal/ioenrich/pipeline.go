package ioenrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/cladecanvas/cladedb/pkg/enrich"
)

// EnrichOnce runs one batch of nodes through the resolution and
// extraction stages and returns the complete records ready to merge.
//
// Stage order: bulk identifier resolution first, then the per-node
// name fallback for the leftovers. Informal species names are split
// off before the fallback so they cannot false-match their genus.
// Every node that ends with no candidate is reported to the miss sink.
func EnrichOnce(
	ctx context.Context,
	resolver enrich.Resolver,
	extractor enrich.Extractor,
	sink enrich.MissSink,
	nodes []enrich.Node,
) ([]enrich.Record, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	matches, unmatched, err := resolver.ResolveByIdentifier(ctx, nodes)
	if err != nil {
		return nil, err
	}

	eligible, skipped := enrich.PartitionFallback(unmatched)
	recordMisses(sink, skipped)

	if len(eligible) > 0 {
		fallback, misses, err := resolver.ResolveByName(ctx, eligible)
		if err != nil {
			return nil, err
		}
		matches = append(matches, fallback...)
		recordMisses(sink, misses)
	}

	return extractRecords(ctx, extractor, matches)
}

// extractRecords fetches the article lead for each candidate and
// builds merge-ready records. A failed extraction fails the whole
// batch: nothing is merged, so its nodes stay un-enriched and a later
// pass selects them again.
func extractRecords(
	ctx context.Context,
	extractor enrich.Extractor,
	matches []enrich.Candidate,
) ([]enrich.Record, error) {
	now := time.Now()
	recs := make([]enrich.Record, 0, len(matches))
	for _, c := range matches {
		text, pageURL, err := extractor.Extract(ctx, c.EntityID)
		if err != nil {
			return nil, err
		}
		recs = append(recs, enrich.NewRecord(c, text, pageURL, now))
	}
	return enrich.Dedupe(recs), nil
}

func recordMisses(sink enrich.MissSink, misses []enrich.Miss) {
	if sink == nil {
		return
	}
	for _, m := range misses {
		if err := sink.Record(m); err != nil {
			slog.Warn("cannot record miss",
				"node", m.NodeID,
				"error", err,
			)
		}
	}
}

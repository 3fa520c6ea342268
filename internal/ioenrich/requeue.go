package ioenrich

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/cladecanvas/cladedb/pkg/db"
	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnparser"
)

// requeueChunkSize limits how many nodes go into one re-enrichment
// query against the knowledge base.
const requeueChunkSize = 50

type requeuer struct {
	cfg       *config.Config
	operator  db.Operator
	resolver  enrich.Resolver
	extractor enrich.Extractor
	parser    gnparser.GNparser
}

// NewRequeuer creates a Requeuer that finds metadata rows resolved to
// the wrong external entity and re-enriches them. Wrong rows happen
// when the knowledge base carries duplicate taxonomy-id claims: the
// stored common name is then a different Latin taxon, not a
// vernacular name.
func NewRequeuer(
	cfg *config.Config,
	operator db.Operator,
	resolver enrich.Resolver,
	extractor enrich.Extractor,
) lifecycle.Requeuer {
	return &requeuer{
		cfg:       cfg,
		operator:  operator,
		resolver:  resolver,
		extractor: extractor,
		parser:    gnparser.New(gnparser.NewConfig()),
	}
}

// Requeue detects suspicious metadata rows and re-enriches them in
// chunks. Returns the number of rows replaced.
func (r *requeuer) Requeue(ctx context.Context) (int, error) {
	if r.operator.Pool() == nil {
		return 0, NotConnectedError()
	}

	wrong, err := r.findWrongEntries(ctx)
	if err != nil {
		return 0, err
	}
	if len(wrong) == 0 {
		gn.Info("No wrong-entity metadata found.")
		return 0, nil
	}

	gn.Info("Found <em>%s</em> nodes with wrong Latin-taxon metadata, re-enriching.",
		humanize.Comma(int64(len(wrong))))

	bar := newProgressBar(len(wrong), "Re-enriching: ")
	defer bar.Finish()

	var fixed int
	for _, chunk := range chunkNodes(wrong, requeueChunkSize) {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}

		n, err := r.reEnrichChunk(ctx, chunk)
		if err != nil {
			slog.Warn("requeue chunk failed", "error", err)
		} else {
			fixed += n
		}
		bar.Add(len(chunk))

		// Pause between chunks to respect knowledge-base rate limits.
		select {
		case <-ctx.Done():
			return fixed, ctx.Err()
		case <-time.After(time.Second):
		}
	}

	gn.Info("Replaced <em>%s</em> metadata rows.",
		humanize.Comma(int64(fixed)))
	return fixed, nil
}

// findWrongEntries returns nodes whose metadata common name is a
// different Latin taxon name, largest clades first.
func (r *requeuer) findWrongEntries(
	ctx context.Context,
) ([]enrich.Node, error) {
	const q = `
		SELECT n.node_id, n.ott_id, n.name, m.common_name
		FROM nodes n
		JOIN metadata m ON m.node_id = n.node_id
		WHERE n.ott_id IS NOT NULL
		  AND m.common_name IS NOT NULL
		  AND LOWER(m.common_name) != LOWER(n.name)
		ORDER BY n.num_tips DESC NULLS LAST`

	rows, err := r.operator.Pool().Query(ctx, q)
	if err != nil {
		return nil, RequeueQueryError(err)
	}
	defer rows.Close()

	var wrong []enrich.Node
	for rows.Next() {
		var n enrich.Node
		var common string
		if err := rows.Scan(&n.NodeID, &n.OttID, &n.Name, &common); err != nil {
			return nil, RequeueQueryError(err)
		}
		if IsWrongEntity(r.parser, n.Name, common) {
			wrong = append(wrong, n)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, RequeueQueryError(err)
	}
	return wrong, nil
}

// IsWrongEntity reports whether a stored common name looks like a
// different Latin taxon rather than a vernacular name for the node.
func IsWrongEntity(parser gnparser.GNparser, nodeName, common string) bool {
	if common == "" {
		return false
	}

	// English vernacular names are fine: lowercase or multi-word.
	first := []rune(common)[0]
	if unicode.IsLower(first) || strings.Contains(common, " ") {
		return false
	}

	// Same root means a variant spelling of the node itself, not a
	// wrong entity.
	if commonPrefix(nodeName, common, 5) {
		return false
	}

	parsed := parser.ParseName(common)
	return parsed.Parsed &&
		parsed.Cardinality == 1 &&
		parsed.ParseQuality == 1
}

func commonPrefix(a, b string, n int) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if len(a) > n {
		a = a[:n]
	}
	if len(b) > n {
		b = b[:n]
	}
	return a == b
}

// reEnrichChunk re-resolves a chunk by taxonomy id only and replaces
// the metadata rows. The name fallback is skipped here: it is the
// path that cannot distinguish homonyms and the identifier pass is
// the one that was fixed.
func (r *requeuer) reEnrichChunk(
	ctx context.Context,
	chunk []enrich.Node,
) (int, error) {
	matches, _, err := r.resolver.ResolveByIdentifier(ctx, chunk)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	recs, err := extractRecords(ctx, r.extractor, matches)
	if err != nil {
		return 0, err
	}
	if err = MergeRecords(ctx, r.operator.Pool(), recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

package ioingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/cladecanvas/cladedb/pkg/db"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
)

type ingestor struct {
	cfg      *config.Config
	operator db.Operator
	client   *treeClient
}

// NewIngestor creates an Ingestor that imports the synthesis tree of
// the configured root clade.
func NewIngestor(cfg *config.Config, operator db.Operator) lifecycle.Ingestor {
	return &ingestor{
		cfg:      cfg,
		operator: operator,
		client:   newTreeClient(cfg.Ingest),
	}
}

// Ingest downloads the subtree of the configured root clade wave by
// wave. A wave expands every truncated node discovered by the
// previous wave; ingestion ends when a wave produces an empty
// frontier. Already-upserted nodes survive interruptions, so a rerun
// continues roughly where it stopped.
func (ing *ingestor) Ingest(ctx context.Context) error {
	if ing.operator.Pool() == nil {
		return NotConnectedError()
	}

	start := time.Now()
	rootID := fmt.Sprintf("ott%d", ing.cfg.Ingest.RootOttID)
	gn.Info("Ingesting synthesis subtree of <em>%s</em>.", rootID)

	seen := make(map[string]bool)
	// parents remembers each recorded node's parent so a refetched
	// frontier node keeps its original place in the tree.
	parents := make(map[string]sql.NullString)

	frontier := []string{rootID}
	var total, wave int

	for len(frontier) > 0 {
		wave++
		batch := frontier
		frontier = nil

		slog.Info("expanding wave",
			"wave", wave,
			"nodes", len(batch),
		)

		for _, nodeID := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}

			root, err := ing.client.fetchSubtree(ctx, nodeID)
			if err != nil {
				// Skip this subtree, the next run picks it up again.
				slog.Warn("subtree fetch failed",
					"node", nodeID,
					"error", err,
				)
				continue
			}

			rows, next := flatten(root, parents[nodeID], seen)
			frontier = append(frontier, next...)
			for _, r := range rows {
				parents[r.NodeID] = r.ParentNodeID
			}

			if err = ing.upsertRows(ctx, rows); err != nil {
				return err
			}
			total += len(rows)

			ing.pause(ctx)
		}

		slog.Info("wave done",
			"wave", wave,
			"total", total,
			"frontier", len(frontier),
		)
	}

	if err := ing.recomputeChildCounts(ctx); err != nil {
		return err
	}

	gn.Info("Ingested <em>%s</em> nodes in %s.",
		humanize.Comma(int64(total)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

const upsertNodeSQL = `
INSERT INTO nodes (node_id, ott_id, name, parent_node_id, num_tips)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (node_id) DO UPDATE SET
  parent_node_id = EXCLUDED.parent_node_id,
  name           = EXCLUDED.name,
  num_tips       = EXCLUDED.num_tips`

// upsertRows writes flattened nodes in batches. The conflict branch
// refreshes topology fields but never touches enrichment state.
func (ing *ingestor) upsertRows(ctx context.Context, rows []nodeRow) error {
	pool := ing.operator.Pool()
	size := ing.cfg.Database.BatchSize

	for len(rows) > 0 {
		n := min(size, len(rows))
		chunk := rows[:n]
		rows = rows[n:]

		batch := &pgx.Batch{}
		for _, r := range chunk {
			batch.Queue(upsertNodeSQL,
				r.NodeID, r.OttID, r.Name, r.ParentNodeID, r.NumTips)
		}

		res := pool.SendBatch(ctx, batch)
		for range chunk {
			if _, err := res.Exec(); err != nil {
				res.Close()
				return UpsertError(err)
			}
		}
		if err := res.Close(); err != nil {
			return UpsertError(err)
		}
	}
	return nil
}

// recomputeChildCounts refreshes the denormalized child_count column
// from the parent links.
func (ing *ingestor) recomputeChildCounts(ctx context.Context) error {
	pool := ing.operator.Pool()

	_, err := pool.Exec(ctx, `
		UPDATE nodes n SET child_count = c.cnt
		FROM (
		  SELECT parent_node_id, COUNT(*) AS cnt
		  FROM nodes
		  WHERE parent_node_id IS NOT NULL
		  GROUP BY parent_node_id
		) c
		WHERE n.node_id = c.parent_node_id`)
	if err != nil {
		return UpsertError(err)
	}

	_, err = pool.Exec(ctx, `
		UPDATE nodes n SET child_count = 0
		WHERE child_count != 0
		  AND NOT EXISTS (
		    SELECT 1 FROM nodes ch WHERE ch.parent_node_id = n.node_id
		  )`)
	if err != nil {
		return UpsertError(err)
	}
	return nil
}

// pause waits between API calls so the synthesis server is not
// hammered.
func (ing *ingestor) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(
		time.Duration(ing.cfg.Ingest.PauseMs) * time.Millisecond):
	}
}

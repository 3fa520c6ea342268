// Package ioenrich implements the metadata enrichment pipeline: batch
// scheduling, the resolve-extract-merge loop, concurrent workers and
// the wrong-metadata requeue.
package ioenrich

import (
	"context"

	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Un-enriched means: has an OTT id and no metadata row yet. Synthetic
// MRCA nodes have no stable external identity and are never scheduled.
const unenrichedWhere = `
	WHERE n.ott_id IS NOT NULL
	  AND NOT EXISTS (
	    SELECT 1 FROM metadata m WHERE m.node_id = n.node_id
	  )`

const selectCols = `SELECT n.node_id, n.ott_id, n.name FROM nodes n`

// SelectBatch returns up to limit un-enriched nodes, largest clades
// first. Nodes without a tip count sort last.
func SelectBatch(
	ctx context.Context,
	pool *pgxpool.Pool,
	limit int,
) ([]enrich.Node, error) {
	q := selectCols + unenrichedWhere +
		` ORDER BY n.num_tips DESC NULLS LAST LIMIT $1`
	return selectNodes(ctx, pool, q, limit)
}

// SelectRandomBatch returns up to limit un-enriched nodes in random
// order. Concurrent workers use this so they do not all claim the
// same head of the queue.
func SelectRandomBatch(
	ctx context.Context,
	pool *pgxpool.Pool,
	limit int,
) ([]enrich.Node, error) {
	q := selectCols + unenrichedWhere + ` ORDER BY RANDOM() LIMIT $1`
	return selectNodes(ctx, pool, q, limit)
}

// SelectPriorityBatch returns every un-enriched node with at least
// minTips descendant tips, largest first. The priority pass enriches
// these before the random workers start.
func SelectPriorityBatch(
	ctx context.Context,
	pool *pgxpool.Pool,
	minTips int,
) ([]enrich.Node, error) {
	q := selectCols + unenrichedWhere +
		` AND n.num_tips >= $1 ORDER BY n.num_tips DESC`
	return selectNodes(ctx, pool, q, minTips)
}

func selectNodes(
	ctx context.Context,
	pool *pgxpool.Pool,
	query string,
	arg any,
) ([]enrich.Node, error) {
	rows, err := pool.Query(ctx, query, arg)
	if err != nil {
		return nil, QueryNodesError(err)
	}
	defer rows.Close()

	var res []enrich.Node
	for rows.Next() {
		var n enrich.Node
		if err := rows.Scan(&n.NodeID, &n.OttID, &n.Name); err != nil {
			return nil, QueryNodesError(err)
		}
		res = append(res, n)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryNodesError(err)
	}
	return res, nil
}

// chunkNodes splits nodes into slices of at most size elements.
func chunkNodes(nodes []enrich.Node, size int) [][]enrich.Node {
	if size < 1 {
		size = 1
	}
	var res [][]enrich.Node
	for len(nodes) > size {
		res = append(res, nodes[:size])
		nodes = nodes[size:]
	}
	if len(nodes) > 0 {
		res = append(res, nodes)
	}
	return res
}

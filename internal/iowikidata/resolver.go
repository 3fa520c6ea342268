package iowikidata

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"

	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/cladecanvas/cladedb/pkg/nameclean"
)

var _ enrich.Resolver = (*Client)(nil)

// ResolveByIdentifier matches a batch of nodes by their OTT ids in one
// SPARQL query. Nodes without an OTT id or without a hit come back as
// unmatched.
func (c *Client) ResolveByIdentifier(
	ctx context.Context,
	batch []enrich.Node,
) ([]enrich.Candidate, []enrich.Node, error) {
	var ottIDs []int64
	byOtt := make(map[int64]enrich.Node)
	var unmatched []enrich.Node

	for _, n := range batch {
		if !n.OttID.Valid {
			unmatched = append(unmatched, n)
			continue
		}
		ottIDs = append(ottIDs, n.OttID.Int64)
		byOtt[n.OttID.Int64] = n
	}

	if len(ottIDs) == 0 {
		return nil, unmatched, nil
	}

	result, err := c.querySPARQL(ctx, identifierQuery(ottIDs))
	if err != nil {
		return nil, nil, ResolveError("identifier", err)
	}

	// Duplicate taxonomy-id claims produce several bindings for one
	// OTT id; the last binding wins, like the merger's dedupe rule.
	matched := make(map[int64]enrich.Candidate)
	for _, b := range result.Results.Bindings {
		ott, ok := parseOtt(b.Ott.Value)
		if !ok {
			continue
		}
		node, ok := byOtt[ott]
		if !ok {
			continue
		}
		matched[ott] = bindingToCandidate(node, b)
	}

	var matches []enrich.Candidate
	seen := make(map[int64]bool)
	for _, id := range ottIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c, ok := matched[id]; ok {
			matches = append(matches, c)
		} else {
			unmatched = append(unmatched, byOtt[id])
		}
	}

	slog.Debug("resolved batch by identifier",
		"batch", len(batch),
		"matches", len(matches),
		"unmatched", len(unmatched),
	)
	return matches, unmatched, nil
}

// ResolveByName matches nodes one at a time by normalized scientific
// name, constrained to taxon-like entity classes. The first result
// wins. Nodes with zero results become misses.
func (c *Client) ResolveByName(
	ctx context.Context,
	nodes []enrich.Node,
) ([]enrich.Candidate, []enrich.Miss, error) {
	var matches []enrich.Candidate
	var misses []enrich.Miss

	for _, n := range nodes {
		name := nameclean.Clean(n.Name)
		if name == "" {
			misses = append(misses, enrich.Miss{
				NodeID: n.NodeID,
				Name:   n.Name,
				Reason: enrich.ReasonNoCandidate,
			})
			continue
		}

		result, err := c.querySPARQL(ctx, nameQuery(name))
		if err != nil {
			return nil, nil, ResolveError("name", err)
		}

		if len(result.Results.Bindings) == 0 {
			misses = append(misses, enrich.Miss{
				NodeID: n.NodeID,
				Name:   n.Name,
				Reason: enrich.ReasonNoCandidate,
			})
			continue
		}
		matches = append(matches, bindingToCandidate(n, result.Results.Bindings[0]))
	}

	slog.Debug("resolved nodes by name",
		"nodes", len(nodes),
		"matches", len(matches),
		"misses", len(misses),
	)
	return matches, misses, nil
}

func bindingToCandidate(n enrich.Node, b sparqlBinding) enrich.Candidate {
	return enrich.Candidate{
		NodeID:      n.NodeID,
		OttID:       n.OttID,
		EntityID:    entityID(b.Item.Value),
		Label:       b.ItemLabel.Value,
		Description: nullString(b.ItemDescription.Value),
		ImageURL:    nullString(b.Image.Value),
		Rank:        nullString(b.RankLabel.Value),
	}
}

func parseOtt(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

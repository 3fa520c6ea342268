// Package ioingest imports the tree topology into the nodes table,
// either live from the Open Tree of Life synthesis API or from a CSV
// snapshot.
package ioingest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cladecanvas/cladedb/pkg/config"
)

// argusonNode is one node of the arguson tree format returned by the
// tree_of_life/subtree endpoint. Children distinguishes "no children
// in this response" (nil, possibly truncated) from "leaf" via the
// pointer.
type argusonNode struct {
	NodeID   string         `json:"node_id"`
	Taxon    *argusonTaxon  `json:"taxon"`
	Children *[]argusonNode `json:"children"`
	NumTips  int64          `json:"num_tips"`
}

type argusonTaxon struct {
	OttID int64  `json:"ott_id"`
	Name  string `json:"name"`
}

// nodeRow is one flattened node ready for upsert.
type nodeRow struct {
	NodeID       string
	OttID        sql.NullInt64
	Name         string
	ParentNodeID sql.NullString
	NumTips      sql.NullInt64
}

// treeClient fetches arguson subtrees from the synthesis API.
type treeClient struct {
	cfg    config.IngestConfig
	client *http.Client
}

func newTreeClient(cfg config.IngestConfig) *treeClient {
	return &treeClient{
		cfg: cfg,
		// Arguson calls for large clades are slow on the server side.
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// fetchSubtree POSTs a subtree request for one node. Taxonomy nodes
// ("ott...") are requested by ott_id, synthetic MRCA nodes by node_id.
func (t *treeClient) fetchSubtree(
	ctx context.Context,
	nodeID string,
) (*argusonNode, error) {
	payload := map[string]any{
		"height_limit": t.cfg.HeightLimit,
		"format":       "arguson",
	}
	if ott, ok := ottFromNodeID(nodeID); ok {
		payload["ott_id"] = ott
	} else {
		payload["node_id"] = nodeID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, FetchError(nodeID, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		t.cfg.APIEndpoint+"/subtree",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, FetchError(nodeID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, FetchError(nodeID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, FetchStatusError(nodeID, resp.StatusCode)
	}

	var envelope struct {
		Arguson *argusonNode `json:"arguson"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, DecodeError(nodeID, err)
	}
	if envelope.Arguson == nil {
		return nil, DecodeError(nodeID, errNoArguson)
	}
	return envelope.Arguson, nil
}

// ottFromNodeID extracts the taxonomy id from an "ott<digits>" node
// id. Synthetic ids like "mrcaott123ott456" do not qualify.
func ottFromNodeID(nodeID string) (int64, bool) {
	if len(nodeID) < 4 || !strings.HasPrefix(nodeID, "ott") {
		return 0, false
	}
	ott, err := strconv.ParseInt(nodeID[3:], 10, 64)
	return ott, err == nil
}

// flatten walks an arguson tree with an explicit stack and appends
// new rows in depth-first order. Nodes already in seen are not
// re-recorded but their children are still walked. Truncated nodes
// (tips below, but no children in this response) go to the frontier
// for the next wave.
func flatten(
	root *argusonNode,
	parent sql.NullString,
	seen map[string]bool,
) (rows []nodeRow, frontier []string) {
	type frame struct {
		node   *argusonNode
		parent sql.NullString
	}

	stack := []frame{{node: root, parent: parent}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		if n.NodeID == "" {
			continue
		}

		if !seen[n.NodeID] {
			seen[n.NodeID] = true
			rows = append(rows, toRow(n, f.parent))
		}

		if n.Children == nil {
			if n.NumTips > 1 {
				frontier = append(frontier, n.NodeID)
			}
			continue
		}

		children := *n.Children
		nextParent := sql.NullString{String: n.NodeID, Valid: true}
		// push in reverse so the walk stays in document order
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   &children[i],
				parent: nextParent,
			})
		}
	}
	return rows, frontier
}

func toRow(n *argusonNode, parent sql.NullString) nodeRow {
	row := nodeRow{
		NodeID:       n.NodeID,
		Name:         n.NodeID,
		ParentNodeID: parent,
	}
	if n.Taxon != nil {
		row.OttID = sql.NullInt64{Int64: n.Taxon.OttID, Valid: true}
		if n.Taxon.Name != "" {
			row.Name = n.Taxon.Name
		}
	}
	if n.NumTips > 0 {
		row.NumTips = sql.NullInt64{Int64: n.NumTips, Valid: true}
	}
	return row
}

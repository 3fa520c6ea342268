package ioingest

import (
	"errors"
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

var errNoArguson = errors.New("response carries no arguson tree")

// NotConnectedError creates an error for ingestion attempted without
// a database connection.
func NotConnectedError() error {
	msg := "Ingestion attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// FetchError creates an error for subtree fetch failures.
func FetchError(nodeID string, err error) error {
	msg := `Cannot fetch subtree of <em>%s</em>

<em>Possible causes:</em>
  - The Open Tree of Life API is unreachable
  - The request timed out

<em>How to fix:</em>
  1. Check network connectivity to api.opentreeoflife.org
  2. Rerun the command, ingestion continues where it stopped`

	vars := []any{nodeID}

	return &gn.Error{
		Code: errcode.IngestFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("subtree fetch failed for %s: %w", nodeID, err),
	}
}

// FetchStatusError creates an error for non-200 subtree responses.
func FetchStatusError(nodeID string, status int) error {
	return FetchError(nodeID,
		fmt.Errorf("subtree endpoint returned HTTP %d", status))
}

// DecodeError creates an error for malformed subtree responses.
func DecodeError(nodeID string, err error) error {
	msg := `Cannot decode subtree response for <em>%s</em>`
	vars := []any{nodeID}

	return &gn.Error{
		Code: errcode.IngestDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("decode failed for %s: %w", nodeID, err),
	}
}

// CSVError creates an error for CSV snapshot problems.
func CSVError(path string, err error) error {
	msg := `Cannot load nodes from CSV <em>%s</em>

<em>How to fix:</em>
  1. Check that the file exists and is readable
  2. The header must carry node_id, ott_id, name and parent_node_id`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.IngestCSVError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("csv load failed for %s: %w", path, err),
	}
}

// UpsertError creates an error for node upsert failures.
func UpsertError(err error) error {
	msg := `Failed to upsert nodes

<em>How to fix:</em>
  1. Check that the schema exists: cladedb create`

	return &gn.Error{
		Code: errcode.IngestUpsertError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("node upsert failed: %w", err),
	}
}

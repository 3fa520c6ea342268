package ioenrich

import (
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for enrichment attempted without
// a database connection.
func NotConnectedError() error {
	msg := "Enrichment attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// QueryNodesError creates an error for batch selection failures.
func QueryNodesError(err error) error {
	msg := `Failed to select un-enriched nodes

<em>How to fix:</em>
  1. Check that the schema exists: cladedb create
  2. Check that nodes were ingested: cladedb populate`

	return &gn.Error{
		Code: errcode.EnrichQueryError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to select nodes: %w", err),
	}
}

// MergeError creates an error for metadata merge failures.
func MergeError(err error) error {
	msg := "Failed to merge metadata records"

	return &gn.Error{
		Code: errcode.EnrichMergeError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("metadata merge failed: %w", err),
	}
}

// MissLogError creates an error for miss-log write failures.
func MissLogError(path string, err error) error {
	msg := `Cannot write to miss log <em>%s</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.EnrichMissLogError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("miss log failed: %w", err),
	}
}

// RequeueQueryError creates an error for wrong-metadata detection
// failures.
func RequeueQueryError(err error) error {
	msg := "Failed to query for wrong-entity metadata"

	return &gn.Error{
		Code: errcode.RequeueQueryError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("requeue query failed: %w", err),
	}
}

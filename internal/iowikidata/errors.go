package iowikidata

import (
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

// ResolveError creates an error for resolver query failures.
// Tier names the resolution pass: "identifier" or "name".
func ResolveError(tier string, err error) error {
	msg := `Knowledge-base resolution failed during the <em>%s</em> pass

<em>Possible causes:</em>
  - The SPARQL endpoint is unreachable or rate-limiting
  - The query timed out

<em>How to fix:</em>
  1. Check network connectivity to query.wikidata.org
  2. Reduce enrich batch_size or workers in config.yaml
  3. Increase wikidata.sparql_timeout_sec`

	vars := []any{tier}

	return &gn.Error{
		Code: errcode.EnrichResolveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s resolution failed: %w", tier, err),
	}
}

// ExtractError creates an error for article extraction failures.
func ExtractError(entityID string, err error) error {
	msg := `Failed to extract article text for entity <em>%s</em>`
	vars := []any{entityID}

	return &gn.Error{
		Code: errcode.EnrichExtractError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("extract failed for %s: %w", entityID, err),
	}
}

// SPARQLStatusError creates an error for non-200 SPARQL responses.
func SPARQLStatusError(status int) error {
	return fmt.Errorf("sparql endpoint returned HTTP %d", status)
}

// SPARQLDecodeError creates an error for malformed SPARQL responses.
func SPARQLDecodeError(err error) error {
	return fmt.Errorf("cannot decode sparql response: %w", err)
}

// APIStatusError creates an error for non-200 action API responses.
func APIStatusError(endpoint string, status int) error {
	return fmt.Errorf("%s returned HTTP %d", endpoint, status)
}

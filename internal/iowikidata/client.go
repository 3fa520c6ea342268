// Package iowikidata implements the enrichment resolver and extractor
// against the Wikidata SPARQL service and the Wikimedia action APIs.
package iowikidata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cladecanvas/cladedb/pkg/config"
)

// Client talks to the Wikidata query service, the Wikidata action API
// and the English Wikipedia action API. It implements both
// enrich.Resolver and enrich.Extractor.
type Client struct {
	cfg config.WikidataConfig

	// sparqlClient carries the long timeout for bulk queries,
	// apiClient the short one for single-entity lookups.
	sparqlClient *http.Client
	apiClient    *http.Client
}

// New creates a Client from the Wikidata section of the configuration.
func New(cfg config.WikidataConfig) *Client {
	return &Client{
		cfg: cfg,
		sparqlClient: &http.Client{
			Timeout: time.Duration(cfg.SPARQLTimeoutSec) * time.Second,
		},
		apiClient: &http.Client{
			Timeout: time.Duration(cfg.APITimeoutSec) * time.Second,
		},
	}
}

// querySPARQL POSTs a SPARQL query as a form and decodes the
// sparql-results+json response.
func (c *Client) querySPARQL(
	ctx context.Context,
	query string,
) (*sparqlResult, error) {
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.cfg.SPARQLEndpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.sparqlClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, SPARQLStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result sparqlResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, SPARQLDecodeError(err)
	}
	return &result, nil
}

// getJSON performs a GET against an action API with the given query
// parameters and decodes the JSON response into out.
func (c *Client) getJSON(
	ctx context.Context,
	endpoint string,
	params url.Values,
	out any,
) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		endpoint+"?"+params.Encode(), nil,
	)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return APIStatusError(endpoint, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

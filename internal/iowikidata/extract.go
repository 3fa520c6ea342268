package iowikidata

import (
	"context"
	"net/url"
	"strings"

	"github.com/cladecanvas/cladedb/pkg/enrich"
)

var _ enrich.Extractor = (*Client)(nil)

const wikipediaArticleBase = "https://en.wikipedia.org/wiki/"

// Extract resolves the entity's English Wikipedia sitelink and fetches
// the plain-text lead section of the article. Both return values are
// empty when the entity has no sitelink; text alone is empty when the
// article has no extractable lead.
func (c *Client) Extract(
	ctx context.Context,
	entityID string,
) (string, string, error) {
	title, err := c.sitelinkTitle(ctx, entityID)
	if err != nil {
		return "", "", ExtractError(entityID, err)
	}
	if title == "" {
		return "", "", nil
	}

	pageURL := wikipediaArticleBase + strings.ReplaceAll(title, " ", "_")

	text, err := c.leadExtract(ctx, title)
	if err != nil {
		return "", "", ExtractError(entityID, err)
	}
	return text, pageURL, nil
}

// sitelinkTitle returns the enwiki article title for a Wikidata
// entity, or "" when no English sitelink exists.
func (c *Client) sitelinkTitle(
	ctx context.Context,
	entityID string,
) (string, error) {
	params := url.Values{
		"action": {"wbgetentities"},
		"ids":    {entityID},
		"props":  {"sitelinks"},
		"format": {"json"},
	}

	var resp struct {
		Entities map[string]struct {
			Sitelinks map[string]struct {
				Title string `json:"title"`
			} `json:"sitelinks"`
		} `json:"entities"`
	}
	if err := c.getJSON(ctx, c.cfg.APIEndpoint, params, &resp); err != nil {
		return "", err
	}

	entity, ok := resp.Entities[entityID]
	if !ok {
		return "", nil
	}
	return entity.Sitelinks["enwiki"].Title, nil
}

// leadExtract fetches the plain-text intro of a Wikipedia article and
// collapses its whitespace.
func (c *Client) leadExtract(
	ctx context.Context,
	title string,
) (string, error) {
	params := url.Values{
		"action":        {"query"},
		"prop":          {"extracts"},
		"exintro":       {"1"},
		"explaintext":   {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
		"titles":        {title},
	}

	var resp struct {
		Query struct {
			Pages []struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.cfg.WikipediaAPI, params, &resp); err != nil {
		return "", err
	}

	if len(resp.Query.Pages) == 0 {
		return "", nil
	}
	return strings.Join(strings.Fields(resp.Query.Pages[0].Extract), " "), nil
}

package iowikidata_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cladecanvas/cladedb/internal/iowikidata"
	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: true}
}

// sparqlJSON builds a sparql-results+json body from binding maps of
// variable name to value.
func sparqlJSON(bindings ...map[string]string) string {
	type value struct {
		Value string `json:"value"`
	}
	res := struct {
		Results struct {
			Bindings []map[string]value `json:"bindings"`
		} `json:"results"`
	}{}
	for _, b := range bindings {
		row := make(map[string]value)
		for k, v := range b {
			row[k] = value{Value: v}
		}
		res.Results.Bindings = append(res.Results.Bindings, row)
	}
	out, _ := json.Marshal(res)
	return string(out)
}

func testClient(sparqlURL, apiURL, wikiURL string) *iowikidata.Client {
	cfg := config.New().Wikidata
	cfg.SPARQLEndpoint = sparqlURL
	cfg.APIEndpoint = apiURL
	cfg.WikipediaAPI = wikiURL
	return iowikidata.New(cfg)
}

func TestResolveByIdentifier(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotQuery = r.FormValue("query")
			fmt.Fprint(w, sparqlJSON(map[string]string{
				"item":            "http://www.wikidata.org/entity/Q5173",
				"ott":             "117569",
				"itemLabel":       "Bilateria",
				"itemDescription": "clade of animals with bilateral symmetry",
				"image":           "http://commons.wikimedia.org/x.jpg",
				"rankLabel":       "clade",
			}))
		}))
	defer srv.Close()

	client := testClient(srv.URL, srv.URL, srv.URL)
	batch := []enrich.Node{
		{NodeID: "ott117569", OttID: nullInt(117569), Name: "Bilateria"},
		{NodeID: "ott999", OttID: nullInt(999), Name: "Obscurata"},
		{NodeID: "mrcaott1ott2", Name: "Some clade"},
	}

	matches, unmatched, err := client.ResolveByIdentifier(
		context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "ott117569", m.NodeID)
	assert.Equal(t, "Q5173", m.EntityID)
	assert.Equal(t, "Bilateria", m.Label)
	assert.Equal(t, "clade of animals with bilateral symmetry",
		m.Description.String)
	assert.True(t, m.ImageURL.Valid)
	assert.Equal(t, "clade", m.Rank.String)

	// both the identifier miss and the node without an OTT id come back
	require.Len(t, unmatched, 2)
	assert.Equal(t, "mrcaott1ott2", unmatched[0].NodeID)
	assert.Equal(t, "ott999", unmatched[1].NodeID)

	assert.Contains(t, gotQuery, "wdt:P9157")
	assert.Contains(t, gotQuery, `"117569"`)
	assert.Contains(t, gotQuery, `"999"`)
}

func TestResolveByIdentifier_DuplicateBindingsLastWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, sparqlJSON(
				map[string]string{
					"item":      "http://www.wikidata.org/entity/Q100",
					"ott":       "42",
					"itemLabel": "Duplicata",
				},
				map[string]string{
					"item":      "http://www.wikidata.org/entity/Q200",
					"ott":       "42",
					"itemLabel": "Duplicata",
					"image":     "http://commons.wikimedia.org/d.jpg",
				},
			))
		}))
	defer srv.Close()

	client := testClient(srv.URL, srv.URL, srv.URL)
	batch := []enrich.Node{
		{NodeID: "ott42", OttID: nullInt(42), Name: "Duplicata"},
	}

	matches, unmatched, err := client.ResolveByIdentifier(
		context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, unmatched)

	// duplicate taxonomy-id claims: the last binding wins
	require.Len(t, matches, 1)
	assert.Equal(t, "Q200", matches[0].EntityID)
	assert.True(t, matches[0].ImageURL.Valid)
}

func TestResolveByIdentifier_AllWithoutOtt(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, sparqlJSON())
		}))
	defer srv.Close()

	client := testClient(srv.URL, srv.URL, srv.URL)
	batch := []enrich.Node{{NodeID: "mrcaott1ott2", Name: "Some clade"}}

	matches, unmatched, err := client.ResolveByIdentifier(
		context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Len(t, unmatched, 1)
	assert.Zero(t, calls, "no OTT ids means no query")
}

func TestResolveByName(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			q := r.FormValue("query")
			queries = append(queries, q)
			if strings.Contains(q, `"Rara"`) {
				fmt.Fprint(w, sparqlJSON(map[string]string{
					"item":      "http://www.wikidata.org/entity/Q888",
					"itemLabel": "Rara",
				}))
				return
			}
			fmt.Fprint(w, sparqlJSON())
		}))
	defer srv.Close()

	client := testClient(srv.URL, srv.URL, srv.URL)
	nodes := []enrich.Node{
		{NodeID: "ott1", OttID: nullInt(1), Name: "Rara (genus in Hymenoptera)"},
		{NodeID: "ott2", OttID: nullInt(2), Name: "Obscurata"},
	}

	matches, misses, err := client.ResolveByName(context.Background(), nodes)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "Q888", matches[0].EntityID)
	assert.Equal(t, "ott1", matches[0].NodeID)

	require.Len(t, misses, 1)
	assert.Equal(t, "ott2", misses[0].NodeID)
	assert.Equal(t, enrich.ReasonNoCandidate, misses[0].Reason)

	// parenthetical annotations are stripped before querying
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], `wdt:P225 "Rara"`)
	assert.Contains(t, queries[0], "wd:Q16521")
	assert.Contains(t, queries[0], "LIMIT 1")
}

func TestExtract(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wikidata", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wbgetentities", r.URL.Query().Get("action"))
		assert.Equal(t, "Q5173", r.URL.Query().Get("ids"))
		fmt.Fprint(w, `{"entities":{"Q5173":{"sitelinks":{
			"enwiki":{"title":"Bilateria body plan"},
			"dewiki":{"title":"Bilateria"}}}}}`)
	})
	mux.HandleFunc("/wikipedia", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "extracts", r.URL.Query().Get("prop"))
		assert.Equal(t, "Bilateria body plan", r.URL.Query().Get("titles"))
		fmt.Fprint(w, `{"query":{"pages":[
			{"extract":"Bilateria  are\nanimals with   bilateral symmetry."}]}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := testClient(srv.URL, srv.URL+"/wikidata", srv.URL+"/wikipedia")

	text, pageURL, err := client.Extract(context.Background(), "Q5173")
	require.NoError(t, err)
	assert.Equal(t,
		"https://en.wikipedia.org/wiki/Bilateria_body_plan", pageURL)
	assert.Equal(t,
		"Bilateria are animals with bilateral symmetry.", text)
}

func TestExtract_NoSitelink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"entities":{"Q999":{"sitelinks":{}}}}`)
		}))
	defer srv.Close()

	client := testClient(srv.URL, srv.URL, srv.URL)

	text, pageURL, err := client.Extract(context.Background(), "Q999")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Empty(t, pageURL)
}

func TestExtract_NoLead(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wikidata", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"entities":{"Q777":{"sitelinks":{
			"enwiki":{"title":"Stub article"}}}}}`)
	})
	mux.HandleFunc("/wikipedia", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"pages":[{"extract":""}]}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := testClient(srv.URL, srv.URL+"/wikidata", srv.URL+"/wikipedia")

	text, pageURL, err := client.Extract(context.Background(), "Q777")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Stub_article", pageURL)
}

func TestResolveByName_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
	defer srv.Close()

	client := testClient(srv.URL, srv.URL, srv.URL)
	nodes := []enrich.Node{{NodeID: "ott1", Name: "Bilateria"}}

	_, _, err := client.ResolveByName(context.Background(), nodes)
	require.Error(t, err)
}

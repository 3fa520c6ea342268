package iowikidata

import (
	"fmt"
	"strings"
)

// sparqlResult is the sparql-results+json envelope, reduced to the
// variables the two resolver queries select.
type sparqlResult struct {
	Results struct {
		Bindings []sparqlBinding `json:"bindings"`
	} `json:"results"`
}

type sparqlBinding struct {
	Item            sparqlValue `json:"item"`
	Ott             sparqlValue `json:"ott"`
	ItemLabel       sparqlValue `json:"itemLabel"`
	ItemDescription sparqlValue `json:"itemDescription"`
	Image           sparqlValue `json:"image"`
	RankLabel       sparqlValue `json:"rankLabel"`
}

type sparqlValue struct {
	Value string `json:"value"`
}

// entityID extracts the Q-id from a Wikidata entity URI,
// e.g. "http://www.wikidata.org/entity/Q5173" -> "Q5173".
func entityID(uri string) string {
	if idx := strings.LastIndex(uri, "/"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

// identifierQuery builds the bulk lookup over the Open Tree taxonomy
// id property (P9157). OTT ids are string-valued in Wikidata.
func identifierQuery(ottIDs []int64) string {
	vals := make([]string, len(ottIDs))
	for i, id := range ottIDs {
		vals[i] = fmt.Sprintf("%q", fmt.Sprintf("%d", id))
	}

	return fmt.Sprintf(`SELECT ?item ?ott ?itemLabel ?itemDescription ?image ?rankLabel WHERE {
  VALUES ?ott { %s }
  ?item wdt:P9157 ?ott .
  OPTIONAL {
    ?item schema:description ?itemDescription .
    FILTER(LANG(?itemDescription) = "en")
  }
  OPTIONAL { ?item wdt:P18 ?image . }
  OPTIONAL {
    ?item wdt:P105 ?rank .
    ?rank rdfs:label ?rankLabel .
    FILTER(LANG(?rankLabel) = "en")
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`, strings.Join(vals, " "))
}

// nameQuery builds the per-node fallback lookup on the taxon name
// property (P225), constrained to taxon-like classes so generic
// homonyms do not match. The classes are taxon, monotypic taxon,
// fossil taxon and clade.
func nameQuery(name string) string {
	escaped := strings.ReplaceAll(name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)

	return fmt.Sprintf(`SELECT ?item ?itemLabel ?itemDescription ?image ?rankLabel WHERE {
  ?item wdt:P225 "%s" .
  ?item wdt:P31 ?class .
  VALUES ?class { wd:Q16521 wd:Q310890 wd:Q23038290 wd:Q713623 }
  OPTIONAL {
    ?item schema:description ?itemDescription .
    FILTER(LANG(?itemDescription) = "en")
  }
  OPTIONAL { ?item wdt:P18 ?image . }
  OPTIONAL {
    ?item wdt:P105 ?rank .
    ?rank rdfs:label ?rankLabel .
    FILTER(LANG(?rankLabel) = "en")
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 1`, escaped)
}

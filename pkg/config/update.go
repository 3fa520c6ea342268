package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Priority, DryRun, CSVPath).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	i = c.Enrich.BatchSize
	if i > 0 {
		res = append(res, OptEnrichBatchSize(i))
	}
	i = c.Enrich.Workers
	if i > 0 {
		res = append(res, OptEnrichWorkers(i))
	}
	i = c.Enrich.Loops
	if i > 0 {
		res = append(res, OptEnrichLoops(i))
	}
	f = c.Enrich.SleepSec
	if f > 0 {
		res = append(res, OptEnrichSleepSec(f))
	}
	f = c.Enrich.JitterSec
	if f > 0 {
		res = append(res, OptEnrichJitterSec(f))
	}
	i = c.Enrich.MinTips
	if i > 0 {
		res = append(res, OptEnrichMinTips(i))
	}
	s = c.Enrich.MissLog
	if s != "" {
		res = append(res, OptEnrichMissLog(s))
	}

	if c.Ingest.RootOttID > 0 {
		res = append(res, OptIngestRootOttID(c.Ingest.RootOttID))
	}
	i = c.Ingest.HeightLimit
	if i > 0 {
		res = append(res, OptIngestHeightLimit(i))
	}
	i = c.Ingest.PauseMs
	if i > 0 {
		res = append(res, OptIngestPauseMs(i))
	}
	s = c.Ingest.APIEndpoint
	if s != "" {
		res = append(res, OptIngestAPIEndpoint(s))
	}

	s = c.Wikidata.SPARQLEndpoint
	if s != "" {
		res = append(res, OptWikidataSPARQLEndpoint(s))
	}
	s = c.Wikidata.APIEndpoint
	if s != "" {
		res = append(res, OptWikidataAPIEndpoint(s))
	}
	s = c.Wikidata.WikipediaAPI
	if s != "" {
		res = append(res, OptWikipediaAPI(s))
	}
	s = c.Wikidata.UserAgent
	if s != "" {
		res = append(res, OptWikidataUserAgent(s))
	}
	i = c.Wikidata.SPARQLTimeoutSec
	if i > 0 {
		res = append(res, OptWikidataSPARQLTimeoutSec(i))
	}
	i = c.Wikidata.APITimeoutSec
	if i > 0 {
		res = append(res, OptWikidataAPITimeoutSec(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func warnNegative(name string, f float64) {
	gn.Warn("<em>%s</em> cannot be negative, ignoring %v", name, f)
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}

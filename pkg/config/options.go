package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per bulk insert
// during node ingestion.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptEnrichBatchSize sets the number of un-enriched nodes selected
// per worker iteration.
func OptEnrichBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Enrich Batch Size", i) {
			c.Enrich.BatchSize = i
		}
	}
}

// OptEnrichWorkers sets the number of concurrent enrichment workers.
func OptEnrichWorkers(i int) Option {
	return func(c *Config) {
		if isValidInt("Enrich Workers", i) {
			c.Enrich.Workers = i
		}
	}
}

// OptEnrichLoops sets the maximum number of batch iterations per worker.
func OptEnrichLoops(i int) Option {
	return func(c *Config) {
		if isValidInt("Enrich Loops", i) {
			c.Enrich.Loops = i
		}
	}
}

// OptEnrichSleepSec sets the base delay between worker iterations.
func OptEnrichSleepSec(f float64) Option {
	return func(c *Config) {
		if f < 0 {
			warnNegative("Enrich Sleep", f)
			return
		}
		c.Enrich.SleepSec = f
	}
}

// OptEnrichJitterSec sets the upper bound of random jitter added to
// the inter-iteration sleep.
func OptEnrichJitterSec(f float64) Option {
	return func(c *Config) {
		if f < 0 {
			warnNegative("Enrich Jitter", f)
			return
		}
		c.Enrich.JitterSec = f
	}
}

// OptEnrichMinTips sets the num_tips threshold for the priority pass.
func OptEnrichMinTips(i int) Option {
	return func(c *Config) {
		if isValidInt("Enrich MinTips", i) {
			c.Enrich.MinTips = i
		}
	}
}

// OptEnrichMissLog sets the path of the resolution miss log.
func OptEnrichMissLog(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Miss Log", s) {
			c.Enrich.MissLog = s
		}
	}
}

// OptEnrichPriority enables the priority pass before the exhaustive pass.
// Runtime-only field - not in ToOptions().
func OptEnrichPriority(b bool) Option {
	return func(c *Config) {
		c.Enrich.Priority = b
	}
}

// OptEnrichDryRun makes the pipeline resolve and report without
// writing to the database.
// Runtime-only field - not in ToOptions().
func OptEnrichDryRun(b bool) Option {
	return func(c *Config) {
		c.Enrich.DryRun = b
	}
}

// OptIngestRootOttID sets the OTT id of the clade to ingest.
func OptIngestRootOttID(i int64) Option {
	return func(c *Config) {
		if i <= 0 {
			warnNegative("Ingest Root OTT", float64(i))
			return
		}
		c.Ingest.RootOttID = i
	}
}

// OptIngestHeightLimit sets the number of tree levels per arguson call.
func OptIngestHeightLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Ingest Height Limit", i) {
			c.Ingest.HeightLimit = i
		}
	}
}

// OptIngestPauseMs sets the delay between arguson calls.
func OptIngestPauseMs(i int) Option {
	return func(c *Config) {
		if isValidInt("Ingest Pause", i) {
			c.Ingest.PauseMs = i
		}
	}
}

// OptIngestAPIEndpoint sets the base URL of the tree_of_life API.
func OptIngestAPIEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ingest API Endpoint", s) {
			c.Ingest.APIEndpoint = s
		}
	}
}

// OptIngestCSVPath loads nodes from a CSV snapshot instead of the API.
// Runtime-only field - not in ToOptions().
func OptIngestCSVPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Ingest.CSVPath = s
	}
}

// OptWikidataSPARQLEndpoint sets the Wikidata SPARQL query service URL.
func OptWikidataSPARQLEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Wikidata SPARQL Endpoint", s) {
			c.Wikidata.SPARQLEndpoint = s
		}
	}
}

// OptWikidataAPIEndpoint sets the Wikidata action API URL.
func OptWikidataAPIEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Wikidata API Endpoint", s) {
			c.Wikidata.APIEndpoint = s
		}
	}
}

// OptWikipediaAPI sets the English Wikipedia action API URL.
func OptWikipediaAPI(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Wikipedia API", s) {
			c.Wikidata.WikipediaAPI = s
		}
	}
}

// OptWikidataUserAgent sets the User-Agent sent to Wikimedia endpoints.
func OptWikidataUserAgent(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Wikidata User-Agent", s) {
			c.Wikidata.UserAgent = s
		}
	}
}

// OptWikidataSPARQLTimeoutSec sets the timeout for bulk SPARQL queries.
func OptWikidataSPARQLTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("SPARQL Timeout", i) {
			c.Wikidata.SPARQLTimeoutSec = i
		}
	}
}

// OptWikidataAPITimeoutSec sets the timeout for single-entity API lookups.
func OptWikidataAPITimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("API Timeout", i) {
			c.Wikidata.APITimeoutSec = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

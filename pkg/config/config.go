// Package config provides configuration management for CladeDB.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Enrich: batch_size, workers, loops, sleep_sec, jitter_sec, min_tips,
//     miss_log
//   - Ingest: root_ott_id, height_limit, pause_ms, api_endpoint
//   - Wikidata: sparql_endpoint, api_endpoint, wikipedia_api, user_agent,
//     sparql_timeout_sec, api_timeout_sec
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Enrich.Priority, Enrich.DryRun, Ingest.CSVPath (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use CLADEDB_ prefix with underscores for nesting:
//
//	CLADEDB_DATABASE_HOST=localhost
//	CLADEDB_DATABASE_PORT=5432
//	CLADEDB_LOG_LEVEL=info
//	CLADEDB_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete CladeDB configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Enrich contains settings for the metadata enrichment pipeline.
	Enrich EnrichConfig `mapstructure:"enrich" yaml:"enrich"`

	// Ingest contains settings for tree topology ingestion.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	// Wikidata contains external knowledge-base endpoints and timeouts.
	Wikidata WikidataConfig `mapstructure:"wikidata" yaml:"wikidata"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of rows per bulk insert during node
	// ingestion. Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// EnrichConfig contains settings specific to the enrich command.
type EnrichConfig struct {
	// BatchSize is the number of un-enriched nodes selected per worker
	// iteration.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// Workers is the number of concurrent enrichment workers.
	// Workers share no state except the database.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Loops is the maximum number of batch iterations per worker.
	// A worker stops earlier when no un-enriched nodes remain.
	Loops int `mapstructure:"loops" yaml:"loops"`

	// SleepSec is the base delay in seconds between worker iterations.
	SleepSec float64 `mapstructure:"sleep_sec" yaml:"sleep_sec"`

	// JitterSec is the upper bound of random jitter added to SleepSec.
	// Jitter spreads workers out so they do not hit Wikidata in lockstep.
	JitterSec float64 `mapstructure:"jitter_sec" yaml:"jitter_sec"`

	// MinTips is the num_tips threshold for the priority pass.
	MinTips int `mapstructure:"min_tips" yaml:"min_tips"`

	// MissLog is the path of the resolution miss log. Empty means
	// "misses.log" inside the application log directory.
	MissLog string `mapstructure:"miss_log" yaml:"miss_log"`

	// Priority enables the priority pass before the exhaustive pass.
	// Runtime-only field, set by the --priority flag.
	Priority bool `mapstructure:"-" yaml:"-"`

	// DryRun resolves and reports without writing to the database.
	// Runtime-only field, set by the --dry-run flag.
	DryRun bool `mapstructure:"-" yaml:"-"`
}

// IngestConfig contains settings for topology ingestion from the
// Open Tree of Life synthesis API.
type IngestConfig struct {
	// RootOttID is the OTT id of the clade whose subtree is ingested.
	// Default is Metazoa.
	RootOttID int64 `mapstructure:"root_ott_id" yaml:"root_ott_id"`

	// HeightLimit is the number of tree levels fetched per arguson call.
	HeightLimit int `mapstructure:"height_limit" yaml:"height_limit"`

	// PauseMs is the delay in milliseconds between arguson calls.
	PauseMs int `mapstructure:"pause_ms" yaml:"pause_ms"`

	// APIEndpoint is the base URL of the tree_of_life API.
	APIEndpoint string `mapstructure:"api_endpoint" yaml:"api_endpoint"`

	// CSVPath loads nodes from a CSV snapshot instead of the API.
	// Runtime-only field, set by the --csv flag.
	CSVPath string `mapstructure:"-" yaml:"-"`
}

// WikidataConfig contains endpoints and timeouts for the external
// knowledge base consumed by the resolver and extractor.
type WikidataConfig struct {
	// SPARQLEndpoint is the Wikidata SPARQL query service URL.
	SPARQLEndpoint string `mapstructure:"sparql_endpoint" yaml:"sparql_endpoint"`

	// APIEndpoint is the Wikidata action API URL (wbgetentities).
	APIEndpoint string `mapstructure:"api_endpoint" yaml:"api_endpoint"`

	// WikipediaAPI is the English Wikipedia action API URL (extracts).
	WikipediaAPI string `mapstructure:"wikipedia_api" yaml:"wikipedia_api"`

	// UserAgent identifies this tool to the Wikimedia endpoints.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// SPARQLTimeoutSec bounds bulk SPARQL queries. Bulk queries are slow,
	// so this is the long timeout of the two.
	SPARQLTimeoutSec int `mapstructure:"sparql_timeout_sec" yaml:"sparql_timeout_sec"`

	// APITimeoutSec bounds single-entity API lookups.
	APITimeoutSec int `mapstructure:"api_timeout_sec" yaml:"api_timeout_sec"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "cladecanvas",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Enrich: EnrichConfig{
			BatchSize: 100,
			Workers:   8,
			Loops:     10,
			SleepSec:  1.5,
			JitterSec: 0.5,
			MinTips:   1000,
		},
		Ingest: IngestConfig{
			// Metazoa in the Open Tree taxonomy
			RootOttID:   691846,
			HeightLimit: 20,
			PauseMs:     300,
			APIEndpoint: "https://api.opentreeoflife.org/v3/tree_of_life",
		},
		Wikidata: WikidataConfig{
			SPARQLEndpoint:   "https://query.wikidata.org/sparql",
			APIEndpoint:      "https://www.wikidata.org/w/api.php",
			WikipediaAPI:     "https://en.wikipedia.org/w/api.php",
			UserAgent:        "CladeDBBot/0.1 (https://github.com/cladecanvas/cladedb)",
			SPARQLTimeoutSec: 60,
			APITimeoutSec:    30,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

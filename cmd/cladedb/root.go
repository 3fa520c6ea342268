package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cladecanvas/cladedb/internal/iofs"
	"github.com/cladecanvas/cladedb/internal/iologger"
	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cladedb",
		Short: "CladeDB manages the CladeCanvas database lifecycle",
		Long: `CladeDB is a CLI tool for managing the complete lifecycle of the
CladeCanvas PostgreSQL database, from schema creation through tree
topology ingestion and metadata enrichment.

The tool provides five main phases:
  - create:   Create database schema
  - migrate:  Apply schema migrations
  - populate: Import the synthesis tree topology
  - enrich:   Attach knowledge-base metadata to nodes
  - requeue:  Re-enrich nodes with wrong-entity metadata

Configuration precedence (highest to lowest):
  1. CLI flags (--batch-size, --workers, etc.)
  2. Environment variables (CLADEDB_*)
  3. Config file (~/.config/cladedb/config.yaml)
  4. Built-in defaults

Environment Variables:
  All persistent configuration can be set via CLADEDB_* environment
  variables. Nested fields use underscores
  (database.host -> CLADEDB_DATABASE_HOST).

  Examples:
    CLADEDB_DATABASE_HOST          PostgreSQL host
    CLADEDB_DATABASE_PASSWORD      PostgreSQL password
    CLADEDB_ENRICH_WORKERS         Number of enrichment workers
    CLADEDB_LOG_LEVEL              Log level (debug/info/warn/error)

  See 'go doc github.com/cladecanvas/cladedb/pkg/config' for the
  complete list.`,
		Version:           Version,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Override version flag to use -V
	rootCmd.Flags().BoolP("version", "V", false, "version for cladedb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getPopulateCmd())
	rootCmd.AddCommand(getEnrichCmd())
	rootCmd.AddCommand(getRequeueCmd())

	return rootCmd
}

// bootstrap prepares the application environment before any
// subcommand runs: directories, logging, config file and the merged
// configuration.
func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initial logging with hardcoded defaults; reconfigured below
	// once the user's settings are known.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))

	return nil
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Bind env variables manually so the allowed set stays explicit.
	// These match the fields included in config.ToOptions(), i.e. the
	// persistent configuration that can live in config.yaml.
	v.SetEnvPrefix("CLADEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.database", "DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "DATABASE_BATCH_SIZE")

	// Enrichment configuration
	v.BindEnv("enrich.batch_size", "ENRICH_BATCH_SIZE")
	v.BindEnv("enrich.workers", "ENRICH_WORKERS")
	v.BindEnv("enrich.loops", "ENRICH_LOOPS")
	v.BindEnv("enrich.sleep_sec", "ENRICH_SLEEP_SEC")
	v.BindEnv("enrich.jitter_sec", "ENRICH_JITTER_SEC")
	v.BindEnv("enrich.min_tips", "ENRICH_MIN_TIPS")
	v.BindEnv("enrich.miss_log", "ENRICH_MISS_LOG")

	// Ingestion configuration
	v.BindEnv("ingest.root_ott_id", "INGEST_ROOT_OTT_ID")
	v.BindEnv("ingest.height_limit", "INGEST_HEIGHT_LIMIT")
	v.BindEnv("ingest.pause_ms", "INGEST_PAUSE_MS")
	v.BindEnv("ingest.api_endpoint", "INGEST_API_ENDPOINT")

	// Knowledge-base configuration
	v.BindEnv("wikidata.sparql_endpoint", "WIKIDATA_SPARQL_ENDPOINT")
	v.BindEnv("wikidata.api_endpoint", "WIKIDATA_API_ENDPOINT")
	v.BindEnv("wikidata.wikipedia_api", "WIKIDATA_WIKIPEDIA_API")
	v.BindEnv("wikidata.user_agent", "WIKIDATA_USER_AGENT")
	v.BindEnv("wikidata.sparql_timeout_sec", "WIKIDATA_SPARQL_TIMEOUT_SEC")
	v.BindEnv("wikidata.api_timeout_sec", "WIKIDATA_API_TIMEOUT_SEC")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}

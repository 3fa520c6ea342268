package main

import (
	"context"

	"github.com/cladecanvas/cladedb/internal/iodb"
	"github.com/cladecanvas/cladedb/internal/ioenrich"
	"github.com/cladecanvas/cladedb/internal/iowikidata"
	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getEnrichCmd() *cobra.Command {
	var (
		batchSize int
		workers   int
		loops     int
		sleepSec  float64
		minTips   int
		priority  bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Attach knowledge-base metadata to nodes",
		Long: `Enrich un-enriched nodes with Wikidata and Wikipedia metadata.

This command:
  1. Selects nodes that have an OTT id but no metadata row yet
  2. Resolves them against Wikidata, first in bulk by taxonomy id,
     then one by one by scientific name for the leftovers
  3. Extracts the lead section of the linked Wikipedia article
  4. Merges complete metadata records and flips has_metadata

With --priority an initial pass enriches every node with at least
--min-tips descendant tips, largest clades first, before the random
workers start. Nodes that resolve to nothing are appended to the miss
log for offline follow-up.

Examples:
  cladedb enrich
  cladedb enrich --workers 4 --loops 20
  cladedb enrich --priority --min-tips 5000
  cladedb enrich --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runEnrich(
				cmd, batchSize, workers, loops,
				sleepSec, minTips, priority, dryRun,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0,
		"nodes per worker iteration (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0,
		"number of concurrent workers (default from config)")
	cmd.Flags().IntVarP(&loops, "loops", "l", 0,
		"batch iterations per worker (default from config)")
	cmd.Flags().Float64Var(&sleepSec, "sleep", 0,
		"base delay in seconds between iterations (default from config)")
	cmd.Flags().BoolVarP(&priority, "priority", "p", false,
		"enrich large clades first")
	cmd.Flags().IntVar(&minTips, "min-tips", 0,
		"num_tips threshold for --priority (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"resolve and report without writing to the database")

	return cmd
}

func runEnrich(
	cmd *cobra.Command,
	batchSize, workers, loops int,
	sleepSec float64,
	minTips int,
	priority, dryRun bool,
) error {
	ctx := context.Background()

	var opts []config.Option
	if cmd.Flags().Changed("batch-size") {
		opts = append(opts, config.OptEnrichBatchSize(batchSize))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, config.OptEnrichWorkers(workers))
	}
	if cmd.Flags().Changed("loops") {
		opts = append(opts, config.OptEnrichLoops(loops))
	}
	if cmd.Flags().Changed("sleep") {
		opts = append(opts, config.OptEnrichSleepSec(sleepSec))
	}
	if cmd.Flags().Changed("min-tips") {
		opts = append(opts, config.OptEnrichMinTips(minTips))
	}
	opts = append(opts,
		config.OptEnrichPriority(priority),
		config.OptEnrichDryRun(dryRun),
	)
	cfg.Update(opts)

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	sink, err := ioenrich.NewMissLog(cfg.MissLogPath())
	if err != nil {
		return err
	}
	defer sink.Close()

	wikidata := iowikidata.New(cfg.Wikidata)
	var enricher lifecycle.Enricher = ioenrich.NewEnricher(
		cfg, op, wikidata, wikidata, sink)

	return enricher.Run(ctx)
}

package ioenrich

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cladecanvas/cladedb/pkg/config"
	"github.com/cladecanvas/cladedb/pkg/db"
	"github.com/cladecanvas/cladedb/pkg/enrich"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

type enricher struct {
	cfg       *config.Config
	operator  db.Operator
	resolver  enrich.Resolver
	extractor enrich.Extractor
	sink      enrich.MissSink
}

// NewEnricher creates an Enricher that selects un-enriched nodes,
// resolves them against the knowledge base and merges records into
// the metadata table.
func NewEnricher(
	cfg *config.Config,
	operator db.Operator,
	resolver enrich.Resolver,
	extractor enrich.Extractor,
	sink enrich.MissSink,
) lifecycle.Enricher {
	return &enricher{
		cfg:       cfg,
		operator:  operator,
		resolver:  resolver,
		extractor: extractor,
		sink:      sink,
	}
}

// Run executes the optional priority pass, then the configured number
// of concurrent workers until their loop budgets are spent or no
// un-enriched nodes remain.
func (e *enricher) Run(ctx context.Context) error {
	if e.operator.Pool() == nil {
		return NotConnectedError()
	}

	start := time.Now()

	if e.cfg.Enrich.Priority {
		if err := e.runPriorityPass(ctx); err != nil {
			return err
		}
	}

	total, err := e.runWorkers(ctx)
	if err != nil {
		return err
	}

	slog.Info("enrichment finished",
		"records", total,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	gn.Info("Enriched <em>%s</em> nodes in %s.",
		humanize.Comma(int64(total)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

// runPriorityPass enriches every un-enriched node with at least
// MinTips descendant tips, largest clades first, before the random
// workers start.
func (e *enricher) runPriorityPass(ctx context.Context) error {
	pool := e.operator.Pool()

	nodes, err := SelectPriorityBatch(ctx, pool, e.cfg.Enrich.MinTips)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		gn.Info("No un-enriched nodes above the priority threshold.")
		return nil
	}

	gn.Info("Priority pass: <em>%s</em> nodes with at least %s tips.",
		humanize.Comma(int64(len(nodes))),
		humanize.Comma(int64(e.cfg.Enrich.MinTips)),
	)

	bar := newProgressBar(len(nodes), "Priority pass: ")
	defer bar.Finish()

	for _, chunk := range chunkNodes(nodes, e.cfg.Enrich.BatchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := e.enrichBatch(ctx, chunk)
		if err != nil {
			// One failed chunk should not kill the pass.
			slog.Warn("priority chunk failed", "error", err)
		} else {
			slog.Debug("priority chunk merged", "records", n)
		}
		bar.Add(len(chunk))
	}
	return nil
}

// runWorkers starts Workers goroutines, each looping up to Loops
// times over random batches with a jittered sleep in between.
func (e *enricher) runWorkers(ctx context.Context) (int, error) {
	g, gCtx := errgroup.WithContext(ctx)
	counts := make([]int, e.cfg.Enrich.Workers)

	for i := 0; i < e.cfg.Enrich.Workers; i++ {
		g.Go(func() error {
			n, err := e.workerLoop(gCtx, i)
			counts[i] = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// workerLoop runs one worker: select a random batch, enrich it, sleep
// with jitter, repeat. Stops when the loop budget is spent or no
// un-enriched nodes remain.
func (e *enricher) workerLoop(ctx context.Context, id int) (int, error) {
	var total int

	for loop := 0; loop < e.cfg.Enrich.Loops; loop++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		nodes, err := SelectRandomBatch(
			ctx, e.operator.Pool(), e.cfg.Enrich.BatchSize)
		if err != nil {
			// Selects fail and recover the same way resolve and
			// merge do; the worker keeps its remaining loops.
			slog.Warn("batch select failed",
				"worker", id,
				"loop", loop,
				"error", err,
			)
			e.sleepWithJitter(ctx)
			continue
		}
		if len(nodes) == 0 {
			slog.Info("worker done, queue empty",
				"worker", id, "loops", loop)
			return total, nil
		}

		n, err := e.enrichBatch(ctx, nodes)
		if err != nil {
			// A single bad batch is logged and skipped; the
			// worker keeps its remaining loop budget.
			slog.Warn("batch failed",
				"worker", id,
				"loop", loop,
				"error", err,
			)
		} else {
			total += n
			slog.Debug("batch merged",
				"worker", id,
				"loop", loop,
				"records", n,
			)
		}

		e.sleepWithJitter(ctx)
	}
	return total, nil
}

// enrichBatch runs one batch through the pipeline and merges the
// result. In dry-run mode the merge is skipped and the would-be
// record count is reported instead.
func (e *enricher) enrichBatch(
	ctx context.Context,
	nodes []enrich.Node,
) (int, error) {
	recs, err := EnrichOnce(ctx, e.resolver, e.extractor, e.sink, nodes)
	if err != nil {
		return 0, err
	}

	if e.cfg.Enrich.DryRun {
		gn.Info("Dry run: would merge %d records for %d nodes.",
			len(recs), len(nodes))
		return len(recs), nil
	}

	if err = MergeRecords(ctx, e.operator.Pool(), recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// sleepWithJitter pauses a worker between iterations so concurrent
// workers do not hit the knowledge base in lockstep.
func (e *enricher) sleepWithJitter(ctx context.Context) {
	delay := e.cfg.Enrich.SleepSec +
		rand.Float64()*e.cfg.Enrich.JitterSec
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(delay * float64(time.Second))):
	}
}

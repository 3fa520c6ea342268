package main

import (
	"context"

	"github.com/cladecanvas/cladedb/internal/iodb"
	"github.com/cladecanvas/cladedb/internal/ioenrich"
	"github.com/cladecanvas/cladedb/internal/iowikidata"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getRequeueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requeue",
		Short: "Re-enrich nodes with wrong-entity metadata",
		Long: `Find and re-enrich nodes whose metadata came from the wrong
knowledge-base entity.

Wikidata occasionally carries duplicate taxonomy-id claims, so the
bulk resolution can land on a different taxon: the stored common name
is then a second Latin name instead of a vernacular one. This command
detects such rows with a scientific-name parser and replaces them by
re-resolving the affected nodes by taxonomy id.

Examples:
  cladedb requeue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRequeue()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return cmd
}

func runRequeue() error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	wikidata := iowikidata.New(cfg.Wikidata)
	var rq lifecycle.Requeuer = ioenrich.NewRequeuer(
		cfg, op, wikidata, wikidata)

	_, err := rq.Requeue(ctx)
	return err
}

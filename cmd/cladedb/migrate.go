package main

import (
	"context"

	"github.com/cladecanvas/cladedb/internal/iodb"
	"github.com/cladecanvas/cladedb/internal/ioschema"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long: `Update the CladeCanvas database schema to the latest version.

Migration is additive and idempotent: GORM AutoMigrate adds missing
tables, columns and indexes without touching existing data. Safe to
run multiple times.

Examples:
  cladedb migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return cmd
}

func runMigrate() error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	var sm lifecycle.SchemaManager = ioschema.NewManager(op)
	gn.Info("Running schema migration...")
	if err := sm.Migrate(ctx); err != nil {
		return err
	}

	gn.Info("Schema migration complete.")
	return nil
}

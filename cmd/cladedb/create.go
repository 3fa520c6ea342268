package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cladecanvas/cladedb/internal/iodb"
	"github.com/cladecanvas/cladedb/internal/ioschema"
	"github.com/cladecanvas/cladedb/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getCreateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the CladeCanvas database schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates the nodes and metadata tables using GORM AutoMigrate
  4. Creates the partial unique indexes on ott_id

Use --force to skip confirmation and drop existing tables
automatically.

Examples:
  cladedb create
  cladedb create --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(force)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"drop existing tables before creating schema (destructive)")

	return cmd
}

func runCreate(force bool) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if !force && !confirmDrop() {
			gn.Info("Aborted. No changes made to the database.")
			return nil
		}
		gn.Info("Dropping all existing tables...")
		if err = op.DropAllTables(ctx); err != nil {
			return err
		}
	}

	var sm lifecycle.SchemaManager = ioschema.NewManager(op)
	gn.Info("Creating schema...")
	if err = sm.Create(ctx); err != nil {
		return err
	}

	gn.Info(`Database schema creation complete.

Next steps:
  - Run '<em>cladedb populate</em>' to import the tree topology
  - Run '<em>cladedb enrich</em>' to attach metadata
`)
	return nil
}

// confirmDrop asks the user before destroying existing tables.
func confirmDrop() bool {
	gn.Warn(`<warn>Warning: database contains existing tables.</warn>
Creating the schema will drop ALL existing tables and data.`)
	fmt.Print("\nDo you want to continue? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}

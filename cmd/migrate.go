package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NicholasPiano/arktic/internal/database"
	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/pkg/config"
)

// migrateCmd applies the schema without starting the server
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create or update the database schema.

The serve command migrates on startup; this command exists for
provisioning a database ahead of time or from a deploy hook.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date at %s\n", cfg.Database.Path)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NicholasPiano/arktic/internal/database"
	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/internal/services/ingest"
	"github.com/NicholasPiano/arktic/pkg/audio"
	"github.com/NicholasPiano/arktic/pkg/config"
)

var (
	ingestProjectID uint
	ingestName      string
	ingestLanguage  string
)

// ingestCmd imports a relfile from disk without going through the API
var ingestCmd = &cobra.Command{
	Use:   "ingest <relfile>",
	Short: "Import a relfile as a new grammar",
	Long: `Import a pipe-delimited reference file as a new grammar.

The grammar name defaults to the file name without its extension.

Example:
  arktic ingest ./data/incoming/numbers.rel --project 1
  arktic ingest session.rel --project 2 --name session-a --language spanish`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().UintVar(&ingestProjectID, "project", 0, "target project id (required)")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "grammar name (defaults to file name)")
	ingestCmd.Flags().StringVar(&ingestLanguage, "language", "", "grammar language (defaults to config)")
	_ = ingestCmd.MarkFlagRequired("project")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening relfile: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := ingestName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	language := ingestLanguage
	if language == "" {
		language = cfg.Ingest.DefaultLanguage
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	var prober ingest.AudioProcessor
	if cfg.Ingest.FFProbePath != "" {
		prober = audio.NewProber(cfg.Ingest.FFProbePath)
	}

	words := autocomplete.NewService(autocomplete.NewRepository(db.DB))
	service := ingest.NewService(ingest.NewRepository(db.DB), words, prober, nil)

	grammar, err := service.IngestBundle(cmd.Context(), ingest.GrammarBundle{
		ProjectID: ingestProjectID,
		Name:      name,
		Language:  models.Language(language),
		Relfile:   f,
	})
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingested grammar %q (%s) with %d units\n",
		grammar.Name, grammar.IDToken, len(grammar.Transcriptions))
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicholasPiano/arktic/api"
	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/database"
	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/actions"
	"github.com/NicholasPiano/arktic/internal/services/allocator"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/internal/services/cleanup"
	"github.com/NicholasPiano/arktic/internal/services/clients"
	"github.com/NicholasPiano/arktic/internal/services/export"
	"github.com/NicholasPiano/arktic/internal/services/ingest"
	"github.com/NicholasPiano/arktic/internal/services/ledger"
	"github.com/NicholasPiano/arktic/internal/services/propagation"
	"github.com/NicholasPiano/arktic/pkg/audio"
	"github.com/NicholasPiano/arktic/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Arktic API server with the configured settings.

Example:
  arktic serve
  arktic serve --port 9090
  arktic serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	deps := buildDependencies(db, cfg)

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// re-attempt exports that failed while the grammar was closing
	go retryExports(ctx, deps.Propagator, cfg.Export.RetryInterval)

	sweeper := cleanup.NewService(cfg.Export.OutputDir, time.Hour, time.Hour)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("server listening on %s:%d", serverHost, serverPort)

	select {
	case <-stop:
		log.Println("shutting down")
	case err := <-serverErr:
		log.Printf("%v, shutting down", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Println("server stopped")
	return nil
}

// buildDependencies wires the service graph over one database handle
func buildDependencies(db *database.DB, cfg *config.Config) *types.Dependencies {
	words := autocomplete.NewService(autocomplete.NewRepository(db.DB))
	exporter := export.NewService(export.NewRepository(db.DB), cfg.Export.OutputDir)
	propagator := propagation.NewService(propagation.NewRepository(db.DB), exporter)

	var prober ingest.AudioProcessor
	if cfg.Ingest.FFProbePath != "" {
		prober = audio.NewProber(cfg.Ingest.FFProbePath)
	}

	return &types.Dependencies{
		DB:          db,
		Allocator:   allocator.NewService(allocator.NewRepository(db.DB), cfg.Jobs.BatchSize, cfg.Jobs.ClaimRetries),
		Ledger:      ledger.NewService(ledger.NewRepository(db.DB), words, propagator),
		Actions:     actions.NewService(actions.NewRepository(db.DB)),
		Suggestions: words,
		Propagator:  propagator,
		Clients:     clients.NewService(clients.NewRepository(db.DB)),
		Ingest:      ingest.NewService(ingest.NewRepository(db.DB), words, prober, nil),
	}
}

// retryExports periodically re-runs pending exports until ctx ends
func retryExports(ctx context.Context, propagator propagation.Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := propagator.RetryPendingExports(ctx); err != nil {
				log.Printf("export retry pass failed: %v", err)
			} else if n > 0 {
				log.Printf("export retry pass published %d grammar(s)", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

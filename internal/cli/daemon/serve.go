package daemon

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

	"github.com/fundfacts-ai/fundfacts/internal/api/handlers"
	"github.com/fundfacts-ai/fundfacts/internal/config"
	"github.com/fundfacts-ai/fundfacts/internal/domain"
	"github.com/fundfacts-ai/fundfacts/internal/jobs"
	"github.com/fundfacts-ai/fundfacts/internal/server"
	"github.com/fundfacts-ai/fundfacts/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the fundfacts API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	app, err := newApp(ctx, cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer app.Close()

	// Build the index up front so the first query does not pay for it. A
	// missing corpus is not fatal: the collector may not have run yet.
	if err := app.pipeline.EnsureReady(ctx); err != nil {
		if errors.Is(err, domain.ErrNoCorpus) {
			log.Printf("no corpus at %s yet, index will build once it appears", cfg.CorpusFile)
		} else {
			log.Printf("index not ready at startup: %v", err)
		}
	}

	var reindexWorker *jobs.Worker
	if cfg.ReindexInterval > 0 {
		processor := jobs.NewReindexProcessor(app.corpus, app.pipeline)
		reindexWorker = jobs.NewWorker(processor, cfg.ReindexInterval)
		go reindexWorker.Start(ctx)
		log.Println("reindex worker started")
	}

	router := server.NewRouter(server.RouterConfig{
		QueryHandler: handlers.NewQueryHandler(app.pipeline),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if reindexWorker != nil {
		reindexWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

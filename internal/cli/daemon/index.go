package daemon

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/fundfacts-ai/fundfacts/internal/config"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector index from the scraped corpus",
		Long:  "Chunk the scraped corpus file, embed every chunk, and store the vectors in the configured collection",
		RunE:  runIndex,
	}

	cmd.Flags().Bool("recreate", true, "Drop the existing collection before building")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	app, err := newApp(ctx, cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer app.Close()

	recreate, _ := cmd.Flags().GetBool("recreate")
	if recreate {
		// The rebuild path drops and recreates the whole collection.
		if err := app.pipeline.Rebuild(ctx); err != nil {
			return fmt.Errorf("failed to rebuild index: %w", err)
		}
		log.Printf("collection %q rebuilt", cfg.CollectionName)
		return nil
	}

	records, err := app.corpus.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	chunks := app.chunker.Chunk(records)
	if err := app.index.Build(ctx, chunks, false); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	log.Printf("added %d chunks from %d records to collection %q", len(chunks), len(records), cfg.CollectionName)
	return nil
}

// Package daemon implements the fundfactsd commands: the API server plus
// index maintenance and local query tooling.
package daemon

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	openaisdk "github.com/sashabaranov/go-openai"

	"github.com/fundfacts-ai/fundfacts/internal/config"
	"github.com/fundfacts-ai/fundfacts/internal/corpus"
	"github.com/fundfacts-ai/fundfacts/internal/database"
	"github.com/fundfacts-ai/fundfacts/internal/openai"
	"github.com/fundfacts-ai/fundfacts/internal/repository"
	"github.com/fundfacts-ai/fundfacts/internal/service"
	"github.com/fundfacts-ai/fundfacts/internal/storage"
)

// app bundles the wired collaborators shared by the serve, index, and ask
// commands.
type app struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	corpus   *corpus.Store
	chunker  *service.Chunker
	index    *service.IndexStore
	pipeline *service.Pipeline
}

func newApp(ctx context.Context, cfg *config.Config, migrateDB bool) (*app, error) {
	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("OpenAI API key not configured (set FUNDFACTS_OPENAI_API_KEY)")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("connected to database")

	if migrateDB {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	corpusStore, err := buildCorpusStore(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	aiClient := openai.NewClientWithConfig(openai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		EmbeddingModel:  openaisdk.EmbeddingModel(cfg.EmbeddingModel),
		CompletionModel: cfg.LLMModel,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
	})

	chunkRepo := repository.NewChunkRepository(pool)
	indexStore := service.NewIndexStore(aiClient, chunkRepo, cfg.CollectionName)
	retriever := service.NewRetriever(indexStore, cfg.TopK)
	classifier := service.NewAdviceClassifier(cfg.AdviceKeywords)
	composer := service.NewComposer(aiClient, cfg.PrimarySource)
	chunker := service.NewChunker(service.ChunkConfig{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})

	pipeline := service.NewPipeline(service.PipelineConfig{
		Classifier:    classifier,
		Retriever:     retriever,
		Composer:      composer,
		Index:         indexStore,
		Corpus:        corpusStore,
		Chunker:       chunker,
		RefusalSource: cfg.RefusalSource,
		Collection:    cfg.CollectionName,
		TopK:          cfg.TopK,
	})

	return &app{
		cfg:      cfg,
		pool:     pool,
		corpus:   corpusStore,
		chunker:  chunker,
		index:    indexStore,
		pipeline: pipeline,
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}

// buildCorpusStore wires the corpus file store, with an S3 snapshot mirror
// when object storage is configured.
func buildCorpusStore(ctx context.Context, cfg *config.Config) (*corpus.Store, error) {
	if !cfg.HasS3() {
		return corpus.NewStore(cfg.CorpusFile), nil
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)

	return corpus.NewStoreWithSnapshots(cfg.CorpusFile, corpus.NewS3Snapshots(s3Client)), nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey   string  `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel string  `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	LLMModel       string  `envconfig:"LLM_MODEL" default:"gpt-4-turbo-preview"`
	Temperature    float32 `envconfig:"TEMPERATURE" default:"0.1"`
	MaxTokens      int     `envconfig:"MAX_TOKENS" default:"300"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`

	CollectionName string `envconfig:"COLLECTION_NAME" default:"mutual_fund_facts"`
	TopK           int    `envconfig:"TOP_K" default:"3"`

	// AdviceKeywords drives the lexical advice gate. Comma-separated.
	AdviceKeywords []string `envconfig:"ADVICE_KEYWORDS" default:"should i,should i buy,should i sell,is it good,is it bad,recommend,best,worst,compare returns,which is better,advice,suggest,opinion,think,believe"`

	// PrimarySource is cited when retrieval comes back empty.
	PrimarySource string `envconfig:"PRIMARY_SOURCE" default:"https://mf.nipponindiaim.com/"`
	// RefusalSource is cited on advice refusals.
	RefusalSource string `envconfig:"REFUSAL_SOURCE" default:"https://www.amfiindia.com/investor-corner/knowledge-center/faqs"`

	// CorpusFile is the aggregate scraped-records file written by the
	// collector. Its absence means "no corpus yet".
	CorpusFile string `envconfig:"CORPUS_FILE" default:"data/scraped/all_sources.json"`

	// ReindexInterval enables the corpus refresh worker when positive.
	ReindexInterval time.Duration `envconfig:"REINDEX_INTERVAL" default:"0"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"fundfacts-corpus"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("FUNDFACTS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

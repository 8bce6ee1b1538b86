package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IndexedChunk is a chunk paired with its embedding, ready for storage.
type IndexedChunk struct {
	ID        string
	Chunk     domain.Chunk
	Embedding []float32
}

// VectorRepository defines the persistence interface for the vector
// collection.
type VectorRepository interface {
	DeleteCollection(ctx context.Context, collection string) error
	InsertChunks(ctx context.Context, collection string, entries []IndexedChunk) error
	Count(ctx context.Context, collection string) (int64, error)
	QueryNearest(ctx context.Context, collection string, embedding []float32, k int) ([]domain.RankedChunk, error)
}

// IndexStore embeds chunks and persists them in a named vector collection.
// The collection is a cache: it can be rebuilt from the scraped corpus at
// any time, so partial writes on a failed build are acceptable and a
// recreate build is the recovery path.
type IndexStore struct {
	embedder   EmbeddingClient
	repo       VectorRepository
	collection string
}

const insertBatchSize = 32

func NewIndexStore(embedder EmbeddingClient, repo VectorRepository, collection string) *IndexStore {
	return &IndexStore{
		embedder:   embedder,
		repo:       repo,
		collection: collection,
	}
}

// Build embeds every chunk and upserts the vectors. When recreate is true
// the prior collection is dropped first; a missing collection is treated as
// already deleted. Must not run concurrently with another build on the same
// collection.
func (s *IndexStore) Build(ctx context.Context, chunks []domain.Chunk, recreate bool) error {
	if recreate {
		if err := s.repo.DeleteCollection(ctx, s.collection); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeIndexBuild, "failed to drop collection", err)
		}
	}

	batch := make([]IndexedChunk, 0, insertBatchSize)
	for _, chunk := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunk.Text)
		if err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeIndexBuild,
				fmt.Sprintf("failed to embed chunk %d of %s", chunk.ChunkIndex, chunk.SourceURL), err)
		}

		batch = append(batch, IndexedChunk{
			ID:        uuid.NewString(),
			Chunk:     chunk,
			Embedding: embedding,
		})

		if len(batch) >= insertBatchSize {
			if err := s.repo.InsertChunks(ctx, s.collection, batch); err != nil {
				return domain.NewDomainErrorWithCause(domain.ErrCodeIndexBuild, "failed to store vectors", err)
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.repo.InsertChunks(ctx, s.collection, batch); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeIndexBuild, "failed to store vectors", err)
		}
	}

	return nil
}

// Load probes the collection for existence. A missing or empty collection
// returns ErrIndexUnavailable, which callers treat as "needs (re)build".
func (s *IndexStore) Load(ctx context.Context) error {
	count, err := s.repo.Count(ctx, s.collection)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeIndexUnavailable, "collection probe failed", err)
	}
	if count == 0 {
		return domain.ErrIndexUnavailable
	}
	return nil
}

// Query embeds the query text and returns the k nearest stored chunks with
// their metadata, best first. No score threshold is applied; callers judge
// relevance themselves.
func (s *IndexStore) Query(ctx context.Context, text string, k int) ([]domain.RankedChunk, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIndexUnavailable, "failed to embed query", err)
	}

	results, err := s.repo.QueryNearest(ctx, s.collection, embedding, k)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIndexUnavailable, "similarity query failed", err)
	}

	return results, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
	"github.com/fundfacts-ai/fundfacts/internal/service"
)

// ChunkRepository persists chunk embeddings in a pgvector-backed collection.
// Collections are logical: rows share a table and are keyed by collection
// name, so a rebuild replaces one corpus without touching others.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// DeleteCollection removes all vectors for a collection. Deleting a
// collection that does not exist is a no-op.
func (r *ChunkRepository) DeleteCollection(ctx context.Context, collection string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chunks WHERE collection = $1`, collection)
	return err
}

// InsertChunks stores embedded chunks with their metadata.
func (r *ChunkRepository) InsertChunks(ctx context.Context, collection string, entries []service.IndexedChunk) error {
	for _, e := range entries {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO chunks
				(id, collection, source_url, source_title, chunk_index, total_chunks, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID,
			collection,
			e.Chunk.SourceURL,
			e.Chunk.SourceTitle,
			e.Chunk.ChunkIndex,
			e.Chunk.TotalChunks,
			e.Chunk.Text,
			pgvector.NewVector(e.Embedding),
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Count returns the number of stored vectors for a collection. Used as the
// cheap existence probe on load.
func (r *ChunkRepository) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks WHERE collection = $1`, collection).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// QueryNearest returns the k nearest chunks by cosine distance, best first.
func (r *ChunkRepository) QueryNearest(ctx context.Context, collection string, embedding []float32, k int) ([]domain.RankedChunk, error) {
	if k <= 0 {
		k = 3
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.pool.Query(ctx,
		`SELECT source_url, source_title, chunk_index, total_chunks, content,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM chunks
		 WHERE collection = $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, collection, k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.RankedChunk, 0, k)
	for rows.Next() {
		var rc domain.RankedChunk
		if err := rows.Scan(&rc.SourceURL, &rc.SourceTitle, &rc.ChunkIndex, &rc.TotalChunks, &rc.Text, &rc.Score); err != nil {
			return nil, err
		}
		results = append(results, rc)
	}

	return results, rows.Err()
}

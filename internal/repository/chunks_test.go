//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
	"github.com/fundfacts-ai/fundfacts/internal/service"
	"github.com/fundfacts-ai/fundfacts/internal/testutil"
)

const embeddingDims = 1536

// embedding builds a padded vector whose leading components are set, so
// tests can control cosine ordering without writing out 1536 values.
func embedding(leading ...float32) []float32 {
	vec := make([]float32, embeddingDims)
	copy(vec, leading)
	return vec
}

func indexedChunk(url, title, text string, idx, total int, vec []float32) service.IndexedChunk {
	return service.IndexedChunk{
		ID: uuid.NewString(),
		Chunk: domain.Chunk{
			Text:        text,
			SourceURL:   url,
			SourceTitle: title,
			ChunkIndex:  idx,
			TotalChunks: total,
		},
		Embedding: vec,
	}
}

func TestChunkRepository_InsertAndCount(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	entries := []service.IndexedChunk{
		indexedChunk("https://example.com/a", "Fund A", "chunk one", 0, 2, embedding(1, 0, 0)),
		indexedChunk("https://example.com/a", "Fund A", "chunk two", 1, 2, embedding(0, 1, 0)),
	}

	require.NoError(t, repo.InsertChunks(ctx, "mutual_fund_facts", entries))

	count, err := repo.Count(ctx, "mutual_fund_facts")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.Count(ctx, "other_collection")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestChunkRepository_DeleteCollection(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	require.NoError(t, repo.InsertChunks(ctx, "keep", []service.IndexedChunk{
		indexedChunk("https://example.com/keep", "Keep", "kept", 0, 1, embedding(1)),
	}))
	require.NoError(t, repo.InsertChunks(ctx, "drop", []service.IndexedChunk{
		indexedChunk("https://example.com/drop", "Drop", "dropped", 0, 1, embedding(1)),
	}))

	require.NoError(t, repo.DeleteCollection(ctx, "drop"))

	count, err := repo.Count(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.Count(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Deleting an absent collection is a no-op.
	assert.NoError(t, repo.DeleteCollection(ctx, "never_existed"))
}

func TestChunkRepository_QueryNearest(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	entries := []service.IndexedChunk{
		indexedChunk("https://example.com/x", "Exact", "exact match", 0, 1, embedding(1, 0, 0)),
		indexedChunk("https://example.com/n", "Near", "near match", 0, 1, embedding(0.9, 0.1, 0)),
		indexedChunk("https://example.com/f", "Far", "far match", 0, 1, embedding(0, 0, 1)),
	}
	require.NoError(t, repo.InsertChunks(ctx, "mutual_fund_facts", entries))

	results, err := repo.QueryNearest(ctx, "mutual_fund_facts", embedding(1, 0, 0), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "exact match", results[0].Text)
	assert.Equal(t, "near match", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Exact cosine match has zero distance, so the score is 1/(1+0).
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-6)
}

func TestChunkRepository_QueryNearest_ScopedToCollection(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	require.NoError(t, repo.InsertChunks(ctx, "mine", []service.IndexedChunk{
		indexedChunk("https://example.com/mine", "Mine", "mine", 0, 1, embedding(1)),
	}))
	require.NoError(t, repo.InsertChunks(ctx, "theirs", []service.IndexedChunk{
		indexedChunk("https://example.com/theirs", "Theirs", "theirs", 0, 1, embedding(1)),
	}))

	results, err := repo.QueryNearest(ctx, "mine", embedding(1), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mine", results[0].Text)
}

func TestChunkRepository_QueryNearest_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	results, err := repo.QueryNearest(ctx, "empty", embedding(1), 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

// MockIndexQuerier is a mock implementation of IndexQuerier
type MockIndexQuerier struct {
	mock.Mock
}

func (m *MockIndexQuerier) Query(ctx context.Context, text string, k int) ([]domain.RankedChunk, error) {
	args := m.Called(ctx, text, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankedChunk), args.Error(1)
}

func rankedChunk(source, title, text string, score float32) domain.RankedChunk {
	return domain.RankedChunk{
		Chunk: domain.Chunk{Text: text, SourceURL: source, SourceTitle: title},
		Score: score,
	}
}

func TestRetrieve_DeduplicatesBySource(t *testing.T) {
	index := new(MockIndexQuerier)
	retriever := NewRetriever(index, 3)

	index.On("Query", mock.Anything, "expense ratio", 3).Return([]domain.RankedChunk{
		rankedChunk("https://a.example/fund", "Fund A", "chunk a1", 0.9),
		rankedChunk("https://a.example/fund", "Fund A", "chunk a2", 0.8),
		rankedChunk("https://b.example/fund", "Fund B", "chunk b1", 0.7),
	}, nil)

	results, err := retriever.Retrieve(context.Background(), "expense ratio", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	// First-seen-by-rank wins; the lower-ranked duplicate is dropped.
	assert.Equal(t, "chunk a1", results[0].Content)
	assert.Equal(t, "https://a.example/fund", results[0].Source)
	assert.Equal(t, "https://b.example/fund", results[1].Source)

	seen := make(map[string]int)
	for _, r := range results {
		seen[r.Source]++
	}
	for source, count := range seen {
		assert.Equal(t, 1, count, "source %s appears more than once", source)
	}
}

func TestRetrieve_SkipsEntriesWithoutSource(t *testing.T) {
	index := new(MockIndexQuerier)
	retriever := NewRetriever(index, 3)

	index.On("Query", mock.Anything, "nav", 3).Return([]domain.RankedChunk{
		rankedChunk("", "orphan", "no provenance", 0.9),
		rankedChunk("https://a.example/fund", "Fund A", "chunk a", 0.8),
	}, nil)

	results, err := retriever.Retrieve(context.Background(), "nav", 3)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://a.example/fund", results[0].Source)
}

func TestRetrieve_ZeroMatchesIsNotAnError(t *testing.T) {
	index := new(MockIndexQuerier)
	retriever := NewRetriever(index, 3)

	index.On("Query", mock.Anything, "unknown topic", 3).Return([]domain.RankedChunk{}, nil)

	results, err := retriever.Retrieve(context.Background(), "unknown topic", 3)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieve_PropagatesIndexUnavailable(t *testing.T) {
	index := new(MockIndexQuerier)
	retriever := NewRetriever(index, 3)

	index.On("Query", mock.Anything, "nav", 3).Return(nil, domain.ErrIndexUnavailable)

	_, err := retriever.Retrieve(context.Background(), "nav", 3)

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestRetrieve_DefaultsTopK(t *testing.T) {
	index := new(MockIndexQuerier)
	retriever := NewRetriever(index, 5)

	index.On("Query", mock.Anything, "nav", 5).Return([]domain.RankedChunk{}, nil)

	_, err := retriever.Retrieve(context.Background(), "nav", 0)

	require.NoError(t, err)
	index.AssertExpectations(t)
}

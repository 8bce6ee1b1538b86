package service

import (
	"context"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

// IndexQuerier defines the read side of the index store.
type IndexQuerier interface {
	Query(ctx context.Context, text string, k int) ([]domain.RankedChunk, error)
}

// Retriever performs nearest-neighbor retrieval with source deduplication:
// among the top-k chunks only the best-ranked chunk per source URL survives.
type Retriever struct {
	index IndexQuerier
	topK  int
}

func NewRetriever(index IndexQuerier, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{index: index, topK: topK}
}

// Retrieve returns at most k deduplicated results in descending similarity
// order. Zero matches is a normal outcome, not an error. An unavailable
// index surfaces as ErrIndexUnavailable so the orchestrator can rebuild.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		k = r.topK
	}

	matches, err := r.index.Query(ctx, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievalResult, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, match := range matches {
		if match.SourceURL == "" {
			continue
		}
		if _, ok := seen[match.SourceURL]; ok {
			continue
		}
		seen[match.SourceURL] = struct{}{}
		results = append(results, domain.RetrievalResult{
			Content: match.Text,
			Source:  match.SourceURL,
			Title:   match.SourceTitle,
		})
	}

	return results, nil
}

package service

import (
	"strings"
	"unicode"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

// ChunkConfig controls chunking for corpus embeddings.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    1000,
		Overlap: 200,
	}
}

// Chunker splits scraped records into overlapping passages. Given identical
// input and configuration the output is byte-for-byte stable, so rebuilds
// are reproducible.
type Chunker struct {
	cfg ChunkConfig
}

func NewChunker(cfg ChunkConfig) *Chunker {
	if cfg.Size <= 0 {
		cfg = DefaultChunkConfig()
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		cfg.Overlap = 0
	}
	return &Chunker{cfg: cfg}
}

// Chunk converts scraped records into ordered chunks with provenance.
// Empty or whitespace-only records produce zero chunks.
func (c *Chunker) Chunk(records []domain.ScrapedRecord) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(records))

	for _, record := range records {
		if record.IsEmpty() {
			continue
		}

		// The title header keeps scheme names attached to every window,
		// which would otherwise only survive in the first chunk.
		text := "Title: " + strings.TrimSpace(record.Title) + "\n\n" + strings.TrimSpace(record.Content)
		pieces := splitText([]rune(text), c.cfg.Size, c.cfg.Overlap)

		for i, piece := range pieces {
			chunks = append(chunks, domain.Chunk{
				Text:        piece,
				SourceURL:   record.URL,
				SourceTitle: record.Title,
				ChunkIndex:  i,
				TotalChunks: len(pieces),
			})
		}
	}

	return chunks
}

// splitText windows runes into pieces of at most size runes, each sharing
// overlap runes with its predecessor. Cut points prefer paragraph breaks,
// then sentence ends, then word boundaries, falling back to a hard cut.
func splitText(runes []rune, size, overlap int) []string {
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	pieces := make([]string, 0, (len(runes)/size)+1)
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			pieces = append(pieces, string(runes[start:]))
			break
		}

		cut := cutPoint(runes, start, end)
		pieces = append(pieces, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return pieces
}

// cutPoint finds the best boundary in (floor, end]. The floor at half the
// window keeps a pathological boundary from producing degenerate chunks.
func cutPoint(runes []rune, start, end int) int {
	floor := start + (end-start)/2

	for i := end; i > floor; i-- {
		if runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n' {
			return i
		}
	}

	for i := end; i > floor; i-- {
		if i >= 2 && unicode.IsSpace(runes[i-1]) && isSentenceEnd(runes[i-2]) {
			return i
		}
	}

	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}

	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

func sampleRecord(content string) domain.ScrapedRecord {
	return domain.ScrapedRecord{
		URL:     "https://mf.nipponindiaim.com/funds-and-plans/equity-funds/nippon-india-large-cap-fund",
		Title:   "Nippon India Large Cap Fund",
		Content: content,
	}
}

func TestChunk_EmptyRecordProducesNothing(t *testing.T) {
	chunker := NewChunker(DefaultChunkConfig())

	chunks := chunker.Chunk([]domain.ScrapedRecord{
		sampleRecord(""),
		sampleRecord("   \n\t  "),
	})

	assert.Empty(t, chunks)
}

func TestChunk_ShortRecordIsSingleChunk(t *testing.T) {
	chunker := NewChunker(DefaultChunkConfig())
	record := sampleRecord("Total Expense Ratio: 1.05%")

	chunks := chunker.Chunk([]domain.ScrapedRecord{record})

	require.Len(t, chunks, 1)
	assert.Equal(t, "Title: Nippon India Large Cap Fund\n\nTotal Expense Ratio: 1.05%", chunks[0].Text)
	assert.Equal(t, record.URL, chunks[0].SourceURL)
	assert.Equal(t, record.Title, chunks[0].SourceTitle)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[0].TotalChunks)
}

func TestChunk_LongRecordWindowing(t *testing.T) {
	cfg := ChunkConfig{Size: 1000, Overlap: 200}
	chunker := NewChunker(cfg)
	content := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 120))
	record := sampleRecord(content)

	chunks := chunker.Chunk([]domain.ScrapedRecord{record})

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk.Text)), cfg.Size)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, len(chunks), chunk.TotalChunks)
		assert.Equal(t, record.URL, chunk.SourceURL)
	}

	// Consecutive chunks share exactly the configured overlap, so dropping
	// each chunk's leading overlap reconstructs the windowed text with no
	// gaps.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		require.GreaterOrEqual(t, len(cur), cfg.Overlap)
		assert.Equal(t, string(prev[len(prev)-cfg.Overlap:]), string(cur[:cfg.Overlap]))
		rebuilt.WriteString(string(cur[cfg.Overlap:]))
	}
	assert.Equal(t, "Title: "+record.Title+"\n\n"+content, rebuilt.String())
}

func TestChunk_PrefersParagraphBoundaries(t *testing.T) {
	chunker := NewChunker(ChunkConfig{Size: 100, Overlap: 20})
	para := strings.Repeat("x", 40)
	record := sampleRecord(para + "\n\n" + para + "\n\n" + para + "\n\n" + para)

	chunks := chunker.Chunk([]domain.ScrapedRecord{record})

	require.Greater(t, len(chunks), 1)
	// The first window ends at a paragraph break instead of slicing the
	// second paragraph mid-run.
	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"), "expected paragraph-aligned cut, got %q", chunks[0].Text)
}

func TestChunk_Deterministic(t *testing.T) {
	chunker := NewChunker(DefaultChunkConfig())
	record := sampleRecord(strings.Repeat("Minimum SIP amount is Rs. 500 per month. ", 100))

	first := chunker.Chunk([]domain.ScrapedRecord{record})
	second := chunker.Chunk([]domain.ScrapedRecord{record})

	assert.Equal(t, first, second)
}

func TestChunk_MultipleRecordsKeepProvenance(t *testing.T) {
	chunker := NewChunker(DefaultChunkConfig())
	a := sampleRecord("Exit load: 1% if redeemed within 1 year.")
	b := domain.ScrapedRecord{
		URL:     "https://www.amfiindia.com/investor-corner",
		Title:   "AMFI Investor Corner",
		Content: "Riskometer categories range from Low to Very High.",
	}

	chunks := chunker.Chunk([]domain.ScrapedRecord{a, b})

	require.Len(t, chunks, 2)
	assert.Equal(t, a.URL, chunks[0].SourceURL)
	assert.Equal(t, b.URL, chunks[1].SourceURL)
	assert.Equal(t, 0, chunks[1].ChunkIndex)
}

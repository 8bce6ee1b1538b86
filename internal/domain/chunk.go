package domain

// Chunk is a contiguous slice of a scraped record's content, sized to a
// target length with bounded overlap to the previous chunk. Chunks are
// derived and disposable: a rebuild regenerates the full set.
type Chunk struct {
	Text        string
	SourceURL   string
	SourceTitle string
	ChunkIndex  int
	TotalChunks int
}

// RankedChunk pairs a stored chunk with its similarity score for one query.
// Results are ordered by descending score.
type RankedChunk struct {
	Chunk
	Score float32
}

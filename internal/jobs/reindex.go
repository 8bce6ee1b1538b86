package jobs

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Rebuilder rebuilds the vector index from the current corpus.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// CorpusWatcher reports when the corpus file was last modified.
type CorpusWatcher interface {
	ModTime() (time.Time, error)
}

// ReindexProcessor rebuilds the index whenever the corpus file changes
// on disk. The first run only records the current modification time so
// a fresh process does not trigger a redundant rebuild of an index that
// was already built at startup.
type ReindexProcessor struct {
	watcher   CorpusWatcher
	rebuilder Rebuilder
	lastSeen  time.Time
	primed    bool
}

// NewReindexProcessor creates a new ReindexProcessor instance
func NewReindexProcessor(watcher CorpusWatcher, rebuilder Rebuilder) *ReindexProcessor {
	return &ReindexProcessor{
		watcher:   watcher,
		rebuilder: rebuilder,
	}
}

// Run checks the corpus modification time and rebuilds the index if it
// changed since the last observed time.
func (p *ReindexProcessor) Run(ctx context.Context) error {
	modTime, err := p.watcher.ModTime()
	if err != nil {
		return fmt.Errorf("failed to stat corpus: %w", err)
	}

	if !p.primed {
		p.lastSeen = modTime
		p.primed = true
		return nil
	}

	if !modTime.After(p.lastSeen) {
		return nil
	}

	log.Printf("Corpus changed at %s, rebuilding index", modTime.Format(time.RFC3339))
	if err := p.rebuilder.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	p.lastSeen = modTime
	return nil
}

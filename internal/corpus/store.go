// Package corpus manages the scraped-record corpus the index is built
// from. The external collector writes one aggregate JSON file; this store
// is the only reader and writer of that contract inside the service.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

// SnapshotClient mirrors the corpus file in durable object storage for
// deployments without a persistent disk.
type SnapshotClient interface {
	Download(ctx context.Context) ([]byte, error)
	Upload(ctx context.Context, data []byte) error
}

// Store loads and saves the aggregate scraped-records file. Absence of the
// file (and of any snapshot) means "no corpus yet — must collect".
type Store struct {
	path      string
	snapshots SnapshotClient
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func NewStoreWithSnapshots(path string, snapshots SnapshotClient) *Store {
	return &Store{path: path, snapshots: snapshots}
}

// Load reads the corpus. When the local file is missing and a snapshot
// client is configured, the snapshot is fetched and cached locally.
func (s *Store) Load(ctx context.Context) ([]domain.ScrapedRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read corpus file: %w", err)
		}
		if s.snapshots == nil {
			return nil, domain.ErrNoCorpus
		}
		data, err = s.snapshots.Download(ctx)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIndexUnavailable, "no local corpus and snapshot download failed", err)
		}
		if werr := s.writeLocal(data); werr != nil {
			log.Printf("failed to cache corpus snapshot locally: %v", werr)
		}
	}

	var records []domain.ScrapedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	return records, nil
}

// Save writes the corpus file and uploads a snapshot when configured.
// Snapshot upload is best-effort; the local file is the source of truth
// for the next rebuild.
func (s *Store) Save(ctx context.Context, records []domain.ScrapedRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	if err := s.writeLocal(data); err != nil {
		return err
	}

	if s.snapshots != nil {
		if err := s.snapshots.Upload(ctx, data); err != nil {
			log.Printf("failed to upload corpus snapshot: %v", err)
		}
	}

	return nil
}

// ModTime reports when the corpus file last changed. Used by the refresh
// worker to detect a new collection pass.
func (s *Store) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *Store) writeLocal(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create corpus directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corpus file: %w", err)
	}
	return nil
}

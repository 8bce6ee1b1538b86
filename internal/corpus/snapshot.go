package corpus

import (
	"context"

	"github.com/fundfacts-ai/fundfacts/internal/storage"
)

const snapshotKey = "all_sources.json"

// S3Snapshots adapts the object storage client to the SnapshotClient
// interface, pinning the snapshot to a fixed well-known key.
type S3Snapshots struct {
	client *storage.S3Client
}

func NewS3Snapshots(client *storage.S3Client) *S3Snapshots {
	return &S3Snapshots{client: client}
}

func (s *S3Snapshots) Download(ctx context.Context) ([]byte, error) {
	return s.client.GetObject(ctx, snapshotKey)
}

func (s *S3Snapshots) Upload(ctx context.Context, data []byte) error {
	return s.client.PutObject(ctx, snapshotKey, data, "application/json")
}

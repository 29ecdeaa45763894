package storage

import (
	"context"
	"fmt"

	"dambo/config"
)

// Store holds the raw uploaded CSV bytes, keyed by project and dataset.
// The metadata DB is authoritative for which datasets exist; the store only
// answers for their payloads.
type Store interface {
	Save(ctx context.Context, projectID, datasetID string, data []byte) (string, error)
	Load(ctx context.Context, projectID, datasetID string) ([]byte, error)
	Delete(ctx context.Context, projectID, datasetID string) error
	Exists(ctx context.Context, projectID, datasetID string) (bool, error)
}

// New picks the backend from the runtime configuration: S3 when an endpoint
// is configured, local filesystem otherwise.
func New() (Store, error) {
	if config.Config.S3.URL != "" {
		return newS3Store()
	}
	if config.Config.Storage.Root == "" {
		return nil, fmt.Errorf("storage root is not configured")
	}
	return &fsStore{root: config.Config.Storage.Root}, nil
}

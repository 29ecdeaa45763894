package storage

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"
)

// fsStore lays files out as root/projectID/datasetID.csv. Writes go to a
// uuid-named temp file first and are renamed into place, so a crashed
// upload never leaves a half-written dataset behind.
type fsStore struct {
	root string
}

func (s *fsStore) filePath(projectID, datasetID string) string {
	return path.Join(s.root, projectID, datasetID+".csv")
}

func (s *fsStore) Save(_ context.Context, projectID, datasetID string, data []byte) (string, error) {
	dir := path.Join(s.root, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}
	tmpName := path.Join(dir, uuid.New().String()+".tmp")
	if err := os.WriteFile(tmpName, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	target := s.filePath(projectID, datasetID)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publish file: %w", err)
	}
	return target, nil
}

func (s *fsStore) Load(_ context.Context, projectID, datasetID string) ([]byte, error) {
	return os.ReadFile(s.filePath(projectID, datasetID))
}

func (s *fsStore) Delete(_ context.Context, projectID, datasetID string) error {
	err := os.Remove(s.filePath(projectID, datasetID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *fsStore) Exists(_ context.Context, projectID, datasetID string) (bool, error) {
	_, err := os.Stat(s.filePath(projectID, datasetID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

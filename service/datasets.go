package service

import (
	"context"
	"database/sql"
	"fmt"

	"dambo/frame"
	"dambo/model"
	"dambo/repository"
	"dambo/storage"
)

// NotFoundError reports a missing project or dataset. The boundary maps it
// to a 404.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// DatasetSource resolves a dataset id to its parsed table: metadata from
// the DB, payload from the store. Every analysis request goes through here;
// nothing is cached, each call re-reads and re-parses the file.
type DatasetSource struct {
	DB    *sql.DB
	Store storage.Store
}

func (s *DatasetSource) Resolve(ctx context.Context, datasetID string) (*model.Dataset, *frame.Frame, error) {
	ds, err := repository.GetDataset(s.DB, datasetID)
	if err != nil {
		return nil, nil, err
	}
	if ds == nil {
		return nil, nil, &NotFoundError{Kind: "dataset", ID: datasetID}
	}
	data, err := s.Store.Load(ctx, ds.ProjectID, ds.DatasetID)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset %s: %w", datasetID, err)
	}
	f, err := frame.ReadCSV(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse dataset %s: %w", datasetID, err)
	}
	return ds, f, nil
}

package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"dambo/frame"
	"dambo/model"
	"dambo/repository"
	"dambo/router"
	"dambo/service"
	"dambo/utils"
)

const maxUploadMemory = 32 << 20

func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) error {
	projectID, err := h.requireProject(r)
	if err != nil {
		return err
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return router.BadRequest("invalid multipart form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return router.BadRequest("missing file field")
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".csv") {
		return router.BadRequest("Only CSV files are accepted")
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return router.BadRequest("Empty file uploaded")
	}
	f, err := frame.ReadCSV(content)
	if err != nil {
		return router.BadRequest(fmt.Sprintf("Failed to parse CSV file: %v", err))
	}
	if f.RowCount() == 0 {
		return router.BadRequest("CSV file contains no data")
	}

	existing, err := repository.ExistingDatasetIDs(h.DB)
	if err != nil {
		return err
	}
	datasetID, err := utils.GenerateUniqueID(existing)
	if err != nil {
		return err
	}
	filePath, err := h.Store.Save(r.Context(), projectID, datasetID, content)
	if err != nil {
		return err
	}
	ds := &model.Dataset{
		DatasetID:  datasetID,
		ProjectID:  projectID,
		Filename:   header.Filename,
		FilePath:   filePath,
		FileSize:   int64(len(content)),
		UploadedAt: time.Now().UTC(),
	}
	if err := repository.InsertDataset(h.DB, ds); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ds)
}

func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) error {
	projectID, err := h.requireProject(r)
	if err != nil {
		return err
	}
	datasets, err := repository.ListDatasets(h.DB, projectID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, datasets)
}

func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) error {
	datasetID := mux.Vars(r)["dataset_id"]
	ds, err := repository.GetDataset(h.DB, datasetID)
	if err != nil {
		return err
	}
	if ds == nil {
		return &service.NotFoundError{Kind: "dataset", ID: datasetID}
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return h.Store.Delete(ctx, ds.ProjectID, ds.DatasetID)
	})
	g.Go(func() error {
		return repository.DeleteDataset(h.DB, datasetID)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"status":     "deleted",
		"dataset_id": datasetID,
	})
}

// ExportDataset streams the dataset as a Parquet file: numeric columns as
// nullable float64, everything else as nullable strings.
func (h *Handler) ExportDataset(w http.ResponseWriter, r *http.Request) error {
	datasetID := mux.Vars(r)["dataset_id"]
	ds, f, err := h.Source.Resolve(r.Context(), datasetID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeParquet(&buf, f); err != nil {
		return fmt.Errorf("export dataset %s: %w", datasetID, err)
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.parquet"`, ds.DatasetID))
	_, err = w.Write(buf.Bytes())
	return err
}

func writeParquet(w io.Writer, f *frame.Frame) error {
	fields := make([]arrow.Field, 0, f.ColumnCount())
	for _, c := range f.Columns() {
		var typ arrow.DataType = arrow.BinaryTypes.String
		if c.IsNumeric() {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields = append(fields, arrow.Field{Name: c.Name, Type: typ, Nullable: true})
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()
	for i, c := range f.Columns() {
		if c.IsNumeric() {
			fb := builder.Field(i).(*array.Float64Builder)
			for row := 0; row < c.Len(); row++ {
				if v, ok := c.Float(row); ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
			continue
		}
		sb := builder.Field(i).(*array.StringBuilder)
		for row := 0; row < c.Len(); row++ {
			if c.Valid(row) {
				sb.Append(c.Str(row))
			} else {
				sb.AppendNull()
			}
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	writerProps := parquet.NewWriterProperties(
		parquet.WithMaxRowGroupLength(8124),
	)
	writer, err := pqarrow.NewFileWriter(schema, w, writerProps,
		pqarrow.NewArrowWriterProperties())
	if err != nil {
		return err
	}
	if err := writer.Write(record); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

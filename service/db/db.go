package db

import (
	"database/sql"
	"fmt"
	"os"
	"path"

	_ "github.com/marcboeker/go-duckdb/v2" // load duckdb driver
)

// ConnectDuckDB opens the embedded metadata database, creating the file
// and its parent directory on first run.
func ConnectDuckDB(filePath string) (*sql.DB, error) {
	if dir := path.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}
	conn, err := sql.Open("duckdb", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}
	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to DuckDB: %w", err)
	}
	return conn, nil
}

package repository

import (
	"database/sql"
	"fmt"

	"dambo/model"
)

// CreateTables creates the metadata schema. Chats are stored one row per
// message so a save can be replayed in order without JSON blobs in the DB.
func CreateTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			project_id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS datasets (
			dataset_id VARCHAR PRIMARY KEY,
			project_id VARCHAR,
			filename VARCHAR,
			file_path VARCHAR,
			file_size BIGINT,
			uploaded_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS canvas_states (
			project_id VARCHAR PRIMARY KEY,
			nodes VARCHAR,
			edges VARCHAR,
			updated_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			project_id VARCHAR,
			chat_id VARCHAR,
			chat_title VARCHAR,
			chat_position INTEGER,
			message_position INTEGER,
			role VARCHAR,
			content VARCHAR
		);`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create metadata table: %w", err)
		}
	}
	return nil
}

func InsertProject(db *sql.DB, p *model.Project) error {
	stmt, err := db.Prepare(`INSERT INTO projects (project_id, created_at) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL statement: %w", err)
	}
	defer stmt.Close()
	if _, err = stmt.Exec(p.ProjectID, p.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetProject returns nil without error when the project does not exist.
func GetProject(db *sql.DB, projectID string) (*model.Project, error) {
	row := db.QueryRow(`SELECT project_id, created_at FROM projects WHERE project_id = ?`, projectID)
	p := &model.Project{}
	err := row.Scan(&p.ProjectID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	return p, nil
}

func ExistingProjectIDs(db *sql.DB) (map[string]bool, error) {
	return idSet(db, `SELECT project_id FROM projects`)
}

func ExistingDatasetIDs(db *sql.DB) (map[string]bool, error) {
	return idSet(db, `SELECT dataset_id FROM datasets`)
}

func idSet(db *sql.DB, query string) (map[string]bool, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()
	ids := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func InsertDataset(db *sql.DB, d *model.Dataset) error {
	stmt, err := db.Prepare(`INSERT INTO datasets
		(dataset_id, project_id, filename, file_path, file_size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL statement: %w", err)
	}
	defer stmt.Close()
	_, err = stmt.Exec(d.DatasetID, d.ProjectID, d.Filename, d.FilePath, d.FileSize, d.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	return nil
}

// GetDataset returns nil without error when the dataset does not exist.
func GetDataset(db *sql.DB, datasetID string) (*model.Dataset, error) {
	row := db.QueryRow(`SELECT dataset_id, project_id, filename, file_path, file_size, uploaded_at
		FROM datasets WHERE dataset_id = ?`, datasetID)
	d := &model.Dataset{}
	err := row.Scan(&d.DatasetID, &d.ProjectID, &d.Filename, &d.FilePath, &d.FileSize, &d.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return d, nil
}

func ListDatasets(db *sql.DB, projectID string) ([]model.Dataset, error) {
	rows, err := db.Query(`SELECT dataset_id, project_id, filename, file_path, file_size, uploaded_at
		FROM datasets WHERE project_id = ? ORDER BY uploaded_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()
	out := []model.Dataset{}
	for rows.Next() {
		var d model.Dataset
		err := rows.Scan(&d.DatasetID, &d.ProjectID, &d.Filename, &d.FilePath, &d.FileSize, &d.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func DeleteDataset(db *sql.DB, datasetID string) error {
	if _, err := db.Exec(`DELETE FROM datasets WHERE dataset_id = ?`, datasetID); err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return nil
}

func UpsertCanvas(db *sql.DB, c *model.CanvasState) error {
	stmt, err := db.Prepare(`INSERT INTO canvas_states (project_id, nodes, edges, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id) DO UPDATE SET
			nodes = excluded.nodes,
			edges = excluded.edges,
			updated_at = excluded.updated_at;`)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL statement: %w", err)
	}
	defer stmt.Close()
	_, err = stmt.Exec(c.ProjectID, string(c.Nodes), string(c.Edges), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert canvas: %w", err)
	}
	return nil
}

// GetCanvas returns nil without error when no canvas was ever saved.
func GetCanvas(db *sql.DB, projectID string) (*model.CanvasState, error) {
	row := db.QueryRow(`SELECT project_id, nodes, edges, updated_at
		FROM canvas_states WHERE project_id = ?`, projectID)
	c := &model.CanvasState{}
	var nodes, edges string
	err := row.Scan(&c.ProjectID, &nodes, &edges, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read canvas: %w", err)
	}
	c.Nodes = []byte(nodes)
	c.Edges = []byte(edges)
	return c, nil
}

func DeleteCanvas(db *sql.DB, projectID string) error {
	if _, err := db.Exec(`DELETE FROM canvas_states WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to delete canvas: %w", err)
	}
	return nil
}

// ReplaceChats overwrites the whole chat history of a project. Saves are
// whole-document from the client, so replace-on-save keeps DB and UI equal.
func ReplaceChats(db *sql.DB, projectID string, chats []model.Chat) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chat_messages WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear chats: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO chat_messages
		(project_id, chat_id, chat_title, chat_position, message_position, role, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL statement: %w", err)
	}
	defer stmt.Close()
	for ci, chat := range chats {
		if len(chat.Messages) == 0 {
			// Keep empty chats visible after reload.
			if _, err := stmt.Exec(projectID, chat.ID, chat.Title, ci, -1, "", ""); err != nil {
				return fmt.Errorf("failed to insert chat: %w", err)
			}
			continue
		}
		for mi, msg := range chat.Messages {
			if _, err := stmt.Exec(projectID, chat.ID, chat.Title, ci, mi, msg.Role, msg.Content); err != nil {
				return fmt.Errorf("failed to insert chat message: %w", err)
			}
		}
	}
	return tx.Commit()
}

func GetChats(db *sql.DB, projectID string) ([]model.Chat, error) {
	rows, err := db.Query(`SELECT chat_id, chat_title, message_position, role, content
		FROM chat_messages WHERE project_id = ?
		ORDER BY chat_position, message_position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	chats := []model.Chat{}
	index := map[string]int{}
	for rows.Next() {
		var chatID, title, role, content string
		var msgPos int
		if err := rows.Scan(&chatID, &title, &msgPos, &role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		i, ok := index[chatID]
		if !ok {
			i = len(chats)
			index[chatID] = i
			chats = append(chats, model.Chat{ID: chatID, Title: title, Messages: []model.ChatTurn{}})
		}
		if msgPos >= 0 {
			chats[i].Messages = append(chats[i].Messages, model.ChatTurn{Role: role, Content: content})
		}
	}
	return chats, rows.Err()
}

package model

import (
	"encoding/json"
	"time"
)

// Project is a workspace that owns uploaded datasets, a canvas and chats.
type Project struct {
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Dataset is the metadata record of one uploaded CSV file.
type Dataset struct {
	DatasetID  string    `json:"dataset_id"`
	ProjectID  string    `json:"project_id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CanvasState stores the frontend canvas (nodes/edges) as opaque JSON.
type CanvasState struct {
	ProjectID string          `json:"project_id"`
	Nodes     json.RawMessage `json:"nodes"`
	Edges     json.RawMessage `json:"edges"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Chat struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Messages []ChatTurn `json:"messages"`
}

type ChatsPayload struct {
	Chats []Chat `json:"chats"`
}

// ChartConfig describes one chart placed on the canvas, as sent by the UI.
type ChartConfig struct {
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"dambo/model"
	"dambo/repository"
	"dambo/router"
	"dambo/service"
	"dambo/utils"
)

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) error {
	existing, err := repository.ExistingProjectIDs(h.DB)
	if err != nil {
		return err
	}
	id, err := utils.GenerateUniqueID(existing)
	if err != nil {
		return err
	}
	p := &model.Project{ProjectID: id, CreatedAt: time.Now().UTC()}
	if err := repository.InsertProject(h.DB, p); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"project_id": id})
}

func (h *Handler) requireProject(r *http.Request) (string, error) {
	projectID := mux.Vars(r)["project_id"]
	p, err := repository.GetProject(h.DB, projectID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", &service.NotFoundError{Kind: "project", ID: projectID}
	}
	return projectID, nil
}

func (h *Handler) GetCanvas(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["project_id"]
	state, err := repository.GetCanvas(h.DB, projectID)
	if err != nil {
		return err
	}
	if state == nil {
		// No state saved yet: an empty canvas, not a 404.
		state = &model.CanvasState{
			ProjectID: projectID,
			Nodes:     json.RawMessage("[]"),
			Edges:     json.RawMessage("[]"),
		}
	}
	return writeJSON(w, http.StatusOK, state)
}

func (h *Handler) SaveCanvas(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["project_id"]
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	var payload struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := jsoniter.Unmarshal(body, &payload); err != nil {
		return router.BadRequest("invalid canvas payload")
	}
	if payload.Nodes == nil {
		payload.Nodes = json.RawMessage("[]")
	}
	if payload.Edges == nil {
		payload.Edges = json.RawMessage("[]")
	}
	now := time.Now().UTC()
	state := &model.CanvasState{
		ProjectID: projectID,
		Nodes:     payload.Nodes,
		Edges:     payload.Edges,
		UpdatedAt: &now,
	}
	if err := repository.UpsertCanvas(h.DB, state); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, state)
}

func (h *Handler) ClearCanvas(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["project_id"]
	if err := repository.DeleteCanvas(h.DB, projectID); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) GetChats(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["project_id"]
	chats, err := repository.GetChats(h.DB, projectID)
	if err != nil {
		return err
	}
	for i := range chats {
		if chats[i].Title == "" {
			chats[i].Title = chatTitle(chats[i].ID)
		}
	}
	return writeJSON(w, http.StatusOK, model.ChatsPayload{Chats: chats})
}

// The first chat every project starts with has the fixed id "initial".
func chatTitle(chatID string) string {
	if chatID == "initial" {
		return "General"
	}
	return chatID
}

func (h *Handler) SaveChats(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["project_id"]
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	var payload model.ChatsPayload
	if err := jsoniter.Unmarshal(body, &payload); err != nil {
		return router.BadRequest("invalid chats payload")
	}
	if err := repository.ReplaceChats(h.DB, projectID, payload.Chats); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"status":     "saved",
		"chat_count": len(payload.Chats),
	})
}

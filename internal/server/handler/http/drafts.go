// Package http provides the HTTP surface over the draft editor commands.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"draftvault/internal/models"
	"draftvault/internal/service"
)

// EditorService defines the draft commands required by the handlers.
type EditorService interface {
	CreateDraft(name string) (models.Draft, error)
	RenameDraft(id, name string) error
	SetActive(id string) error
	EditContent(partial models.SectionContent) error
	SaveNow() error
	Undo() (models.SectionContent, bool, error)
	DeleteDraft(id string) error
	RestoreDraft(id string) (models.Draft, error)
	PurgeDraft(id string) error
	State() service.Snapshot
}

// DraftHandler handles draft lifecycle and editing requests.
type DraftHandler struct {
	Editor EditorService
}

// State handles GET /api/state. It returns the full subscription snapshot:
// active draft, save status, score, weak sections and trash entries.
func (h *DraftHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Editor.State())
}

// Create handles POST /api/drafts with an optional {"name": ...} body.
// The new draft becomes active.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
	}

	d, err := h.Editor.CreateDraft(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// Rename handles POST /api/drafts/{id}/rename with a {"name": ...} body.
func (h *DraftHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.Editor.RenameDraft(chi.URLParam(r, "id"), req.Name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /api/drafts/{id}/activate.
func (h *DraftHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.SetActive(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EditContent handles POST /api/drafts/content. The body is a partial
// section map routed through the autosave debounce; the commit happens
// after the quiet period, not within this request.
func (h *DraftHandler) EditContent(w http.ResponseWriter, r *http.Request) {
	var partial models.SectionContent
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.Editor.EditContent(partial); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Save handles POST /api/drafts/save, committing any pending edit
// synchronously.
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.SaveNow(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo handles POST /api/drafts/undo. When nothing is available to undo
// the response carries "undone": false and the state is untouched.
func (h *DraftHandler) Undo(w http.ResponseWriter, r *http.Request) {
	content, ok, err := h.Editor.Undo()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"undone":  ok,
		"content": content,
	})
}

// Delete handles DELETE /api/drafts/{id}, soft-deleting into the trash.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.DeleteDraft(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

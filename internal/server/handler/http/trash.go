package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// TrashHandler handles restore and purge requests for soft-deleted drafts.
type TrashHandler struct {
	Editor EditorService
}

// List handles GET /api/trash.
func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Editor.State().TrashEntries)
}

// Restore handles POST /api/trash/{id}/restore, moving the draft back into
// the live set unchanged.
func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	d, err := h.Editor.RestoreDraft(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Purge handles DELETE /api/trash/{id}. Irreversible.
func (h *TrashHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.PurgeDraft(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

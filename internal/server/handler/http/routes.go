package http

import (
	"net/http"

	"go.uber.org/zap"

	"draftvault/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the draft editor API.
//
// Routes:
//
//	GET    /api/state                    → full state snapshot
//	POST   /api/drafts                   → create draft
//	POST   /api/drafts/{id}/rename       → rename draft
//	POST   /api/drafts/{id}/activate     → switch active draft
//	POST   /api/drafts/content           → debounced content edit
//	POST   /api/drafts/save              → save now
//	POST   /api/drafts/undo              → undo latest commit
//	DELETE /api/drafts/{id}              → soft delete into trash
//	GET    /api/trash                    → list trash entries
//	POST   /api/trash/{id}/restore       → restore draft
//	DELETE /api/trash/{id}               → purge permanently
func NewRouter(
	draftHandler *DraftHandler,
	trashHandler *TrashHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", draftHandler.State)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", draftHandler.Create)
			r.Post("/content", draftHandler.EditContent)
			r.Post("/save", draftHandler.Save)
			r.Post("/undo", draftHandler.Undo)
			r.Post("/{id}/rename", draftHandler.Rename)
			r.Post("/{id}/activate", draftHandler.Activate)
			r.Delete("/{id}", draftHandler.Delete)
		})

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", trashHandler.List)
			r.Post("/{id}/restore", trashHandler.Restore)
			r.Delete("/{id}", trashHandler.Purge)
		})
	})

	return r
}

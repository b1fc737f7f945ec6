package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"draftvault/internal/store"
)

// writeError maps the store error taxonomy onto HTTP status codes:
// validation 400, not found 404, invariant violation 409, persistence 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *store.ValidationError
		nf *store.NotFoundError
		iv *store.InvariantViolation
		pe *store.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.As(err, &nf):
		http.Error(w, nf.Error(), http.StatusNotFound)
	case errors.As(err, &iv):
		http.Error(w, iv.Error(), http.StatusConflict)
	case errors.As(err, &pe):
		http.Error(w, pe.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

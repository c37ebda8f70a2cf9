// Package history exposes the saved scenarios over HTTP.
package history

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/airlift/api"
	corehistory "github.com/kilianp07/airlift/core/history"
)

// NewHandler serves GET /api/history and DELETE /api/history/{id}.
// Query parameters: name (substring), since (RFC3339), limit.
func NewHandler(store corehistory.Store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		q := corehistory.Query{Name: r.URL.Query().Get("name")}
		if s := r.URL.Query().Get("since"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				api.WriteJSON(w, http.StatusBadRequest, api.ErrorBody{Error: "since: " + err.Error()})
				return
			}
			q.Since = t
		}
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				api.WriteJSON(w, http.StatusBadRequest, api.ErrorBody{Error: "limit must be a positive integer"})
				return
			}
			q.Limit = n
		}
		entries, err := store.List(r.Context(), q)
		if err != nil {
			api.WriteJSON(w, http.StatusInternalServerError, api.ErrorBody{Error: err.Error()})
			return
		}
		if entries == nil {
			entries = []corehistory.Entry{}
		}
		api.WriteJSON(w, http.StatusOK, entries)
	})
	mux.HandleFunc("DELETE /api/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), r.PathValue("id"))
		switch {
		case errors.Is(err, corehistory.ErrNotFound):
			api.WriteJSON(w, http.StatusNotFound, api.ErrorBody{Error: err.Error()})
		case err != nil:
			api.WriteJSON(w, http.StatusInternalServerError, api.ErrorBody{Error: err.Error()})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	return mux
}

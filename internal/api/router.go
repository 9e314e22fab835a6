// Package api implements the notegraph REST API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted. defaultMode
// applies to requests without a mode parameter. events, if non-nil, is
// mounted at GET /events.
func NewRouter(svc *noteservice.Service, defaultMode filter.Mode, events http.Handler) chi.Router {
	h := NewHandler(svc, defaultMode)

	r := chi.NewRouter()

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}", h.GetNote)
	r.Get("/stats", h.Stats)
	r.Get("/tags", h.Tags)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}

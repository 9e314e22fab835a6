package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegraph/internal/apperr"
	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc         *noteservice.Service
	defaultMode filter.Mode
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, defaultMode filter.Mode) *Handler {
	return &Handler{svc: svc, defaultMode: defaultMode}
}

// queryArgs reads the q and mode parameters. A missing mode falls back to
// the handler default.
func (h *Handler) queryArgs(r *http.Request) (string, filter.Mode, error) {
	q := r.URL.Query()
	raw := q.Get("mode")
	if raw == "" {
		return q.Get("q"), h.defaultMode, nil
	}
	mode, err := filter.ParseMode(raw)
	if err != nil {
		return "", 0, err
	}
	return q.Get("q"), mode, nil
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes matching a query, best match first
//	@Tags			notes
//	@Produce		json
//	@Param			q		query		string	false	"Query, e.g. #diffgeo >Manifold chart"
//	@Param			mode	query		string	false	"Predicate combination"	Enums(all, any)
//	@Success		200		{object}	NoteListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	query, mode, err := h.queryArgs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	matches := h.svc.Query(r.Context(), query, mode)
	writeJSON(w, http.StatusOK, NoteListResponse{
		Notes: matches,
		Total: len(matches),
	})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get note failed", slog.String("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Stats handles GET /api/stats.
//
//	@Summary		Environment statistics of the notes matching a query
//	@Tags			stats
//	@Produce		json
//	@Param			q		query		string	false	"Query"
//	@Param			mode	query		string	false	"Predicate combination"	Enums(all, any)
//	@Success		200		{object}	Statistics
//	@Failure		400		{object}	errResponse
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	query, mode, err := h.queryArgs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Statistics(r.Context(), query, mode))
}

// Tags handles GET /api/tags.
//
//	@Summary		Distinct tags of the notes matching a query
//	@Tags			tags
//	@Produce		json
//	@Param			q		query		string	false	"Query"
//	@Param			mode	query		string	false	"Predicate combination"	Enums(all, any)
//	@Success		200		{object}	TagsResponse
//	@Failure		400		{object}	errResponse
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	query, mode, err := h.queryArgs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: h.svc.Tags(r.Context(), query, mode)})
}

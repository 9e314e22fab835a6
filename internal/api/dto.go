package api

import (
	"github.com/starford/notegraph/internal/envstats"
	"github.com/starford/notegraph/internal/noteservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteMatch is one query hit (aliased from the domain layer).
type NoteMatch = noteservice.Match

// Statistics is the environment statistics response (aliased from the engine).
type Statistics = envstats.Statistics

// NoteListResponse wraps query results.
type NoteListResponse struct {
	Notes []NoteMatch `json:"notes" validate:"required"`
	Total int         `json:"total" example:"42" validate:"required"`
}

// TagsResponse wraps the tags of an environment.
type TagsResponse struct {
	Tags []string `json:"tags" example:"diffgeo,diffgeo/charts" validate:"required"`
}

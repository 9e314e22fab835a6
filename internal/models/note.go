// Package models defines the domain types for notegraph.
package models

import "time"

// Note is one parsed document of the vault. Once placed in a NoteIndex it is
// treated as immutable.
type Note struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Tags       []string  `json:"tags"`  // hierarchical, "/"-separated, no leading '#'
	Links      []string  `json:"links"` // target ids; may be absent from the index
	Words      int       `json:"words"`
	Characters int       `json:"characters"`
	Checksum   string    `json:"checksum"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NoteIndex maps note id to note. It is built by the loader and only read by
// the filter and statistics engines.
type NoteIndex map[string]*Note

// NoteMetadata is a lightweight representation returned by vault listings.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

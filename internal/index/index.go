package index

import "github.com/starford/notegraph/internal/models"

// Repository is the set of index operations used by sync, the watcher and
// the corpus loader. Tests can substitute their own implementation.
type Repository interface {
	UpsertNote(n NoteRow, links []string) error
	DeleteNote(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	LoadNotes() ([]models.Note, error)
}

// Verify *DB satisfies Repository at compile time.
var _ Repository = (*DB)(nil)

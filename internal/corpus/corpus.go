// Package corpus holds the current in-memory NoteIndex and replaces it
// atomically when the vault changes. Readers always see a complete,
// immutable snapshot.
package corpus

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/starford/notegraph/internal/models"
)

// Loader returns every known note. index.DB satisfies it.
type Loader interface {
	LoadNotes() ([]models.Note, error)
}

// Corpus serves NoteIndex snapshots built from a Loader.
type Corpus struct {
	loader Loader
	logger *slog.Logger
	snap   atomic.Pointer[models.NoteIndex]
}

// New returns a Corpus with an empty snapshot. Call Reload to populate it.
func New(loader Loader, logger *slog.Logger) *Corpus {
	c := &Corpus{loader: loader, logger: logger}
	empty := models.NoteIndex{}
	c.snap.Store(&empty)
	return c
}

// Snapshot returns the current index. Callers must not modify it.
func (c *Corpus) Snapshot() models.NoteIndex {
	return *c.snap.Load()
}

// Reload builds a fresh index and swaps it in. When two files map to the
// same id the first path in lexical order wins; the others are logged and
// skipped, as are notes with an empty id. On error the previous snapshot stays in place.
func (c *Corpus) Reload() error {
	notes, err := c.loader.LoadNotes()
	if err != nil {
		return fmt.Errorf("corpus: load: %w", err)
	}

	idx := make(models.NoteIndex, len(notes))
	for i := range notes {
		n := &notes[i]
		if n.ID == "" {
			c.logger.Warn("corpus: note without id", slog.String("path", n.Path))
			continue
		}
		if prev, dup := idx[n.ID]; dup {
			c.logger.Warn("corpus: duplicate note id",
				slog.String("id", n.ID),
				slog.String("kept", prev.Path),
				slog.String("skipped", n.Path))
			continue
		}
		idx[n.ID] = n
	}

	c.snap.Store(&idx)
	c.logger.Debug("corpus: reloaded", slog.Int("notes", len(idx)))
	return nil
}

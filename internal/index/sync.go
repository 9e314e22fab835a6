package index

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/notegraph/internal/checksum"
	"github.com/starford/notegraph/internal/parser"
	"github.com/starford/notegraph/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db Repository, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	indexed := 0
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		indexed++
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	removed := 0
	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteNote(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
	}

	logger.Info("sync: done",
		slog.Int("files", len(metas)),
		slog.Int("indexed", indexed),
		slog.Int("removed", removed))
	return nil
}

// indexFile parses data and upserts it. The note id comes from the file
// stem; links are resolved to ids the same way.
func indexFile(db Repository, path string, data []byte, modTime time.Time) error {
	id := parser.IDFromPath(path)
	if id == "" {
		return fmt.Errorf("index: %s: empty note id", path)
	}

	res, err := parser.Parse(data)
	if err != nil {
		return err
	}

	name := res.Title
	if name == "" {
		name = parser.Stem(path)
	}

	row := NoteRow{
		Path:       path,
		ID:         id,
		Name:       name,
		Checksum:   checksum.Sum(data),
		Tags:       res.Tags,
		Words:      res.Words,
		Characters: res.Characters,
		UpdatedAt:  modTime,
	}
	return db.UpsertNote(row, linkIDs(res.Links))
}

// linkIDs resolves wikilink targets to note ids, dropping duplicates that
// differ only in spelling. Folder prefixes and a ".md" suffix are ignored
// since ids are derived from file stems.
func linkIDs(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if i := strings.LastIndex(t, "/"); i >= 0 {
			t = t[i+1:]
		}
		id := parser.NameToID(strings.TrimSuffix(t, ".md"))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

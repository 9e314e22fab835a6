package index

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/notegraph/internal/models"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path       string
	ID         string
	Name       string
	Checksum   string
	Tags       []string
	Words      int
	Characters int
	UpdatedAt  time.Time
}

// UpsertNote inserts or replaces a note and its outgoing links (target ids)
// within a transaction.
func (db *DB) UpsertNote(n NoteRow, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if n.Tags == nil {
		n.Tags = []string{}
	}
	tagsJSON, _ := json.Marshal(n.Tags)

	_, err = tx.Exec(`
		INSERT INTO notes (path, id, name, checksum, tags, words, characters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id         = excluded.id,
			name       = excluded.name,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			words      = excluded.words,
			characters = excluded.characters,
			updated_at = excluded.updated_at
	`, n.Path, n.ID, n.Name, n.Checksum, string(tagsJSON), n.Words, n.Characters, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// Replace links: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(n.Path, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note and its outgoing links.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, path); err != nil {
		return fmt.Errorf("index: delete links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM notes WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every indexed path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// LoadNotes returns every indexed note ordered by path, with its links in
// insertion order.
func (db *DB) LoadNotes() ([]models.Note, error) {
	links, err := db.allLinks()
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT path, id, name, checksum, tags, words, characters, updated_at
		FROM notes
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("index: load notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var (
			n    models.Note
			tags string
		)
		if err := rows.Scan(&n.Path, &n.ID, &n.Name, &n.Checksum, &tags, &n.Words, &n.Characters, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("index: scan note: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return nil, fmt.Errorf("index: decode tags of %s: %w", n.Path, err)
		}
		n.Links = links[n.Path]
		if n.Links == nil {
			n.Links = []string{}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (db *DB) allLinks() (map[string][]string, error) {
	rows, err := db.conn.Query(`SELECT source, target FROM links ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("index: load links: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var src, target string
		if err := rows.Scan(&src, &target); err != nil {
			return nil, err
		}
		out[src] = append(out[src], target)
	}
	return out, rows.Err()
}

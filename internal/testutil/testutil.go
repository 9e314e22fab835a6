// Package testutil provides shared test helpers for building vaults, indexes
// and query services.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notegraph/internal/corpus"
	"github.com/starford/notegraph/internal/index"
	"github.com/starford/notegraph/internal/noteservice"
	"github.com/starford/notegraph/internal/storage"
)

// MathVault is a small vault used across handler tests. "atlas" is linked
// but never written, so it is a broken link.
var MathVault = map[string]string{
	"math/Manifold.md": "---\ntags: [diffgeo]\n---\n# Manifold\nA space that is locally [[Chart|charted]].\n",
	"math/Chart.md":    "---\ntags: [diffgeo/charts]\n---\nA chart of a [[Manifold]] belongs to an [[Atlas]].\n",
	"algebra/Group.md": "---\ntags: [algebra]\n---\n# Group\nLie groups are [[Manifold|manifolds]].\n",
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "notegraph-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteFiles writes files (slash-separated paths relative to dir) to disk,
// creating parent directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for p, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// TestService writes files into a fresh vault, indexes it and returns a
// query service over the loaded corpus.
func TestService(t *testing.T, files map[string]string) *noteservice.Service {
	t.Helper()
	dir, store := TestVault(t)
	WriteFiles(t, dir, files)

	db := TestDB(t)
	if err := index.Sync(db, store, Logger()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	c := corpus.New(db, Logger())
	if err := c.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return noteservice.NewService(c, store)
}

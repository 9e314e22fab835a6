package corpus

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/notegraph/internal/models"
)

type stubLoader struct {
	mu    sync.Mutex
	notes []models.Note
	err   error
}

func (s *stubLoader) LoadNotes() ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Note(nil), s.notes...), nil
}

func (s *stubLoader) set(notes []models.Note, err error) {
	s.mu.Lock()
	s.notes, s.err = notes, err
	s.mu.Unlock()
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCorpus_EmptyBeforeReload(t *testing.T) {
	c := New(&stubLoader{}, discard())
	assert.NotNil(t, c.Snapshot())
	assert.Empty(t, c.Snapshot())
}

func TestCorpus_Reload(t *testing.T) {
	l := &stubLoader{}
	l.set([]models.Note{
		{ID: "chart", Path: "a/chart.md"},
		{ID: "manifold", Path: "manifold.md"},
	}, nil)
	c := New(l, discard())

	require.NoError(t, c.Reload())
	snap := c.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "a/chart.md", snap["chart"].Path)
}

func TestCorpus_DuplicateIDFirstPathWins(t *testing.T) {
	l := &stubLoader{}
	l.set([]models.Note{
		{ID: "chart", Path: "a/chart.md"},
		{ID: "chart", Path: "b/Chart.md"},
	}, nil)
	c := New(l, discard())

	require.NoError(t, c.Reload())
	assert.Len(t, c.Snapshot(), 1)
	assert.Equal(t, "a/chart.md", c.Snapshot()["chart"].Path)
}

func TestCorpus_SkipsEmptyID(t *testing.T) {
	l := &stubLoader{}
	l.set([]models.Note{
		{ID: "", Path: ".md"},
		{ID: "group", Path: "algebra/group.md"},
	}, nil)
	c := New(l, discard())

	require.NoError(t, c.Reload())
	snap := c.Snapshot()
	assert.Len(t, snap, 1)
	assert.NotContains(t, snap, "")
	assert.Contains(t, snap, "group")
}

func TestCorpus_ReloadErrorKeepsPrevious(t *testing.T) {
	l := &stubLoader{}
	l.set([]models.Note{{ID: "a", Path: "a.md"}}, nil)
	c := New(l, discard())
	require.NoError(t, c.Reload())

	l.set(nil, errors.New("disk on fire"))
	assert.Error(t, c.Reload())
	assert.Len(t, c.Snapshot(), 1)
}

func TestCorpus_SnapshotIsStableAcrossReload(t *testing.T) {
	l := &stubLoader{}
	l.set([]models.Note{{ID: "a", Path: "a.md"}}, nil)
	c := New(l, discard())
	require.NoError(t, c.Reload())

	old := c.Snapshot()
	l.set([]models.Note{{ID: "a", Path: "a.md"}, {ID: "b", Path: "b.md"}}, nil)
	require.NoError(t, c.Reload())

	assert.Len(t, old, 1, "held snapshot must not change")
	assert.Len(t, c.Snapshot(), 2)
}

func TestCorpus_ConcurrentReaders(t *testing.T) {
	l := &stubLoader{}
	l.set([]models.Note{{ID: "a", Path: "a.md"}}, nil)
	c := New(l, discard())
	require.NoError(t, c.Reload())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := c.Snapshot()
				_ = len(snap)
				_ = snap["a"]
			}
		}()
	}
	for j := 0; j < 20; j++ {
		require.NoError(t, c.Reload())
	}
	wg.Wait()
}

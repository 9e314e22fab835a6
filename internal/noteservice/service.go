// Package noteservice answers note queries against the current corpus
// snapshot: filtering, environment statistics, note details and tags.
package noteservice

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/starford/notegraph/internal/apperr"
	"github.com/starford/notegraph/internal/envstats"
	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/models"
	"github.com/starford/notegraph/internal/storage"
)

// Match is one note selected by a query.
type Match struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Path  string   `json:"path"`
	Tags  []string `json:"tags"`
	Score int      `json:"score"`
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Path       string             `json:"path"`
	Content    string             `json:"content"`
	Checksum   string             `json:"checksum"`
	Tags       []string           `json:"tags"`
	Links      []string           `json:"links"`
	Backlinks  []string           `json:"backlinks"`
	Words      int                `json:"words"`
	Characters int                `json:"characters"`
	Stats      envstats.NoteStats `json:"stats"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Snapshotter provides the current note index.
type Snapshotter interface {
	Snapshot() models.NoteIndex
}

// Service evaluates queries. It holds no per-query state.
type Service struct {
	corpus Snapshotter
	store  storage.Provider
}

// NewService creates a new note service.
func NewService(corpus Snapshotter, store storage.Provider) *Service {
	return &Service{corpus: corpus, store: store}
}

// Query returns the notes matching query, best match first.
func (s *Service) Query(_ context.Context, query string, mode filter.Mode) []Match {
	idx := s.corpus.Snapshot()
	f := filter.Parse(query, mode)

	out := make([]Match, 0)
	for _, n := range idx {
		score, ok := f.Evaluate(n)
		if !ok {
			continue
		}
		out = append(out, Match{
			ID:    n.ID,
			Name:  n.Name,
			Path:  n.Path,
			Tags:  nonNilSlice(n.Tags),
			Score: score,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Statistics computes the environment statistics of query.
func (s *Service) Statistics(_ context.Context, query string, mode filter.Mode) *envstats.Statistics {
	return envstats.Compute(s.corpus.Snapshot(), filter.Parse(query, mode))
}

// Tags returns the distinct tags of the environment selected by query.
func (s *Service) Tags(ctx context.Context, query string, mode filter.Mode) []string {
	return s.Statistics(ctx, query, mode).Tags
}

// GetNote returns the note with the given id, its raw content, and its link
// statistics relative to the whole corpus.
func (s *Service) GetNote(_ context.Context, id string) (*NoteDetail, error) {
	idx := s.corpus.Snapshot()
	n, ok := idx[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	data, err := s.store.Read(n.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	stats := envstats.Compute(idx, filter.Parse("", filter.ModeAll))
	ns, _ := stats.Lookup(id)

	return &NoteDetail{
		ID:         n.ID,
		Name:       n.Name,
		Path:       n.Path,
		Content:    string(data),
		Checksum:   n.Checksum,
		Tags:       nonNilSlice(n.Tags),
		Links:      nonNilSlice(n.Links),
		Backlinks:  backlinks(idx, id),
		Words:      n.Words,
		Characters: n.Characters,
		Stats:      ns,
		UpdatedAt:  n.UpdatedAt,
	}, nil
}

// backlinks returns the sorted ids of notes linking to id.
func backlinks(idx models.NoteIndex, id string) []string {
	out := make([]string, 0)
	for _, n := range idx {
		for _, l := range n.Links {
			if l == id {
				out = append(out, n.ID)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

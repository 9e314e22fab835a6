package envstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/models"
)

func buildIndex(notes ...*models.Note) models.NoteIndex {
	idx := make(models.NoteIndex, len(notes))
	for _, n := range notes {
		idx[n.ID] = n
	}
	return idx
}

// mathIndex is a small differential geometry corpus. Members of the "diffgeo"
// environment: manifold, chart, atlas.
func mathIndex() models.NoteIndex {
	return buildIndex(
		&models.Note{ID: "manifold", Name: "Manifold", Tags: []string{"diffgeo"},
			Links: []string{"chart", "atlas", "topology", "ghost", "phantom"}, Words: 100, Characters: 600},
		&models.Note{ID: "chart", Name: "Chart", Tags: []string{"diffgeo", "diffgeo/local"},
			Links: []string{"manifold"}, Words: 40, Characters: 250},
		&models.Note{ID: "atlas", Name: "Atlas", Tags: []string{"diffgeo/local"},
			Links: []string{"chart", "ghost"}, Words: 10, Characters: 70},
		&models.Note{ID: "topology", Name: "Topology", Tags: []string{"topology"},
			Links: []string{"manifold", "chart", "nowhere"}, Words: 300, Characters: 2000},
	)
}

func TestCompute_OutlinkScenario(t *testing.T) {
	stats := Compute(mathIndex(), filter.Parse("#diffgeo", filter.ModeAll))

	m, ok := stats.Lookup("manifold")
	require.True(t, ok)
	assert.Equal(t, 2, m.OutlinksLocal)
	assert.Equal(t, 3, m.OutlinksGlobal)
	assert.Equal(t, 2, m.BrokenLinks)
}

func TestCompute_PerNoteCounts(t *testing.T) {
	stats := Compute(mathIndex(), filter.Parse("#diffgeo", filter.ModeAll))

	require.Equal(t, 3, stats.NoteCountTotal)
	_, ok := stats.Lookup("topology")
	assert.False(t, ok)

	chart, _ := stats.Lookup("chart")
	assert.Equal(t, NoteStats{
		ID:             "chart",
		InlinksGlobal:  3, // manifold, atlas, topology
		InlinksLocal:   2, // manifold, atlas
		OutlinksLocal:  1,
		OutlinksGlobal: 1,
		BrokenLinks:    0,
	}, chart)

	manifold, _ := stats.Lookup("manifold")
	assert.Equal(t, 2, manifold.InlinksGlobal) // chart, topology
	assert.Equal(t, 1, manifold.InlinksLocal)

	atlas, _ := stats.Lookup("atlas")
	assert.Equal(t, NoteStats{
		ID:             "atlas",
		InlinksGlobal:  1,
		InlinksLocal:   1,
		OutlinksLocal:  1,
		OutlinksGlobal: 1,
		BrokenLinks:    1,
	}, atlas)
}

func TestCompute_Aggregates(t *testing.T) {
	stats := Compute(mathIndex(), filter.Parse("#diffgeo", filter.ModeAll))

	assert.Equal(t, 150, stats.WordCountTotal)
	assert.Equal(t, 920, stats.CharCountTotal)
	assert.Equal(t, 2, stats.TagCountTotal)
	assert.Equal(t, []string{"diffgeo", "diffgeo/local"}, stats.Tags)
	assert.Equal(t, 4, stats.LocalLocalLinks)  // 2 + 1 + 1
	assert.Equal(t, 5, stats.LocalGlobalLinks) // 3 + 1 + 1
	assert.Equal(t, 6, stats.GlobalLocalLinks) // 2 + 3 + 1
	assert.Equal(t, 3, stats.BrokenLinks)      // 2 + 0 + 1
}

func TestCompute_Consistency(t *testing.T) {
	idx := mathIndex()
	queries := []string{"", "#diffgeo", "#topology", "!#diffgeo", "#diffgeo/local >manifold", "a"}

	for _, q := range queries {
		for _, mode := range []filter.Mode{filter.ModeAll, filter.ModeAny} {
			t.Run(mode.String()+" "+q, func(t *testing.T) {
				stats := Compute(idx, filter.Parse(q, mode))

				outgoing, broken := 0, 0
				for _, ns := range stats.Filtered {
					n := idx[ns.ID]
					outgoing += len(n.Links)
					for _, l := range n.Links {
						if _, ok := idx[l]; !ok {
							broken++
						}
					}
				}
				assert.LessOrEqual(t, stats.LocalLocalLinks, stats.LocalGlobalLinks)
				assert.LessOrEqual(t, stats.LocalGlobalLinks, outgoing)
				assert.GreaterOrEqual(t, stats.GlobalLocalLinks, stats.LocalLocalLinks)
				assert.Equal(t, broken, stats.BrokenLinks)
				assert.Equal(t, len(stats.Filtered), stats.NoteCountTotal)
			})
		}
	}
}

func TestCompute_FullCorpus(t *testing.T) {
	stats := Compute(mathIndex(), filter.Parse("", filter.ModeAll))

	assert.Equal(t, 4, stats.NoteCountTotal)
	assert.Equal(t, stats.LocalLocalLinks, stats.LocalGlobalLinks)
	assert.Equal(t, stats.LocalLocalLinks, stats.GlobalLocalLinks)
	assert.Equal(t, 4, stats.BrokenLinks) // ghost, phantom, ghost, nowhere
}

func TestCompute_EmptyIndex(t *testing.T) {
	stats := Compute(models.NoteIndex{}, filter.Parse("#anything", filter.ModeAny))

	assert.Equal(t, Statistics{Tags: []string{}, Filtered: []NoteStats{}}, *stats)
	assert.NotNil(t, stats.Filtered)
}

func TestCompute_OrderByScoreThenID(t *testing.T) {
	idx := buildIndex(
		&models.Note{ID: "b", Name: "Same"},
		&models.Note{ID: "a", Name: "Same"},
		&models.Note{ID: "c", Name: "Same"},
	)
	stats := Compute(idx, filter.Parse("", filter.ModeAll))

	ids := make([]string, 0, len(stats.Filtered))
	for _, ns := range stats.Filtered {
		ids = append(ids, ns.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

type nameLenScorer struct{}

func (nameLenScorer) Score(_, name string) (int, bool) { return len(name), true }

func TestCompute_OrderByScoreDescending(t *testing.T) {
	idx := buildIndex(
		&models.Note{ID: "short", Name: "ab"},
		&models.Note{ID: "long", Name: "abcdef"},
		&models.Note{ID: "mid", Name: "abcd"},
	)
	f := filter.Parse("", filter.ModeAll)
	f.Scorer = nameLenScorer{}

	stats := Compute(idx, f)
	require.Len(t, stats.Filtered, 3)
	assert.Equal(t, "long", stats.Filtered[0].ID)
	assert.Equal(t, 6, stats.Filtered[0].MatchScore)
	assert.Equal(t, "mid", stats.Filtered[1].ID)
	assert.Equal(t, "short", stats.Filtered[2].ID)
}

func TestCompute_Idempotent(t *testing.T) {
	idx := mathIndex()
	f := filter.Parse("#diffgeo", filter.ModeAny)

	assert.Equal(t, Compute(idx, f), Compute(idx, f))
}

func TestCompute_DoesNotMutateIndex(t *testing.T) {
	idx := mathIndex()
	before := *idx["manifold"]
	before.Links = append([]string(nil), idx["manifold"].Links...)

	Compute(idx, filter.Parse("#diffgeo", filter.ModeAll))

	assert.Equal(t, before, *idx["manifold"])
	assert.Len(t, idx, 4)
}

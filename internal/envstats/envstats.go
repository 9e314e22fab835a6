// Package envstats computes link and size statistics for the subset of notes
// ("environment") selected by a filter, relative to the whole index.
package envstats

import (
	"sort"

	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/models"
)

// NoteStats describes one environment member in relation to the
// environment and to the full index.
type NoteStats struct {
	ID         string `json:"id"`
	MatchScore int    `json:"match_score"`
	// InlinksGlobal counts links to this note from any note.
	InlinksGlobal int `json:"inlinks_global"`
	// InlinksLocal counts links to this note from environment members.
	InlinksLocal int `json:"inlinks_local"`
	// OutlinksLocal counts links from this note to environment members.
	OutlinksLocal int `json:"outlinks_local"`
	// OutlinksGlobal counts links from this note to existing notes.
	OutlinksGlobal int `json:"outlinks_global"`
	// BrokenLinks counts links from this note to ids absent from the index.
	BrokenLinks int `json:"broken_links"`
}

// Statistics aggregates an environment. It is recomputed on every call and
// never cached.
type Statistics struct {
	WordCountTotal int `json:"word_count_total"`
	CharCountTotal int `json:"char_count_total"`
	NoteCountTotal int `json:"note_count_total"`
	// TagCountTotal is the number of distinct tags, not tag occurrences.
	TagCountTotal    int `json:"tag_count_total"`
	LocalLocalLinks  int `json:"local_local_links"`
	LocalGlobalLinks int `json:"local_global_links"`
	GlobalLocalLinks int `json:"global_local_links"`
	BrokenLinks      int `json:"broken_links"`

	// Tags lists the distinct tags of the environment, sorted.
	Tags []string `json:"tags"`
	// Filtered holds one entry per member, by match score descending and id
	// ascending.
	Filtered []NoteStats `json:"filtered_stats"`
}

// Compute selects the environment of f within index and tallies its
// statistics in two passes: membership first, then link accounting over
// every note of the index.
func Compute(index models.NoteIndex, f *filter.Filter) *Statistics {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Pass 1: membership. env is an arena, pos maps id to its slot.
	env := make([]NoteStats, 0)
	pos := make(map[string]int)
	for _, id := range ids {
		score, ok := f.Evaluate(index[id])
		if !ok {
			continue
		}
		pos[id] = len(env)
		env = append(env, NoteStats{ID: id, MatchScore: score})
	}

	// Pass 2: every note of the index is a link source.
	for _, id := range ids {
		src := index[id]
		srcSlot, localSource := pos[id]
		localTargets, globalTargets := 0, 0

		for _, target := range src.Links {
			if slot, ok := pos[target]; ok {
				env[slot].InlinksGlobal++
				if localSource {
					env[slot].InlinksLocal++
				}
				localTargets++
				globalTargets++
			} else if _, exists := index[target]; exists {
				globalTargets++
			}
		}

		if localSource {
			env[srcSlot].OutlinksLocal += localTargets
			env[srcSlot].OutlinksGlobal += globalTargets
			env[srcSlot].BrokenLinks = len(src.Links) - globalTargets
		}
	}

	stats := &Statistics{NoteCountTotal: len(env)}
	tags := make(map[string]struct{})
	for _, ns := range env {
		n := index[ns.ID]
		stats.WordCountTotal += n.Words
		stats.CharCountTotal += n.Characters
		for _, t := range n.Tags {
			tags[t] = struct{}{}
		}
		stats.LocalLocalLinks += ns.OutlinksLocal
		stats.LocalGlobalLinks += ns.OutlinksGlobal
		stats.GlobalLocalLinks += ns.InlinksGlobal
		stats.BrokenLinks += ns.BrokenLinks
	}

	stats.TagCountTotal = len(tags)
	stats.Tags = make([]string, 0, len(tags))
	for t := range tags {
		stats.Tags = append(stats.Tags, t)
	}
	sort.Strings(stats.Tags)

	sort.SliceStable(env, func(i, j int) bool {
		if env[i].MatchScore != env[j].MatchScore {
			return env[i].MatchScore > env[j].MatchScore
		}
		return env[i].ID < env[j].ID
	})
	stats.Filtered = env

	return stats
}

// Lookup returns the statistics of the member with the given id.
func (s *Statistics) Lookup(id string) (NoteStats, bool) {
	for _, ns := range s.Filtered {
		if ns.ID == id {
			return ns, true
		}
	}
	return NoteStats{}, false
}

// Package filter parses note queries and evaluates them against single notes.
//
// A query is a whitespace separated list of tokens:
//
//	#tag     note must carry tag (or a descendant of it)
//	!#tag    note must not carry tag (nor a descendant of it)
//	>Name    note must link to the note named Name
//	!>Name   note must not link to the note named Name
//	other    fuzzy matched against the note name
//
// Tag and link predicates are combined under a single Mode.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/starford/notegraph/internal/apperr"
	"github.com/starford/notegraph/internal/models"
	"github.com/starford/notegraph/internal/parser"
)

// Mode selects how tag and link predicates are combined.
type Mode int

const (
	// ModeAll requires every predicate to meet its expectation.
	ModeAll Mode = iota
	// ModeAny requires at least one predicate to meet its expectation.
	ModeAny
)

// ParseMode parses "all" or "any" (case-insensitive). An empty string
// yields ModeAll.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "any":
		return ModeAny, nil
	}
	return ModeAll, fmt.Errorf("%w: %q", apperr.ErrInvalidMode, s)
}

func (m Mode) String() string {
	if m == ModeAny {
		return "any"
	}
	return "all"
}

// MarshalText renders the mode as "all" or "any".
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Predicate is one inclusion (Wanted) or exclusion (!Wanted) condition.
type Predicate struct {
	Value  string `json:"value"`
	Wanted bool   `json:"wanted"`
}

// Resolver converts a display name into a note id.
type Resolver func(name string) string

// Filter is a parsed query. It is not modified after construction.
type Filter struct {
	Mode  Mode        `json:"mode"`
	Tags  []Predicate `json:"tags"`
	Links []Predicate `json:"links"`
	Title string      `json:"title"`

	// Scorer ranks Title against note names; nil means SubsequenceScorer.
	Scorer Scorer `json:"-"`
}

// Parse parses query using parser.NameToID to resolve link targets.
func Parse(query string, mode Mode) *Filter {
	return ParseWithResolver(query, mode, parser.NameToID)
}

// ParseWithResolver parses query, resolving link targets through resolve.
//
// Plain tokens are appended to Title without any separator, so "lie group"
// becomes the title query "liegroup".
func ParseWithResolver(query string, mode Mode, resolve Resolver) *Filter {
	f := &Filter{Mode: mode}
	var title strings.Builder

	for _, tok := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(tok, "!#"):
			f.Tags = append(f.Tags, Predicate{Value: tok[2:], Wanted: false})
		case strings.HasPrefix(tok, "#"):
			f.Tags = append(f.Tags, Predicate{Value: tok[1:], Wanted: true})
		case strings.HasPrefix(tok, "!>"):
			f.Links = append(f.Links, Predicate{Value: resolve(trimRepeated(tok, "!>")), Wanted: false})
		case strings.HasPrefix(tok, ">"):
			f.Links = append(f.Links, Predicate{Value: resolve(strings.TrimLeft(tok, ">")), Wanted: true})
		default:
			title.WriteString(tok)
		}
	}

	f.Title = title.String()
	return f
}

// trimRepeated removes every leading occurrence of prefix from s.
func trimRepeated(s, prefix string) string {
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

// Empty reports whether the filter has no tag or link predicates.
func (f *Filter) Empty() bool {
	return len(f.Tags) == 0 && len(f.Links) == 0
}

// Evaluate tests n against the filter. ok is false when n is excluded;
// otherwise score ranks the match, higher is better.
func (f *Filter) Evaluate(n *models.Note) (score int, ok bool) {
	if !f.Empty() {
		anyMet, allMet := false, true
		record := func(met bool) {
			if met {
				anyMet = true
			} else {
				allMet = false
			}
		}

		for _, p := range f.Tags {
			record(HasTag(n.Tags, p.Value) == p.Wanted)
		}
		for _, p := range f.Links {
			record(slices.Contains(n.Links, p.Value) == p.Wanted)
		}

		switch f.Mode {
		case ModeAny:
			if !anyMet {
				return 0, false
			}
		default:
			if !allMet {
				return 0, false
			}
		}
	}

	return f.scorer().Score(f.Title, n.Name)
}

// String renders the filter back into query syntax. Link predicates show the
// resolved id.
func (f *Filter) String() string {
	var parts []string
	for _, p := range f.Tags {
		parts = append(parts, prefix(p.Wanted, "#")+p.Value)
	}
	for _, p := range f.Links {
		parts = append(parts, prefix(p.Wanted, ">")+p.Value)
	}
	if f.Title != "" {
		parts = append(parts, f.Title)
	}
	return strings.Join(parts, " ")
}

func (f *Filter) scorer() Scorer {
	if f.Scorer != nil {
		return f.Scorer
	}
	return SubsequenceScorer{}
}

func prefix(wanted bool, marker string) string {
	if wanted {
		return marker
	}
	return "!" + marker
}

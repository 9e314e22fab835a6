package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagClosure(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"a", []string{"a"}},
		{"a/b/c", []string{"a", "a/b", "a/b/c"}},
		{"os/win", []string{"os", "os/win"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, TagClosure(tt.tag))
		})
	}
}

func TestHasTag(t *testing.T) {
	tags := []string{"a/b/c", "x"}

	tests := []struct {
		path string
		want bool
	}{
		{"a", true},
		{"a/b", true},
		{"a/b/c", true},
		{"x", true},
		{"a/b/c/d", false},
		{"b", false},
		{"a/", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, HasTag(tags, tt.path))
		})
	}
}

func TestHasTag_ShorterTagDoesNotSatisfyLongerPath(t *testing.T) {
	assert.False(t, HasTag([]string{"a/b"}, "a/b/c"))
}

func TestHasTag_PrefixMustEndAtSeparator(t *testing.T) {
	assert.False(t, HasTag([]string{"osx"}, "os"))
}

func TestSubsequenceScorer(t *testing.T) {
	s := SubsequenceScorer{}

	score, ok := s.Score("", "Anything")
	assert.True(t, ok)
	assert.Equal(t, 0, score)

	_, ok = s.Score("MANI", "manifold")
	assert.True(t, ok, "matching is case-insensitive")

	_, ok = s.Score("fold", "Manifold")
	assert.True(t, ok)

	_, ok = s.Score("dlof", "Manifold")
	assert.False(t, ok, "order matters")

	first, ok := s.Score("man", "Manifold")
	assert.True(t, ok)
	second, ok := s.Score("man", "Human Anatomy")
	assert.True(t, ok)
	assert.Greater(t, first, second)

	again, _ := s.Score("man", "Manifold")
	assert.Equal(t, first, again, "scores are deterministic")
}

func TestSubsequenceScorer_CamelCaseHumps(t *testing.T) {
	s := SubsequenceScorer{}

	hump, ok := s.Score("lg", "LieGroup")
	require.True(t, ok)
	mid, ok := s.Score("lg", "Ligand")
	require.True(t, ok)
	assert.Greater(t, hump, mid, "a match on a capital after a lowercase letter starts a word")

	flat, ok := s.Score("lg", "liegroup")
	require.True(t, ok)
	assert.Greater(t, hump, flat)

	upper, ok := s.Score("LG", "LieGroup")
	require.True(t, ok)
	assert.Equal(t, hump, upper, "query case does not affect the score")
}

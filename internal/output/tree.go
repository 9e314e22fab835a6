// Package output renders query results for the terminal.
package output

import (
	"path"
	"sort"

	"github.com/disiqueira/gotree/v3"
)

// TagTree lays out hierarchical tags (a/b/c) as a tree.
type TagTree struct {
	tree  gotree.Tree
	nodes map[string]gotree.Tree
}

// NewTagTree returns an empty tree labelled rootLabel.
func NewTagTree(rootLabel string) TagTree {
	return TagTree{tree: gotree.New(rootLabel), nodes: make(map[string]gotree.Tree)}
}

func (t TagTree) node(tag string) gotree.Tree {
	if tag == "." || tag == "" {
		return t.tree
	}
	n := t.nodes[tag]
	if n == nil {
		parent := t.node(path.Dir(tag))
		n = parent.Add(path.Base(tag))
		t.nodes[tag] = n
	}
	return n
}

// Insert adds tag and any missing ancestors.
func (t TagTree) Insert(tag string) {
	t.node(tag)
}

// Render returns the printed tree.
func (t TagTree) Render() string {
	return t.tree.Print()
}

// RenderTags builds a tree from tags, inserted in sorted order so that
// siblings print alphabetically.
func RenderTags(rootLabel string, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	t := NewTagTree(rootLabel)
	for _, tag := range sorted {
		t.Insert(tag)
	}
	return t.Render()
}

package filter

import "strings"

// TagClosure returns the ancestor paths of a hierarchical tag, shortest
// first: "a/b/c" yields "a", "a/b", "a/b/c".
func TagClosure(tag string) []string {
	out := make([]string, 0, strings.Count(tag, "/")+1)
	for i := 0; i < len(tag); i++ {
		if tag[i] == '/' {
			out = append(out, tag[:i])
		}
	}
	return append(out, tag)
}

// HasTag reports whether path equals one of tags or one of their ancestor
// paths.
func HasTag(tags []string, path string) bool {
	for _, t := range tags {
		for _, p := range TagClosure(t) {
			if p == path {
				return true
			}
		}
	}
	return false
}

package search

import (
	"strings"

	"github.com/arborview/arbor/pkg/document"
)

// matchExact looks the normalized query up in the path table.
func matchExact(in query) (Match, bool) {
	id, ok := in.tree.Table.Lookup(in.normalized)
	if !ok {
		return Match{}, false
	}
	return Match{ID: id, Path: in.normalized}, true
}

// matchValue finds the first node, in creation order, whose primitive value
// matches the raw query. Strings match case-insensitively by substring;
// numbers, booleans, and null match their exact display text.
func matchValue(in query) (Match, bool) {
	lower := strings.ToLower(in.raw)
	for i := range in.tree.Nodes {
		n := &in.tree.Nodes[i]
		switch {
		case n.Kind == document.KindString:
			if strings.Contains(strings.ToLower(n.Value), lower) {
				return Match{ID: n.ID, Path: n.Path}, true
			}
		case n.Kind.Primitive():
			if n.Value == in.raw {
				return Match{ID: n.ID, Path: n.Path}, true
			}
		}
	}
	return Match{}, false
}

// matchAlternate compares the root-stripped query against root-stripped
// table paths, so "$user.name" and "user.name" both reach "$.user.name".
func matchAlternate(in query) (Match, bool) {
	q := stripRoot(in.normalized)
	if q == "" {
		return Match{}, false
	}
	for _, e := range in.tree.Table.Entries() {
		if stripRoot(e.Path) == q {
			return Match{ID: e.ID, Path: e.Path}, true
		}
	}
	return Match{}, false
}

// matchSuffix finds the first table path ending in the query, in any of its
// three spellings: ".q" for object members, "[q]" for array elements, or
// the raw text. A bare key like "city" lands on the first node whose path
// ends with that key.
func matchSuffix(in query) (Match, bool) {
	q := stripRoot(in.normalized)
	if q == "" {
		return Match{}, false
	}
	for _, e := range in.tree.Table.Entries() {
		if strings.HasSuffix(e.Path, "."+q) ||
			strings.HasSuffix(e.Path, "["+q+"]") ||
			strings.HasSuffix(e.Path, q) {
			return Match{ID: e.ID, Path: e.Path}, true
		}
	}
	return Match{}, false
}

// matchContains finds the first table path containing the query text.
func matchContains(in query) (Match, bool) {
	q := stripRoot(in.normalized)
	if q == "" {
		return Match{}, false
	}
	for _, e := range in.tree.Table.Entries() {
		if strings.Contains(e.Path, q) {
			return Match{ID: e.ID, Path: e.Path}, true
		}
	}
	return Match{}, false
}

// Package search resolves queries against a laid-out JSON tree.
//
// # Overview
//
// The search box accepts two things people actually type: path expressions
// ("$.user.address.city", "items[0].name", ".user") and raw values ("USA",
// "42"). This package turns either into a node, running a fixed cascade of
// matching rules and returning the first hit. Resolution is pure: it never
// errors, and a miss is an ordinary result carrying the normalized query so
// surfaces can echo "no match for $.x".
//
// # Query Normalization
//
// Queries are canonicalized before path matching: trimmed, rooted with "$",
// separator whitespace removed, repeated dots collapsed, and one trailing
// dot dropped. See [NormalizeQuery] for the exact rules. Value matching
// intentionally uses the raw query, so searching for "John Doe" is not
// mangled into a path.
//
// # Match Cascade
//
// Stages run in a fixed order; the first hit wins:
//
//  1. exact: path-table lookup of the normalized query
//  2. jsonpath: JSONPath evaluation for queries using wildcard, descent,
//     filter, slice, or union syntax (requires document context)
//  3. value: first node whose primitive value matches the raw query
//     (case-insensitive substring for strings, exact text otherwise)
//  4. alternate: root-stripped query against root-stripped table paths
//  5. suffix: table paths ending in ".q", "[q]", or q itself
//  6. contains: first table path containing the query text
//
// Stages 4-6 scan table entries in creation order, so ties resolve to the
// node that appears first in the document.
package search

import (
	"strings"

	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/tree"
)

// Stage identifies which cascade rule produced a match.
type Stage string

// Cascade stages in evaluation order.
const (
	StageExact     Stage = "exact"
	StageJSONPath  Stage = "jsonpath"
	StageValue     Stage = "value"
	StageAlternate Stage = "alternate"
	StageSuffix    Stage = "suffix"
	StageContains  Stage = "contains"
)

// Match is the result of a resolution. On a miss, ID and Path are empty and
// Query still carries the normalized query for display.
type Match struct {
	ID    string `json:"id,omitempty"`
	Path  string `json:"path,omitempty"`
	Stage Stage  `json:"stage,omitempty"`
	Query string `json:"query"`
}

// Resolver resolves queries against one tree. Doc is optional: when set,
// queries written in JSONPath syntax are evaluated against the document,
// enabling wildcards and filters. A zero Doc simply skips that stage.
type Resolver struct {
	Tree *tree.Tree
	Doc  *document.Value
}

// query carries one resolution attempt through the cascade.
type query struct {
	raw        string
	normalized string
	tree       *tree.Tree
	doc        *document.Value
}

// stages is the cascade, in evaluation order.
var stages = []struct {
	name Stage
	fn   func(query) (Match, bool)
}{
	{StageExact, matchExact},
	{StageJSONPath, matchJSONPath},
	{StageValue, matchValue},
	{StageAlternate, matchAlternate},
	{StageSuffix, matchSuffix},
	{StageContains, matchContains},
}

// Resolve runs the cascade for one query. A blank query clears the search
// and resolves to nothing without entering the cascade.
func (r *Resolver) Resolve(q string) (Match, bool) {
	raw := strings.TrimSpace(q)
	if raw == "" || r.Tree == nil {
		return Match{}, false
	}

	in := query{
		raw:        raw,
		normalized: NormalizeQuery(q),
		tree:       r.Tree,
		doc:        r.Doc,
	}
	for _, s := range stages {
		if m, ok := s.fn(in); ok {
			m.Stage = s.name
			m.Query = in.normalized
			return m, true
		}
	}
	return Match{Query: in.normalized}, false
}

// Resolve matches a query against a tree using its paths and values only.
// It is the package-level form of [Resolver.Resolve] without document
// context, so JSONPath queries fall through to the later stages.
func Resolve(q string, t *tree.Tree) (Match, bool) {
	r := Resolver{Tree: t}
	return r.Resolve(q)
}

package search

import (
	"strings"

	"github.com/ohler55/ojg/jp"
)

// hasJSONPathSyntax reports whether a query uses JSONPath features beyond a
// plain path: wildcards, recursive descent, filters, slices, unions, or
// quoted names. Plain paths never reach the JSONPath stage, so the original
// cascade semantics are unchanged for them.
func hasJSONPathSyntax(q string) bool {
	if strings.ContainsAny(q, "*?@") {
		return true
	}
	if strings.Contains(q, "..") {
		return true
	}
	if strings.Contains(q, "['") || strings.Contains(q, "[\"") {
		return true
	}
	if strings.Contains(q, ":") || strings.Contains(q, ",") {
		return true
	}
	return false
}

// rootJSONPath roots a raw query for JSONPath parsing without the usual
// normalization: dot collapsing would destroy recursive descent ("..") and
// separator cleanup would mangle filter expressions.
func rootJSONPath(q string) string {
	switch {
	case strings.HasPrefix(q, "$"):
		return q
	case strings.HasPrefix(q, "."):
		return "$" + q
	default:
		return "$." + q
	}
}

// matchJSONPath evaluates JSONPath queries against the document and maps
// the located values back to tree nodes. Of all locations the expression
// selects, the one whose path appears first in the table wins. Parse
// failures and empty selections fall through to the next stage.
func matchJSONPath(in query) (Match, bool) {
	if in.doc == nil || !hasJSONPathSyntax(in.raw) {
		return Match{}, false
	}

	expr, err := jp.ParseString(rootJSONPath(in.raw))
	if err != nil {
		return Match{}, false
	}

	locations := expr.Locate(in.doc.Plain(), 0)
	if len(locations) == 0 {
		return Match{}, false
	}

	located := make(map[string]bool, len(locations))
	for _, loc := range locations {
		located[loc.String()] = true
	}
	for _, e := range in.tree.Table.Entries() {
		if located[e.Path] {
			return Match{ID: e.ID, Path: e.Path}, true
		}
	}
	return Match{}, false
}

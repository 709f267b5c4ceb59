package search

import (
	"regexp"
	"strings"

	"github.com/arborview/arbor/pkg/tree"
)

var (
	// whitespace around path separators, e.g. "items . [0]"
	sepSpaceRe = regexp.MustCompile(`\s*([.\[\]])\s*`)
	// runs of dots, e.g. "foo..bar"
	dotRunRe = regexp.MustCompile(`\.{2,}`)
)

// NormalizeQuery canonicalizes a search query into rooted path form.
//
// Rules, applied in order:
//   - surrounding whitespace is trimmed
//   - "" and "." mean the root, "$"
//   - a query starting with "." is rooted in place: ".a.b" becomes "$.a.b"
//   - any other query without a "$" prefix gains one: "a.b" becomes "$.a.b"
//   - whitespace around ".", "[", "]" is removed
//   - repeated dots collapse to one, and ".[" collapses to "["
//   - one trailing dot is stripped
//
// Normalization is deliberately forgiving: it repairs the queries people
// type, it does not reject them. Whatever remains after these rules is
// matched literally.
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" || q == "." {
		return tree.RootPath
	}

	switch {
	case strings.HasPrefix(q, "$"):
		// already rooted
	case strings.HasPrefix(q, "."):
		q = "$" + q
	default:
		q = "$." + q
	}

	q = sepSpaceRe.ReplaceAllString(q, "$1")
	q = dotRunRe.ReplaceAllString(q, ".")
	q = strings.ReplaceAll(q, ".[", "[")
	q = strings.TrimSuffix(q, ".")
	if q == "$" {
		return tree.RootPath
	}
	return q
}

// stripRoot removes the "$." or "$" prefix from a path or query,
// producing the form used by the alternate, suffix, and contains stages.
func stripRoot(p string) string {
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	return p
}

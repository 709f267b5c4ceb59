// Package sample bundles a small demo document. The serve endpoint
// /api/sample and the "arbor sample" command both emit it, so a user can
// try the viewer without hunting for a JSON file first.
package sample

import _ "embed"

//go:embed sample.json
var document []byte

// Document returns a copy of the bundled sample document.
func Document() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

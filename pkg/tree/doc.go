// Package tree lays out parsed JSON documents as node-link trees.
//
// # Overview
//
// Arbor renders a JSON document as a diagram: every object, array, and
// primitive becomes a positioned node, and parent-child edges connect
// containers to their members. This package owns that transformation. It is
// pure: [Build] never fails on a parsed document, performs no I/O, and
// produces byte-identical output for identical input.
//
// # Layout Algorithm
//
// Build runs two passes over the document:
//
//  1. Measurement (bottom-up): every subtree is assigned a column width equal
//     to its number of leaf descendants. Primitives and empty containers
//     occupy one column.
//  2. Placement (top-down, document order): a subtree spanning columns
//     [col, col+w) places its node at X = (col + w/2) * SpacingX and
//     Y = depth * SpacingY. Children consume their measured widths left to
//     right, so sibling order on screen equals document order and every
//     parent sits centered over its own descendants.
//
// Nodes and edges are emitted during placement, parent before child. A tree
// with N nodes therefore always has N-1 edges.
//
// # Paths
//
// Each node carries the path from the root to its location: "$" for the
// root, ".key" per object member, "[i]" per array element. Paths are built
// by plain concatenation. Keys that themselves contain ".", "[", or "]",
// and duplicate keys within one object, can produce the same path text for
// two distinct locations; the path table then keeps the first occurrence.
// This ambiguity is accepted rather than escaped, matching how the paths
// are typed into the search box.
//
// # Identifiers
//
// Node IDs are derived from paths with a keyed 64-bit HighwayHash, so the
// same document always yields the same IDs, across runs and across
// processes. Locations whose path text collides share an ID.
package tree

package tree

// PathEntry records one node's path in creation order.
type PathEntry struct {
	Path string
	ID   string
}

// PathTable maps node paths to node IDs. It keeps every entry in creation
// order for deterministic scans, while exact lookups resolve to the first
// node that claimed a path (relevant only when distinct locations collide
// on the same path text).
type PathTable struct {
	entries []PathEntry
	index   map[string]string
}

// NewPathTable returns an empty table.
func NewPathTable() *PathTable {
	return &PathTable{index: make(map[string]string)}
}

// Add records a path for a node. The first writer of a path wins lookups;
// later writers are still recorded as entries.
func (t *PathTable) Add(path, id string) {
	t.entries = append(t.entries, PathEntry{Path: path, ID: id})
	if _, exists := t.index[path]; !exists {
		t.index[path] = id
	}
}

// Lookup returns the node ID registered for an exact path.
func (t *PathTable) Lookup(path string) (string, bool) {
	id, ok := t.index[path]
	return id, ok
}

// Entries returns all recorded paths in creation order. The slice is shared
// with the table; callers must not modify it.
func (t *PathTable) Entries() []PathEntry {
	return t.entries
}

// Len returns the number of recorded entries, which always equals the
// number of nodes in the tree the table belongs to.
func (t *PathTable) Len() int {
	return len(t.entries)
}

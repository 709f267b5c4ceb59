package cache

// Keyer generates cache keys for the two cacheable pipeline stages:
// built trees and rendered artifacts.
type Keyer interface {
	// TreeKey generates a key for a laid-out tree. docHash identifies the
	// source document; opts carries every layout input that moves nodes.
	TreeKey(docHash string, opts TreeKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact. treeHash
	// identifies the tree the artifact was rendered from.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts parameterizes tree cache keys.
type TreeKeyOpts struct {
	SpacingX float64
	SpacingY float64
}

// ArtifactKeyOpts parameterizes artifact cache keys. Every option a
// renderer reads belongs here, otherwise two different renders would share
// a cache entry.
type ArtifactKeyOpts struct {
	Format   string
	Theme    string
	Detailed bool
	Title    string
	Scale    float64
}

// DefaultKeyer is the standard Keyer implementation. Keys are prefixed
// hashes, so two option sets that differ in any field produce distinct
// keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TreeKey generates a key for tree caching.
func (k *DefaultKeyer) TreeKey(docHash string, opts TreeKeyOpts) string {
	return hashKey("tree", docHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

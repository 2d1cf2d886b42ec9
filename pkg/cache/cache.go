// Package cache provides caching for analysis results, layouts and
// rendered artifacts.
//
// Analysis is the expensive stage (it waits for a language server to
// index a workspace), layouts are deterministic but can run tens of
// thousands of refinement steps, and rendered artifacts are derived
// from layouts. All three are cached as opaque byte blobs under keys
// built by a [Keyer], so the cache backend never knows about graph
// semantics.
//
// Two backends ship by default: [FileCache] for CLI usage and
// [RedisCache] for the server. [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// TTL values for different content types.
const (
	// TTLGraph is short: the workspace on disk can change under us and
	// the key does not capture file contents.
	TTLGraph = 1 * time.Hour

	// TTLLayout can be long: layout is a deterministic function of the
	// graph, and the graph hash is part of the key.
	TTLLayout = 24 * time.Hour

	// TTLArtifact matches TTLLayout; artifacts are derived from layouts.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the analysis options that affect graph content.
type GraphKeyOpts struct {
	ServerCommand string   `json:"server_command"`
	Extensions    []string `json:"extensions"`
	SkipSymbols   bool     `json:"skip_symbols"`
}

// LayoutKeyOpts are the layout options that affect computed geometry.
type LayoutKeyOpts struct {
	SpringLength  float64 `json:"spring_length"`
	Threshold     float64 `json:"threshold"`
	MaxIterations int     `json:"max_iterations"`
}

// ArtifactKeyOpts are the render options that affect artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer builds cache keys for the three pipeline stages.
type Keyer interface {
	// GraphKey builds a key for an analyzed workspace graph.
	GraphKey(rootPath string, opts GraphKeyOpts) string

	// LayoutKey builds a key for a layout derived from the graph with
	// the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey builds a key for an artifact rendered from the layout
	// with the given content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for workspace analysis results.
func (k *DefaultKeyer) GraphKey(rootPath string, opts GraphKeyOpts) string {
	return hashKey("graph", rootPath, opts)
}

// LayoutKey generates a key for layout results.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for rendered artifacts.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Package cache stores rendered graph artifacts between CLI runs.
//
// Rendering a graph through Graphviz is by far the slowest thing the CLI
// does, and the output depends only on the DOT source and the output
// options. A [Request] captures exactly those inputs and its [Request.Key]
// is their content hash, so an edited graph never hits a stale entry.
//
// Two implementations are provided: [FileCache] for the CLI and
// [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Request identifies one render.
type Request struct {
	DOT    string
	Format string

	// Scale only affects raster output; callers leave it zero otherwise so
	// that equivalent renders share an entry.
	Scale float64
}

// Key returns the hex content hash of r.
func (r Request) Key() string {
	return hashKey("render", r.Format, r.Scale, r.DOT)
}

// Artifact is one stored render output with the options it was made for.
type Artifact struct {
	Format    string    `json:"format"`
	Scale     float64   `json:"scale,omitempty"`
	Size      int       `json:"size"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// newArtifact wraps data rendered for r. A ttl of zero never expires.
func newArtifact(r Request, data []byte, ttl time.Duration, now time.Time) *Artifact {
	a := &Artifact{
		Format:    r.Format,
		Scale:     r.Scale,
		Size:      len(data),
		Data:      data,
		CreatedAt: now,
	}
	if ttl > 0 {
		a.ExpiresAt = now.Add(ttl)
	}
	return a
}

// Expired reports whether a is past its expiry at now.
func (a *Artifact) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// Matches reports whether a was rendered for r and is intact. A stored
// entry that fails this check is treated as a miss.
func (a *Artifact) Matches(r Request) bool {
	return a.Format == r.Format && a.Scale == r.Scale && a.Size == len(a.Data)
}

// Stats summarizes the contents of a cache.
type Stats struct {
	Entries int
	Expired int
	Bytes   int64
}

// Cache stores render artifacts.
type Cache interface {
	// Get returns the artifact stored for r and true, or nil and false on a
	// miss. Expired, corrupt and mismatched entries are misses.
	Get(ctx context.Context, r Request) (*Artifact, bool, error)

	// Put stores data rendered for r. A ttl of zero never expires.
	Put(ctx context.Context, r Request, data []byte, ttl time.Duration) error

	// Delete removes the entry for r. Deleting a missing entry is not an
	// error.
	Delete(ctx context.Context, r Request) error

	// Stats counts the stored entries.
	Stats(ctx context.Context) (Stats, error)

	// Prune removes expired and unreadable entries and returns how many
	// were removed.
	Prune(ctx context.Context) (int, error)

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	Close() error
}

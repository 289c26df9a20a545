package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const entryExt = ".json"

// FileCache keeps one JSON file per artifact under dir, fanned out into
// subdirectories by the first two hex digits of the request key:
//
//	<dir>/<key[:2]>/<key[2:]>.json
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens a file cache rooted at dir, creating dir if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) Get(ctx context.Context, r Request) (*Artifact, bool, error) {
	path := c.path(r)
	a, err := readArtifact(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case errors.Is(err, errCorrupt):
		_ = os.Remove(path)
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	if a.Expired(c.now()) || !a.Matches(r) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return a, true, nil
}

func (c *FileCache) Put(ctx context.Context, r Request, data []byte, ttl time.Duration) error {
	raw, err := json.Marshal(newArtifact(r, data, ttl, c.now()))
	if err != nil {
		return err
	}
	path := c.path(r)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// Entries appear atomically; Get never reads a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *FileCache) Delete(ctx context.Context, r Request) error {
	err := os.Remove(c.path(r))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	now := c.now()
	err := c.walk(ctx, func(path string, info fs.FileInfo) error {
		s.Entries++
		s.Bytes += info.Size()
		if a, err := readArtifact(path); err != nil || a.Expired(now) {
			s.Expired++
		}
		return nil
	})
	return s, err
}

func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := c.now()
	removed := 0
	err := c.walk(ctx, func(path string, _ fs.FileInfo) error {
		if a, err := readArtifact(path); err == nil && !a.Expired(now) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	c.removeEmptyDirs()
	return removed, err
}

func (c *FileCache) Clear(ctx context.Context) (int, error) {
	removed := 0
	err := c.walk(ctx, func(path string, _ fs.FileInfo) error {
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	c.removeEmptyDirs()
	return removed, err
}

func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(r Request) string {
	key := r.Key()
	return filepath.Join(c.dir, key[:2], key[2:]+entryExt)
}

// walk calls fn for every entry file under the cache root. A missing root
// is an empty cache.
func (c *FileCache) walk(ctx context.Context, fn func(path string, info fs.FileInfo) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(path, entryExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// removeEmptyDirs drops fan-out directories left empty by Prune or Clear.
func (c *FileCache) removeEmptyDirs() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			// Non-empty directories stay.
			_ = os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
}

var errCorrupt = errors.New("corrupt cache entry")

func readArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.Join(errCorrupt, err)
	}
	return &a, nil
}

var _ Cache = (*FileCache)(nil)

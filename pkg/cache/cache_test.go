package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequestKey(t *testing.T) {
	base := Request{DOT: "digraph {}", Format: "svg"}
	if base.Key() != (Request{DOT: "digraph {}", Format: "svg"}).Key() {
		t.Error("same request should produce same key")
	}
	if len(base.Key()) != 64 {
		t.Errorf("Key() = %q, want a hex SHA-256", base.Key())
	}

	tests := []struct {
		name string
		req  Request
	}{
		{"dot source", Request{DOT: "digraph { a }", Format: "svg"}},
		{"format", Request{DOT: "digraph {}", Format: "pdf"}},
		{"scale", Request{DOT: "digraph {}", Format: "svg", Scale: 2}},
		{"field boundary", Request{DOT: "svgdigraph {}", Format: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.req.Key() == base.Key() {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
}

func TestArtifactMatches(t *testing.T) {
	r := Request{DOT: "digraph {}", Format: "png", Scale: 2}
	now := time.Now()

	tests := []struct {
		name string
		a    *Artifact
		want bool
	}{
		{"same options", newArtifact(r, []byte("png"), 0, now), true},
		{"other format", newArtifact(Request{Format: "svg", Scale: 2}, []byte("x"), 0, now), false},
		{"other scale", newArtifact(Request{Format: "png", Scale: 1}, []byte("x"), 0, now), false},
		{"truncated data", &Artifact{Format: "png", Scale: 2, Size: 10, Data: []byte("x")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Matches(r); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArtifactExpired(t *testing.T) {
	now := time.Now()
	if newArtifact(Request{}, nil, 0, now).Expired(now.Add(1000 * time.Hour)) {
		t.Error("zero ttl should never expire")
	}
	a := newArtifact(Request{}, nil, time.Hour, now)
	if a.Expired(now.Add(time.Minute)) {
		t.Error("entry expired early")
	}
	if !a.Expired(now.Add(2 * time.Hour)) {
		t.Error("entry should have expired")
	}
}

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	r := Request{DOT: "digraph {}", Format: "svg"}

	if _, ok, err := c.Get(ctx, r); err != nil || ok {
		t.Errorf("Get(missing) = %v, %v; want miss", ok, err)
	}

	if err := c.Put(ctx, r, []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	a, ok, err := c.Get(ctx, r)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v; want hit", ok, err)
	}
	if string(a.Data) != "<svg/>" || a.Format != "svg" || a.Size != 6 {
		t.Errorf("Get = %+v", a)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not recorded")
	}

	if _, ok, _ := c.Get(ctx, Request{DOT: "digraph {}", Format: "pdf"}); ok {
		t.Error("Get with another format should miss")
	}

	if err := c.Delete(ctx, r); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, r); ok {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, r); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	now := time.Now()
	c.now = func() time.Time { return now }
	r := Request{DOT: "digraph {}", Format: "svg"}

	if err := c.Put(ctx, r, []byte("x"), time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := c.Get(ctx, r); !ok {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := c.Get(ctx, r); ok {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path(r)); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func writeRaw(t *testing.T, c *FileCache, r Request, content string) string {
	t.Helper()
	path := c.path(r)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileCacheUnusableEntries(t *testing.T) {
	ctx := context.Background()
	r := Request{DOT: "digraph {}", Format: "svg"}

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "not json"},
		{"other format", `{"format": "png", "size": 1, "data": "eA=="}`},
		{"size mismatch", `{"format": "svg", "size": 9, "data": "eA=="}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCache(t)
			path := writeRaw(t, c, r, tt.content)

			if _, ok, err := c.Get(ctx, r); err != nil || ok {
				t.Errorf("Get = %v, %v; want miss", ok, err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("unusable entry should be removed")
			}
		})
	}
}

func TestFileCacheStatsPruneClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	now := time.Now()
	c.now = func() time.Time { return now }

	keep := Request{DOT: "a", Format: "svg"}
	stale := Request{DOT: "b", Format: "svg"}
	broken := Request{DOT: "c", Format: "svg"}
	if err := c.Put(ctx, keep, []byte("keep"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, stale, []byte("stale"), time.Minute); err != nil {
		t.Fatal(err)
	}
	writeRaw(t, c, broken, "{")
	now = now.Add(time.Hour)

	s, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Entries != 3 || s.Expired != 2 || s.Bytes == 0 {
		t.Errorf("Stats = %+v, want 3 entries with 2 expired", s)
	}

	n, err := c.Prune(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Prune = %d, %v; want 2", n, err)
	}
	if _, ok, _ := c.Get(ctx, keep); !ok {
		t.Error("Prune removed a live entry")
	}

	n, err = c.Clear(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Clear = %d, %v; want 1", n, err)
	}
	if s, _ := c.Stats(ctx); s.Entries != 0 {
		t.Errorf("Stats after Clear = %+v", s)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear left %d directories behind", len(entries))
	}
}

func TestFileCacheMissingRoot(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	if err := os.RemoveAll(c.Dir()); err != nil {
		t.Fatal(err)
	}
	if s, err := c.Stats(ctx); err != nil || s.Entries != 0 {
		t.Errorf("Stats = %+v, %v; want empty", s, err)
	}
	if n, err := c.Clear(ctx); err != nil || n != 0 {
		t.Errorf("Clear = %d, %v; want 0", n, err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	r := Request{DOT: "digraph {}", Format: "svg"}

	if err := c.Put(ctx, r, []byte("x"), 0); err != nil {
		t.Errorf("Put: %v", err)
	}
	if _, ok, _ := c.Get(ctx, r); ok {
		t.Error("NullCache should always miss")
	}
	if err := c.Delete(ctx, r); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if n, err := c.Clear(ctx); err != nil || n != 0 {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

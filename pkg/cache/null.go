package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every Get misses.
type NullCache struct{}

// NewNullCache returns a cache for --no-cache runs.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, Request) (*Artifact, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Put(context.Context, Request, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, Request) error {
	return nil
}

func (c *NullCache) Stats(context.Context) (Stats, error) {
	return Stats{}, nil
}

func (c *NullCache) Prune(context.Context) (int, error) {
	return 0, nil
}

func (c *NullCache) Clear(context.Context) (int, error) {
	return 0, nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)

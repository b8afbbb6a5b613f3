package cache

import (
	"errors"
	"io/fs"
	"time"
)

// LayeredCache consults its layers fastest first. A hit in a slower layer
// is copied into every faster one.
type LayeredCache struct {
	layers []Cache
}

// NewLayeredCache stacks a memory cache over a disk cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return NewLayers(
		NewMemoryCache(memoryTTL, 10*time.Minute),
		NewDiskCache(diskDir, diskTTL),
	)
}

// NewLayers stacks arbitrary caches, fastest first
func NewLayers(layers ...Cache) *LayeredCache {
	return &LayeredCache{layers: layers}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		v, ok := layer.Get(key)
		if !ok {
			continue
		}
		for _, faster := range c.layers[:i] {
			_ = faster.Set(key, v, 0)
		}
		return v, true
	}
	return nil, false
}

// Set writes every layer, slowest first, so a value visible in memory is
// always already durable
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if err := c.layers[i].Set(key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes key everywhere; a key absent from a layer is not an error
func (c *LayeredCache) Delete(key string) error {
	var errs []error
	for _, layer := range c.layers {
		if err := layer.Delete(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *LayeredCache) Clear() error {
	var errs []error
	for _, layer := range c.layers {
		errs = append(errs, layer.Clear())
	}
	return errors.Join(errs...)
}

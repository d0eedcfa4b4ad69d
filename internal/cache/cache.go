// Package cache stores simulation reports as JSON files keyed by a hash of
// the request that produced them.
package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type cacheKey struct {
	h64  uint64
	h64a uint64
}

type Cache struct {
	dir string

	savingLock sync.RWMutex
	saving     map[cacheKey]struct{}
}

func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create cache dir %s", dir)
	}
	return &Cache{dir: dir, saving: make(map[cacheKey]struct{}, 32)}, nil
}

func (c *Cache) lock(h cacheKey) bool {
	c.savingLock.Lock()
	defer c.savingLock.Unlock()

	_, ok := c.saving[h]
	if !ok {
		c.saving[h] = struct{}{}
	}
	return !ok
}

func (c *Cache) unlock(h cacheKey) {
	c.savingLock.Lock()
	defer c.savingLock.Unlock()

	delete(c.saving, h)
}

func (c *Cache) checkSkip(h cacheKey) bool {
	c.savingLock.RLock()
	defer c.savingLock.RUnlock()

	_, ok := c.saving[h]
	return ok
}

// hashKey hashes the JSON form of key twice with different FNV variants so a
// collision needs both to match.
func hashKey(key any) (cacheKey, error) {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(key)
	if err != nil {
		return cacheKey{}, errors.Wrap(err, "encode cache key")
	}
	h := fnv.New64a()
	h.Write(b)
	ha := fnv.New64()
	ha.Write(b)
	return cacheKey{h64: h.Sum64(), h64a: ha.Sum64()}, nil
}

func (c *Cache) path(h cacheKey) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x-%016x.json", h.h64, h.h64a))
}

// Load decodes the entry for key into out. A miss, an entry that is still
// being written or an undecodable entry all report false.
func (c *Cache) Load(key any, out any) bool {
	h, err := hashKey(key)
	if err != nil {
		sentry.CaptureException(err)
		return false
	}
	if c.checkSkip(h) {
		return false
	}

	fs, err := os.Open(c.path(h))
	if err != nil {
		return false
	}
	defer fs.Close()

	if err := jsoniter.NewDecoder(fs).Decode(out); err != nil {
		sentry.CaptureException(errors.Wrap(err, "decode cache entry"))
		return false
	}
	return true
}

// Save writes v under key. Concurrent saves of the same key keep the first.
func (c *Cache) Save(key any, v any) bool {
	h, err := hashKey(key)
	if err != nil {
		sentry.CaptureException(err)
		return false
	}
	if !c.lock(h) {
		return false
	}
	defer c.unlock(h)

	fsPath := c.path(h)
	fs, err := os.Create(fsPath)
	if err != nil {
		sentry.CaptureException(errors.Wrap(err, "create cache entry"))
		return false
	}
	defer fs.Close()

	if err := jsoniter.NewEncoder(fs).Encode(v); err != nil {
		sentry.CaptureException(errors.Wrap(err, "encode cache entry"))
		fs.Close()
		os.Remove(fsPath)
		return false
	}
	return true
}

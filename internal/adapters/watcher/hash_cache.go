package watcher

import (
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// hashCache remembers the content hash of watched files so editor saves
// that do not change the content (touch, atomic rewrite) are suppressed
// instead of triggering a rebuild.
type hashCache struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

func newHashCache() *hashCache {
	return &hashCache{hashes: make(map[unique.Handle[string]]uint64)}
}

// Changed reports whether the file's content differs from the last
// recorded hash, recording the new one. Unreadable files count as changed;
// a later event will re-check them.
func (c *hashCache) Changed(path string) bool {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the watched tree
	if err != nil {
		c.mu.Lock()
		delete(c.hashes, unique.Make(path))
		c.mu.Unlock()
		return true
	}
	sum := xxhash.Sum64(data)

	handle := unique.Make(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.hashes[handle]; ok && prev == sum {
		return false
	}
	c.hashes[handle] = sum
	return true
}

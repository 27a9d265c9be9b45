package dispatch

import (
	"sync"

	"k8s.io/apimachinery/pkg/types"
)

// GenerationCache remembers, per resource UID, the highest generation that
// has been successfully reconciled. It is a deduplication aid, not a
// source of truth: it is in-memory, per-process, and never persisted. A
// cold cache after a restart causes at most one redundant reconciliation
// per resource, which the callback must tolerate anyway.
type GenerationCache interface {
	// ShouldProcess reports whether an event for uid at generation should
	// be dispatched to the callback. It returns true iff no entry exists
	// for uid, or generation is strictly greater than the stored value.
	ShouldProcess(uid types.UID, generation int64) bool

	// MarkProcessed records generation as the highest successfully
	// processed generation for uid. Callers must only invoke this after
	// the callback has returned without error.
	MarkProcessed(uid types.UID, generation int64)

	// Forget drops any entry for uid. Useful when a controller wants to
	// force reprocessing, e.g. after an external out-of-band fix.
	Forget(uid types.UID)
}

// inMemoryGenerationCache is a sync.RWMutex-guarded map. The expected key
// cardinality (one entry per live resource of a single kind) does not
// warrant lock striping; a single RWMutex is the simplest structure that
// satisfies the concurrency model in spec §5.
type inMemoryGenerationCache struct {
	mu      sync.RWMutex
	highest map[types.UID]int64
}

// NewGenerationCache creates an empty, concurrency-safe GenerationCache.
func NewGenerationCache() GenerationCache {
	return &inMemoryGenerationCache{
		highest: make(map[types.UID]int64),
	}
}

func (c *inMemoryGenerationCache) ShouldProcess(uid types.UID, generation int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, ok := c.highest[uid]
	if !ok {
		return true
	}
	return generation > stored
}

func (c *inMemoryGenerationCache) MarkProcessed(uid types.UID, generation int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stored, ok := c.highest[uid]; !ok || generation > stored {
		c.highest[uid] = generation
	}
}

func (c *inMemoryGenerationCache) Forget(uid types.UID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.highest, uid)
}

// noopGenerationCache is a GenerationCache whose ShouldProcess always
// returns true and whose MarkProcessed is a no-op. A dispatcher with
// GenerationAware: false does not need it: it skips its cache entirely.
type noopGenerationCache struct{}

func (noopGenerationCache) ShouldProcess(types.UID, int64) bool { return true }
func (noopGenerationCache) MarkProcessed(types.UID, int64)      {}
func (noopGenerationCache) Forget(types.UID)                    {}

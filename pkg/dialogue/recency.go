package dialogue

import (
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// RecentLinesPerNPC is how many recent lines are remembered per NPC.
	RecentLinesPerNPC = 5

	DefaultRecencyTTL = 30 * time.Minute
)

// RecencyCache remembers the last few lines each NPC said so the procedural
// path can avoid repeating itself. Entries for an NPC expire together after
// the TTL elapses without a new line.
type RecencyCache struct {
	mu    sync.Mutex
	lines *cache.Cache
	limit int
}

// NewRecencyCache creates a cache that forgets an NPC's lines after ttl.
// A non-positive ttl keeps lines until they are evicted by newer ones.
func NewRecencyCache(ttl time.Duration) *RecencyCache {
	cleanup := 2 * ttl
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	return &RecencyCache{
		lines: cache.New(ttl, cleanup),
		limit: RecentLinesPerNPC,
	}
}

// Add records a line, evicting the oldest once the limit is reached.
func (r *RecencyCache) Add(npcID, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recent := r.get(npcID)
	recent = append(recent, line)
	if len(recent) > r.limit {
		recent = recent[len(recent)-r.limit:]
	}
	r.lines.SetDefault(npcID, recent)
}

// Recent returns the remembered lines for an NPC, oldest first.
func (r *RecencyCache) Recent(npcID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(npcID)
}

// Contains reports whether line is among the NPC's recent lines.
func (r *RecencyCache) Contains(npcID, line string) bool {
	return slices.Contains(r.Recent(npcID), line)
}

// Forget drops everything remembered for an NPC.
func (r *RecencyCache) Forget(npcID string) {
	r.lines.Delete(npcID)
}

// get returns a copy; callers hold mu.
func (r *RecencyCache) get(npcID string) []string {
	v, ok := r.lines.Get(npcID)
	if !ok {
		return nil
	}
	return slices.Clone(v.([]string))
}

package social

import (
	"time"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
)

// Snapshot is the persisted form of a Context. Open dialogue sessions are
// not part of it.
type Snapshot struct {
	Memories   map[string]*memory.NPCMemory `json:"memories"`
	Reputation reputation.Reputation        `json:"reputation"`
	SavedAt    time.Time                    `json:"saved_at"`
}

// Snapshot captures memories and reputation.
func (c *Context) Snapshot() Snapshot {
	return Snapshot{
		Memories:   c.memories.Serialize(),
		Reputation: c.reputation.Clone(),
		SavedAt:    c.clock(),
	}
}

// Restore replaces the context's state with a snapshot. Values are clamped
// back into range, factions missing from the snapshot start neutral and
// unknown factions are dropped. Open sessions are closed.
func (c *Context) Restore(s Snapshot) {
	c.memories = memory.Deserialize(s.Memories, c.logger).WithClock(c.clock)
	c.selector.Rebind(c.memories)

	table := c.engine.Table()
	rep := table.NewReputation()
	for f, v := range s.Reputation {
		if !table.Known(f) {
			c.logger.Warn("Dropping reputation for unknown faction", "faction", f)
			continue
		}
		rep[f] = max(reputation.MinReputation, min(reputation.MaxReputation, v))
	}
	c.reputation = rep

	for id := range c.sessions {
		c.EndDialogue(id)
	}
}

// Package social ties NPC memory, faction reputation and dialogue together
// for a single save. A Context is created per game and passed to whatever
// needs it; nothing in this package is global.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/dialogue"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
)

var ErrUnknownFaction = errors.New("unknown faction")

// Options configure a new Context. The zero value gives a procedural-only
// context over the embedded faction table.
type Options struct {
	Factions      *reputation.FactionTable
	Generator     dialogue.Generator
	Seed          uint64 // 0 seeds from the clock
	ContentRating string
	Observer      dialogue.Observer
	Logger        *slog.Logger
	Clock         func() time.Time
}

// Context is the social state of one game. It is not safe for concurrent
// use; callers serialize access per game.
type Context struct {
	memories   *memory.Store
	reputation reputation.Reputation
	engine     *reputation.Engine
	selector   *dialogue.Selector
	sessions   map[uuid.UUID]*dialogue.Session
	clock      func() time.Time
	logger     *slog.Logger
}

// New creates a Context with empty memories and neutral standing with
// every faction.
func New(opts Options) *Context {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	engine := reputation.NewEngine(opts.Factions, logger)
	memories := memory.NewStore(logger).WithClock(clock)

	selector := dialogue.NewSelector(memories, logger)
	if opts.Seed != 0 {
		selector.WithSeed(opts.Seed)
	}
	if opts.Generator != nil {
		selector.WithGenerator(opts.Generator)
	}
	if opts.Observer != nil {
		selector.WithObserver(opts.Observer)
	}
	if opts.ContentRating != "" {
		selector.WithContentRating(opts.ContentRating)
	}

	return &Context{
		memories:   memories,
		reputation: engine.Table().NewReputation(),
		engine:     engine,
		selector:   selector,
		sessions:   make(map[uuid.UUID]*dialogue.Session),
		clock:      clock,
		logger:     logger,
	}
}

func (c *Context) Engine() *reputation.Engine {
	return c.engine
}

func (c *Context) Selector() *dialogue.Selector {
	return c.selector
}

// MeetNPC starts remembering an NPC. Meeting again is a no-op.
func (c *Context) MeetNPC(npc actor.NPC) {
	c.memories.MeetNPC(npc)
}

func (c *Context) RecordInteraction(in memory.Interaction) {
	c.memories.RecordInteraction(in)
}

func (c *Context) MakePromise(npcID, description string) {
	c.memories.MakePromise(npcID, description)
}

func (c *Context) FulfillPromise(npcID, substr string) bool {
	return c.memories.FulfillPromise(npcID, substr)
}

func (c *Context) ShareSecret(npcID, secret string) bool {
	return c.memories.ShareSecret(npcID, secret)
}

func (c *Context) RegisterFavor(npcID string, playerOwes bool) {
	c.memories.RegisterFavor(npcID, playerOwes)
}

// Memory returns a copy of what an NPC remembers.
func (c *Context) Memory(npcID string) (*memory.NPCMemory, bool) {
	return c.memories.GetMemory(npcID)
}

// MemoryContext renders an NPC's memory for a generation prompt.
func (c *Context) MemoryContext(npcID string) string {
	return c.memories.GenerateLLMContext(npcID)
}

// Reputation returns a copy of the current standing with every faction.
func (c *Context) Reputation() reputation.Reputation {
	return c.reputation.Clone()
}

// ApplyFactionAction scores an action against a faction and spreads the
// change to related factions. It returns the applied change.
func (c *Context) ApplyFactionAction(f reputation.Faction, action reputation.Action, magnitude float64) (int, error) {
	if !c.engine.Table().Known(f) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFaction, f)
	}
	change := reputation.CalculateReputationChange(action, magnitude)
	c.reputation = c.engine.ApplyReputationChange(f, change, c.reputation)
	return change, nil
}

// AdjustReputation applies a raw change to a faction, with propagation.
func (c *Context) AdjustReputation(f reputation.Faction, change int) error {
	if !c.engine.Table().Known(f) {
		return fmt.Errorf("%w: %q", ErrUnknownFaction, f)
	}
	c.reputation = c.engine.ApplyReputationChange(f, change, c.reputation)
	return nil
}

// Attitude is how the NPC feels about the player, from personal memory if
// any and faction standing otherwise.
func (c *Context) Attitude(npc actor.NPC) reputation.Attitude {
	return c.engine.CalculateAttitude(npc, c.reputation, c.memoryOrNil(npc.ID))
}

func (c *Context) PriceModifiers(npc actor.NPC) reputation.PriceModifiers {
	return c.engine.GetPriceModifiers(reputation.Faction(npc.Faction), c.reputation, c.memoryOrNil(npc.ID))
}

func (c *Context) WillTrade(npc actor.NPC) bool {
	return reputation.WillTrade(c.Attitude(npc), npc.Role)
}

func (c *Context) Benefits(f reputation.Faction) (reputation.Benefits, error) {
	if !c.engine.Table().Known(f) {
		return reputation.Benefits{}, fmt.Errorf("%w: %q", ErrUnknownFaction, f)
	}
	return c.engine.GetReputationBenefits(f, c.reputation), nil
}

func (c *Context) Penalties(f reputation.Faction) (reputation.Penalties, error) {
	if !c.engine.Table().Known(f) {
		return reputation.Penalties{}, fmt.Errorf("%w: %q", ErrUnknownFaction, f)
	}
	return c.engine.GetReputationPenalties(f, c.reputation), nil
}

// GenerateDialogue produces one line without opening a session.
func (c *Context) GenerateDialogue(ctx context.Context, opts dialogue.Options) dialogue.GeneratedDialogue {
	return c.selector.GenerateDialogue(ctx, opts)
}

// OpenDialogue meets the NPC if needed, opens a session and returns its
// greeting. Choices made in the session are remembered by this context.
func (c *Context) OpenDialogue(ctx context.Context, npc actor.NPC, scene string) (*dialogue.Session, dialogue.GeneratedDialogue, error) {
	if err := npc.Validate(); err != nil {
		return nil, dialogue.GeneratedDialogue{}, fmt.Errorf("failed to open dialogue: %w", err)
	}
	c.memories.MeetNPC(npc)

	session := dialogue.NewSession(npc, c.selector, c.memories, c.logger).WithClock(c.clock)
	greeting, err := session.Open(ctx, scene)
	if err != nil {
		return nil, dialogue.GeneratedDialogue{}, fmt.Errorf("failed to open dialogue: %w", err)
	}
	c.sessions[session.ID] = session
	return session, greeting, nil
}

// Dialogue returns an open session.
func (c *Context) Dialogue(id uuid.UUID) (*dialogue.Session, bool) {
	s, ok := c.sessions[id]
	return s, ok
}

// EndDialogue closes and forgets a session.
func (c *Context) EndDialogue(id uuid.UUID) {
	if s, ok := c.sessions[id]; ok {
		s.Close()
		delete(c.sessions, id)
	}
}

func (c *Context) memoryOrNil(npcID string) *memory.NPCMemory {
	mem, ok := c.memories.GetMemory(npcID)
	if !ok {
		return nil
	}
	return mem
}

package social

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/dialogue"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
)

var (
	captain = actor.NPC{ID: "captain", Name: "Captain Orla", Role: "guard", Faction: "guards", Personality: []string{"brave"}}
	trader  = actor.NPC{ID: "trader", Name: "Pell", Role: "merchant", Faction: "merchants", Personality: []string{"greedy"}}
)

func newTestContext() *Context {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	return New(Options{
		Seed:   99,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock: func() time.Time {
			tick++
			return start.Add(time.Duration(tick) * time.Second)
		},
	})
}

func TestNew_StartsNeutral(t *testing.T) {
	c := newTestContext()
	rep := c.Reputation()
	assert.Len(t, rep, 6)
	for f, v := range rep {
		assert.Zerof(t, v, "faction %s should start at 0", f)
	}
	assert.False(t, c.Selector().GenerativeEnabled())
}

func TestContext_ApplyFactionAction(t *testing.T) {
	c := newTestContext()

	change, err := c.ApplyFactionAction(reputation.FactionGuards, reputation.ActionQuestComplete, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, change)

	rep := c.Reputation()
	assert.Equal(t, 10, rep[reputation.FactionGuards])
	assert.Equal(t, 1, rep[reputation.FactionVillage])
	assert.Equal(t, 2, rep[reputation.FactionNobility])
	assert.Equal(t, -2, rep[reputation.FactionBandits])
	assert.Equal(t, -2, rep[reputation.FactionCult])
	assert.Equal(t, 0, rep[reputation.FactionMerchants])
}

func TestContext_UnknownFaction(t *testing.T) {
	c := newTestContext()

	_, err := c.ApplyFactionAction("pirates", reputation.ActionHelp, 1)
	assert.ErrorIs(t, err, ErrUnknownFaction)
	assert.ErrorIs(t, c.AdjustReputation("pirates", 5), ErrUnknownFaction)
	_, err = c.Benefits("pirates")
	assert.ErrorIs(t, err, ErrUnknownFaction)
	_, err = c.Penalties("pirates")
	assert.ErrorIs(t, err, ErrUnknownFaction)
	assert.NotContains(t, c.Reputation(), reputation.Faction("pirates"))
}

func TestContext_MemoryOverridesFaction(t *testing.T) {
	c := newTestContext()
	require.NoError(t, c.AdjustReputation(reputation.FactionGuards, 90))
	assert.Equal(t, reputation.AttitudeDevoted, c.Attitude(captain))

	c.MeetNPC(captain)
	for range 5 {
		c.RecordInteraction(memory.Interaction{
			NPCID: "captain", Type: memory.InteractionCombat, Outcome: memory.OutcomeNegative, EmotionalImpact: -10,
		})
	}
	mem, ok := c.Memory("captain")
	require.True(t, ok)
	assert.Equal(t, -50, mem.Relationship)
	assert.Equal(t, reputation.AttitudeUnfriendly, c.Attitude(captain))
	assert.Equal(t, "unfriendly", c.PriceModifiers(captain).Tier)
}

func TestContext_PricesAndTrade(t *testing.T) {
	c := newTestContext()
	assert.True(t, c.WillTrade(trader), "merchants trade at neutral")
	assert.False(t, c.WillTrade(captain), "guards need a friendly attitude")

	require.NoError(t, c.AdjustReputation(reputation.FactionMerchants, 80))
	mods := c.PriceModifiers(trader)
	assert.Equal(t, 0.7, mods.BuyModifier)
	assert.Equal(t, 1.3, mods.SellModifier)

	benefits, err := c.Benefits(reputation.FactionMerchants)
	require.NoError(t, err)
	assert.True(t, benefits.Safehaven)
	assert.Equal(t, 20, benefits.GlobalDiscount)
}

func TestContext_Penalties(t *testing.T) {
	c := newTestContext()
	require.NoError(t, c.AdjustReputation(reputation.FactionBandits, -95))

	p, err := c.Penalties(reputation.FactionBandits)
	require.NoError(t, err)
	assert.True(t, p.AttackOnSight)
	require.NotNil(t, p.Bounty)
	assert.Equal(t, 300, *p.Bounty)
	assert.Equal(t, []string{"hideout"}, p.AccessRestricted)
}

func TestContext_OpenDialogue(t *testing.T) {
	ctx := context.Background()
	c := newTestContext()

	session, greeting, err := c.OpenDialogue(ctx, captain, "the city gate")
	require.NoError(t, err)
	assert.NotEmpty(t, greeting.Text)
	assert.Equal(t, dialogue.SourceProcedural, greeting.Source)

	_, met := c.Memory("captain")
	assert.True(t, met, "opening a dialogue meets the NPC")

	found, ok := c.Dialogue(session.ID)
	require.True(t, ok)
	assert.Same(t, session, found)

	_, err = session.Choose(ctx, "Thank you, friend.")
	require.NoError(t, err)
	mem, _ := c.Memory("captain")
	assert.Equal(t, 1, mem.TotalInteractions)

	c.EndDialogue(session.ID)
	_, ok = c.Dialogue(session.ID)
	assert.False(t, ok)
	assert.Equal(t, dialogue.StateClosed, session.State())
}

func TestContext_OpenDialogue_InvalidNPC(t *testing.T) {
	c := newTestContext()
	_, _, err := c.OpenDialogue(context.Background(), actor.NPC{Name: "Nobody"}, "the road")
	assert.Error(t, err)
}

func TestContext_SnapshotRestore(t *testing.T) {
	c := newTestContext()
	c.MeetNPC(captain)
	c.RecordInteraction(memory.Interaction{NPCID: "captain", Type: memory.InteractionHelp, Summary: "Held the gate", Outcome: memory.OutcomePositive, EmotionalImpact: 6})
	c.MakePromise("captain", "Find the deserter")
	c.ShareSecret("captain", "The mayor is corrupt")
	c.RegisterFavor("captain", false)
	_, err := c.ApplyFactionAction(reputation.FactionGuards, reputation.ActionHelp, 2)
	require.NoError(t, err)
	session, _, err := c.OpenDialogue(context.Background(), captain, "the gate")
	require.NoError(t, err)

	data, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := newTestContext()
	restored.Restore(snap)

	assert.Equal(t, c.Reputation(), restored.Reputation())
	want, _ := c.Memory("captain")
	got, ok := restored.Memory("captain")
	require.True(t, ok)
	assert.Equal(t, want.Relationship, got.Relationship)
	assert.Equal(t, want.Trust, got.Trust)
	assert.Equal(t, want.Mood, got.Mood)
	assert.Equal(t, want.OwedFavors, got.OwedFavors)
	assert.Equal(t, want.Secrets, got.Secrets)
	assert.Len(t, got.Promises, 1)
	assert.Len(t, got.Interactions, 1)
	assert.Equal(t, c.MemoryContext("captain"), restored.MemoryContext("captain"))

	c.Restore(snap)
	assert.Equal(t, dialogue.StateClosed, session.State(), "restore closes open sessions")
}

func TestContext_RestoreRepairsReputation(t *testing.T) {
	c := newTestContext()
	c.Restore(Snapshot{Reputation: reputation.Reputation{
		reputation.FactionGuards: 250,
		reputation.FactionCult:   -400,
		"pirates":                10,
	}})

	rep := c.Reputation()
	assert.Equal(t, 100, rep[reputation.FactionGuards])
	assert.Equal(t, -100, rep[reputation.FactionCult])
	assert.Equal(t, 0, rep[reputation.FactionVillage])
	assert.NotContains(t, rep, reputation.Faction("pirates"))
}

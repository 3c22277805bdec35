package memory

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	tick := 0
	return NewStore(slog.New(slog.NewTextHandler(io.Discard, nil))).WithClock(func() time.Time {
		tick++
		return testEpoch.Add(time.Duration(tick) * time.Minute)
	})
}

func metStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	s := newTestStore()
	for _, id := range ids {
		s.MeetNPC(actor.NPC{ID: id, Name: "NPC " + id})
	}
	return s
}

func TestStore_MeetNPC(t *testing.T) {
	s := newTestStore()
	s.MeetNPC(actor.NPC{ID: "mara", Name: "Mara"})

	mem, ok := s.GetMemory("mara")
	if !ok {
		t.Fatal("expected memory after meeting")
	}
	if mem.Relationship != 0 || mem.Trust != 50 || mem.Mood != MoodNeutral {
		t.Errorf("unexpected initial state: relationship=%d trust=%d mood=%s", mem.Relationship, mem.Trust, mem.Mood)
	}
	if mem.NPCName != "Mara" {
		t.Errorf("expected name Mara, got %s", mem.NPCName)
	}

	firstMet := mem.FirstMetAt
	lastSeen := mem.LastSeenAt
	s.MeetNPC(actor.NPC{ID: "mara", Name: "Someone Else"})

	again, _ := s.GetMemory("mara")
	if !again.FirstMetAt.Equal(firstMet) {
		t.Error("FirstMetAt changed on second meeting")
	}
	if !again.LastSeenAt.After(lastSeen) {
		t.Error("LastSeenAt was not refreshed on second meeting")
	}
	if again.NPCName != "Mara" {
		t.Errorf("meeting again should not rename the memory, got %s", again.NPCName)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 memory, got %d", s.Len())
	}
}

func TestStore_MeetNPC_InvalidDescriptor(t *testing.T) {
	s := newTestStore()
	s.MeetNPC(actor.NPC{Name: "Nameless"})
	if s.Len() != 0 {
		t.Errorf("expected no memory for npc without id, got %d", s.Len())
	}
}

func TestStore_RecordInteraction_UnknownNPC(t *testing.T) {
	s := newTestStore()
	s.RecordInteraction(Interaction{NPCID: "ghost", Type: InteractionDialogue, Outcome: OutcomePositive, EmotionalImpact: 5})

	if _, ok := s.GetMemory("ghost"); ok {
		t.Error("recording an interaction must not create a memory")
	}
}

func TestStore_RecordInteraction(t *testing.T) {
	tests := []struct {
		name                 string
		interaction          Interaction
		expectedRelationship int
		expectedTrust        int
		expectedMood         Mood
		expectedTags         []string
	}{
		{
			name:                 "positive help",
			interaction:          Interaction{Type: InteractionHelp, Outcome: OutcomePositive, EmotionalImpact: 5},
			expectedRelationship: 5,
			expectedTrust:        55,
			expectedMood:         MoodNeutral,
		},
		{
			name:                 "negative combat",
			interaction:          Interaction{Type: InteractionCombat, Outcome: OutcomeNegative, EmotionalImpact: -6},
			expectedRelationship: -6,
			expectedTrust:        40,
			expectedMood:         MoodNeutral,
		},
		{
			name:                 "neutral trade leaves trust alone",
			interaction:          Interaction{Type: InteractionTrade, Outcome: OutcomeNeutral, EmotionalImpact: 1},
			expectedRelationship: 1,
			expectedTrust:        50,
			expectedMood:         MoodNeutral,
		},
		{
			name:                 "betrayal tags the memory",
			interaction:          Interaction{Type: InteractionBetrayal, Outcome: OutcomeNegative, EmotionalImpact: -10},
			expectedRelationship: -10,
			expectedTrust:        40,
			expectedMood:         MoodNeutral,
			expectedTags:         []string{TagBetrayed},
		},
		{
			name:                 "life saved",
			interaction:          Interaction{Type: InteractionHelp, Outcome: OutcomePositive, EmotionalImpact: 8},
			expectedRelationship: 8,
			expectedTrust:        55,
			expectedMood:         MoodNeutral,
			expectedTags:         []string{TagSavedLife},
		},
		{
			name:                 "impact is clamped to ten",
			interaction:          Interaction{Type: InteractionGift, Outcome: OutcomePositive, EmotionalImpact: 40},
			expectedRelationship: 10,
			expectedTrust:        55,
			expectedMood:         MoodNeutral,
			expectedTags:         []string{TagSavedLife},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := metStore(t, "npc")
			in := tt.interaction
			in.NPCID = "npc"
			in.Summary = tt.name
			s.RecordInteraction(in)

			mem, _ := s.GetMemory("npc")
			if mem.Relationship != tt.expectedRelationship {
				t.Errorf("relationship = %d, want %d", mem.Relationship, tt.expectedRelationship)
			}
			if mem.Trust != tt.expectedTrust {
				t.Errorf("trust = %d, want %d", mem.Trust, tt.expectedTrust)
			}
			if mem.Mood != tt.expectedMood {
				t.Errorf("mood = %s, want %s", mem.Mood, tt.expectedMood)
			}
			if mem.TotalInteractions != 1 {
				t.Errorf("total interactions = %d, want 1", mem.TotalInteractions)
			}
			if len(mem.Tags) != len(tt.expectedTags) {
				t.Fatalf("tags = %v, want %v", mem.Tags, tt.expectedTags)
			}
			for _, tag := range tt.expectedTags {
				if !mem.HasTag(tag) {
					t.Errorf("missing tag %s in %v", tag, mem.Tags)
				}
			}
		})
	}
}

func TestStore_RecordInteraction_LastSeenNeverMovesBack(t *testing.T) {
	s := metStore(t, "npc")
	later := testEpoch.Add(time.Hour)
	s.RecordInteraction(Interaction{NPCID: "npc", Type: InteractionDialogue, Timestamp: later})
	s.RecordInteraction(Interaction{NPCID: "npc", Type: InteractionDialogue, Timestamp: testEpoch})

	mem, _ := s.GetMemory("npc")
	if !mem.LastSeenAt.Equal(later) {
		t.Errorf("LastSeenAt = %v, want %v", mem.LastSeenAt, later)
	}
	if mem.TotalInteractions != 2 {
		t.Errorf("expected both interactions recorded, got %d", mem.TotalInteractions)
	}
}

func TestStore_RecordInteraction_HistoryIsBoundedFIFO(t *testing.T) {
	s := metStore(t, "npc")
	for i := 0; i < 30; i++ {
		s.RecordInteraction(Interaction{
			NPCID:   "npc",
			Type:    InteractionDialogue,
			Summary: fmt.Sprintf("chat %d", i),
			Outcome: OutcomeNeutral,
		})
		mem, _ := s.GetMemory("npc")
		if len(mem.Interactions) > MaxInteractions {
			t.Fatalf("history grew to %d entries", len(mem.Interactions))
		}
	}

	mem, _ := s.GetMemory("npc")
	if mem.TotalInteractions != 30 {
		t.Errorf("total interactions = %d, want 30", mem.TotalInteractions)
	}
	if len(mem.Interactions) != MaxInteractions {
		t.Fatalf("history length = %d, want %d", len(mem.Interactions), MaxInteractions)
	}
	if mem.Interactions[0].Summary != "chat 10" {
		t.Errorf("oldest retained = %q, want %q", mem.Interactions[0].Summary, "chat 10")
	}
	if mem.Interactions[MaxInteractions-1].Summary != "chat 29" {
		t.Errorf("newest = %q, want %q", mem.Interactions[MaxInteractions-1].Summary, "chat 29")
	}
}

func TestStore_RecordInteraction_InvariantsHoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	outcomes := []Outcome{OutcomePositive, OutcomeNegative, OutcomeNeutral}
	types := []InteractionType{InteractionDialogue, InteractionTrade, InteractionQuest, InteractionCombat,
		InteractionGift, InteractionBetrayal, InteractionHelp}

	s := metStore(t, "npc")
	for i := 0; i < 500; i++ {
		s.RecordInteraction(Interaction{
			NPCID:           "npc",
			Type:            types[rng.IntN(len(types))],
			Outcome:         outcomes[rng.IntN(len(outcomes))],
			EmotionalImpact: rng.IntN(41) - 20,
		})

		mem, _ := s.GetMemory("npc")
		if mem.Relationship < MinRelationship || mem.Relationship > MaxRelationship {
			t.Fatalf("step %d: relationship out of range: %d", i, mem.Relationship)
		}
		if mem.Trust < MinTrust || mem.Trust > MaxTrust {
			t.Fatalf("step %d: trust out of range: %d", i, mem.Trust)
		}
		if want := DeriveMood(mem.Relationship, mem.Trust); mem.Mood != want {
			t.Fatalf("step %d: mood %s out of sync, want %s", i, mem.Mood, want)
		}
		if len(mem.Interactions) > MaxInteractions {
			t.Fatalf("step %d: history length %d", i, len(mem.Interactions))
		}
	}
}

func TestStore_CloseFriendTag(t *testing.T) {
	s := metStore(t, "npc")
	for i := 0; i < 11; i++ {
		s.RecordInteraction(Interaction{NPCID: "npc", Type: InteractionHelp, Outcome: OutcomePositive, EmotionalImpact: 7})
	}

	mem, _ := s.GetMemory("npc")
	if mem.Relationship != 77 {
		t.Fatalf("relationship = %d, want 77", mem.Relationship)
	}
	if !mem.HasTag(TagCloseFriend) {
		t.Errorf("expected %s tag, got %v", TagCloseFriend, mem.Tags)
	}
	if mem.Mood != MoodDevoted {
		t.Errorf("mood = %s, want devoted", mem.Mood)
	}

	// Tags are a set.
	s.RecordInteraction(Interaction{NPCID: "npc", Type: InteractionHelp, Outcome: OutcomePositive, EmotionalImpact: 7})
	mem, _ = s.GetMemory("npc")
	count := 0
	for _, tag := range mem.Tags {
		if tag == TagCloseFriend {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected close-friend once, found %d times", count)
	}
}

func TestDeriveMood(t *testing.T) {
	tests := []struct {
		relationship int
		trust        int
		expected     Mood
	}{
		{-51, 90, MoodHostile},
		{80, 19, MoodHostile},
		{-21, 90, MoodSuspicious},
		{80, 39, MoodSuspicious},
		{-50, 50, MoodSuspicious},
		{51, 71, MoodDevoted},
		{51, 70, MoodFriendly},
		{50, 90, MoodFriendly},
		{21, 40, MoodFriendly},
		{20, 50, MoodNeutral},
		{-20, 40, MoodNeutral},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("r%d_t%d", tt.relationship, tt.trust), func(t *testing.T) {
			if got := DeriveMood(tt.relationship, tt.trust); got != tt.expected {
				t.Errorf("DeriveMood(%d, %d) = %s, want %s", tt.relationship, tt.trust, got, tt.expected)
			}
		})
	}
}

func TestStore_Promises(t *testing.T) {
	s := metStore(t, "npc")
	s.MakePromise("npc", "Recover the Silver Ledger")
	s.MakePromise("npc", "Bring wine from the coast")

	if !s.FulfillPromise("npc", "silver ledger") {
		t.Fatal("expected case-insensitive match to fulfill promise")
	}

	mem, _ := s.GetMemory("npc")
	if !mem.Promises[0].Fulfilled || mem.Promises[1].Fulfilled {
		t.Errorf("unexpected promise state: %+v", mem.Promises)
	}
	if mem.Relationship != 10 || mem.Trust != 65 {
		t.Errorf("expected relationship 10 / trust 65, got %d / %d", mem.Relationship, mem.Trust)
	}
	if len(mem.PendingPromises()) != 1 {
		t.Errorf("expected one pending promise, got %d", len(mem.PendingPromises()))
	}

	// Already fulfilled and unmatched promises change nothing.
	if s.FulfillPromise("npc", "silver ledger") {
		t.Error("already fulfilled promise should not match again")
	}
	if s.FulfillPromise("npc", "dragon egg") {
		t.Error("unmatched description should not fulfill anything")
	}
	after, _ := s.GetMemory("npc")
	if after.Relationship != 10 || after.Trust != 65 {
		t.Errorf("relationship/trust changed without a match: %d / %d", after.Relationship, after.Trust)
	}

	// A blank description is not a wildcard.
	for _, blank := range []string{"", "   "} {
		if s.FulfillPromise("npc", blank) {
			t.Errorf("blank description %q should not fulfill anything", blank)
		}
	}
	if pending, _ := s.GetMemory("npc"); len(pending.PendingPromises()) != 1 {
		t.Errorf("blank description changed pending promises: %+v", pending.Promises)
	}

	// Unknown NPCs are ignored.
	s.MakePromise("ghost", "anything")
	if s.FulfillPromise("ghost", "anything") {
		t.Error("unknown npc should not fulfill promises")
	}
}

func TestStore_ShareSecret(t *testing.T) {
	s := metStore(t, "npc")

	if !s.ShareSecret("npc", "the mayor is a cultist") {
		t.Fatal("expected first share to be new")
	}
	if s.ShareSecret("npc", "the mayor is a cultist") {
		t.Error("duplicate secret should not count as new")
	}

	mem, _ := s.GetMemory("npc")
	if mem.Trust != 55 {
		t.Errorf("trust = %d, want 55", mem.Trust)
	}
	if len(mem.Secrets) != 1 {
		t.Errorf("secrets = %v, want one entry", mem.Secrets)
	}
}

func TestStore_TrustClampsAtMaximum(t *testing.T) {
	s := metStore(t, "npc")
	for i := 0; i < 20; i++ {
		s.ShareSecret("npc", fmt.Sprintf("secret %d", i))
	}
	mem, _ := s.GetMemory("npc")
	if mem.Trust != MaxTrust {
		t.Errorf("trust = %d, want %d", mem.Trust, MaxTrust)
	}
}

func TestStore_RegisterFavor(t *testing.T) {
	s := metStore(t, "npc")
	s.RegisterFavor("npc", true)
	s.RegisterFavor("npc", true)
	s.RegisterFavor("npc", false)

	mem, _ := s.GetMemory("npc")
	if mem.OwedFavors != 1 {
		t.Errorf("owed favors = %d, want 1", mem.OwedFavors)
	}
}

func TestStore_GetMemoryReturnsCopy(t *testing.T) {
	s := metStore(t, "npc")
	mem, _ := s.GetMemory("npc")
	mem.Relationship = 99
	mem.Tags = append(mem.Tags, "tampered")

	fresh, _ := s.GetMemory("npc")
	if fresh.Relationship != 0 || len(fresh.Tags) != 0 {
		t.Errorf("store state leaked through GetMemory copy: %+v", fresh)
	}

	all := s.GetAllMemories()
	all["npc"].Trust = 0
	fresh, _ = s.GetMemory("npc")
	if fresh.Trust != DefaultTrust {
		t.Errorf("store state leaked through GetAllMemories copy")
	}
}

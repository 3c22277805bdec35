package memory

import (
	"fmt"
	"strings"
	"testing"
)

func TestStore_GenerateLLMContext_Unknown(t *testing.T) {
	s := newTestStore()
	if got := s.GenerateLLMContext("nobody"); got != NoMemoryContext {
		t.Errorf("expected sentinel, got %q", got)
	}
}

func TestStore_GenerateLLMContext(t *testing.T) {
	s := metStore(t, "npc")
	for i := 0; i < 7; i++ {
		s.RecordInteraction(Interaction{
			NPCID:   "npc",
			Type:    InteractionQuest,
			Summary: fmt.Sprintf("errand %d", i),
			Outcome: OutcomePositive,
		})
	}
	s.MakePromise("npc", "Find her brother")
	s.MakePromise("npc", "Pay back the loan")
	s.FulfillPromise("npc", "loan")
	s.ShareSecret("npc", "I am the heir")
	s.RegisterFavor("npc", true)
	s.RecordInteraction(Interaction{NPCID: "npc", Type: InteractionBetrayal, Summary: "sold her map", Outcome: OutcomeNegative, EmotionalImpact: -4, PlayerChoice: "Sell the map"})

	ctx := s.GenerateLLMContext("npc")

	mustContain := []string{
		"Memory of NPC npc:",
		"Relationship: 6/100 (neutral)",
		"Trust: 90/100",
		"Total interactions: 8",
		"[betrayal] sold her map (negative)",
		`player chose: "Sell the map"`,
		"- Find her brother",
		"I am the heir",
		"the player owes 1",
		"betrayed",
	}
	for _, want := range mustContain {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q:\n%s", want, ctx)
		}
	}

	// Only the last five interactions are rendered.
	if strings.Contains(ctx, "errand 2") {
		t.Errorf("context should not include older interactions:\n%s", ctx)
	}
	if !strings.Contains(ctx, "errand 3") {
		t.Errorf("context should include errand 3:\n%s", ctx)
	}
	if strings.Contains(ctx, "Pay back the loan") {
		t.Errorf("fulfilled promise should not be listed as pending:\n%s", ctx)
	}
}

func TestStore_GenerateLLMContext_TruncatesLongSummaries(t *testing.T) {
	s := metStore(t, "npc")
	s.RecordInteraction(Interaction{NPCID: "npc", Type: InteractionDialogue, Summary: strings.Repeat("a", 400), Outcome: OutcomeNeutral})

	ctx := s.GenerateLLMContext("npc")
	if strings.Contains(ctx, strings.Repeat("a", 200)) {
		t.Error("expected long summary to be truncated")
	}
	if !strings.Contains(ctx, "...") {
		t.Error("expected truncation tail")
	}
}

func TestStore_GenerateLLMContext_NPCOwesPlayer(t *testing.T) {
	s := metStore(t, "npc")
	s.RegisterFavor("npc", false)
	s.RegisterFavor("npc", false)

	if ctx := s.GenerateLLMContext("npc"); !strings.Contains(ctx, "NPC npc owes the player 2") {
		t.Errorf("unexpected favor line:\n%s", ctx)
	}
}

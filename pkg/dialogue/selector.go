package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/textfilter"
)

// GenerationResult is the outcome of the generative stage. Err is set when
// the stage produced nothing usable, for whatever reason.
type GenerationResult struct {
	Dialogue GeneratedDialogue
	Err      error
}

// Selector produces NPC dialogue. Generation is tried first when a
// generator is configured and enabled; every failure falls back to the
// procedural templates.
type Selector struct {
	memories   MemoryReader
	generator  Generator
	generative *atomic.Bool
	recent     *RecencyCache
	filter     *textfilter.ProfanityFilter
	rating     string
	observer   Observer
	logger     *slog.Logger

	rngMu sync.Mutex
	rng   Rand
}

// NewSelector creates a procedural-only selector reading from memories.
// Template choice is seeded from the clock until WithSeed or WithRand is used.
func NewSelector(memories MemoryReader, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		memories:   memories,
		generative: atomic.NewBool(true),
		recent:     NewRecencyCache(DefaultRecencyTTL),
		rating:     RatingPG13,
		filter:     textfilter.NewProfanityFilter(),
		logger:     logger,
		rng:        NewSeededRand(uint64(time.Now().UnixNano())),
	}
}

// NewSeededRand returns a deterministic random source for template choice.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WithGenerator enables the generative stage.
func (s *Selector) WithGenerator(g Generator) *Selector {
	s.generator = g
	return s
}

// Rebind points the selector at a different memory store, for example after
// a save is restored.
func (s *Selector) Rebind(memories MemoryReader) {
	s.memories = memories
}

// WithSeed makes template choice reproducible.
func (s *Selector) WithSeed(seed uint64) *Selector {
	return s.WithRand(NewSeededRand(seed))
}

func (s *Selector) WithRand(r Rand) *Selector {
	if r != nil {
		s.rng = r
	}
	return s
}

func (s *Selector) WithObserver(o Observer) *Selector {
	s.observer = o
	return s
}

func (s *Selector) WithRecencyCache(c *RecencyCache) *Selector {
	if c != nil {
		s.recent = c
	}
	return s
}

// WithContentRating sets the rating passed to the generator and decides
// whether generated text is run through the profanity filter.
func (s *Selector) WithContentRating(rating string) *Selector {
	s.rating = rating
	if textfilter.ShouldFilterContent(rating) {
		s.filter = textfilter.NewProfanityFilter()
	} else {
		s.filter = nil
	}
	return s
}

// SetGenerativeEnabled toggles the generative stage at runtime.
func (s *Selector) SetGenerativeEnabled(enabled bool) {
	s.generative.Store(enabled)
}

// GenerativeEnabled reports whether a generator is configured and switched on.
func (s *Selector) GenerativeEnabled() bool {
	return s.generator != nil && s.generative.Load()
}

// Recent exposes the recency cache.
func (s *Selector) Recent() *RecencyCache {
	return s.recent
}

// GenerateDialogue always returns a line of dialogue for the NPC.
func (s *Selector) GenerateDialogue(ctx context.Context, opts Options) GeneratedDialogue {
	result := s.generate(ctx, opts)
	d := s.resolve(result, opts)

	s.recent.Add(opts.NPC.ID, d.Text)
	if s.observer != nil {
		s.observer.ObserveGeneration(opts.NPC.ID, d.Source, result.Err)
	}
	return d
}

// GenerateGreeting produces an opening line for a conversation.
func (s *Selector) GenerateGreeting(ctx context.Context, npc actor.NPC, scene string) GeneratedDialogue {
	return s.GenerateDialogue(ctx, Options{
		NPC:     npc,
		Context: scene,
		Topic:   "greeting",
		Tone:    "natural, in character",
	})
}

// GenerateReaction produces the NPC's response to something the player did.
func (s *Selector) GenerateReaction(ctx context.Context, npc actor.NPC, playerAction, scene string) GeneratedDialogue {
	return s.GenerateDialogue(ctx, Options{
		NPC:          npc,
		Context:      scene,
		PlayerAction: playerAction,
		Topic:        "reaction",
		Tone:         "immediate, emotionally honest",
	})
}

// GenerateQuestDialogue produces a line about a quest.
func (s *Selector) GenerateQuestDialogue(ctx context.Context, npc actor.NPC, quest, scene string) GeneratedDialogue {
	return s.GenerateDialogue(ctx, Options{
		NPC:     npc,
		Context: scene,
		Topic:   "quest: " + quest,
		Tone:    "purposeful",
	})
}

// generate runs the generative stage. It never panics.
func (s *Selector) generate(ctx context.Context, opts Options) (result GenerationResult) {
	if !s.GenerativeEnabled() {
		return GenerationResult{Err: ErrGenerationUnavailable}
	}

	memoryContext := ""
	if !opts.IgnoreMemory && s.memories != nil {
		memoryContext = s.memories.GenerateLLMContext(opts.NPC.ID)
	}
	scene := opts.Context
	if strings.TrimSpace(scene) == "" {
		scene = defaultSceneContext
	}
	prompt, err := NewPrompt().
		WithNPC(opts.NPC).
		WithScene(scene).
		WithPlayerAction(opts.PlayerAction).
		WithTopic(opts.Topic).
		WithTone(opts.Tone).
		WithMemoryContext(memoryContext).
		WithContentRating(s.rating).
		Build()
	if err != nil {
		return GenerationResult{Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			result = GenerationResult{Err: fmt.Errorf("generator panicked: %v", r)}
		}
	}()

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return GenerationResult{Err: fmt.Errorf("failed to generate dialogue: %w", err)}
	}
	d, err := ParseResponse(raw)
	if err != nil {
		return GenerationResult{Err: err}
	}

	d.Emotion = DetectEmotion(d.Text)
	if s.filter != nil {
		d.Text = s.filter.FilterText(d.Text)
		for i, r := range d.SuggestedResponses {
			d.SuggestedResponses[i] = s.filter.FilterText(r)
		}
	}
	if len(d.SuggestedResponses) == 0 {
		d.SuggestedResponses = SuggestResponses(s.memoryOf(opts.NPC.ID))
	}
	d.Source = SourceGenerative
	return GenerationResult{Dialogue: d}
}

// resolve keeps a successful generation and falls back otherwise.
func (s *Selector) resolve(result GenerationResult, opts Options) GeneratedDialogue {
	if result.Err == nil {
		return result.Dialogue
	}
	if errors.Is(result.Err, ErrGenerationUnavailable) {
		s.logger.Debug("Generative dialogue unavailable, using templates", "npc_id", opts.NPC.ID)
	} else {
		s.logger.Warn("Dialogue generation failed, using templates", "npc_id", opts.NPC.ID, "error", result.Err)
	}
	return s.GenerateProceduralDialogue(opts)
}

// GenerateProceduralDialogue picks a template for the NPC's personality and
// mood, avoiding lines said recently when possible.
func (s *Selector) GenerateProceduralDialogue(opts Options) GeneratedDialogue {
	mem := s.memoryOf(opts.NPC.ID)
	mood := memory.MoodNeutral
	if mem != nil {
		mood = mem.Mood
	}

	pool := templatePool(opts.NPC.PrimaryTrait(), mood)
	lines := make([]string, len(pool))
	for i, tmpl := range pool {
		lines[i] = fillTemplate(tmpl, opts.NPC, opts.Context)
	}

	recent := s.recent.Recent(opts.NPC.ID)
	candidates := make([]string, 0, len(lines))
	for _, line := range lines {
		if !slices.Contains(recent, line) {
			candidates = append(candidates, line)
		}
	}
	if len(candidates) == 0 {
		candidates = lines
	}

	text := candidates[s.pick(len(candidates))]
	return GeneratedDialogue{
		Text:               text,
		Emotion:            DetectEmotion(text),
		SuggestedResponses: SuggestResponses(mem),
		Source:             SourceProcedural,
	}
}

func (s *Selector) pick(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.IntN(n)
}

func (s *Selector) memoryOf(npcID string) *memory.NPCMemory {
	if s.memories == nil {
		return nil
	}
	mem, ok := s.memories.GetMemory(npcID)
	if !ok {
		return nil
	}
	return mem
}

func fillTemplate(tmpl string, npc actor.NPC, scene string) string {
	if strings.TrimSpace(scene) == "" {
		scene = defaultSceneContext
	}
	return strings.NewReplacer(
		placeholderName, npc.DisplayName(),
		placeholderContext, scene,
	).Replace(tmpl)
}

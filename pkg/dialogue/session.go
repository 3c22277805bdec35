package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/textfilter"
)

// State is a dialogue session's position in its lifecycle.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingGeneration   State = "awaiting_generation"
	StatePresenting           State = "presenting"
	StateAwaitingPlayerChoice State = "awaiting_player_choice"
	StateClosed               State = "closed"
)

type Speaker string

const (
	SpeakerNPC    Speaker = "npc"
	SpeakerPlayer Speaker = "player"
)

// HistoryEntry is one line of a conversation. History is append-only.
type HistoryEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Emotion   Emotion   `json:"emotion,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder receives the interactions a session produces.
type Recorder interface {
	RecordInteraction(in memory.Interaction)
}

var (
	trustingChoice = textfilter.NewLexicon("trusting",
		"thank", "thanks", "trust", "friend", "of course", "gladly", "i'll help", "i will help",
		"agreed", "i promise", "good to see you")
	combativeChoice = textfilter.NewLexicon("combative",
		"liar", "threat", "fight", "shut up", "or else", "coward", "fool", "get out", "i don't believe you")
)

const (
	trustingImpact  = 2
	combativeImpact = -3
)

// ClassifyChoice scores how a player choice lands with the NPC.
func ClassifyChoice(choice string) (memory.Outcome, int) {
	switch {
	case combativeChoice.Match(choice) || textfilter.Profanity.Match(choice):
		return memory.OutcomeNegative, combativeImpact
	case trustingChoice.Match(choice):
		return memory.OutcomePositive, trustingImpact
	default:
		return memory.OutcomeNeutral, 0
	}
}

// Session is one conversation between the player and an NPC:
//
//	Idle -> AwaitingGeneration -> Presenting -> AwaitingPlayerChoice
//	AwaitingPlayerChoice -> AwaitingGeneration (on a choice)
//	AwaitingPlayerChoice -> Closed (on [Leave] or [Attack])
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	npc      actor.NPC
	scene    string
	selector *Selector
	recorder Recorder
	state    State
	current  *GeneratedDialogue
	history  []HistoryEntry
	now      func() time.Time
	logger   *slog.Logger
}

// NewSession creates an idle session. recorder may be nil, in which case
// choices are not remembered.
func NewSession(npc actor.NPC, selector *Selector, recorder Recorder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:       uuid.New(),
		npc:      npc,
		selector: selector,
		recorder: recorder,
		state:    StateIdle,
		history:  make([]HistoryEntry, 0),
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the timestamp source.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Open starts the conversation with a greeting.
func (s *Session) Open(ctx context.Context, scene string) (GeneratedDialogue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return GeneratedDialogue{}, ErrSessionClosed
	}
	if s.state != StateIdle {
		return GeneratedDialogue{}, fmt.Errorf("%w: cannot open from %s", ErrInvalidTransition, s.state)
	}

	s.scene = scene
	s.state = StateAwaitingGeneration
	d := s.selector.GenerateGreeting(ctx, s.npc, scene)
	s.presentLocked(d)

	s.logger.Debug("Dialogue session opened", "session_id", s.ID, "npc_id", s.npc.ID, "source", d.Source)
	return d, nil
}

// Present marks the current line as shown to the player.
func (s *Session) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePresenting:
		s.state = StateAwaitingPlayerChoice
		return nil
	case StateClosed:
		return ErrSessionClosed
	default:
		return fmt.Errorf("%w: cannot present from %s", ErrInvalidTransition, s.state)
	}
}

// Choose applies the player's choice. Leave and Attack choices close the
// session and return nil. Any other choice is recorded as a dialogue
// interaction and answered with a new line. A line that was never explicitly
// presented counts as presented.
func (s *Session) Choose(ctx context.Context, choice string) (*GeneratedDialogue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return nil, ErrSessionClosed
	case StatePresenting, StateAwaitingPlayerChoice:
	default:
		return nil, fmt.Errorf("%w: cannot choose from %s", ErrInvalidTransition, s.state)
	}

	s.history = append(s.history, HistoryEntry{Speaker: SpeakerPlayer, Text: choice, Timestamp: s.now()})

	if IsTerminalChoice(choice) {
		s.closeLocked()
		return nil, nil
	}

	if s.recorder != nil {
		outcome, impact := ClassifyChoice(choice)
		s.recorder.RecordInteraction(memory.Interaction{
			NPCID:           s.npc.ID,
			Type:            memory.InteractionDialogue,
			Summary:         "Talked with " + s.npc.DisplayName(),
			PlayerChoice:    choice,
			Outcome:         outcome,
			EmotionalImpact: impact,
			Context:         s.scene,
		})
	}

	s.state = StateAwaitingGeneration
	d := s.selector.GenerateReaction(ctx, s.npc, choice, s.scene)
	s.presentLocked(d)
	return &d, nil
}

// Close ends the session. Closing twice is harmless.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) NPC() actor.NPC {
	return s.npc
}

// Current returns the line being presented, if any.
func (s *Session) Current() *GeneratedDialogue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	d := *s.current
	return &d
}

// History returns a copy of the conversation so far.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

func (s *Session) presentLocked(d GeneratedDialogue) {
	s.current = &d
	s.history = append(s.history, HistoryEntry{
		Speaker:   SpeakerNPC,
		Text:      d.Text,
		Emotion:   d.Emotion,
		Timestamp: s.now(),
	})
	s.state = StatePresenting
}

func (s *Session) closeLocked() {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.current = nil
	s.logger.Debug("Dialogue session closed", "session_id", s.ID, "npc_id", s.npc.ID)
}

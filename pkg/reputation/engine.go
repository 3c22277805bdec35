package reputation

import (
	"log/slog"
	"math"
	"strings"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
)

// PropagationFactor scales a change before it spreads to related factions.
const PropagationFactor = 0.3

// MaxReputationChange bounds a single change. Anything larger would clamp
// every faction to the edge of its range anyway.
const MaxReputationChange = 200

// Action is a faction-relevant deed with a base reputation delta.
type Action string

const (
	ActionHelp          Action = "help"
	ActionBetray        Action = "betray"
	ActionQuestComplete Action = "quest_complete"
	ActionQuestFail     Action = "quest_fail"
	ActionKillMember    Action = "kill_member"
	ActionDonate        Action = "donate"
)

var actionDeltas = map[Action]int{
	ActionHelp:          5,
	ActionBetray:        -30,
	ActionQuestComplete: 10,
	ActionQuestFail:     -5,
	ActionKillMember:    -20,
	ActionDonate:        3,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := actionDeltas[a]
	return ok
}

// InfoImportance grades how guarded a piece of information is.
type InfoImportance string

const (
	InfoTrivial   InfoImportance = "trivial"
	InfoNormal    InfoImportance = "normal"
	InfoImportant InfoImportance = "important"
	InfoSecret    InfoImportance = "secret"
)

// FavorDifficulty grades how much a favor asks of an NPC.
type FavorDifficulty string

const (
	FavorEasy      FavorDifficulty = "easy"
	FavorMedium    FavorDifficulty = "medium"
	FavorHard      FavorDifficulty = "hard"
	FavorDangerous FavorDifficulty = "dangerous"
)

// PriceModifiers multiply base prices when the player buys from or sells to an NPC.
type PriceModifiers struct {
	Tier         string  `json:"tier"`
	BuyModifier  float64 `json:"buy_modifier"`
	SellModifier float64 `json:"sell_modifier"`
}

// Benefits are the perks unlocked by high standing with a faction.
type Benefits struct {
	SpecialItemsUnlocked   bool `json:"special_items_unlocked"`
	GlobalDiscount         int  `json:"global_discount"` // percent
	ExclusiveInfoAvailable bool `json:"exclusive_info_available"`
	CanRequestFavors       bool `json:"can_request_favors"`
	Safehaven              bool `json:"safehaven"`
}

// Penalties are the consequences of low standing with a faction.
type Penalties struct {
	AttackOnSight    bool     `json:"attack_on_sight"`
	PriceInflation   int      `json:"price_inflation"` // percent
	NPCsHostile      bool     `json:"npcs_hostile"`
	AccessRestricted []string `json:"access_restricted"`
	Bounty           *int     `json:"bounty,omitempty"`
}

// Engine is a set of deterministic reputation rules over a static faction
// table. It owns no standing of its own: Reputation maps are passed in and
// new ones are returned.
type Engine struct {
	table  *FactionTable
	logger *slog.Logger
}

// NewEngine creates an engine. A nil table selects DefaultFactionTable.
func NewEngine(table *FactionTable, logger *slog.Logger) *Engine {
	if table == nil {
		table = DefaultFactionTable()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{table: table, logger: logger}
}

// Table exposes the static faction configuration.
func (e *Engine) Table() *FactionTable {
	return e.table
}

// CalculateAttitude derives the NPC's attitude. Personal memory strictly
// overrides faction standing; with neither the NPC is neutral.
func (e *Engine) CalculateAttitude(npc actor.NPC, rep Reputation, mem *memory.NPCMemory) Attitude {
	if value, ok := effectiveValue(Faction(npc.Faction), rep, mem); ok {
		return AttitudeFor(value)
	}
	return AttitudeNeutral
}

func effectiveValue(f Faction, rep Reputation, mem *memory.NPCMemory) (int, bool) {
	if mem != nil {
		return mem.Relationship, true
	}
	if f != "" {
		if value, ok := rep[f]; ok {
			return value, true
		}
	}
	return 0, false
}

// GetPriceModifiers resolves the effective standing (memory first, then
// faction) and maps it through the price table.
func (e *Engine) GetPriceModifiers(f Faction, rep Reputation, mem *memory.NPCMemory) PriceModifiers {
	value, _ := effectiveValue(f, rep, mem)
	switch {
	case value >= 80:
		return PriceModifiers{Tier: "devoted", BuyModifier: 0.7, SellModifier: 1.3}
	case value >= 60:
		return PriceModifiers{Tier: "high-friendly", BuyModifier: 0.8, SellModifier: 1.2}
	case value >= 40:
		return PriceModifiers{Tier: "friendly", BuyModifier: 0.9, SellModifier: 1.1}
	case value >= -39:
		return PriceModifiers{Tier: "neutral", BuyModifier: 1.0, SellModifier: 1.0}
	case value >= -60:
		return PriceModifiers{Tier: "unfriendly", BuyModifier: 1.2, SellModifier: 0.8}
	case value >= -80:
		return PriceModifiers{Tier: "very-unfriendly", BuyModifier: 1.4, SellModifier: 0.6}
	default:
		return PriceModifiers{Tier: "hostile", BuyModifier: 1.6, SellModifier: 0.5}
	}
}

func (e *Engine) standing(f Faction, rep Reputation) int {
	value, ok := rep[f]
	if !ok {
		e.logger.Warn("No standing recorded for faction", "faction", f)
	}
	return value
}

// GetReputationBenefits lists the perks unlocked by the player's standing.
func (e *Engine) GetReputationBenefits(f Faction, rep Reputation) Benefits {
	value := e.standing(f, rep)
	return Benefits{
		SpecialItemsUnlocked:   value >= 60,
		GlobalDiscount:         max(0, floorDiv(value-40, 2)),
		ExclusiveInfoAvailable: value >= 50,
		CanRequestFavors:       value >= 70,
		Safehaven:              value >= 80,
	}
}

// GetReputationPenalties lists the consequences of the player's standing.
func (e *Engine) GetReputationPenalties(f Faction, rep Reputation) Penalties {
	value := e.standing(f, rep)
	magnitude := abs(value)

	p := Penalties{
		AttackOnSight:    value <= -80,
		PriceInflation:   max(0, int(math.Floor(float64(magnitude-40)*0.75))),
		NPCsHostile:      value <= -60,
		AccessRestricted: []string{},
	}
	if value <= -70 {
		p.AccessRestricted = e.table.RestrictedLocations(f)
	}
	if value <= -90 {
		bounty := 100 + (magnitude-90)*40
		p.Bounty = &bounty
	}
	return p
}

// WillTrade reports whether an NPC trades with the player. Merchants and
// vendors trade with anyone short of hostile.
func WillTrade(a Attitude, role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "merchant", "vendor":
		return a.AtLeast(AttitudeUnfriendly)
	}
	return a.AtLeast(AttitudeFriendly)
}

// WillShareInfo reports whether an NPC shares information of the given importance.
func WillShareInfo(a Attitude, importance InfoImportance) bool {
	switch importance {
	case InfoTrivial:
		return a.AtLeast(AttitudeUnfriendly)
	case InfoNormal:
		return a.AtLeast(AttitudeNeutral)
	case InfoImportant:
		return a.AtLeast(AttitudeFriendly)
	case InfoSecret:
		return a.AtLeast(AttitudeDevoted)
	}
	return false
}

// WillDoFavor reports whether an NPC does a favor of the given difficulty.
func WillDoFavor(a Attitude, difficulty FavorDifficulty) bool {
	switch difficulty {
	case FavorEasy:
		return a.AtLeast(AttitudeFriendly)
	case FavorMedium, FavorHard, FavorDangerous:
		return a.AtLeast(AttitudeDevoted)
	}
	return false
}

// CalculateReputationChange scales the base delta of an action by magnitude.
// Unknown actions yield no change.
func CalculateReputationChange(action Action, magnitude float64) int {
	base, ok := actionDeltas[action]
	if !ok {
		return 0
	}
	delta := float64(base) * magnitude
	if math.IsNaN(delta) {
		return 0
	}
	return int(math.Round(max(-MaxReputationChange, min(MaxReputationChange, delta))))
}

// ApplyReputationChange applies change to the primary faction and spreads
// change*coefficient*PropagationFactor to every faction the primary has a
// relationship with. change is bounded by MaxReputationChange and each
// faction is clamped independently. The input map is left untouched.
func (e *Engine) ApplyReputationChange(primary Faction, change int, current Reputation) Reputation {
	change = clampChange(change)
	next := current.Clone()
	if !e.table.Known(primary) {
		e.logger.Warn("Reputation change for unknown faction", "faction", primary, "change", change)
		return next
	}

	next[primary] = clampReputation(next[primary] + change)
	for other, coef := range e.table.Relationships(primary) {
		delta := int(math.Round(float64(change) * coef * PropagationFactor))
		next[other] = clampReputation(next[other] + delta)
	}

	e.logger.Debug("Applied reputation change",
		"faction", primary,
		"change", change,
		"standing", next[primary])
	return next
}

func clampChange(v int) int {
	return max(-MaxReputationChange, min(MaxReputationChange, v))
}

func clampReputation(v int) int {
	return max(MinReputation, min(MaxReputation, v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

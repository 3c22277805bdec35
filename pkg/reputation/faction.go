// Package reputation converts faction standing and personal relationships
// into gameplay-visible attitudes, prices, benefits and penalties.
package reputation

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Faction identifies one of the closed set of factions in the world.
type Faction string

const (
	FactionVillage   Faction = "village"
	FactionMerchants Faction = "merchants"
	FactionGuards    Faction = "guards"
	FactionNobility  Faction = "nobility"
	FactionBandits   Faction = "bandits"
	FactionCult      Faction = "cult"
)

const (
	MinReputation = -100
	MaxReputation = 100
)

// Reputation maps each faction to the player's standing, -100..100.
type Reputation map[Faction]int

// Clone returns an independent copy.
func (r Reputation) Clone() Reputation {
	if r == nil {
		return Reputation{}
	}
	return maps.Clone(r)
}

// FactionInfo is the static configuration for one faction.
type FactionInfo struct {
	Name                string              `yaml:"name" json:"name"`
	RestrictedLocations []string            `yaml:"restricted_locations" json:"restricted_locations,omitempty"`
	Relationships       map[Faction]float64 `yaml:"relationships" json:"relationships,omitempty"`
}

// FactionTable holds the static per-faction configuration: display names,
// restricted locations and relationship coefficients.
type FactionTable struct {
	factions map[Faction]FactionInfo
}

//go:embed factions.yaml
var defaultFactionsYAML []byte

type factionDocument struct {
	Factions map[string]struct {
		Name                string             `yaml:"name"`
		RestrictedLocations []string           `yaml:"restricted_locations"`
		Relationships       map[string]float64 `yaml:"relationships"`
	} `yaml:"factions"`
}

// DefaultFactionTable returns the built-in faction configuration.
func DefaultFactionTable() *FactionTable {
	table, err := LoadFactionTable(bytes.NewReader(defaultFactionsYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded faction table is invalid: %v", err))
	}
	return table
}

// LoadFactionTable parses and validates a YAML faction table.
func LoadFactionTable(r io.Reader) (*FactionTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read faction table: %w", err)
	}

	var doc factionDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse faction table: %w", err)
	}

	table := &FactionTable{factions: make(map[Faction]FactionInfo, len(doc.Factions))}
	for id, f := range doc.Factions {
		info := FactionInfo{
			Name:                f.Name,
			RestrictedLocations: slices.Clone(f.RestrictedLocations),
			Relationships:       make(map[Faction]float64, len(f.Relationships)),
		}
		for other, coef := range f.Relationships {
			info.Relationships[Faction(other)] = coef
		}
		table.factions[Faction(id)] = info
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate checks that the table is non-empty, that every relationship
// points at a known faction other than itself and that coefficients stay
// within -1..1.
func (t *FactionTable) Validate() error {
	if len(t.factions) == 0 {
		return fmt.Errorf("faction table defines no factions")
	}
	for id, info := range t.factions {
		if id == "" {
			return fmt.Errorf("faction with empty id")
		}
		for other, coef := range info.Relationships {
			if other == id {
				return fmt.Errorf("faction %s has a relationship with itself", id)
			}
			if _, ok := t.factions[other]; !ok {
				return fmt.Errorf("faction %s references unknown faction %s", id, other)
			}
			if coef < -1 || coef > 1 {
				return fmt.Errorf("faction %s coefficient toward %s out of range: %v", id, other, coef)
			}
		}
	}
	return nil
}

// Factions returns the faction ids in sorted order.
func (t *FactionTable) Factions() []Faction {
	return slices.Sorted(maps.Keys(t.factions))
}

// Known reports whether the faction is part of the table.
func (t *FactionTable) Known(f Faction) bool {
	_, ok := t.factions[f]
	return ok
}

// Info returns the configuration for one faction.
func (t *FactionTable) Info(f Faction) (FactionInfo, bool) {
	info, ok := t.factions[f]
	return info, ok
}

// RestrictedLocations lists the places a faction closes to hated players.
func (t *FactionTable) RestrictedLocations(f Faction) []string {
	return slices.Clone(t.factions[f].RestrictedLocations)
}

// Relationships returns the coefficients from f toward every related faction.
func (t *FactionTable) Relationships(f Faction) map[Faction]float64 {
	return maps.Clone(t.factions[f].Relationships)
}

// NewReputation returns a neutral standing with every faction in the table.
func (t *FactionTable) NewReputation() Reputation {
	rep := make(Reputation, len(t.factions))
	for id := range t.factions {
		rep[id] = 0
	}
	return rep
}

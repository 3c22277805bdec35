package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <factions.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	table, warnings, err := validateFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	printSummary(os.Stdout, table, warnings)
	fmt.Println("Faction file is valid!")
}

// validateFile loads a faction table. Hard errors fail validation;
// warnings flag data that loads but is probably a mistake.
func validateFile(filename string) (*reputation.FactionTable, []string, error) {
	fmt.Printf("Validating %s...\n", filename)

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".yaml" && ext != ".yml" {
		return nil, nil, fmt.Errorf("faction file must have .yaml or .yml extension: %s", filepath.Base(filename))
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	defer f.Close()

	table, err := reputation.LoadFactionTable(f)
	if err != nil {
		return nil, nil, err
	}
	return table, lint(table), nil
}

func lint(table *reputation.FactionTable) []string {
	var warnings []string
	for _, id := range table.Factions() {
		info, _ := table.Info(id)
		if strings.TrimSpace(info.Name) == "" {
			warnings = append(warnings, fmt.Sprintf("faction %s has no display name", id))
		}
		for _, other := range slices.Sorted(maps.Keys(info.Relationships)) {
			coef := info.Relationships[other]
			back, ok := table.Relationships(other)[id]
			switch {
			case !ok:
				warnings = append(warnings, fmt.Sprintf("%s relates to %s (%.2f) but not the reverse", id, other, coef))
			case (back < 0) != (coef < 0):
				warnings = append(warnings, fmt.Sprintf("%s and %s disagree on alliance (%.2f vs %.2f)", id, other, coef, back))
			}
		}
	}
	return warnings
}

func printSummary(w io.Writer, table *reputation.FactionTable, warnings []string) {
	fmt.Fprintf(w, "%d factions:\n", len(table.Factions()))
	for _, id := range table.Factions() {
		info, _ := table.Info(id)
		fmt.Fprintf(w, "  %-10s %-22s relationships=%d restricted=%s\n",
			id, info.Name, len(info.Relationships), strings.Join(info.RestrictedLocations, ","))
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

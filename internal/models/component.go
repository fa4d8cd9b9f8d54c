// Package models defines the component records that flow through the ETL stages.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownComponentType is returned when a name does not match any component type.
var ErrUnknownComponentType = errors.New("unknown component type")

// ComponentType identifies one of the fixed hardware categories.
type ComponentType int

// Component types, in pipeline processing order.
const (
	CPU ComponentType = iota + 1
	GPU
	Motherboard
	RAM
	PSU
	Case
	Cooler
)

var componentTypeNames = map[ComponentType]string{
	CPU:         "CPU",
	GPU:         "GPU",
	Motherboard: "Motherboard",
	RAM:         "RAM",
	PSU:         "PSU",
	Case:        "Case",
	Cooler:      "Cooler",
}

// AllComponentTypes returns every component type in processing order.
func AllComponentTypes() []ComponentType {
	return []ComponentType{CPU, GPU, Motherboard, RAM, PSU, Case, Cooler}
}

// String returns the canonical display name, e.g. "Motherboard".
func (t ComponentType) String() string {
	if name, ok := componentTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("ComponentType(%d)", int(t))
}

// Lower returns the lower-cased name used in file names and object IDs.
func (t ComponentType) Lower() string {
	return strings.ToLower(t.String())
}

// Valid reports whether t is one of the known component types.
func (t ComponentType) Valid() bool {
	_, ok := componentTypeNames[t]

	return ok
}

// Primary reports whether the type is one of the core datasets (CPU, GPU)
// whose extraction failures matter to the run.
func (t ComponentType) Primary() bool {
	return t == CPU || t == GPU
}

// ParseComponentType resolves a case-insensitive name to a ComponentType.
func ParseComponentType(name string) (ComponentType, error) {
	trimmed := strings.TrimSpace(name)

	for _, t := range AllComponentTypes() {
		if strings.EqualFold(t.String(), trimmed) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownComponentType, name)
}

// ParseComponentTypes parses a list of names, skipping blanks and duplicates.
func ParseComponentTypes(names []string) ([]ComponentType, error) {
	var (
		types []ComponentType
		seen  = make(map[ComponentType]bool)
	)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		t, err := ParseComponentType(name)
		if err != nil {
			return nil, err
		}

		if seen[t] {
			continue
		}

		seen[t] = true
		types = append(types, t)
	}

	return types, nil
}

// Tier is a coarse price/TDP performance category.
type Tier string

// Performance tiers, cheapest first.
const (
	TierBudget     Tier = "budget"
	TierMidRange   Tier = "mid-range"
	TierHighEnd    Tier = "high-end"
	TierEnthusiast Tier = "enthusiast"
)

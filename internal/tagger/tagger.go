// Package tagger derives compatibility facet tags from normalized component
// records.
package tagger

import (
	"sort"

	"speclogic/internal/logger"
	"speclogic/internal/models"
)

// ruleFunc adds the tags of one component type to set.
type ruleFunc func(r models.Record, set *tagSet)

// Tagger generates compatibility tags per component type.
type Tagger struct {
	logger *logger.Logger
}

// NewTagger creates a tagger. A nil logger discards output.
func NewTagger(log *logger.Logger) *Tagger {
	return &Tagger{logger: logger.OrNop(log)}
}

// GenerateTags returns the sorted, de-duplicated tags for r, dispatching on
// its component_type field. Unknown types yield an empty slice.
func (t *Tagger) GenerateTags(r models.Record) []string {
	name := r.String(models.FieldComponentType)

	componentType, err := models.ParseComponentType(name)
	if err != nil {
		t.logger.Warn("Unknown component type", "component_type", name)

		return []string{}
	}

	return t.TagsFor(componentType, r)
}

// TagsFor returns the tags for r treated as componentType.
func (t *Tagger) TagsFor(componentType models.ComponentType, r models.Record) []string {
	rules, ok := rulesFor(componentType)
	if !ok {
		t.logger.Warn("Unknown component type", "component_type", int(componentType))

		return []string{}
	}

	set := newTagSet()
	rules(r, set)

	return set.sorted()
}

// TagRecord returns a copy of r with compatibility_tags set.
func (t *Tagger) TagRecord(r models.Record) models.Record {
	out := r.Clone()
	out[models.FieldCompatibilityTags] = t.GenerateTags(r)

	return out
}

// TagRecords tags every record, preserving order.
func (t *Tagger) TagRecords(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = t.TagRecord(r)
	}

	t.logger.Info("Generated compatibility tags", "count", len(out))

	return out
}

func rulesFor(componentType models.ComponentType) (ruleFunc, bool) {
	switch componentType {
	case models.CPU:
		return cpuTags, true
	case models.GPU:
		return gpuTags, true
	case models.Motherboard:
		return motherboardTags, true
	case models.RAM:
		return ramTags, true
	case models.PSU:
		return psuTags, true
	case models.Case:
		return caseTags, true
	case models.Cooler:
		return coolerTags, true
	}

	return nil, false
}

type tagSet struct {
	seen map[string]bool
	tags []string
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]bool)}
}

func (s *tagSet) add(tags ...string) {
	for _, tag := range tags {
		if tag == "" || s.seen[tag] {
			continue
		}

		s.seen[tag] = true
		s.tags = append(s.tags, tag)
	}
}

func (s *tagSet) sorted() []string {
	out := append([]string{}, s.tags...)
	sort.Strings(out)

	return out
}

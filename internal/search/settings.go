package search

// Settings is the index configuration. Empty fields are left unchanged.
type Settings struct {
	SearchableAttributes  []string `json:"searchableAttributes,omitempty"`
	AttributesForFaceting []string `json:"attributesForFaceting,omitempty"`
	CustomRanking         []string `json:"customRanking,omitempty"`
	Ranking               []string `json:"ranking,omitempty"`
	HighlightPreTag       string   `json:"highlightPreTag,omitempty"`
	HighlightPostTag      string   `json:"highlightPostTag,omitempty"`
	HitsPerPage           int      `json:"hitsPerPage,omitempty"`
	MaxValuesPerFacet     int      `json:"maxValuesPerFacet,omitempty"`
}

// DefaultSettings returns the settings applied when an index is created.
func DefaultSettings() *Settings {
	return &Settings{
		SearchableAttributes: []string{
			"model",
			"brand",
			"component_type",
			"socket",
			"chipset",
		},
		AttributesForFaceting: []string{
			"filterOnly(socket)",
			"filterOnly(form_factor)",
			"filterOnly(memory_type)",
			"searchable(component_type)",
			"searchable(brand)",
			"searchable(performance_tier)",
			"compatibility_tags",
			"price_usd",
			"tdp_watts",
			"wattage",
			"vram_gb",
			"cores",
		},
		CustomRanking: []string{
			"desc(performance_tier_score)",
			"asc(price_usd)",
		},
		Ranking: []string{
			"typo",
			"geo",
			"words",
			"filters",
			"proximity",
			"attribute",
			"exact",
			"custom",
		},
		HighlightPreTag:   "<mark>",
		HighlightPostTag:  "</mark>",
		HitsPerPage:       20,
		MaxValuesPerFacet: 100,
	}
}

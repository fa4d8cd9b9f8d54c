package schema

var (
	searchableAttributes = []string{"model", "brand", "component_type"}

	facetAttributes = []string{
		"component_type",
		"socket",
		"form_factor",
		"memory_type",
		"performance_tier",
		"compatibility_tags",
	}

	numericAttributes = []string{
		"price_usd",
		"tdp_watts",
		"wattage",
		"vram_gb",
		"cores",
		"threads",
		"speed_mhz",
		"capacity_gb",
		"length_mm",
		"height_mm",
		"max_gpu_length_mm",
		"max_cooler_height_mm",
	}
)

// SearchableAttributes lists the full-text searchable fields.
func SearchableAttributes() []string { return append([]string(nil), searchableAttributes...) }

// FacetAttributes lists the fields exposed for faceted filtering.
func FacetAttributes() []string { return append([]string(nil), facetAttributes...) }

// NumericAttributes lists the fields usable in numeric filters.
func NumericAttributes() []string { return append([]string(nil), numericAttributes...) }

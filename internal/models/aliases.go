package models

// Alias maps a source field name onto its canonical field.
type Alias struct {
	From string
	To   string
}

// fieldAliases is applied in order; the first non-null alias wins when the
// canonical field is absent.
var fieldAliases = []Alias{
	{From: "name", To: "model"},
	{From: "tdp", To: "tdp_watts"},
	{From: "price", To: "price_usd"},
	{From: "msrp", To: "price_usd"},
	{From: "vram", To: "vram_gb"},
	{From: "memory_size", To: "vram_gb"},
	{From: "base_clock", To: "base_clock_ghz"},
	{From: "boost_clock", To: "boost_clock_ghz"},
	{From: "length", To: "length_mm"},
	{From: "height", To: "height_mm"},
	{From: "type", To: "cooler_type"},
}

// FieldAliases returns a copy of the ordered alias table.
func FieldAliases() []Alias {
	return append([]Alias(nil), fieldAliases...)
}

// ApplyAliases returns a copy of r where every canonical field that is absent
// or null is filled from its first non-null alias. Alias keys are removed.
// A canonical field that already has a value is never overwritten.
func ApplyAliases(r Record) Record {
	out := r.Clone()

	for _, alias := range fieldAliases {
		v, ok := out.Get(alias.From)
		delete(out, alias.From)

		if !ok || out.Has(alias.To) {
			continue
		}

		out[alias.To] = v
	}

	return out
}

package tagger

import (
	"math"
	"reflect"
	"slices"
	"sort"
	"strings"
	"testing"

	"speclogic/internal/models"
)

// expectTags compares a sorted tag set against want in any order.
func expectTags(t *testing.T, got []string, want ...string) {
	t.Helper()

	sorted := slices.Clone(want)
	sort.Strings(sorted)

	if !reflect.DeepEqual(got, sorted) {
		t.Errorf("tags = %v, want %v", got, sorted)
	}
}

func expectContains(t *testing.T, got []string, want ...string) {
	t.Helper()

	for _, tag := range want {
		if !slices.Contains(got, tag) {
			t.Errorf("tags %v missing %q", got, tag)
		}
	}
}

func expectMissing(t *testing.T, got []string, unwanted string) {
	t.Helper()

	if slices.Contains(got, unwanted) {
		t.Errorf("tags %v should not contain %q", got, unwanted)
	}
}

func TestTable_Category(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "low-tdp"},
		{65, "low-tdp"},
		{65.5, "low-tdp"},
		{66, "mid-tdp"},
		{125, "mid-tdp"},
		{126, "high-tdp"},
		{200, "high-tdp"},
		{201, "extreme-tdp"},
		{1000, "extreme-tdp"},
		{-1, ""},
		{-0.5, ""},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		if got := TDPCategory(tt.value); got != tt.want {
			t.Errorf("TDPCategory(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}

	if got := (Table{}).Category(10); got != "" {
		t.Errorf("empty table Category = %q, want empty", got)
	}
}

func TestBucketHelpers(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(float64) string
		value float64
		want  string
	}{
		{"vram 4", VRAMTier, 4, "vram-4gb"},
		{"vram 8", VRAMTier, 8, "vram-8gb"},
		{"vram 12", VRAMTier, 12, "vram-12gb"},
		{"vram 16", VRAMTier, 16, "vram-16gb"},
		{"vram 24", VRAMTier, 24, "vram-24gb"},
		{"vram 48", VRAMTier, 48, "vram-32gb-plus"},
		{"vram negative", VRAMTier, -1, ""},
		{"length 240", GPULengthCategory, 240, "compact-gpu"},
		{"length 285", GPULengthCategory, 285, "standard-gpu"},
		{"length 330", GPULengthCategory, 330, "long-gpu"},
		{"length 336", GPULengthCategory, 336, "extra-long-gpu"},
		{"length 360", GPULengthCategory, 360, "extra-long-gpu"},
		{"height 58", CoolerHeightCategory, 58, "low-profile"},
		{"height 120", CoolerHeightCategory, 120, "mid-height"},
		{"height 158", CoolerHeightCategory, 158, "tower-cooler"},
		{"height 168", CoolerHeightCategory, 168, "tall-tower"},
		{"clearance 280", CaseGPUClearance, 280, "compact-clearance"},
		{"clearance 300", CaseGPUClearance, 300, "standard-clearance"},
		{"clearance 360", CaseGPUClearance, 360, "extended-clearance"},
		{"clearance 420", CaseGPUClearance, 420, "full-clearance"},
		{"psu 500", PSUWattageTier, 500, "psu-450w"},
		{"psu 650", PSUWattageTier, 650, "psu-650w"},
		{"psu 850", PSUWattageTier, 850, "psu-850w"},
		{"psu 1000", PSUWattageTier, 1000, "psu-1000w"},
		{"psu 1200", PSUWattageTier, 1200, "psu-1200w-plus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.value); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRulesCoverEveryComponentType(t *testing.T) {
	for _, ct := range models.AllComponentTypes() {
		if _, ok := rulesFor(ct); !ok {
			t.Errorf("no rules for %s", ct)
		}
	}

	if _, ok := rulesFor(models.ComponentType(0)); ok {
		t.Error("zero component type should have no rules")
	}
}

func TestGenerateTags_UnknownType(t *testing.T) {
	tg := NewTagger(nil)

	if tags := tg.GenerateTags(models.Record{"component_type": "Monitor"}); len(tags) != 0 {
		t.Errorf("unknown type tags = %v, want none", tags)
	}

	tags := tg.GenerateTags(models.Record{})
	if tags == nil || len(tags) != 0 {
		t.Errorf("missing type tags = %#v, want empty non-nil slice", tags)
	}
}

func TestGenerateTags_CPU(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type":      "CPU",
		"socket":              "AM5",
		"memory_type":         []any{"DDR5"},
		"pcie_version":        "5.0",
		"tdp_watts":           65,
		"cores":               8,
		"integrated_graphics": true,
		"performance_tier":    "high-end",
	})

	want := []string{"am5", "ddr5", "high-end", "igpu", "low-tdp", "octa-core", "pcie50"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestGenerateTags_CPUFallbacks(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type": "cpu",
		"max_tdp_watts":  253,
		"cores":          24,
		"pcie_version":   4.0,
	})

	expectContains(t, tags, "extreme-tdp", "extreme-core-count", "no-igpu", "pcie40")

	// Zero counts produce no bucket.
	tags = tg.GenerateTags(models.Record{"component_type": "CPU", "cores": 0, "integrated_graphics": "No"})
	expectTags(t, tags, "no-igpu")
}

func TestGenerateTags_CoreBuckets(t *testing.T) {
	tg := NewTagger(nil)

	tests := []struct {
		cores int
		want  string
	}{
		{4, "quad-core"},
		{6, "octa-core"},
		{16, "high-core-count"},
		{17, "extreme-core-count"},
	}

	for _, tt := range tests {
		tags := tg.GenerateTags(models.Record{"component_type": "CPU", "cores": tt.cores})
		if !slices.Contains(tags, tt.want) {
			t.Errorf("cores %d: tags %v missing %q", tt.cores, tags, tt.want)
		}
	}
}

func TestGenerateTags_GPUPowerWarnings(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type": "GPU",
		"tdp_watts":      450,
		"vram_gb":        24,
		"length_mm":      336,
	})

	expectContains(t, tags, "extreme-tdp", "extreme-power-gpu", "high-power-gpu", "vram-24gb", "extra-long-gpu")

	tags = tg.GenerateTags(models.Record{"component_type": "GPU", "tdp_watts": 320})
	expectContains(t, tags, "high-power-gpu")
	expectMissing(t, tags, "extreme-power-gpu")
}

func TestGenerateTags_GPUNegativeVRAM(t *testing.T) {
	tags := NewTagger(nil).GenerateTags(models.Record{"component_type": "GPU", "vram_gb": -1})

	for _, tag := range tags {
		if strings.HasPrefix(tag, "vram-") {
			t.Errorf("negative vram produced %q", tag)
		}
	}
}

func TestGenerateTags_GPUBrands(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{"component_type": "GPU", "brand": "NVIDIA", "model": "GeForce RTX 4090"})
	expectContains(t, tags, "nvidia", "rtx", "ray-tracing")
	expectMissing(t, tags, "amd")

	tags = tg.GenerateTags(models.Record{"component_type": "GPU", "brand": "MSI", "name": "GeForce GTX 1660"})
	expectContains(t, tags, "nvidia", "gtx")

	tags = tg.GenerateTags(models.Record{"component_type": "GPU", "brand": "AMD", "model": "Radeon RX 7900 XTX", "memory_type": "GDDR6"})
	expectContains(t, tags, "amd", "rdna", "gddr6")
	expectMissing(t, tags, "nvidia")
}

func TestGenerateTags_Motherboard(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type": "Motherboard",
		"socket":         "LGA1700",
		"memory_type":    "DDR4, DDR5",
		"form_factor":    "Micro ATX",
		"chipset":        "B760",
		"wifi":           true,
		"m2_slots":       4,
		"memory_slots":   2,
	})

	want := []string{"2-dimm", "b760", "ddr4", "ddr5", "lga1700", "many-m2", "micro-atx", "wifi"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}

	tags = tg.GenerateTags(models.Record{"component_type": "MOTHERBOARD", "m2_slots": 2, "memory_slots": 4})
	expectTags(t, tags, "multi-m2", "4-dimm")
}

func TestGenerateTags_RAM(t *testing.T) {
	tg := NewTagger(nil)

	tests := []struct {
		name   string
		record models.Record
		want   []string
	}{
		{
			name: "ddr5 kit",
			record: models.Record{
				"component_type": "RAM",
				"memory_type":    "DDR5",
				"speed_mhz":      6000,
				"capacity_gb":    16,
				"modules":        2,
				"cas_latency":    30,
				"rgb":            true,
			},
			want: []string{"ddr5", "mid-speed-ddr5", "32gb", "dual-channel", "high-latency", "rgb"},
		},
		{
			name: "ddr4 quad kit",
			record: models.Record{
				"component_type": "RAM",
				"memory_type":    "DDR4",
				"speed_mhz":      3600,
				"capacity_gb":    16,
				"modules":        4,
				"cas_latency":    16,
			},
			want: []string{"ddr4", "high-speed-ddr4", "64gb-plus", "quad-channel", "low-latency"},
		},
		{
			name:   "modules default to one",
			record: models.Record{"component_type": "RAM", "capacity_gb": 8},
			want:   []string{"8gb-or-less"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTags(t, tg.GenerateTags(tt.record), tt.want...)
		})
	}
}

func TestGenerateTags_PSU(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type":    "PSU",
		"wattage":           850,
		"efficiency_rating": "80+ Gold",
		"modular":           "Fully Modular",
		"form_factor":       "ATX",
	})
	expectTags(t, tags, "psu-850w", "80plus-gold", "full-modular", "atx")

	tests := []struct {
		field string
		value string
		want  string
	}{
		{"efficiency_rating", "80 PLUS Titanium", "80plus-titanium"},
		{"efficiency_rating", "Platinum", "80plus-platinum"},
		{"efficiency_rating", "silver", "80plus-silver"},
		{"efficiency_rating", "Bronze", "80plus-bronze"},
		{"efficiency_rating", "80 Plus", "80plus"},
		{"modular", "Semi", "semi-modular"},
		{"modular", "No", "non-modular"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			expectTags(t, tg.GenerateTags(models.Record{"component_type": "PSU", tt.field: tt.value}), tt.want)
		})
	}
}

func TestGenerateTags_Case(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type":       "Case",
		"form_factor_support":  []any{"ATX", "Micro ATX", "Mini-ITX"},
		"max_gpu_length_mm":    400,
		"max_cooler_height_mm": 165,
		"radiator_support":     []any{240.0, "360mm"},
		"drive_bays_25":        4,
	})

	expectTags(t, tags,
		"supports-atx", "supports-micro-atx", "supports-mini-itx",
		"full-clearance", "tower-cooler-support", "rad-240", "rad-360mm", "many-drive-bays",
	)

	tests := []struct {
		height int
		want   string
	}{
		{170, "tall-cooler-support"},
		{120, "mid-cooler-support"},
		{70, "low-profile-only"},
	}

	for _, tt := range tests {
		expectTags(t, tg.GenerateTags(models.Record{"component_type": "Case", "max_cooler_height_mm": tt.height}), tt.want)
	}
}

func TestGenerateTags_Cooler(t *testing.T) {
	tg := NewTagger(nil)

	tags := tg.GenerateTags(models.Record{
		"component_type":   "Cooler",
		"socket_support":   "AM5, LGA1700",
		"cooler_type":      "AIO Liquid",
		"radiator_size_mm": 360.0,
		"tdp_rating":       300,
		"rgb":              "yes",
	})
	expectTags(t, tags, "supports-am5", "supports-lga1700", "aio", "liquid-cooling", "360mm-rad", "high-tdp-cooling", "rgb")

	tags = tg.GenerateTags(models.Record{"component_type": "Cooler", "type": "Air", "height_mm": 155, "tdp_rating": 180})
	expectTags(t, tags, "air-cooling", "tower-cooler", "mid-tdp-cooling")
}

func TestTagRecords(t *testing.T) {
	tg := NewTagger(nil)

	in := []models.Record{
		{"component_type": "GPU", "tdp_watts": 120},
		{"component_type": "Unknown"},
	}

	out := tg.TagRecords(in)
	if len(out) != 2 {
		t.Fatalf("TagRecords returned %d records, want 2", len(out))
	}

	if got := out[0][models.FieldCompatibilityTags]; !reflect.DeepEqual(got, []string{"mid-tdp"}) {
		t.Errorf("first record tags = %v", got)
	}

	if got := out[1][models.FieldCompatibilityTags]; !reflect.DeepEqual(got, []string{}) {
		t.Errorf("second record tags = %#v, want empty", got)
	}

	if _, ok := in[0][models.FieldCompatibilityTags]; ok {
		t.Error("input records must not be modified")
	}
}

func TestGenerateTags_NoDuplicates(t *testing.T) {
	tags := NewTagger(nil).GenerateTags(models.Record{
		"component_type": "CPU",
		"socket":         "am5",
		"memory_type":    []any{"DDR5", "ddr5", "AM5"},
	})

	want := []string{"am5", "ddr5", "no-igpu"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

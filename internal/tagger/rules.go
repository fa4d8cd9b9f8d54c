package tagger

import (
	"strings"

	"speclogic/internal/models"
)

func cpuTags(r models.Record, set *tagSet) {
	set.add(lower(r, "socket"))
	set.add(lowerAll(r, "memory_type")...)
	set.add(pcieTag(r))

	if tdp, ok := positive(r, "tdp_watts"); ok {
		set.add(TDPCategory(tdp))
	} else if tdp, ok := positive(r, "max_tdp_watts"); ok {
		set.add(TDPCategory(tdp))
	}

	if flag(r, "integrated_graphics") {
		set.add("igpu")
	} else {
		set.add("no-igpu")
	}

	if cores, ok := positive(r, "cores"); ok {
		switch {
		case cores <= 4:
			set.add("quad-core")
		case cores <= 8:
			set.add("octa-core")
		case cores <= 16:
			set.add("high-core-count")
		default:
			set.add("extreme-core-count")
		}
	}

	set.add(r.String(models.FieldPerformanceTier))
}

func gpuTags(r models.Record, set *tagSet) {
	if tdp, ok := positive(r, "tdp_watts"); ok {
		set.add(TDPCategory(tdp))

		if tdp >= 300 {
			set.add("high-power-gpu")
		}

		if tdp >= 400 {
			set.add("extreme-power-gpu")
		}
	}

	if vram, ok := positive(r, "vram_gb"); ok {
		set.add(VRAMTier(vram))
	}

	if length, ok := positive(r, "length_mm"); ok {
		set.add(GPULengthCategory(length))
	}

	set.add(pcieTag(r))
	set.add(lowerAll(r, "memory_type")...)

	brand := lower(r, models.FieldBrand)
	model := lower(r, models.FieldModel)

	switch {
	case strings.Contains(brand, "nvidia") || strings.Contains(model, "geforce"):
		set.add("nvidia")

		if strings.Contains(model, "rtx") {
			set.add("rtx", "ray-tracing")
		}

		if strings.Contains(model, "gtx") {
			set.add("gtx")
		}
	case strings.Contains(brand, "amd") || strings.Contains(model, "radeon"):
		set.add("amd")

		if strings.Contains(model, "rx") {
			set.add("rdna")
		}
	}

	set.add(r.String(models.FieldPerformanceTier))
}

func motherboardTags(r models.Record, set *tagSet) {
	set.add(lower(r, "socket"))
	set.add(lowerAll(r, "memory_type")...)
	set.add(strings.ReplaceAll(lower(r, "form_factor"), " ", "-"))
	set.add(lower(r, "chipset"))

	if flag(r, "wifi") {
		set.add("wifi")
	}

	switch m2 := numberOr(r, "m2_slots", 0); {
	case m2 >= 4:
		set.add("many-m2")
	case m2 >= 2:
		set.add("multi-m2")
	}

	if numberOr(r, "memory_slots", 0) >= 4 {
		set.add("4-dimm")
	} else {
		set.add("2-dimm")
	}

	set.add(r.String(models.FieldPerformanceTier))
}

func ramTags(r models.Record, set *tagSet) {
	memoryType := lower(r, "memory_type")
	set.add(memoryType)

	if speed, ok := positive(r, "speed_mhz"); ok {
		switch {
		case strings.Contains(memoryType, "ddr5"):
			set.add(speedBand(speed, 6400, 5600, "ddr5"))
		case strings.Contains(memoryType, "ddr4"):
			set.add(speedBand(speed, 3600, 3200, "ddr4"))
		}
	}

	modules := numberOr(r, "modules", 1)

	var total float64
	if capacity, ok := positive(r, "capacity_gb"); ok {
		total = capacity * modules
	}

	switch {
	case total >= 64:
		set.add("64gb-plus")
	case total >= 32:
		set.add("32gb")
	case total >= 16:
		set.add("16gb")
	default:
		set.add("8gb-or-less")
	}

	switch modules {
	case 2:
		set.add("dual-channel")
	case 4:
		set.add("quad-channel")
	}

	if flag(r, "rgb") {
		set.add("rgb")
	}

	if cas, ok := positive(r, "cas_latency"); ok {
		switch {
		case cas <= 16:
			set.add("low-latency")
		case cas <= 22:
			set.add("mid-latency")
		default:
			set.add("high-latency")
		}
	}
}

func speedBand(speed, high, mid float64, generation string) string {
	switch {
	case speed >= high:
		return "high-speed-" + generation
	case speed >= mid:
		return "mid-speed-" + generation
	}

	return "standard-" + generation
}

// Efficiency ratings in priority order.
var efficiencyTags = []struct {
	match string
	tag   string
}{
	{"titanium", "80plus-titanium"},
	{"platinum", "80plus-platinum"},
	{"gold", "80plus-gold"},
	{"silver", "80plus-silver"},
	{"bronze", "80plus-bronze"},
}

func psuTags(r models.Record, set *tagSet) {
	if wattage, ok := positive(r, "wattage"); ok {
		set.add(PSUWattageTier(wattage))
	}

	if efficiency := lower(r, "efficiency_rating"); efficiency != "" {
		set.add(efficiencyTag(efficiency))
	}

	set.add(modularityTag(r))
	set.add(lower(r, "form_factor"))
}

func efficiencyTag(efficiency string) string {
	for _, e := range efficiencyTags {
		if strings.Contains(efficiency, e.match) {
			return e.tag
		}
	}

	if strings.Contains(efficiency, "80") || strings.Contains(efficiency, "plus") {
		return "80plus"
	}

	return ""
}

func modularityTag(r models.Record) string {
	v, ok := r.Lookup("modular")
	if !ok {
		return ""
	}

	// Boolean columns only say whether cables detach.
	if b, isBool := v.(bool); isBool {
		if b {
			return "full-modular"
		}

		return "non-modular"
	}

	modular := strings.ToLower(models.Stringify(v))

	switch {
	case modular == "":
		return ""
	case strings.Contains(modular, "full"):
		return "full-modular"
	case strings.Contains(modular, "semi"):
		return "semi-modular"
	}

	return "non-modular"
}

func caseTags(r models.Record, set *tagSet) {
	for _, ff := range lowerAll(r, "form_factor_support") {
		set.add("supports-" + strings.ReplaceAll(ff, " ", "-"))
	}

	if clearance, ok := positive(r, "max_gpu_length_mm"); ok {
		set.add(CaseGPUClearance(clearance))
	}

	if height, ok := positive(r, "max_cooler_height_mm"); ok {
		switch {
		case height >= 170:
			set.add("tall-cooler-support")
		case height >= 155:
			set.add("tower-cooler-support")
		case height >= 120:
			set.add("mid-cooler-support")
		default:
			set.add("low-profile-only")
		}
	}

	for _, rad := range r.Values("radiator_support") {
		set.add("rad-" + strings.ToLower(models.FormatInteger(rad)))
	}

	if numberOr(r, "drive_bays_35", 0) >= 4 || numberOr(r, "drive_bays_25", 0) >= 4 {
		set.add("many-drive-bays")
	}
}

func coolerTags(r models.Record, set *tagSet) {
	for _, socket := range lowerAll(r, "socket_support") {
		set.add("supports-" + socket)
	}

	if coolerType := lower(r, "cooler_type"); coolerType != "" {
		if strings.Contains(coolerType, "aio") ||
			strings.Contains(coolerType, "liquid") ||
			strings.Contains(coolerType, "water") {
			set.add("aio", "liquid-cooling")
		} else {
			set.add("air-cooling")
		}
	}

	if height, ok := positive(r, "height_mm"); ok {
		set.add(CoolerHeightCategory(height))
	}

	if size, ok := positive(r, "radiator_size_mm"); ok {
		set.add(models.FormatInteger(size) + "mm-rad")
	}

	if rating, ok := positive(r, "tdp_rating"); ok {
		switch {
		case rating >= 250:
			set.add("high-tdp-cooling")
		case rating >= 150:
			set.add("mid-tdp-cooling")
		default:
			set.add("low-tdp-cooling")
		}
	}

	if flag(r, "rgb") {
		set.add("rgb")
	}
}

// positive returns a numeric field when it is set and non-zero.
func positive(r models.Record, field string) (float64, bool) {
	v, ok := r.Number(field)

	return v, ok && v != 0
}

func numberOr(r models.Record, field string, fallback float64) float64 {
	if v, ok := r.Number(field); ok {
		return v
	}

	return fallback
}

func lower(r models.Record, field string) string {
	return strings.ToLower(strings.TrimSpace(r.String(field)))
}

func lowerAll(r models.Record, field string) []string {
	values := r.Strings(field)

	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}

	return out
}

func pcieTag(r models.Record) string {
	v, ok := r.Lookup("pcie_version")
	if !ok || !models.Truthy(v) {
		return ""
	}

	return strings.ReplaceAll(strings.ToLower("pcie"+models.Stringify(v)), ".", "")
}

var truthyStrings = map[string]bool{"true": true, "yes": true, "1": true, "y": true, "t": true}

// flag reads a boolean column. Strings count only when they spell a yes.
func flag(r models.Record, field string) bool {
	v, ok := r.Lookup(field)
	if !ok {
		return false
	}

	if s, isString := v.(string); isString {
		return truthyStrings[strings.ToLower(strings.TrimSpace(s))]
	}

	return models.Truthy(v)
}

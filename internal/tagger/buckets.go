package tagger

import "math"

// Bucket is one half-open range [Min, next bucket's Min) of a Table.
type Bucket struct {
	Tag string
	Min float64
}

// Table is an ascending list of contiguous buckets. The last bucket is unbounded.
type Table []Bucket

// Category returns the tag of the bucket containing v. Values above the last
// bound land in the unbounded top bucket. NaN and values below the first
// bound belong to no bucket and yield "", which tag sets skip.
func (t Table) Category(v float64) string {
	if len(t) == 0 || math.IsNaN(v) || v < t[0].Min {
		return ""
	}

	tag := t[0].Tag

	for _, b := range t {
		if v < b.Min {
			break
		}

		tag = b.Tag
	}

	return tag
}

var (
	tdpCategories = Table{
		{"low-tdp", 0},
		{"mid-tdp", 66},
		{"high-tdp", 126},
		{"extreme-tdp", 201},
	}

	vramTiers = Table{
		{"vram-4gb", 0},
		{"vram-8gb", 5},
		{"vram-12gb", 9},
		{"vram-16gb", 13},
		{"vram-24gb", 17},
		{"vram-32gb-plus", 25},
	}

	gpuLengthCategories = Table{
		{"compact-gpu", 0},
		{"standard-gpu", 251},
		{"long-gpu", 311},
		{"extra-long-gpu", 336},
	}

	coolerHeightCategories = Table{
		{"low-profile", 0},
		{"mid-height", 71},
		{"tower-cooler", 131},
		{"tall-tower", 166},
	}

	caseGPUClearance = Table{
		{"compact-clearance", 0},
		{"standard-clearance", 281},
		{"extended-clearance", 331},
		{"full-clearance", 381},
	}

	psuWattageTiers = Table{
		{"psu-450w", 0},
		{"psu-550w", 501},
		{"psu-650w", 601},
		{"psu-750w", 701},
		{"psu-850w", 801},
		{"psu-1000w", 901},
		{"psu-1200w-plus", 1101},
	}
)

// TDPCategory buckets a thermal design power in watts.
func TDPCategory(watts float64) string { return tdpCategories.Category(watts) }

// VRAMTier buckets graphics memory in GB.
func VRAMTier(gb float64) string { return vramTiers.Category(gb) }

// GPULengthCategory buckets a card length in mm.
func GPULengthCategory(mm float64) string { return gpuLengthCategories.Category(mm) }

// CoolerHeightCategory buckets a cooler height in mm.
func CoolerHeightCategory(mm float64) string { return coolerHeightCategories.Category(mm) }

// CaseGPUClearance buckets the longest card a case accepts, in mm.
func CaseGPUClearance(mm float64) string { return caseGPUClearance.Category(mm) }

// PSUWattageTier buckets a power supply rating in watts.
func PSUWattageTier(watts float64) string { return psuWattageTiers.Category(watts) }

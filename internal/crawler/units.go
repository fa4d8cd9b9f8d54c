package crawler

import (
	"math"
	"strconv"
	"strings"
)

// ParseLength reads a board length such as "336 mm".
func ParseLength(value string) (int, bool) {
	return parseUnitInt(value, "mm")
}

// ParseTDP reads a power figure such as "285 W".
func ParseTDP(value string) (int, bool) {
	return parseUnitInt(value, "w")
}

// ParseVRAM reads a memory size in gigabytes such as "16 GB".
func ParseVRAM(value string) (int, bool) {
	return parseUnitInt(value, "gb")
}

// ParsePSU reads a suggested power supply rating such as "700 W".
func ParsePSU(value string) (int, bool) {
	return parseUnitInt(value, "w")
}

// ParseBandwidth reads a memory bandwidth such as "504.2 GB/s".
func ParseBandwidth(value string) (float64, bool) {
	return parseUnit(value, "gb/s")
}

func parseUnitInt(value, unit string) (int, bool) {
	f, ok := parseUnit(value, unit)
	if !ok {
		return 0, false
	}

	return int(f), true
}

// parseUnit requires unit to appear in value and the rest to be a number.
func parseUnit(value, unit string) (float64, bool) {
	lower := strings.ToLower(value)
	if !strings.Contains(lower, unit) {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(lower, unit, "")), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

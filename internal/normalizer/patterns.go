package normalizer

import "regexp"

// pattern pairs a matcher with the canonical value it produces.
type pattern struct {
	re        *regexp.Regexp
	canonical string
}

// Tables are evaluated top to bottom and the first match wins.

var socketPatterns = []pattern{
	{regexp.MustCompile(`(?i)^am5$|socket\s*am5|amd\s*am5`), "AM5"},
	{regexp.MustCompile(`(?i)^am4$|socket\s*am4|amd\s*am4`), "AM4"},
	{regexp.MustCompile(`(?i)^str5$|socket\s*str5|strx4`), "sTRX4"},
	{regexp.MustCompile(`(?i)^sp5$|socket\s*sp5`), "SP5"},
	{regexp.MustCompile(`(?i)lga\s*1700|intel\s*1700`), "LGA1700"},
	{regexp.MustCompile(`(?i)lga\s*1851|intel\s*1851`), "LGA1851"},
	{regexp.MustCompile(`(?i)lga\s*1200|intel\s*1200`), "LGA1200"},
	{regexp.MustCompile(`(?i)lga\s*1151`), "LGA1151"},
	{regexp.MustCompile(`(?i)lga\s*2066`), "LGA2066"},
	{regexp.MustCompile(`(?i)lga\s*4677`), "LGA4677"},
}

// Graphics and HBM entries come before DDR so "GDDR5" never reads as "DDR5",
// and suffixed variants come before their base name.
var memoryTypePatterns = []pattern{
	{regexp.MustCompile(`(?i)gddr6x`), "GDDR6X"},
	{regexp.MustCompile(`(?i)gddr6`), "GDDR6"},
	{regexp.MustCompile(`(?i)gddr5x`), "GDDR5X"},
	{regexp.MustCompile(`(?i)gddr5`), "GDDR5"},
	{regexp.MustCompile(`(?i)hbm3`), "HBM3"},
	{regexp.MustCompile(`(?i)hbm2e`), "HBM2e"},
	{regexp.MustCompile(`(?i)hbm2`), "HBM2"},
	{regexp.MustCompile(`(?i)ddr5[-\s]*\d*`), "DDR5"},
	{regexp.MustCompile(`(?i)ddr4[-\s]*\d*`), "DDR4"},
	{regexp.MustCompile(`(?i)ddr3[-\s]*\d*`), "DDR3"},
}

var formFactorPatterns = []pattern{
	{regexp.MustCompile(`(?i)^atx$|full\s*atx`), "ATX"},
	{regexp.MustCompile(`(?i)micro[-\s]*atx|matx|m-atx`), "Micro-ATX"},
	{regexp.MustCompile(`(?i)mini[-\s]*itx|itx`), "Mini-ITX"},
	{regexp.MustCompile(`(?i)e[-\s]*atx|extended\s*atx`), "E-ATX"},
	{regexp.MustCompile(`(?i)sfx[-\s]*l`), "SFX-L"},
	{regexp.MustCompile(`(?i)^sfx$`), "SFX"},
}

// match returns the canonical value of the first pattern matching s.
func match(table []pattern, s string) (string, bool) {
	for _, p := range table {
		if p.re.MatchString(s) {
			return p.canonical, true
		}
	}

	return "", false
}

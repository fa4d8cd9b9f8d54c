package normalizer

import (
	"regexp"
	"strings"
)

var (
	slugStripPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugCollapsePattern = regexp.MustCompile(`[-\s]+`)
)

// Slugify lower-cases and trims text, drops everything except letters,
// digits, underscores, whitespace and hyphens, then collapses whitespace and
// hyphen runs into single hyphens.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = slugStripPattern.ReplaceAllString(s, "")

	return slugCollapsePattern.ReplaceAllString(s, "-")
}

// GenerateObjectID derives the stable record key "{type}-{brand}-{model}".
func GenerateObjectID(componentType, brand, model string) string {
	return Slugify(componentType) + "-" + Slugify(brand) + "-" + Slugify(model)
}

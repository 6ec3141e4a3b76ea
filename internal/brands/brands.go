// Package brands canonicalizes vehicle brand names so that leads and
// dealers match regardless of how the source spelled the brand.
package brands

import "strings"

// aliases maps common spellings and abbreviations to the canonical
// lowercase brand id used everywhere in matching and storage.
var aliases = map[string]string{
	"vw":            "volkswagen",
	"volks wagen":   "volkswagen",
	"merc":          "mercedes-benz",
	"mercedes":      "mercedes-benz",
	"mercedes benz": "mercedes-benz",
	"benz":          "mercedes-benz",
	"bimmer":        "bmw",
	"beemer":        "bmw",
	"landrover":     "land rover",
	"land-rover":    "land rover",
	"range rover":   "land rover",
	"toyota sa":     "toyota",
	"alfa":          "alfa romeo",
	"alfa-romeo":    "alfa romeo",
	"gwm haval":     "haval",
	"vw commercial": "volkswagen",
	"chev":          "chevrolet",
	"chevy":         "chevrolet",
	"mazda sa":      "mazda",
}

// Canonical normalizes a brand name for matching: trims, lowercases and
// resolves known aliases. Unknown brands pass through lowercased so
// exact matches still work for brands not in the alias table.
func Canonical(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// Equal reports whether two brand names refer to the same brand.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// featureAliases maps lowercased spellings to catalog names
var featureAliases = map[string]string{
	"garage":            "Garage",
	"car garage":        "Garage",
	"parking":           "Garage",
	"covered parking":   "Garage",
	"garden":            "Garden",
	"yard":              "Garden",
	"backyard":          "Garden",
	"pool":              "Pool",
	"swimming pool":     "Pool",
	"basement":          "Basement",
	"cellar":            "Basement",
	"balcony":           "Balcony",
	"terrace":           "Balcony",
	"fireplace":         "Fireplace",
	"air conditioning":  "Air Conditioning",
	"air conditioner":   "Air Conditioning",
	"aircon":            "Air Conditioning",
	"a/c":               "Air Conditioning",
	"ac":                "Air Conditioning",
	"furnished":         "Furnished",
	"elevator":          "Elevator",
	"lift":              "Elevator",
	"gym":               "Gym",
	"gymnasium":         "Gym",
	"fitness center":    "Gym",
	"security system":   "Security System",
	"security":          "Security System",
	"alarm":             "Security System",
	"waterfront":        "Waterfront",
	"lakefront":         "Waterfront",
	"beachfront":        "Waterfront",
	"mountain view":     "Mountain View",
	"pets allowed":      "Pets Allowed",
	"pet friendly":      "Pets Allowed",
	"pet-friendly":      "Pets Allowed",
	"wheelchair access": "Wheelchair Access",
	"wheelchair":        "Wheelchair Access",
	"accessible":        "Wheelchair Access",
}

var titleCaser = cases.Title(language.English)

// NormalizeFeature maps a feature name to its catalog spelling.
// Unknown features are kept, trimmed and title-cased.
func NormalizeFeature(feature string) string {
	f := strings.Join(strings.Fields(feature), " ")
	if f == "" {
		return ""
	}
	if normalized, ok := featureAliases[strings.ToLower(f)]; ok {
		return normalized
	}
	return titleCaser.String(f)
}

// NormalizeFeatures normalizes a feature set, dropping blanks and duplicates.
// The first occurrence wins, so order is kept.
func NormalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		n := NormalizeFeature(f)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// FuzzyMatchFeature reports whether a recommendation feature satisfies a requested one
func FuzzyMatchFeature(requested, offered string) bool {
	r := NormalizeFeature(requested)
	o := NormalizeFeature(offered)
	if r == "" || o == "" {
		return false
	}
	if r == o {
		return true
	}
	return strings.Contains(strings.ToLower(o), strings.ToLower(r))
}

// ToggleFeature adds feature to the set when absent and removes it when present
func ToggleFeature(set []string, feature string) []string {
	n := NormalizeFeature(feature)
	if n == "" {
		return set
	}
	out := make([]string, 0, len(set)+1)
	removed := false
	for _, f := range set {
		if NormalizeFeature(f) == n {
			removed = true
			continue
		}
		out = append(out, f)
	}
	if !removed {
		out = append(out, n)
	}
	return out
}

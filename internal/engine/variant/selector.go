package variant

import (
	"sort"
	"strings"
	"unicode"
)

// Choose picks the candidate variant best matching the reference variant.
// Three tiers, first match wins:
//
//  1. exact name match
//  2. highest positional camelCase token overlap (tokens compared
//     index-by-index, case-insensitive); ties go to the first maximal
//     candidate in iteration order
//  3. first candidate flagged default, else the first candidate
//
// Every non-primary module goes through this same function, so all modules
// end up on variants consistent with the single reference variant.
func Choose(reference BuildVariant, candidates []BuildVariant) BuildVariant {
	if len(candidates) == 0 {
		return BuildVariant{}
	}

	for _, c := range candidates {
		if c.Name == reference.Name {
			return c
		}
	}

	refTokens := SplitCamelCase(reference.Name)
	best := -1
	bestShared := 0
	for i, c := range candidates {
		shared := sharedTokenCount(refTokens, SplitCamelCase(c.Name))
		if shared > bestShared {
			bestShared = shared
			best = i
		}
	}
	if best >= 0 {
		return candidates[best]
	}

	for _, c := range candidates {
		if c.IsDefault != nil && *c.IsDefault {
			return c
		}
	}
	return candidates[0]
}

// SelectDefault picks the primary module's own variant:
//
//  1. first variant with an explicit default flag
//  2. else alphabetically-first variant whose name contains "debug"
//  3. else alphabetically-first variant
//
// Returns nil only for an empty catalog.
func SelectDefault(variants []BuildVariant) *BuildVariant {
	if len(variants) == 0 {
		return nil
	}

	for i := range variants {
		if variants[i].IsDefault != nil && *variants[i].IsDefault {
			return &variants[i]
		}
	}

	sorted := make([]BuildVariant, len(variants))
	copy(sorted, variants)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for i := range sorted {
		if strings.Contains(strings.ToLower(sorted[i].Name), "debug") {
			return &sorted[i]
		}
	}
	return &sorted[0]
}

// SplitCamelCase splits a variant name immediately before each internal
// uppercase letter: "myFlavorDebug" -> ["my", "Flavor", "Debug"].
func SplitCamelCase(name string) []string {
	if name == "" {
		return nil
	}
	var tokens []string
	start := 0
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			tokens = append(tokens, name[start:i])
			start = i
		}
	}
	tokens = append(tokens, name[start:])
	return tokens
}

// sharedTokenCount compares token lists position by position: a token counts
// as shared only when it equals (case-insensitively) the token at the same
// index of the other list. "flavorXDebug" therefore shares just "Debug" with
// "myFlavorDebug", not "Flavor".
func sharedTokenCount(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	count := 0
	for i := 0; i < n; i++ {
		if strings.EqualFold(a[i], b[i]) {
			count++
		}
	}
	return count
}

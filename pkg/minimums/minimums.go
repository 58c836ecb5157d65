// Package minimums holds the per-platform minimum order quantities.
package minimums

import (
	"regexp"
	"sort"
)

// Key identifies a minimum by platform and engagement type. The backend still
// serializes this pair as a legacy "('Platform', 'Type')" string; that format
// is parsed once at the ingestion boundary and never used for lookups.
type Key struct {
	Platform   string
	Engagement string
}

var legacyKeyRe = regexp.MustCompile(`^\('([^']+)',\s*'([^']+)'\)$`)

// ParseLegacyKey parses the backend's composite-key string encoding.
func ParseLegacyKey(s string) (Key, bool) {
	m := legacyKeyRe.FindStringSubmatch(s)
	if m == nil {
		return Key{}, false
	}
	return Key{Platform: m[1], Engagement: m[2]}, true
}

// Table maps (platform, engagement type) to the smallest permitted order
// quantity. Immutable after construction.
type Table struct {
	byKey map[Key]int
}

// Empty returns a table with no entries; every minimum reads as 1.
func Empty() *Table {
	return &Table{byKey: make(map[Key]int)}
}

// New builds a table from parsed keys.
func New(entries map[Key]int) *Table {
	t := Empty()
	for k, v := range entries {
		if v > 0 {
			t.byKey[k] = v
		}
	}
	return t
}

// FromLegacy builds a table from the backend's string-keyed payload. Keys
// that fail to parse are skipped rather than failing the load.
func FromLegacy(raw map[string]int) *Table {
	t := Empty()
	for s, v := range raw {
		k, ok := ParseLegacyKey(s)
		if !ok || v <= 0 {
			continue
		}
		t.byKey[k] = v
	}
	return t
}

// MinimumFor returns the minimum quantity for a platform/engagement pair,
// defaulting to 1 when the pair is absent.
func (t *Table) MinimumFor(platform, engagement string) int {
	if t == nil {
		return 1
	}
	if v, ok := t.byKey[Key{Platform: platform, Engagement: engagement}]; ok {
		return v
	}
	return 1
}

// EngagementTypesFor returns the engagement types known for a platform,
// sorted for stable presentation.
func (t *Table) EngagementTypesFor(platform string) []string {
	if t == nil {
		return nil
	}
	var types []string
	for k := range t.byKey {
		if k.Platform == platform {
			types = append(types, k.Engagement)
		}
	}
	sort.Strings(types)
	return types
}

// Platforms returns every platform with at least one known minimum, sorted.
func (t *Table) Platforms() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var platforms []string
	for k := range t.byKey {
		if !seen[k.Platform] {
			seen[k.Platform] = true
			platforms = append(platforms, k.Platform)
		}
	}
	sort.Strings(platforms)
	return platforms
}

// Len returns the number of known minimums.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byKey)
}

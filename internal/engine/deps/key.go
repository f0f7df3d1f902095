package deps

import "strings"

// The graph-item key is embedded in the upstream record's textual rendering
// between these two markers. The grammar below is a versioned external
// contract: upstream tooling upgrades may silently change it, and the canary
// test in key_test.go exists to catch that.
const (
	keyMarker         = "key="
	coordinatesMarker = ", requestedCoordinates="
)

// Key is one parsed graph-item key. Segments holds the raw "|"-split pieces;
// Group/Name/Version are positional views over the first three.
type Key struct {
	Raw      string
	Segments []string
}

func (k Key) Group() string { return k.segment(0) }
func (k Key) Name() string  { return k.segment(1) }

// Version is the third positional segment. For project-style keys the same
// position carries a build-type token or an attribute list instead.
func (k Key) Version() string { return k.segment(2) }

func (k Key) segment(i int) string {
	if i < len(k.Segments) {
		return k.Segments[i]
	}
	return ""
}

// IsProject reports whether the key denotes a dependency on a sibling module
// rather than an external coordinate.
func (k Key) IsProject() bool {
	group := k.Group()
	return group == ":" || group == "" || strings.HasPrefix(k.Name(), ":")
}

// ProjectPath derives the sibling module's project path from the name segment.
func (k Key) ProjectPath() string {
	name := k.Name()
	if strings.HasPrefix(name, ":") {
		return name
	}
	return ":" + name
}

// ExtractKey pulls the raw key out of a full record string. Returns false when
// either marker is missing.
func ExtractKey(record string) (string, bool) {
	start := strings.Index(record, keyMarker)
	if start < 0 {
		return "", false
	}
	rest := record[start+len(keyMarker):]
	end := strings.Index(rest, coordinatesMarker)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// ParseKey splits a raw key on "|". A key needs at least group and name
// segments to be usable; anything shorter is malformed.
func ParseKey(raw string) (Key, bool) {
	if raw == "" {
		return Key{}, false
	}
	segments := strings.Split(raw, "|")
	if len(segments) < 2 {
		return Key{}, false
	}
	return Key{Raw: raw, Segments: segments}, true
}

// ParseRecord combines marker extraction and key parsing. When the record does
// not contain the markers it is treated as a bare key, which keeps fixtures
// and callers that already hold the key form working.
func ParseRecord(record string) (Key, bool) {
	raw, ok := ExtractKey(record)
	if !ok {
		raw = record
	}
	return ParseKey(raw)
}

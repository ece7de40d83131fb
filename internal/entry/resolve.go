package entry

import "strings"

// Resolution is the outcome of matching a short id against a set of entries.
type Resolution int

const (
	// ResolutionNone means no entry matched.
	ResolutionNone Resolution = iota
	// ResolutionUnique means exactly one entry matched.
	ResolutionUnique
	// ResolutionAmbiguous means more than one entry matched. No candidate is
	// ever picked in that case.
	ResolutionAmbiguous
)

func (r Resolution) String() string {
	switch r {
	case ResolutionUnique:
		return "unique"
	case ResolutionAmbiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// Resolve matches short against the canonical id of every entry using a
// case-insensitive prefix comparison. The returned index is only meaningful
// when the resolution is ResolutionUnique; otherwise it is -1.
//
// An empty or blank short id never matches.
func Resolve(entries []Entry, short string) (Resolution, int) {
	prefix := strings.ToLower(strings.TrimSpace(short))
	if prefix == "" {
		return ResolutionNone, -1
	}

	found := -1
	for i := range entries {
		if !strings.HasPrefix(entries[i].ID.String(), prefix) {
			continue
		}
		if found >= 0 {
			return ResolutionAmbiguous, -1
		}
		found = i
	}

	if found < 0 {
		return ResolutionNone, -1
	}
	return ResolutionUnique, found
}

// Find returns the single entry whose id starts with short.
// Zero or multiple matches both report false.
func Find(entries []Entry, short string) (Entry, bool) {
	res, idx := Resolve(entries, short)
	if res != ResolutionUnique {
		return Entry{}, false
	}
	return entries[idx], true
}

package curie

import "strings"

// ResolutionKind tags the outcome of a conversion.
type ResolutionKind int

const (
	// ResolvedSingle carries exactly one identifier.
	ResolvedSingle ResolutionKind = iota
	// ResolvedAmbiguous carries every identifier sharing a label.
	ResolvedAmbiguous
	// ResolvedUnknown carries the unchanged input.
	ResolvedUnknown
)

// Resolution is the result of a conversion. Ambiguous label lookups are
// returned in full and never collapsed silently.
type Resolution struct {
	Kind ResolutionKind
	ids  []string
}

// Single wraps one identifier.
func Single(id string) Resolution {
	return Resolution{Kind: ResolvedSingle, ids: []string{id}}
}

// Ambiguous wraps several candidate identifiers.
func Ambiguous(ids []string) Resolution {
	return Resolution{Kind: ResolvedAmbiguous, ids: append([]string(nil), ids...)}
}

// Unknown wraps an input that matched nothing.
func Unknown(input string) Resolution {
	return Resolution{Kind: ResolvedUnknown, ids: []string{input}}
}

// IsSingle reports whether exactly one identifier was resolved.
func (r Resolution) IsSingle() bool { return r.Kind == ResolvedSingle }

// IsAmbiguous reports whether the lookup matched several identifiers.
func (r Resolution) IsAmbiguous() bool { return r.Kind == ResolvedAmbiguous }

// IsUnknown reports whether the lookup matched nothing.
func (r Resolution) IsUnknown() bool { return r.Kind == ResolvedUnknown }

// IDs returns a copy of the carried identifiers.
func (r Resolution) IDs() []string {
	return append([]string(nil), r.ids...)
}

// First returns the first carried identifier.
func (r Resolution) First() string {
	if len(r.ids) == 0 {
		return ""
	}
	return r.ids[0]
}

func (r Resolution) String() string {
	if r.Kind == ResolvedAmbiguous {
		return "[" + strings.Join(r.ids, ", ") + "]"
	}
	return r.First()
}

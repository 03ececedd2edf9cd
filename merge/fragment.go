package merge

import (
	"encoding/json"
	"fmt"

	"github.com/c360studio/semschema/document"
)

// Fragment merges a parent $validation fragment into a child fragment and
// returns the result. Neither argument is modified.
//
// The child wins on scalar conflicts. Nested objects merge recursively.
// Lists are unioned with the child's entries first and duplicates removed.
// Keys only the parent has are deep-copied into the result. A nil child
// yields a copy of the parent.
func Fragment(parent, child map[string]any) map[string]any {
	out, _ := document.DeepCopy(child).(map[string]any)
	if out == nil {
		out = make(map[string]any, len(parent))
	}
	mergeInto(out, parent)
	return out
}

func mergeInto(dst, src map[string]any) {
	for key, sv := range src {
		dv, exists := dst[key]
		if !exists {
			dst[key] = document.DeepCopy(sv)
			continue
		}
		switch s := sv.(type) {
		case map[string]any:
			if d, ok := dv.(map[string]any); ok {
				mergeInto(d, s)
			}
		case []any:
			if d, ok := dv.([]any); ok {
				dst[key] = MergeLists(d, s)
			}
		}
	}
}

// MergeLists returns the ordered union of left and right without
// duplicates. Complex items are compared by their canonical JSON encoding.
func MergeLists(left, right []any) []any {
	seen := make(map[string]bool, len(left)+len(right))
	out := make([]any, 0, len(left)+len(right))
	for _, list := range [][]any{left, right} {
		for _, item := range list {
			marker := itemMarker(item)
			if seen[marker] {
				continue
			}
			seen[marker] = true
			out = append(out, document.DeepCopy(item))
		}
	}
	return out
}

// itemMarker encodes item for equality checks. encoding/json sorts map
// keys, so equal objects produce equal markers.
func itemMarker(item any) string {
	b, err := json.Marshal(item)
	if err != nil {
		return fmt.Sprintf("%T:%#v", item, item)
	}
	return string(b)
}

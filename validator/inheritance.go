package validator

import (
	"github.com/c360studio/semschema/curie"
	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/merge"
)

// Inheritance computes the effective $validation fragment of every class
// in ext that has one of its own or inherits one.
//
// Parents are walked depth first through subClassOf. Only parents declared
// in ext take part; parents defined elsewhere are assumed resolved by the
// base vocabulary. One visited set per class spans the whole walk, so an
// ancestor reachable through several paths is merged once and cycles
// terminate. ext is not modified.
func Inheritance(ext document.Document) map[string]map[string]any {
	index := make(map[string]document.Term, len(ext.Terms))
	for _, t := range ext.Terms {
		key := curie.NormalizeID(t.ID, ext.Context)
		if _, exists := index[key]; !exists {
			index[key] = t
		}
	}

	out := make(map[string]map[string]any)
	for _, t := range ext.Terms {
		if t.Kind != document.KindClass {
			continue
		}
		var frag map[string]any
		if t.Validation != nil {
			frag, _ = document.DeepCopy(t.Validation).(map[string]any)
		}
		visited := map[string]bool{curie.NormalizeID(t.ID, ext.Context): true}
		frag = inheritFrom(t, frag, visited, index, ext.Context)
		if frag != nil {
			out[t.ID] = frag
		}
	}
	return out
}

func inheritFrom(t document.Term, frag map[string]any, visited map[string]bool,
	index map[string]document.Term, ctx map[string]string) map[string]any {
	for _, raw := range t.SubClassOf {
		id := curie.NormalizeID(raw, ctx)
		if id == "" || visited[id] {
			continue
		}
		visited[id] = true

		parent, ok := index[id]
		if !ok {
			continue
		}
		if parent.Validation != nil {
			frag = merge.Fragment(parent.Validation, frag)
		}
		frag = inheritFrom(parent, frag, visited, index, ctx)
	}
	return frag
}

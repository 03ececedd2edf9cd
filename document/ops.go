package document

import (
	"maps"
	"sort"
	"strings"

	"github.com/c360studio/semschema/curie"
)

// Merge combines two documents: contexts are unioned with ext winning on
// conflicting prefixes and terms are concatenated, base first.
func Merge(base, ext Document) Document {
	ctx := make(map[string]string, len(base.Context)+len(ext.Context))
	maps.Copy(ctx, base.Context)
	maps.Copy(ctx, ext.Context)

	terms := make([]Term, 0, len(base.Terms)+len(ext.Terms))
	terms = append(terms, base.Terms...)
	terms = append(terms, ext.Terms...)
	return Document{Context: ctx, Terms: terms}
}

// MergeRaw combines two raw documents the same way Merge does, without
// normalizing them. A nil argument is treated as an empty document.
func MergeRaw(a, b map[string]any) map[string]any {
	ctx := make(map[string]any)
	var graph []any
	for _, doc := range []map[string]any{a, b} {
		if doc == nil {
			continue
		}
		if c, ok := doc["@context"].(map[string]any); ok {
			maps.Copy(ctx, c)
		}
		if g, ok := doc["@graph"].([]any); ok {
			graph = append(graph, g...)
		}
	}
	if graph == nil {
		graph = []any{}
	}
	return map[string]any{"@context": ctx, "@graph": graph}
}

// Term returns the first term with the given id.
func (d Document) Term(id string) (Term, bool) {
	for _, t := range d.Terms {
		if t.ID == id {
			return t, true
		}
	}
	return Term{}, false
}

// IDs returns the term ids in document order.
func (d Document) IDs() []string {
	ids := make([]string, len(d.Terms))
	for i, t := range d.Terms {
		ids[i] = t.ID
	}
	return ids
}

// ToMap renders the preprocessed document as JSON-LD.
func (d Document) ToMap() map[string]any {
	ctx := make(map[string]any, len(d.Context))
	for k, v := range d.Context {
		ctx[k] = v
	}
	graph := make([]any, len(d.Terms))
	for i, t := range d.Terms {
		graph[i] = DeepCopy(t.Raw)
	}
	return map[string]any{"@context": ctx, "@graph": graph}
}

// CleanContext returns a copy of raw whose @context keeps only prefixes
// used by the @graph, either as a CURIE prefix or as a namespace of an
// expanded id.
func CleanContext(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	out := DeepCopy(raw).(map[string]any)
	ctx, ok := out["@context"].(map[string]any)
	if !ok {
		return out
	}
	used := make(map[string]bool)
	var visit func(v any)
	visit = func(v any) {
		switch val := v.(type) {
		case string:
			markUsed(val, ctx, used)
		case []any:
			for _, item := range val {
				visit(item)
			}
		case map[string]any:
			for k, item := range val {
				markUsed(k, ctx, used)
				visit(item)
			}
		}
	}
	visit(out["@graph"])

	cleaned := make(map[string]any, len(used))
	for prefix := range used {
		cleaned[prefix] = ctx[prefix]
	}
	out["@context"] = cleaned
	return out
}

func markUsed(s string, ctx map[string]any, used map[string]bool) {
	switch curie.Classify(s) {
	case curie.KindCURIE:
		prefix := s[:strings.Index(s, ":")]
		if _, ok := ctx[prefix]; ok {
			used[prefix] = true
		}
	case curie.KindURL:
		for prefix, ns := range ctx {
			if nsStr, ok := ns.(string); ok && nsStr != "" && strings.HasPrefix(s, curie.NormalizeNamespace(nsStr)) {
				used[prefix] = true
			}
		}
	}
}

// Prefixes returns the sorted distinct prefixes of CURIE ids in raw's
// @graph.
func Prefixes(raw map[string]any) []string {
	set := make(map[string]bool)
	graph, _ := raw["@graph"].([]any)
	for _, item := range graph {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := rec["@id"].(string)
		if curie.Classify(id) == curie.KindCURIE {
			set[id[:strings.Index(id, ":")]] = true
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DeepCopy copies JSON-shaped values (maps, slices, scalars).
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

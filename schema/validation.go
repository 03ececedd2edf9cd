package schema

import (
	"strings"

	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

const definitionsRef = "#/definitions/"

// Validation returns the effective $validation schema of every extension
// class that has one, keyed by class URI. Inherited rules are included,
// $schema defaults to draft 2020-12 and local "#/definitions/" references
// are expanded inline. The returned maps are copies.
func (s *Schema) Validation() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, t := range s.ext.Terms {
		if _, done := out[t.ID]; done {
			continue
		}
		frag := s.validator.Fragment(t.ID)
		if frag == nil {
			continue
		}
		data := document.DeepCopy(frag).(map[string]any)
		if _, ok := data["$schema"]; !ok {
			data["$schema"] = schemaorg.DefaultMetaSchema
		}
		if defs, ok := data["definitions"].(map[string]any); ok {
			data = expandRefs(data, defs, nil).(map[string]any)
		}
		out[t.ID] = data
	}
	return out
}

// expandRefs replaces {"$ref": "#/definitions/name"} objects with the named
// definition. A reference that is unknown, or that refers back to a
// definition being expanded, is left in place.
func expandRefs(v any, defs map[string]any, expanding map[string]bool) any {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["$ref"].(string); ok && len(val) == 1 && strings.HasPrefix(ref, definitionsRef) {
			name := strings.TrimPrefix(ref, definitionsRef)
			def, found := defs[name]
			if !found || expanding[name] {
				return val
			}
			next := make(map[string]bool, len(expanding)+1)
			for k := range expanding {
				next[k] = true
			}
			next[name] = true
			return expandRefs(document.DeepCopy(def), defs, next)
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			if k == "definitions" && expanding == nil {
				out[k] = item
				continue
			}
			out[k] = expandRefs(item, defs, expanding)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expandRefs(item, defs, expanding)
		}
		return out
	default:
		return v
	}
}

// ClassTemplate returns a skeleton class record.
func ClassTemplate() map[string]any {
	return map[string]any{
		"@id":             "uri or curie of the class",
		"@type":           "rdfs:Class",
		"rdfs:comment":    "description of the class",
		"rdfs:label":      "class label, should match @id",
		"rdfs:subClassOf": map[string]any{"@id": "parent class, could be list"},
		"schema:isPartOf": map[string]any{"@id": "http://schema.biothings.io"},
	}
}

// PropertyTemplate returns a skeleton property record.
func PropertyTemplate() map[string]any {
	return map[string]any{
		"@id":                   "url or curie of the property",
		"@type":                 "rdf:Property",
		"rdfs:comment":          "description of the property",
		"rdfs:label":            "camel case, should match @id",
		"schema:domainIncludes": map[string]any{"@id": "class which use it as a property, could be list"},
		"schema:isPartOf":       map[string]any{"@id": "http://schema.biothings.io"},
		"schema:rangeIncludes": map[string]any{
			"@id": "relates a property to a class that constitutes (one of) the expected type(s) for values of the property",
		},
	}
}

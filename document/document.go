// Package document models schema.org-style JSON-LD vocabulary documents and
// normalizes them into ordered term records.
package document

import (
	"errors"
	"fmt"
	"slices"

	"github.com/c360studio/semschema/curie"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

var (
	// ErrMissingGraph is returned when a document has no usable @graph.
	ErrMissingGraph = errors.New("document has no @graph list")

	// ErrMalformedTerm is returned when a term record has an unexpected shape.
	ErrMalformedTerm = errors.New("malformed term")
)

// Kind is the classification of a term.
type Kind string

// Term kinds.
const (
	KindClass    Kind = "Class"
	KindProperty Kind = "Property"
	KindDataType Kind = "DataType"
	KindOther    Kind = "Other"
)

// Term is one normalized record of a document's @graph.
type Term struct {
	ID    string
	Kinds []string
	Kind  Kind
	Label string
	// Comment is nil when the record has no description.
	Comment        *string
	SubClassOf     []string
	SubPropertyOf  []string
	DomainIncludes []string
	RangeIncludes  []string
	InverseOf      string
	// Validation is the $validation fragment when it is an object.
	Validation map[string]any
	// HasValidation is true whenever the record declares $validation,
	// including when the value is not an object.
	HasValidation bool
	// Raw is the preprocessed record.
	Raw map[string]any
}

// Description returns the comment or "".
func (t Term) Description() string {
	if t.Comment == nil {
		return ""
	}
	return *t.Comment
}

// Document is a parsed vocabulary document. Terms keep document order.
type Document struct {
	Context map[string]string
	Terms   []Term
	Raw     map[string]any
}

// Parse normalizes a raw JSON-LD document using its own @context.
func Parse(raw map[string]any) (Document, error) {
	return ParseWithContext(raw, nil)
}

// ParseWithContext normalizes a raw JSON-LD document. Prefixes in defaults
// apply when the document's @context does not define them.
//
// Normalization drops records carrying supersededBy, flattens
// {"@value": ...} labels, expands registered CURIEs in keys and values
// (except $validation) and converts relationship values into id lists.
func ParseWithContext(raw map[string]any, defaults map[string]string) (Document, error) {
	ctx := make(map[string]string, len(defaults))
	for k, v := range defaults {
		ctx[k] = v
	}
	for k, v := range contextOf(raw) {
		ctx[k] = v
	}

	graphValue, ok := raw["@graph"]
	if !ok {
		return Document{}, ErrMissingGraph
	}
	records, ok := graphValue.([]any)
	if !ok && graphValue != nil {
		return Document{}, fmt.Errorf("%w: got %T", ErrMissingGraph, graphValue)
	}

	doc := Document{Context: ctx, Raw: raw}
	for i, item := range records {
		rec, ok := item.(map[string]any)
		if !ok {
			return Document{}, fmt.Errorf("%w: @graph[%d] is %T", ErrMalformedTerm, i, item)
		}
		if superseded(rec) {
			continue
		}
		term, err := newTerm(Preprocess(rec, ctx))
		if err != nil {
			return Document{}, fmt.Errorf("@graph[%d]: %w", i, err)
		}
		doc.Terms = append(doc.Terms, term)
	}
	return doc, nil
}

// ParseTerm normalizes a single record against ctx.
func ParseTerm(rec map[string]any, ctx map[string]string) (Term, error) {
	return newTerm(Preprocess(rec, ctx))
}

// contextOf returns the string-valued entries of a raw @context.
func contextOf(raw map[string]any) map[string]string {
	out := make(map[string]string)
	ctx, _ := raw["@context"].(map[string]any)
	for k, v := range ctx {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func superseded(rec map[string]any) bool {
	for _, key := range []string{schemaorg.SupersededBy, schemaorg.CompactSupersededBy} {
		if v, ok := rec[key]; ok && v != nil {
			return true
		}
	}
	return false
}

// Preprocess returns a copy of rec with registered CURIEs expanded in keys
// and id values. Labels of the form {"@value": ...} become plain strings.
// $validation is copied untouched.
func Preprocess(rec map[string]any, ctx map[string]string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == schemaorg.ValidationField {
			out[k] = DeepCopy(v)
			continue
		}
		if k == schemaorg.RDFSLabel {
			if m, ok := v.(map[string]any); ok {
				if s, ok := m["@value"].(string); ok {
					v = s
				}
			}
		}
		out[curie.ExpandCURIE(k, ctx)] = expandValue(v, ctx)
	}
	return out
}

func expandValue(v any, ctx map[string]string) any {
	switch val := v.(type) {
	case string:
		return curie.ExpandCURIE(val, ctx)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = expandValue(item, ctx)
		}
		return items
	case map[string]any:
		id, ok := val["@id"].(string)
		if !ok {
			return DeepCopy(val)
		}
		out := DeepCopy(val).(map[string]any)
		out["@id"] = curie.ExpandCURIE(id, ctx)
		return out
	default:
		return v
	}
}

func newTerm(rec map[string]any) (Term, error) {
	id, ok := rec["@id"].(string)
	if !ok || id == "" {
		return Term{}, fmt.Errorf("%w: missing @id", ErrMalformedTerm)
	}
	t := Term{ID: id, Raw: rec}

	var err error
	if t.Kinds, err = stringList(rec["@type"]); err != nil {
		return Term{}, fmt.Errorf("%w: %s: @type: %v", ErrMalformedTerm, id, err)
	}
	t.Kind = classify(id, t.Kinds)

	switch label := rec[schemaorg.RDFSLabel].(type) {
	case nil:
	case string:
		t.Label = label
	default:
		return Term{}, fmt.Errorf("%w: %s: rdfs:label is %T", ErrMalformedTerm, id, label)
	}

	switch comment := rec[schemaorg.RDFSComment].(type) {
	case nil:
	case string:
		t.Comment = &comment
	case map[string]any:
		if s, ok := comment["@value"].(string); ok {
			t.Comment = &s
		}
	}

	fields := []struct {
		dst  *[]string
		keys []string
	}{
		{&t.SubClassOf, []string{schemaorg.RDFSSubClassOf, schemaorg.RDFSNamespace + "subClassOf"}},
		{&t.SubPropertyOf, []string{schemaorg.RDFSSubPropertyOf, schemaorg.RDFSNamespace + "subPropertyOf"}},
		{&t.DomainIncludes, []string{schemaorg.DomainIncludes, schemaorg.CompactDomainIncludes, "https://schema.org/domainIncludes"}},
		{&t.RangeIncludes, []string{schemaorg.RangeIncludes, schemaorg.CompactRangeIncludes, "https://schema.org/rangeIncludes"}},
	}
	for _, f := range fields {
		key, value := lookup(rec, f.keys...)
		if *f.dst, err = refs(value); err != nil {
			return Term{}, fmt.Errorf("%w: %s: %s: %v", ErrMalformedTerm, id, key, err)
		}
	}

	key, value := lookup(rec, schemaorg.InverseOf, schemaorg.CompactInverseOf)
	inverse, err := refs(value)
	if err != nil {
		return Term{}, fmt.Errorf("%w: %s: %s: %v", ErrMalformedTerm, id, key, err)
	}
	if len(inverse) > 0 {
		t.InverseOf = inverse[0]
	}

	if v, ok := rec[schemaorg.ValidationField]; ok {
		t.HasValidation = true
		t.Validation, _ = v.(map[string]any)
	}
	return t, nil
}

func classify(id string, kinds []string) Kind {
	has := func(candidates ...string) bool {
		for _, c := range candidates {
			if slices.Contains(kinds, c) {
				return true
			}
		}
		return false
	}
	switch {
	case schemaorg.IsDataType(id) || has(schemaorg.DataType, schemaorg.CompactDataType):
		return KindDataType
	case has(schemaorg.RDFSClass, schemaorg.RDFSNamespace+"Class"):
		return KindClass
	case has(schemaorg.RDFProperty, schemaorg.RDFNamespace+"Property"):
		return KindProperty
	default:
		return KindOther
	}
}

func lookup(rec map[string]any, keys ...string) (string, any) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return k, v
		}
	}
	return keys[0], nil
}

func stringList(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected item %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected %T", v)
	}
}

// refs reads a relationship value: an {"@id": ...} object or a list of them.
func refs(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		id, ok := val["@id"].(string)
		if !ok {
			return nil, errors.New("object without @id")
		}
		return []string{id}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("list item is %T, want object with @id", item)
			}
			id, ok := m["@id"].(string)
			if !ok {
				return nil, errors.New("list item without @id")
			}
			out = append(out, id)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value is %T, want object or list", v)
	}
}

// Package export serializes vocabulary terms as RDF.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/merge"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Scope determines which terms of a vocabulary are exported.
type Scope string

const (
	// ScopeExtension exports only the terms declared by the extension.
	ScopeExtension Scope = "extension"

	// ScopeMerged exports the base vocabulary followed by the extension.
	// Extension declarations replace base declarations of the same id.
	ScopeMerged Scope = "merged"
)

// ParseScope parses a scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(s)) {
	case ScopeExtension, "":
		return ScopeExtension, nil
	case ScopeMerged:
		return ScopeMerged, nil
	}
	return "", fmt.Errorf("unsupported scope: %s", s)
}

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// IRI marks a triple object as a resource. Plain strings are literals.
type IRI string

// Triple is one predicate-object pair of an entity. Predicate is a
// registered predicate name or a full IRI.
type Triple struct {
	Predicate string
	Object    any
}

// Entity is an exportable resource with its types and triples.
type Entity struct {
	ID      string
	Types   []string
	Triples []Triple
}

// RDFExporter collects entities and serializes them.
type RDFExporter struct {
	entities []Entity
	index    map[string]int
	prefixes map[string]string
}

// NewRDFExporter creates an exporter with the standard prefixes.
func NewRDFExporter() *RDFExporter {
	return &RDFExporter{
		index:    make(map[string]int),
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    schemaorg.RDFNamespace,
		"rdfs":   schemaorg.RDFSNamespace,
		"owl":    schemaorg.OWLNamespace,
		"xsd":    schemaorg.XSDNamespace,
		"schema": schemaorg.Namespace,
	}
}

// SetPrefix registers a namespace prefix.
func (e *RDFExporter) SetPrefix(prefix, iri string) {
	if prefix == "" || iri == "" {
		return
	}
	e.prefixes[prefix] = iri
}

// AddEntity adds an entity. An entity with the same ID replaces the
// earlier one and keeps its position.
func (e *RDFExporter) AddEntity(entity Entity) {
	if i, ok := e.index[entity.ID]; ok {
		e.entities[i] = entity
		return
	}
	e.index[entity.ID] = len(e.entities)
	e.entities = append(e.entities, entity)
}

// Entities returns the collected entities in insertion order.
func (e *RDFExporter) Entities() []Entity {
	return append([]Entity(nil), e.entities...)
}

// AddTerm adds a vocabulary term as an entity.
func (e *RDFExporter) AddTerm(t document.Term) {
	e.AddEntity(TermEntity(t))
}

// AddVocabulary adds the terms of v selected by scope and registers the
// prefixes of the merged context.
func (e *RDFExporter) AddVocabulary(v *merge.Vocabulary, scope Scope) {
	for prefix, ns := range v.Merged.Context {
		e.SetPrefix(prefix, ns)
	}
	terms := v.Extension.Terms
	if scope == ScopeMerged {
		terms = v.AllTerms()
	}
	for _, t := range terms {
		e.AddTerm(t)
	}
}

// TermEntity converts a vocabulary term to an entity.
func TermEntity(t document.Term) Entity {
	entity := Entity{ID: t.ID, Types: termTypes(t)}
	add := func(predicate string, obj any) {
		entity.Triples = append(entity.Triples, Triple{Predicate: predicate, Object: obj})
	}
	addIRIs := func(predicate string, ids []string) {
		for _, id := range ids {
			add(predicate, IRI(id))
		}
	}

	if t.Label != "" {
		add(schemaorg.TermLabel, t.Label)
	}
	if t.Comment != nil {
		add(schemaorg.TermComment, *t.Comment)
	}
	addIRIs(schemaorg.ClassSubClassOf, t.SubClassOf)
	addIRIs(schemaorg.PropertySubPropertyOf, t.SubPropertyOf)
	addIRIs(schemaorg.PropertyDomainIncludes, t.DomainIncludes)
	addIRIs(schemaorg.PropertyRangeIncludes, t.RangeIncludes)
	if t.InverseOf != "" {
		add(schemaorg.PropertyInverseOf, IRI(t.InverseOf))
	}
	return entity
}

func termTypes(t document.Term) []string {
	switch t.Kind {
	case document.KindClass:
		return []string{schemaorg.RDFSNamespace + "Class"}
	case document.KindProperty:
		return []string{schemaorg.RDFNamespace + "Property"}
	case document.KindDataType:
		return []string{schemaorg.DataType, schemaorg.RDFSNamespace + "Class"}
	}
	return append([]string(nil), t.Kinds...)
}

// Export serializes all entities to the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (e *RDFExporter) toTurtle() string {
	w := NewTurtleWriter()
	for prefix, iri := range e.prefixes {
		w.SetPrefix(prefix, iri)
	}
	w.WritePrefixes()

	for _, entity := range e.entities {
		w.WriteSubject(entity.ID)
		for i, typeIRI := range entity.Types {
			w.WriteType(typeIRI, i == len(entity.Types)-1 && len(entity.Triples) == 0)
		}
		for i, triple := range entity.Triples {
			w.WritePredicate(schemaorg.PredicateIRI(triple.Predicate), triple.Object, i == len(entity.Triples)-1)
		}
		w.WriteBlank()
	}
	return w.String()
}

func (e *RDFExporter) toNTriples() string {
	w := NewNTriplesWriter()
	for _, entity := range e.entities {
		for _, typeIRI := range entity.Types {
			w.WriteTypeTriple(entity.ID, typeIRI)
		}
		for _, triple := range entity.Triples {
			w.WriteTriple(entity.ID, schemaorg.PredicateIRI(triple.Predicate), triple.Object)
		}
	}
	return w.String()
}

func (e *RDFExporter) toJSONLD() (string, error) {
	w := NewJSONLDWriter()
	w.SetContext(e.prefixes)
	for _, entity := range e.entities {
		types := make([]string, len(entity.Types))
		for i, t := range entity.Types {
			types[i] = compactIRI(t, e.prefixes)
		}
		props := make(map[string]any)
		for _, triple := range entity.Triples {
			key := compactIRI(schemaorg.PredicateIRI(triple.Predicate), e.prefixes)
			value := formatObjectJSONLD(triple.Object, e.prefixes)
			switch prev := props[key].(type) {
			case nil:
				props[key] = value
			case []any:
				props[key] = append(prev, value)
			default:
				props[key] = []any{prev, value}
			}
		}
		w.AddNode(compactIRI(entity.ID, e.prefixes), types, props)
	}
	return w.String()
}

// formatObject formats an object value for Turtle output.
func formatObject(obj any, prefixes map[string]string) string {
	switch v := obj.(type) {
	case IRI:
		return formatIRI(string(v), prefixes)
	case string:
		if _, err := time.Parse(time.RFC3339, v); err == nil {
			return fmt.Sprintf("\"%s\"^^xsd:dateTime", v)
		}
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^xsd:integer", v)
	case float32, float64:
		return fmt.Sprintf("\"%f\"^^xsd:decimal", v)
	case bool:
		return fmt.Sprintf("\"%t\"^^xsd:boolean", v)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// formatObjectNTriples formats an object value for N-Triples output.
func formatObjectNTriples(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return fmt.Sprintf("<%s>", v)
	case string:
		if _, err := time.Parse(time.RFC3339, v); err == nil {
			return fmt.Sprintf("\"%s\"^^<%sdateTime>", v, schemaorg.XSDNamespace)
		}
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^<%sinteger>", v, schemaorg.XSDNamespace)
	case float32, float64:
		return fmt.Sprintf("\"%f\"^^<%sdecimal>", v, schemaorg.XSDNamespace)
	case bool:
		return fmt.Sprintf("\"%t\"^^<%sboolean>", v, schemaorg.XSDNamespace)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// formatObjectJSONLD formats an object value for JSON-LD output.
func formatObjectJSONLD(obj any, prefixes map[string]string) any {
	switch v := obj.(type) {
	case IRI:
		return map[string]any{"@id": compactIRI(string(v), prefixes)}
	case string:
		if _, err := time.Parse(time.RFC3339, v); err == nil {
			return map[string]any{"@value": v, "@type": "xsd:dateTime"}
		}
		return v
	default:
		return v
	}
}

// formatIRI renders iri as a prefixed name when a prefix covers it.
func formatIRI(iri string, prefixes map[string]string) string {
	if c := compactIRI(iri, prefixes); c != iri {
		return c
	}
	return fmt.Sprintf("<%s>", iri)
}

// compactIRI returns prefix:local for the longest namespace covering iri,
// or iri itself. The local part must be a plain name.
func compactIRI(iri string, prefixes map[string]string) string {
	best, bestNS := "", ""
	for prefix, ns := range prefixes {
		if len(ns) <= len(bestNS) || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !plainName(iri[len(ns):]) {
			continue
		}
		best, bestNS = prefix, ns
	}
	if bestNS == "" {
		return iri
	}
	return best + ":" + iri[len(bestNS):]
}

func plainName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

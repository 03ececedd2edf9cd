package schemaorg_test

import (
	"testing"

	"github.com/c360studio/semschema/vocabulary/schemaorg"
	"github.com/c360studio/semstreams/vocabulary"
)

func TestPredicatesRegistered(t *testing.T) {
	predicates := map[string]string{
		schemaorg.TermType:               "http://www.w3.org/1999/02/22-rdf-syntax-ns#type",
		schemaorg.TermLabel:              vocabulary.RdfsLabel,
		schemaorg.TermComment:            vocabulary.RdfsComment,
		schemaorg.ClassSubClassOf:        "http://www.w3.org/2000/01/rdf-schema#subClassOf",
		schemaorg.PropertySubPropertyOf:  "http://www.w3.org/2000/01/rdf-schema#subPropertyOf",
		schemaorg.PropertyDomainIncludes: "http://schema.org/domainIncludes",
		schemaorg.PropertyRangeIncludes:  "http://schema.org/rangeIncludes",
		schemaorg.PropertyInverseOf:      "http://schema.org/inverseOf",
	}

	for predicate, iri := range predicates {
		t.Run(predicate, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(predicate)
			if meta == nil {
				t.Fatalf("predicate %q not registered", predicate)
			}
			if meta.StandardIRI != iri {
				t.Errorf("predicate %q IRI = %q, want %q", predicate, meta.StandardIRI, iri)
			}
			if got := schemaorg.PredicateIRI(predicate); got != iri {
				t.Errorf("PredicateIRI(%q) = %q, want %q", predicate, got, iri)
			}
		})
	}
}

func TestIsDataType(t *testing.T) {
	if !schemaorg.IsDataType("http://schema.org/Text") {
		t.Error("expected Text to be a datatype")
	}
	if schemaorg.IsDataType("http://schema.org/Thing") {
		t.Error("expected Thing not to be a datatype")
	}
	if got := schemaorg.PredicateIRI("unregistered.predicate.name"); got != "unregistered.predicate.name" {
		t.Errorf("PredicateIRI of unregistered predicate = %q", got)
	}
}

package schemaorg

import "github.com/c360studio/semstreams/vocabulary"

// Term predicates describe vocabulary terms when they are exported as RDF.
const (
	// TermType is the rdf:type of a term.
	TermType = "schemaorg.term.type"

	// TermLabel is the human readable label.
	TermLabel = "schemaorg.term.label"

	// TermComment is the free-text description.
	TermComment = "schemaorg.term.comment"

	// ClassSubClassOf links a class to each parent class.
	ClassSubClassOf = "schemaorg.class.subclass_of"

	// PropertySubPropertyOf links a property to each parent property.
	PropertySubPropertyOf = "schemaorg.property.subproperty_of"

	// PropertyDomainIncludes links a property to a class it applies to.
	PropertyDomainIncludes = "schemaorg.property.domain_includes"

	// PropertyRangeIncludes links a property to an accepted value type.
	PropertyRangeIncludes = "schemaorg.property.range_includes"

	// PropertyInverseOf links a property to its inverse.
	PropertyInverseOf = "schemaorg.property.inverse_of"
)

func init() {
	vocabulary.Register(TermType,
		vocabulary.WithDescription("Term kind"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFNamespace+"type"))

	vocabulary.Register(TermLabel,
		vocabulary.WithDescription("Term label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsLabel))

	vocabulary.Register(TermComment,
		vocabulary.WithDescription("Term description"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsComment))

	vocabulary.Register(ClassSubClassOf,
		vocabulary.WithDescription("Parent class"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFSNamespace+"subClassOf"))

	vocabulary.Register(PropertySubPropertyOf,
		vocabulary.WithDescription("Parent property"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFSNamespace+"subPropertyOf"))

	vocabulary.Register(PropertyDomainIncludes,
		vocabulary.WithDescription("Class the property applies to"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(DomainIncludes))

	vocabulary.Register(PropertyRangeIncludes,
		vocabulary.WithDescription("Accepted value type"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RangeIncludes))

	vocabulary.Register(PropertyInverseOf,
		vocabulary.WithDescription("Inverse property"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(InverseOf))
}

// PredicateIRI returns the registered IRI of a term predicate, or the
// predicate itself when none is registered.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return predicate
}

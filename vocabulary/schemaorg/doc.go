// Package schemaorg provides the well-known identifiers of the schema.org
// vocabulary and the RDF/RDFS terms that schema.org documents are built on.
//
// # Semstreams Integration
//
// Term-level predicates (label, comment, subClassOf, domainIncludes, ...)
// are registered in init() with vocabulary.Register(). Each registration
// carries the standard IRI through vocabulary.WithIRI() so the export
// package can resolve predicate names to full IRIs.
//
// # Identifier Forms
//
// Constants ending in IRI are fully expanded. The compact forms (RDFSClass,
// RDFProperty, ...) are what preprocessed documents carry, since the rdf,
// rdfs and xsd prefixes are never expanded.
package schemaorg

package schemaorg

// Namespace is the schema.org namespace used by released JSON-LD files.
const Namespace = "http://schema.org/"

// Standard namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
)

// Compact RDF/RDFS terms as they appear in vocabulary documents.
const (
	RDFSClass         = "rdfs:Class"
	RDFProperty       = "rdf:Property"
	RDFType           = "rdf:type"
	RDFSLabel         = "rdfs:label"
	RDFSComment       = "rdfs:comment"
	RDFSSubClassOf    = "rdfs:subClassOf"
	RDFSSubPropertyOf = "rdfs:subPropertyOf"
)

// Expanded schema.org identifiers.
const (
	Thing           = Namespace + "Thing"
	DataType        = Namespace + "DataType"
	DomainIncludes  = Namespace + "domainIncludes"
	RangeIncludes   = Namespace + "rangeIncludes"
	InverseOf       = Namespace + "inverseOf"
	SupersededBy    = Namespace + "supersededBy"
	ValidationField = "$validation"
)

// Compact schema.org keys used when a document does not register the
// "schema" prefix.
const (
	CompactDomainIncludes = "schema:domainIncludes"
	CompactRangeIncludes  = "schema:rangeIncludes"
	CompactInverseOf      = "schema:inverseOf"
	CompactSupersededBy   = "schema:supersededBy"
	CompactDataType       = "schema:DataType"
)

// DataTypes are the schema.org ids treated as datatypes regardless of how
// they are typed.
var DataTypes = []string{
	Namespace + "DataType",
	Namespace + "Boolean",
	Namespace + "False",
	Namespace + "True",
	Namespace + "Date",
	Namespace + "DateTime",
	Namespace + "Number",
	Namespace + "Integer",
	Namespace + "Float",
	Namespace + "Text",
	Namespace + "CssSelectorType",
	Namespace + "URL",
	Namespace + "XPathType",
	Namespace + "Time",
}

var dataTypeSet = func() map[string]bool {
	m := make(map[string]bool, len(DataTypes))
	for _, id := range DataTypes {
		m[id] = true
	}
	return m
}()

// IsDataType reports whether id is one of the schema.org datatypes.
func IsDataType(id string) bool {
	return dataTypeSet[id]
}

// IgnoredParents are bootstrap ids that never become subclass edges.
var IgnoredParents = map[string]bool{
	RDFSClass: true,
	RDFType:   true,
	RDFSLabel: true,
}

// CommonNamespaces are context prefixes that never name a base vocabulary.
var CommonNamespaces = map[string]bool{
	"rdf":  true,
	"rdfs": true,
	"rdfa": true,
	"xsd":  true,
	"owl":  true,
	"dct":  true,
	"dwc":  true,
}

// Base vocabulary names understood by the base provider.
const (
	BaseSchemaOrg  = "schema.org"
	BaseBioschemas = "bioschemas"
)

// DefaultContext is merged under every document context.
var DefaultContext = map[string]string{
	"schema": Namespace,
	"rdf":    RDFNamespace,
	"rdfs":   RDFSNamespace,
	"xsd":    XSDNamespace,
}

// DefaultMetaSchema is the $schema applied to validation fragments that
// do not declare one.
const DefaultMetaSchema = "https://json-schema.org/draft/2020-12/schema"

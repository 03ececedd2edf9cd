// Package curie converts vocabulary term identifiers between their three
// forms: fully expanded URIs, compact CURIEs (prefix:localname) and bare
// labels.
package curie

import (
	"regexp"
	"sort"
	"strings"
)

// IDKind classifies the surface form of an identifier.
type IDKind int

const (
	// KindName is a bare label such as "Gene".
	KindName IDKind = iota
	// KindCURIE is a compact identifier such as "schema:Gene".
	KindCURIE
	// KindURL is a fully expanded identifier such as "http://schema.org/Gene".
	KindURL
)

// String returns the lowercase name of the kind.
func (k IDKind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindCURIE:
		return "curie"
	default:
		return "name"
	}
}

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

// prefixesNotExpanded are never expanded during document preprocessing.
var prefixesNotExpanded = map[string]bool{
	"rdf":  true,
	"rdfs": true,
	"xsd":  true,
}

// Classify reports whether id is a URL, a CURIE or a bare name.
// A CURIE is exactly two non-empty tokens separated by one colon.
func Classify(id string) IDKind {
	if urlPattern.MatchString(id) {
		return KindURL
	}
	if _, _, ok := splitCURIE(id); ok {
		return KindCURIE
	}
	return KindName
}

func splitCURIE(id string) (prefix, local string, ok bool) {
	parts := strings.Split(id, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// NormalizeNamespace appends "/" to a namespace that does not already end
// with "/" or "#".
func NormalizeNamespace(ns string) string {
	if ns == "" || strings.HasSuffix(ns, "/") || strings.HasSuffix(ns, "#") {
		return ns
	}
	return ns + "/"
}

// ExpandCURIE expands a CURIE whose prefix is registered in context.
// The rdf, rdfs and xsd prefixes are left compact. Anything else is
// returned unchanged.
func ExpandCURIE(id string, context map[string]string) string {
	prefix, local, ok := splitCURIE(id)
	if !ok || urlPattern.MatchString(id) || prefixesNotExpanded[prefix] {
		return id
	}
	ns, found := context[prefix]
	if !found {
		return id
	}
	return NormalizeNamespace(ns) + local
}

// NormalizeID canonicalizes an identifier for equality comparisons:
// known CURIEs are expanded, schema.org spellings are unified on
// https://schema.org/ and a trailing slash is removed.
func NormalizeID(id string, context map[string]string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	id = ExpandCURIE(id, context)
	for _, alt := range []string{"http://schema.org/", "https://www.schema.org/", "http://www.schema.org/"} {
		if strings.HasPrefix(id, alt) {
			id = "https://schema.org/" + strings.TrimPrefix(id, alt)
			break
		}
	}
	return strings.TrimSuffix(id, "/")
}

// Label derives the local name of an identifier: the text after the last
// "/" of a URL, after the ":" of a CURIE, or the name itself.
func Label(id string) string {
	switch Classify(id) {
	case KindURL:
		return id[strings.LastIndex(id, "/")+1:]
	case KindCURIE:
		_, local, _ := splitCURIE(id)
		return local
	default:
		return id
	}
}

// Converter resolves identifiers against a namespace table and the set of
// ids known to a vocabulary.
type Converter struct {
	context  map[string]string
	prefixes []string
	labels   map[string][]string
}

// NewConverter builds a converter. Namespaces are normalized to end with
// "/" or "#"; known ids are indexed by label in the order given.
func NewConverter(context map[string]string, known []string) *Converter {
	c := &Converter{
		context: make(map[string]string, len(context)),
		labels:  make(map[string][]string),
	}
	for prefix, ns := range context {
		if ns == "" {
			continue
		}
		c.context[prefix] = NormalizeNamespace(ns)
		c.prefixes = append(c.prefixes, prefix)
	}
	// Longest namespace first; shorter prefix names win ties so that
	// "schema" is preferred over an alias like "schema1".
	sort.Slice(c.prefixes, func(i, j int) bool {
		a, b := c.prefixes[i], c.prefixes[j]
		if len(c.context[a]) != len(c.context[b]) {
			return len(c.context[a]) > len(c.context[b])
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	seen := make(map[string]bool, len(known))
	for _, id := range known {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		label := Label(id)
		c.labels[label] = append(c.labels[label], id)
	}
	return c
}

// Context returns the normalized namespace table.
func (c *Converter) Context() map[string]string {
	out := make(map[string]string, len(c.context))
	for k, v := range c.context {
		out[k] = v
	}
	return out
}

// ToURI resolves id to its expanded form.
func (c *Converter) ToURI(id string) Resolution {
	switch Classify(id) {
	case KindURL:
		return Single(id)
	case KindCURIE:
		return Single(c.expand(id))
	}
	matches := c.labels[id]
	switch len(matches) {
	case 0:
		return Unknown(id)
	case 1:
		return Single(c.expand(matches[0]))
	}
	uris := make([]string, len(matches))
	for i, m := range matches {
		uris[i] = c.expand(m)
	}
	return Ambiguous(uris)
}

// ToCURIE resolves id to its compact form. URLs outside every registered
// namespace are returned unchanged.
func (c *Converter) ToCURIE(id string) Resolution {
	switch Classify(id) {
	case KindURL:
		return Single(c.compact(id))
	case KindCURIE:
		return Single(id)
	}
	matches := c.labels[id]
	switch len(matches) {
	case 0:
		return Unknown(id)
	case 1:
		return Single(c.compact(c.expand(matches[0])))
	}
	curies := make([]string, len(matches))
	for i, m := range matches {
		curies[i] = c.compact(c.expand(m))
	}
	return Ambiguous(curies)
}

// URI is ToURI collapsed to one string: the single match, the first
// candidate of an ambiguous label, or the input.
func (c *Converter) URI(id string) string {
	return c.ToURI(id).First()
}

// CURIE is ToCURIE collapsed to one string.
func (c *Converter) CURIE(id string) string {
	return c.ToCURIE(id).First()
}

// Label returns the local name of id.
func (c *Converter) Label(id string) string {
	return Label(id)
}

// Prefix returns the namespace prefix of id, or "" when it has none.
func (c *Converter) Prefix(id string) string {
	switch Classify(id) {
	case KindCURIE:
		prefix, _, _ := splitCURIE(id)
		return prefix
	case KindURL:
		if prefix, ok := c.namespaceFor(id); ok {
			return prefix
		}
		return ""
	}
	res := c.ToCURIE(id)
	if !res.IsSingle() {
		return ""
	}
	if prefix, _, ok := splitCURIE(res.First()); ok {
		return prefix
	}
	return ""
}

func (c *Converter) expand(id string) string {
	prefix, local, ok := splitCURIE(id)
	if !ok || urlPattern.MatchString(id) {
		return id
	}
	if ns, found := c.context[prefix]; found {
		return ns + local
	}
	return id
}

func (c *Converter) compact(uri string) string {
	prefix, ok := c.namespaceFor(uri)
	if !ok {
		return uri
	}
	return prefix + ":" + strings.TrimPrefix(uri, c.context[prefix])
}

func (c *Converter) namespaceFor(uri string) (string, bool) {
	for _, prefix := range c.prefixes {
		ns := c.context[prefix]
		// A local part containing ":" would read back as a name.
		if strings.HasPrefix(uri, ns) && len(uri) > len(ns) && !strings.Contains(uri[len(ns):], ":") {
			return prefix, true
		}
	}
	return "", false
}

package schema

import (
	"log/slog"

	"github.com/c360studio/semschema/graph"
)

// Property is a lookup of one property in a Schema.
type Property struct {
	s       *Schema
	uri     string
	defined bool
	output  OutputType

	// Name is the CURIE of the property.
	Name string
}

func newProperty(s *Schema, id string, output OutputType) *Property {
	uri := s.properties.URI(id)
	p := &Property{
		s:       s,
		uri:     uri,
		defined: s.propGraph.HasNode(uri),
		output:  output,
		Name:    s.properties.CURIE(uri),
	}
	if !p.defined {
		s.logger.Debug("Property is not defined in schema", slog.String("property", p.Name))
	}
	return p
}

// As returns the same property rendering identifiers as output.
func (p *Property) As(output OutputType) *Property {
	cp := *p
	cp.output = output
	return &cp
}

func (p *Property) String() string { return p.Name }

// Defined reports whether the property exists in the merged vocabulary.
func (p *Property) Defined() bool { return p.defined }

// Prefix returns the namespace prefix of the property.
func (p *Property) Prefix() string { return p.s.properties.Prefix(p.Name) }

// Label returns the local name of the property.
func (p *Property) Label() string { return p.s.properties.Label(p.Name) }

// URI returns the expanded identifier of the property.
func (p *Property) URI() string { return p.uri }

// Description returns the property comment.
func (p *Property) Description() string {
	n, ok := p.node()
	if !ok || n.Description == nil {
		return ""
	}
	return *n.Description
}

// Domain returns the classes the property applies to.
func (p *Property) Domain() []string {
	n, ok := p.node()
	if !ok {
		return []string{}
	}
	return p.s.renderClasses(n.Domain, p.output)
}

// Range returns the expected value types of the property.
func (p *Property) Range() []string {
	n, ok := p.node()
	if !ok {
		return []string{}
	}
	return p.s.renderClasses(n.Range, p.output)
}

// ParentProperties returns every transitive superproperty.
func (p *Property) ParentProperties() []string {
	if !p.defined {
		return []string{}
	}
	return p.renderAll(p.s.propGraph.Ancestors(p.uri))
}

// ChildProperties returns the direct subproperties.
func (p *Property) ChildProperties() []string {
	if !p.defined {
		return []string{}
	}
	return p.renderAll(p.s.propGraph.Successors(p.uri))
}

// DescendantProperties returns every transitive subproperty.
func (p *Property) DescendantProperties() []string {
	if !p.defined {
		return []string{}
	}
	return p.renderAll(p.s.propGraph.Descendants(p.uri))
}

// InverseProperty returns the inverse of the property, or nil when it has
// none.
func (p *Property) InverseProperty() []*Property {
	n, ok := p.node()
	if !ok || n.Inverse == "" {
		return nil
	}
	return p.s.GetProperty(n.Inverse)
}

// Describe returns every query result of the property in one map.
func (p *Property) Describe() map[string]any {
	if !p.defined {
		return map[string]any{}
	}
	return map[string]any{
		"child_properties":      p.ChildProperties(),
		"descendant_properties": p.DescendantProperties(),
		"parent_properties":     p.ParentProperties(),
		"domain":                p.Domain(),
		"range":                 p.Range(),
		"uri":                   p.URI(),
		"label":                 p.Label(),
		"description":           p.Description(),
	}
}

func (p *Property) node() (*graph.Node, bool) {
	if !p.defined {
		return nil, false
	}
	return p.s.propGraph.Node(p.uri)
}

func (p *Property) renderAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.s.renderProperty(id, p.output))
	}
	return out
}

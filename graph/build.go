package graph

import (
	"slices"

	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Set holds the three graphs built from one document.
type Set struct {
	Classes    *Graph
	Properties *Graph
	DataTypes  *Graph
}

// NewSet returns a set of empty graphs.
func NewSet() *Set {
	return &Set{Classes: New(), Properties: New(), DataTypes: New()}
}

// Build constructs the class, property and datatype graphs of doc.
//
// Later declarations of a term overwrite its scalar attributes while
// Properties and UsedBy accumulate. Ids referenced by subClassOf,
// subPropertyOf, domainIncludes or a non-datatype rangeIncludes become
// stubs when they are not defined in doc.
func Build(doc document.Document) *Set {
	s := NewSet()

	datatypes := make(map[string]bool)
	for _, id := range schemaorg.DataTypes {
		datatypes[id] = true
	}
	for _, t := range doc.Terms {
		if t.Kind == document.KindDataType {
			datatypes[t.ID] = true
		}
	}

	for _, t := range doc.Terms {
		switch t.Kind {
		case document.KindDataType:
			buildDataType(s.DataTypes, t)
		case document.KindClass:
			buildClass(s.Classes, t)
		case document.KindProperty:
			buildProperty(s, t, datatypes)
		}
	}
	return s
}

func parents(t document.Term, ids []string) []string {
	var out []string
	for _, p := range ids {
		if p == t.ID || schemaorg.IgnoredParents[p] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func buildDataType(g *Graph, t document.Term) {
	n := g.AddNode(t.ID)
	n.Kind = KindDataType
	n.Label = t.Label
	n.Description = t.Comment

	ps := parents(t, t.SubClassOf)
	if len(ps) == 0 && t.ID != schemaorg.DataType {
		ps = []string{schemaorg.DataType}
	}
	for _, p := range ps {
		g.AddEdge(p, t.ID)
	}
}

func buildClass(g *Graph, t document.Term) {
	n := g.AddNode(t.ID)
	n.Kind = KindClass
	n.Label = t.Label
	n.Description = t.Comment
	if n.Properties == nil {
		n.Properties = []PropertyInfo{}
	}
	if n.UsedBy == nil {
		n.UsedBy = []PropertyInfo{}
	}
	for _, p := range parents(t, t.SubClassOf) {
		g.AddEdge(p, t.ID)
	}
}

func buildProperty(s *Set, t document.Term, datatypes map[string]bool) {
	n := s.Properties.AddNode(t.ID)
	n.Kind = KindProperty
	n.Label = t.Label
	n.Description = t.Comment
	n.Domain = slices.Clone(t.DomainIncludes)
	n.Range = slices.Clone(t.RangeIncludes)
	n.Inverse = t.InverseOf

	for _, p := range parents(t, t.SubPropertyOf) {
		s.Properties.AddEdge(p, t.ID)
	}

	info := PropertyInfo{
		ID:          t.ID,
		Description: t.Comment,
		Domain:      append([]string{}, t.DomainIncludes...),
		Range:       append([]string{}, t.RangeIncludes...),
		Inverse:     t.InverseOf,
	}
	for _, d := range t.DomainIncludes {
		s.Classes.AddNode(d).addProperty(info)
	}
	for _, r := range t.RangeIncludes {
		if datatypes[r] {
			continue
		}
		s.Classes.AddNode(r).addUsedBy(info)
	}
}

// Combined returns one graph holding every node and edge of the set.
func (s *Set) Combined() *Graph {
	out := New()
	for _, g := range []*Graph{s.DataTypes, s.Classes, s.Properties} {
		out = Merge(out, g)
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	return &Set{
		Classes:    s.Classes.Clone(),
		Properties: s.Properties.Clone(),
		DataTypes:  s.DataTypes.Clone(),
	}
}

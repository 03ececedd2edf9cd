package schema

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/semschema/graph"
	"github.com/c360studio/semschema/validator"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// ErrNoValidation is returned when a class has no $validation fragment to
// validate an instance against.
var ErrNoValidation = errors.New("no validation schema defined")

// Class is a lookup of one class in a Schema. Queries on a class that is
// not defined in the merged vocabulary return empty results.
type Class struct {
	s       *Schema
	uri     string
	defined bool
	output  OutputType

	// Name is the CURIE of the class.
	Name string
}

func newClass(s *Schema, id string, output OutputType) *Class {
	uri := s.classes.URI(id)
	c := &Class{
		s:       s,
		uri:     uri,
		defined: s.classIDs[uri],
		output:  output,
		Name:    s.classes.CURIE(uri),
	}
	if !c.defined {
		s.logger.Debug("Class is not defined in schema", slog.String("class", c.Name))
	}
	return c
}

// As returns the same class rendering identifiers as output.
func (c *Class) As(output OutputType) *Class {
	cp := *c
	cp.output = output
	return &cp
}

// String returns the class CURIE.
func (c *Class) String() string { return c.Name }

// Defined reports whether the class exists in the merged vocabulary.
func (c *Class) Defined() bool { return c.defined }

// Prefix returns the namespace prefix of the class.
func (c *Class) Prefix() string { return c.s.classes.Prefix(c.Name) }

// Label returns the local name of the class.
func (c *Class) Label() string { return c.s.classes.Label(c.Name) }

// URI returns the expanded identifier of the class.
func (c *Class) URI() string { return c.uri }

// Description returns the class comment.
func (c *Class) Description() string {
	n, ok := c.node()
	if !ok || n.Description == nil {
		return ""
	}
	return *n.Description
}

// ChildClasses returns the direct subclasses.
func (c *Class) ChildClasses() []string {
	if !c.defined {
		return []string{}
	}
	return c.s.renderClasses(c.s.classGraph.Successors(c.uri), c.output)
}

// DescendantClasses returns every transitive subclass, nearest first.
func (c *Class) DescendantClasses() []string {
	if !c.defined {
		return []string{}
	}
	return c.s.renderClasses(c.s.classGraph.Descendants(c.uri), c.output)
}

// AncestorClasses returns every transitive superclass, nearest first.
func (c *Class) AncestorClasses() []string {
	if !c.defined {
		return []string{}
	}
	return c.s.renderClasses(c.s.classGraph.Ancestors(c.uri), c.output)
}

// ParentClasses returns each path from the hierarchy root down to the
// class, excluding the class itself. The root is schema:Thing when present.
func (c *Class) ParentClasses() [][]string {
	if !c.defined {
		return [][]string{}
	}
	root := c.s.classGraph.Root(schemaorg.Thing)
	paths := c.s.classGraph.AllSimplePaths(root, c.uri)
	out := make([][]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, c.s.renderClasses(p[:len(p)-1], c.output))
	}
	return out
}

// ListProperties returns the properties whose domain includes the class,
// grouped by class. Unless classSpecific is set, the properties of every
// ancestor follow as further groups.
func (c *Class) ListProperties(classSpecific bool) []ClassProperties {
	if !c.defined {
		return []ClassProperties{}
	}
	ids := []string{c.uri}
	if !classSpecific {
		ids = append(ids, c.s.classGraph.Ancestors(c.uri)...)
	}
	out := make([]ClassProperties, 0, len(ids))
	for _, id := range ids {
		n, ok := c.s.full.Node(id)
		if !ok {
			continue
		}
		out = append(out, ClassProperties{
			Class:      c.s.renderClass(id, c.output),
			Properties: c.summaries(n.Properties),
		})
	}
	return out
}

// ListPropertiesFlat returns the properties of ListProperties without the
// grouping.
func (c *Class) ListPropertiesFlat(classSpecific bool) []PropertySummary {
	out := []PropertySummary{}
	for _, group := range c.ListProperties(classSpecific) {
		out = append(out, group.Properties...)
	}
	return out
}

// UsedBy returns the properties whose range includes the class.
func (c *Class) UsedBy() []PropertySummary {
	n, ok := c.node()
	if !ok {
		return []PropertySummary{}
	}
	return c.summaries(n.UsedBy)
}

// Validation returns the effective $validation schema of the class, or nil.
func (c *Class) Validation() map[string]any {
	return c.s.Validation()[c.uri]
}

// ValidateInstance validates a JSON document against the class's
// $validation schema.
func (c *Class) ValidateInstance(doc any) error {
	frag := c.Validation()
	if frag == nil {
		return fmt.Errorf("%w for %s", ErrNoValidation, c.Name)
	}
	return validator.ValidateInstance(frag, doc)
}

// Describe returns every query result of the class in one map.
func (c *Class) Describe() map[string]any {
	if !c.defined {
		return map[string]any{}
	}
	return map[string]any{
		"properties":         c.ListProperties(false),
		"description":        c.Description(),
		"uri":                c.URI(),
		"label":              c.Label(),
		"curie":              c.Name,
		"used_by":            c.UsedBy(),
		"child_classes":      c.ChildClasses(),
		"parent_classes":     c.ParentClasses(),
		"ancestor_classes":   c.AncestorClasses(),
		"descendant_classes": c.DescendantClasses(),
		"validation":         c.Validation(),
	}
}

func (c *Class) node() (*graph.Node, bool) {
	if !c.defined {
		return nil, false
	}
	return c.s.full.Node(c.uri)
}

func (c *Class) summaries(infos []graph.PropertyInfo) []PropertySummary {
	out := make([]PropertySummary, 0, len(infos))
	for _, info := range infos {
		ps := PropertySummary{
			ID:     c.s.renderProperty(info.ID, c.output),
			URI:    info.ID,
			CURIE:  c.s.classes.CURIE(info.ID),
			Label:  c.s.classes.Label(info.ID),
			Domain: c.s.renderClasses(info.Domain, c.output),
			Range:  c.s.renderClasses(info.Range, c.output),
		}
		if info.Description != nil {
			ps.Description = *info.Description
		}
		out = append(out, ps)
	}
	return out
}

package graph

import "slices"

// NodeKind classifies a node. The zero value marks a stub: an id that was
// referenced but not defined in the source document.
type NodeKind string

// Node kinds.
const (
	KindClass    NodeKind = "Class"
	KindProperty NodeKind = "Property"
	KindDataType NodeKind = "DataType"
)

// PropertyInfo summarizes a property attached to a class node, either in
// Properties (the class is in its domain) or UsedBy (in its range).
type PropertyInfo struct {
	ID          string
	Description *string
	Domain      []string
	Range       []string
	Inverse     string
}

// Node holds the attributes of one vocabulary term.
type Node struct {
	ID          string
	Kind        NodeKind
	Label       string
	Description *string
	Properties  []PropertyInfo
	UsedBy      []PropertyInfo
	Domain      []string
	Range       []string
	Inverse     string
}

// IsStub reports whether the node has no definition.
func (n *Node) IsStub() bool {
	return n.Kind == ""
}

func (n *Node) clone() *Node {
	c := *n
	c.Properties = clonePropertyInfos(n.Properties)
	c.UsedBy = clonePropertyInfos(n.UsedBy)
	c.Domain = slices.Clone(n.Domain)
	c.Range = slices.Clone(n.Range)
	return &c
}

// addProperty appends info, replacing an earlier entry for the same id.
func (n *Node) addProperty(info PropertyInfo) {
	n.Properties = upsertInfo(n.Properties, info)
}

func (n *Node) addUsedBy(info PropertyInfo) {
	n.UsedBy = upsertInfo(n.UsedBy, info)
}

// fillFrom copies every attribute missing on n from other. List attributes
// are unioned with other's entries first.
func (n *Node) fillFrom(other *Node) {
	if n.Kind == "" {
		n.Kind = other.Kind
	}
	if n.Label == "" {
		n.Label = other.Label
	}
	if n.Description == nil {
		n.Description = other.Description
	}
	if len(n.Domain) == 0 {
		n.Domain = slices.Clone(other.Domain)
	}
	if len(n.Range) == 0 {
		n.Range = slices.Clone(other.Range)
	}
	if n.Inverse == "" {
		n.Inverse = other.Inverse
	}
	n.Properties = unionInfos(other.Properties, n.Properties)
	n.UsedBy = unionInfos(other.UsedBy, n.UsedBy)
}

func upsertInfo(list []PropertyInfo, info PropertyInfo) []PropertyInfo {
	for i := range list {
		if list[i].ID == info.ID {
			list[i] = info
			return list
		}
	}
	return append(list, info)
}

func unionInfos(base, ext []PropertyInfo) []PropertyInfo {
	if base == nil && ext == nil {
		return nil
	}
	out := clonePropertyInfos(base)
	for _, info := range ext {
		out = upsertInfo(out, info)
	}
	return out
}

func clonePropertyInfos(in []PropertyInfo) []PropertyInfo {
	if in == nil {
		return nil
	}
	out := make([]PropertyInfo, len(in))
	for i, info := range in {
		info.Domain = slices.Clone(info.Domain)
		info.Range = slices.Clone(info.Range)
		out[i] = info
	}
	return out
}

// Package graph builds directed term hierarchies from vocabulary documents
// and answers traversal queries over them.
//
// Edges point from parent to child. Node and edge insertion order is kept
// so that every query result is deterministic. Cycles are tolerated: every
// traversal carries an explicit visited set.
package graph

import (
	"errors"
	"slices"
)

// ErrCycle is returned by TopologicalSort when the graph is not acyclic.
var ErrCycle = errors.New("graph contains a cycle")

// Graph is an ordered directed graph of vocabulary nodes.
type Graph struct {
	nodes map[string]*Node
	order []string
	succ  map[string][]string
	pred  map[string][]string
	edges [][2]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
	}
}

// AddNode returns the node with the given id, creating a stub when absent.
func (g *Graph) AddNode(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// AddEdge adds parent → child, creating missing endpoints as stubs.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(parent, child string) {
	g.AddNode(parent)
	g.AddNode(child)
	if slices.Contains(g.succ[parent], child) {
		return
	}
	g.succ[parent] = append(g.succ[parent], child)
	g.pred[child] = append(g.pred[child], parent)
	g.edges = append(g.edges, [2]string{parent, child})
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether parent → child exists.
func (g *Graph) HasEdge(parent, child string) bool {
	return slices.Contains(g.succ[parent], child)
}

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// Edges returns edges in insertion order.
func (g *Graph) Edges() [][2]string {
	return slices.Clone(g.edges)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the direct children of id.
func (g *Graph) Successors(id string) []string {
	return slices.Clone(g.succ[id])
}

// Predecessors returns the direct parents of id.
func (g *Graph) Predecessors(id string) []string {
	return slices.Clone(g.pred[id])
}

// Isolated reports whether id has neither parents nor children.
func (g *Graph) Isolated(id string) bool {
	return len(g.succ[id]) == 0 && len(g.pred[id]) == 0
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := New()
	for _, id := range g.order {
		out.nodes[id] = g.nodes[id].clone()
		out.order = append(out.order, id)
	}
	for _, e := range g.edges {
		out.AddEdge(e[0], e[1])
	}
	return out
}

// Subgraph returns the graph induced by the nodes keep accepts.
func (g *Graph) Subgraph(keep func(*Node) bool) *Graph {
	out := New()
	for _, id := range g.order {
		if keep(g.nodes[id]) {
			out.nodes[id] = g.nodes[id].clone()
			out.order = append(out.order, id)
		}
	}
	for _, e := range g.edges {
		if out.HasNode(e[0]) && out.HasNode(e[1]) {
			out.AddEdge(e[0], e[1])
		}
	}
	return out
}

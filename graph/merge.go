package graph

// Merge returns the union of base and ext. For a node present in both,
// ext's attributes win and any attribute missing on ext's copy is taken
// from base. Edges are unioned. Neither input is modified.
func Merge(base, ext *Graph) *Graph {
	out := base.Clone()
	for _, id := range ext.order {
		en := ext.nodes[id].clone()
		if bn, ok := out.nodes[id]; ok {
			en.fillFrom(bn)
			out.nodes[id] = en
			continue
		}
		out.nodes[id] = en
		out.order = append(out.order, id)
	}
	for _, e := range ext.edges {
		out.AddEdge(e[0], e[1])
	}
	return out
}

// MergeSets merges each graph of ext into the matching graph of base.
func MergeSets(base, ext *Set) *Set {
	return &Set{
		Classes:    Merge(base.Classes, ext.Classes),
		Properties: Merge(base.Properties, ext.Properties),
		DataTypes:  Merge(base.DataTypes, ext.DataTypes),
	}
}

// Backfill fills stubs of ext in place with the attributes of the same
// node in base, when base defines it. It returns the number of stubs
// filled.
func Backfill(ext, base *Graph) int {
	filled := 0
	for _, id := range ext.order {
		n := ext.nodes[id]
		if !n.IsStub() {
			continue
		}
		bn, ok := base.nodes[id]
		if !ok || bn.IsStub() {
			continue
		}
		n.fillFrom(bn)
		filled++
	}
	return filled
}

// BackfillSet applies Backfill to each graph of ext. Class stubs may be
// defined as datatypes in base, so the class graph is filled from both.
func BackfillSet(ext, base *Set) int {
	filled := Backfill(ext.Classes, base.Classes)
	filled += Backfill(ext.Classes, base.DataTypes)
	filled += Backfill(ext.Properties, base.Properties)
	filled += Backfill(ext.DataTypes, base.DataTypes)
	return filled
}

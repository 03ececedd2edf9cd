// Package merge combines an extension vocabulary with its base vocabulary
// and provides the merge strategy used for inherited $validation
// fragments.
package merge

import (
	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/graph"
)

// Vocabulary is an extension document merged with its base.
type Vocabulary struct {
	Base      document.Document
	Extension document.Document
	Merged    document.Document

	BaseGraphs      *graph.Set
	ExtensionGraphs *graph.Set
	Graphs          *graph.Set

	// Graph is the combined merged graph used for path queries.
	Graph *graph.Graph
}

// New merges ext into base. Extension stubs are back-filled from base
// before the graphs are unioned, so an extension that only references a
// base class still sees its kind and description. New(v, v) has the node
// and edge counts of v.
func New(base, ext document.Document) *Vocabulary {
	baseGraphs := graph.Build(base)
	extGraphs := graph.Build(ext)
	graph.BackfillSet(extGraphs, baseGraphs)

	merged := graph.MergeSets(baseGraphs, extGraphs)
	return &Vocabulary{
		Base:            base,
		Extension:       ext,
		Merged:          document.Merge(base, ext),
		BaseGraphs:      baseGraphs,
		ExtensionGraphs: extGraphs,
		Graphs:          merged,
		Graph:           merged.Combined(),
	}
}

// AllTerms returns base terms followed by extension terms.
func (v *Vocabulary) AllTerms() []document.Term {
	return v.Merged.Terms
}

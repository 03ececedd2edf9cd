package schema

import "fmt"

// OutputType selects how term identifiers are rendered by queries.
type OutputType int

const (
	// OutputCURIE renders compact identifiers such as "bts:Gene".
	OutputCURIE OutputType = iota
	// OutputURI renders fully expanded identifiers.
	OutputURI
	// OutputLabel renders bare labels such as "Gene".
	OutputLabel
)

// String returns the name used on the command line.
func (o OutputType) String() string {
	switch o {
	case OutputURI:
		return "uri"
	case OutputLabel:
		return "label"
	default:
		return "curie"
	}
}

// ParseOutputType parses "uri", "curie" or "label".
func ParseOutputType(s string) (OutputType, error) {
	switch s {
	case "uri":
		return OutputURI, nil
	case "curie", "":
		return OutputCURIE, nil
	case "label":
		return OutputLabel, nil
	}
	return OutputCURIE, fmt.Errorf("unknown output type %q, want uri, curie or label", s)
}

// PropertySummary describes a property attached to a class.
type PropertySummary struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri"`
	CURIE       string   `json:"curie"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Domain      []string `json:"domain"`
	Range       []string `json:"range"`
}

// ClassProperties groups the properties whose domain includes Class.
type ClassProperties struct {
	Class      string            `json:"class"`
	Properties []PropertySummary `json:"properties"`
}

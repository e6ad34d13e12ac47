package render

import (
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

// Sankey node layout.
const (
	SankeyNodePad       = 15
	SankeyNodeThickness = 20
	SankeyHoverTemplate = "%{customdata}<extra></extra>"
)

// SankeyNodes holds the per-node arrays of a Sankey trace.
type SankeyNodes struct {
	Pad           int      `json:"pad"`
	Thickness     int      `json:"thickness"`
	Label         []string `json:"label"`
	Color         []string `json:"color"`
	CustomData    []string `json:"customdata"`
	HoverTemplate string   `json:"hovertemplate"`
}

// SankeyLinks holds the per-link arrays of a Sankey trace.
type SankeyLinks struct {
	Source []int    `json:"source"`
	Target []int    `json:"target"`
	Value  []int    `json:"value"`
	Color  []string `json:"color"`
}

// SankeyPayload is a plotly-compatible Sankey trace.
type SankeyPayload struct {
	Type    string      `json:"type"`
	Version string      `json:"version"`
	Node    SankeyNodes `json:"node"`
	Link    SankeyLinks `json:"link"`
}

// Sankey converts a flow graph into a Sankey trace. Array positions match
// node IDs, so link endpoints index the node arrays directly.
func Sankey(g *models.FlowGraph) SankeyPayload {
	p := SankeyPayload{
		Type:    "sankey",
		Version: g.Version,
		Node: SankeyNodes{
			Pad:           SankeyNodePad,
			Thickness:     SankeyNodeThickness,
			Label:         make([]string, len(g.Nodes)),
			Color:         make([]string, len(g.Nodes)),
			CustomData:    make([]string, len(g.Nodes)),
			HoverTemplate: SankeyHoverTemplate,
		},
		Link: SankeyLinks{
			Source: make([]int, len(g.Edges)),
			Target: make([]int, len(g.Edges)),
			Value:  make([]int, len(g.Edges)),
			Color:  make([]string, len(g.Edges)),
		},
	}

	for i, n := range g.Nodes {
		p.Node.Label[i] = n.Label
		p.Node.Color[i] = n.Color
		p.Node.CustomData[i] = ptrboard.HoverText(n.Detail, n.Incoming, n.Outgoing)
	}
	for i, e := range g.Edges {
		p.Link.Source[i] = e.Source
		p.Link.Target[i] = e.Target
		p.Link.Value[i] = e.Weight
		p.Link.Color[i] = e.Color
	}
	return p
}

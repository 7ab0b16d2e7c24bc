package graph

import (
	"fmt"

	"github.com/dgallion1/mindmapd/internal/outline"
)

// Node is one vertex in the rendered mind map, shaped for the
// front-end visualization widget.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// Edge connects a parent topic to a child topic.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Graph is the full node/edge list for one outline.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

const (
	rootSize  = 25
	childSize = 15
	edgeType  = "CURVE_SMOOTH"
)

// palette assigns colors by depth; depths beyond the palette wrap.
var palette = []string{
	"#F9A825", // root
	"#42A5F5",
	"#66BB6A",
	"#AB47BC",
	"#EF5350",
	"#26C6DA",
}

// ColorForDepth returns the color for a given depth. It is a pure
// function: the same depth always maps to the same color.
func ColorForDepth(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return palette[depth%len(palette)]
}

// Render converts an outline into node and edge lists. It fails only on
// a malformed outline (dangling parent reference), which callers treat
// as a precondition violation.
func Render(o *outline.Outline) (*Graph, error) {
	g := &Graph{
		Nodes: make([]Node, 0, len(o.Nodes)),
		Edges: make([]Edge, 0, len(o.Nodes)),
	}

	seen := make(map[string]bool, len(o.Nodes))
	for _, n := range o.Nodes {
		size := childSize
		if n.ParentID == "" {
			size = rootSize
		}
		g.Nodes = append(g.Nodes, Node{
			ID:    n.ID,
			Label: n.Label,
			Depth: n.Depth,
			Size:  size,
			Color: ColorForDepth(n.Depth),
		})
		seen[n.ID] = true

		if n.ParentID != "" {
			if !seen[n.ParentID] {
				return nil, fmt.Errorf("node %q references missing parent %q", n.Label, n.ParentID)
			}
			g.Edges = append(g.Edges, Edge{
				Source: n.ParentID,
				Target: n.ID,
				Type:   edgeType,
			})
		}
	}

	return g, nil
}

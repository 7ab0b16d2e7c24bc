package outline

import (
	"crypto/sha256"
	"fmt"
)

// Node is one topic in an outline.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Depth    int    `json:"depth"`
	ParentID string `json:"parent_id,omitempty"` // empty for the root
}

// Outline is a single-rooted topic tree. Nodes are stored in preorder,
// so a parent always precedes its children.
type Outline struct {
	Nodes []Node `json:"nodes"`
}

// Root returns the root node, or nil for an empty outline.
func (o *Outline) Root() *Node {
	if len(o.Nodes) == 0 {
		return nil
	}
	return &o.Nodes[0]
}

// Find returns the node with the given ID, or nil.
func (o *Outline) Find(id string) *Node {
	for i := range o.Nodes {
		if o.Nodes[i].ID == id {
			return &o.Nodes[i]
		}
	}
	return nil
}

// Path returns the labels from the root down to the given node.
// Returns nil if the node does not exist.
func (o *Outline) Path(id string) []string {
	byID := make(map[string]*Node, len(o.Nodes))
	for i := range o.Nodes {
		byID[o.Nodes[i].ID] = &o.Nodes[i]
	}

	n, ok := byID[id]
	if !ok {
		return nil
	}

	var rev []string
	for n != nil {
		rev = append(rev, n.Label)
		if n.ParentID == "" {
			break
		}
		n = byID[n.ParentID]
	}

	path := make([]string, len(rev))
	for i, label := range rev {
		path[len(rev)-1-i] = label
	}
	return path
}

// Validate checks the tree invariants: exactly one root, every non-root
// node references an existing parent that precedes it, and depth is
// always parent depth + 1.
func (o *Outline) Validate() error {
	if len(o.Nodes) == 0 {
		return fmt.Errorf("outline is empty")
	}

	root := o.Nodes[0]
	if root.ParentID != "" {
		return fmt.Errorf("root node %q has a parent reference", root.Label)
	}
	if root.Depth != 0 {
		return fmt.Errorf("root node %q has depth %d, want 0", root.Label, root.Depth)
	}

	seen := map[string]Node{root.ID: root}
	for _, n := range o.Nodes[1:] {
		if n.ParentID == "" {
			return fmt.Errorf("node %q has no parent: outline must be single-rooted", n.Label)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		parent, ok := seen[n.ParentID]
		if !ok {
			return fmt.Errorf("node %q references unknown parent %q", n.Label, n.ParentID)
		}
		if n.Depth != parent.Depth+1 {
			return fmt.Errorf("node %q has depth %d, want %d", n.Label, n.Depth, parent.Depth+1)
		}
		seen[n.ID] = n
	}

	return nil
}

// nodeID derives a stable ID from the parent ID, sibling ordinal, and
// label, so the same outline always renders with the same IDs.
func nodeID(parentID string, ordinal int, label string) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s\x00%d\x00%s", parentID, ordinal, label))
	return fmt.Sprintf("%x", h[:8])
}

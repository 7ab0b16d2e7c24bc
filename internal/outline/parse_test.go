package outline

import (
	"errors"
	"strings"
	"testing"
)

const sampleResponse = `{
  "name": "Operating Systems",
  "children": [
    {
      "name": "Processes",
      "children": [
        {"name": "Scheduling"},
        {"name": "Inter-process Communication"}
      ]
    },
    {
      "name": "Memory Management"
    }
  ]
}`

func TestParse_ValidResponse(t *testing.T) {
	o, err := Parse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(o.Nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(o.Nodes))
	}
	if o.Root().Label != "Operating Systems" {
		t.Errorf("expected root label %q, got %q", "Operating Systems", o.Root().Label)
	}
	if err := o.Validate(); err != nil {
		t.Errorf("expected valid outline, got %v", err)
	}
}

func TestParse_NoDanglingParents(t *testing.T) {
	o, err := Parse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make(map[string]bool)
	for _, n := range o.Nodes {
		ids[n.ID] = true
	}
	for _, n := range o.Nodes[1:] {
		if !ids[n.ParentID] {
			t.Errorf("node %q references missing parent %q", n.Label, n.ParentID)
		}
	}
}

func TestParse_DepthIsParentPlusOne(t *testing.T) {
	o, err := Parse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := make(map[string]Node)
	for _, n := range o.Nodes {
		byID[n.ID] = n
	}
	for _, n := range o.Nodes[1:] {
		parent := byID[n.ParentID]
		if n.Depth != parent.Depth+1 {
			t.Errorf("node %q: depth=%d, parent depth=%d", n.Label, n.Depth, parent.Depth)
		}
	}
}

func TestParse_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	o, err := Parse(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Root().Label != "Operating Systems" {
		t.Errorf("expected root label to survive fence stripping, got %q", o.Root().Label)
	}
}

func TestParse_ToleratesSurroundingProse(t *testing.T) {
	wrapped := "Here is the outline you asked for:\n" + sampleResponse + "\nLet me know if you need more detail."
	o, err := Parse(wrapped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Nodes) != 5 {
		t.Errorf("expected 5 nodes, got %d", len(o.Nodes))
	}
}

func TestParse_TruncatedResponse(t *testing.T) {
	truncated := sampleResponse[:len(sampleResponse)/2]
	_, err := Parse(truncated)
	if err == nil {
		t.Fatal("expected error for truncated response")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if perr.Raw == "" {
		t.Error("expected ParseError to carry the raw response")
	}
}

func TestParse_EmptyRootName(t *testing.T) {
	if _, err := Parse(`{"name": "", "children": []}`); err == nil {
		t.Error("expected error for empty root name")
	}
}

func TestParse_SkipsEmptyChildNames(t *testing.T) {
	o, err := Parse(`{"name": "Root", "children": [{"name": ""}, {"name": "Kept"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(o.Nodes))
	}
	if o.Nodes[1].Label != "Kept" {
		t.Errorf("expected surviving child %q, got %q", "Kept", o.Nodes[1].Label)
	}
}

func TestParse_DeterministicIDs(t *testing.T) {
	o1, err := Parse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o2, err := Parse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range o1.Nodes {
		if o1.Nodes[i].ID != o2.Nodes[i].ID {
			t.Errorf("node %d: IDs differ across parses: %q vs %q", i, o1.Nodes[i].ID, o2.Nodes[i].ID)
		}
	}
}

func TestParse_DuplicateSiblingLabels(t *testing.T) {
	o, err := Parse(`{"name": "Root", "children": [{"name": "Twin"}, {"name": "Twin"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(o.Nodes))
	}
	if o.Nodes[1].ID == o.Nodes[2].ID {
		t.Error("expected duplicate sibling labels to get distinct IDs")
	}
	if err := o.Validate(); err != nil {
		t.Errorf("expected valid outline, got %v", err)
	}
}

func TestPath_RootToLeaf(t *testing.T) {
	o, err := Parse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var leaf *Node
	for i := range o.Nodes {
		if o.Nodes[i].Label == "Scheduling" {
			leaf = &o.Nodes[i]
		}
	}
	if leaf == nil {
		t.Fatal("expected to find Scheduling node")
	}

	path := o.Path(leaf.ID)
	want := []string{"Operating Systems", "Processes", "Scheduling"}
	if len(path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d]: expected %q, got %q", i, want[i], path[i])
		}
	}
}

func TestPath_UnknownNode(t *testing.T) {
	o, _ := Parse(sampleResponse)
	if p := o.Path("nope"); p != nil {
		t.Errorf("expected nil path for unknown node, got %v", p)
	}
}

func TestValidate_RejectsDanglingParent(t *testing.T) {
	o := &Outline{Nodes: []Node{
		{ID: "a", Label: "Root", Depth: 0},
		{ID: "b", Label: "Orphan", Depth: 1, ParentID: "missing"},
	}}
	if err := o.Validate(); err == nil {
		t.Error("expected validation error for dangling parent")
	}
}

func TestValidate_RejectsWrongDepth(t *testing.T) {
	o := &Outline{Nodes: []Node{
		{ID: "a", Label: "Root", Depth: 0},
		{ID: "b", Label: "Child", Depth: 2, ParentID: "a"},
	}}
	if err := o.Validate(); err == nil {
		t.Error("expected validation error for depth skip")
	}
}

func TestValidate_RejectsEmptyOutline(t *testing.T) {
	o := &Outline{}
	if err := o.Validate(); err == nil {
		t.Error("expected validation error for empty outline")
	}
}

func TestParseError_MessageTruncatesRaw(t *testing.T) {
	long := strings.Repeat("x", 1000)
	perr := &ParseError{Raw: long, Err: errors.New("dummy")}
	if len(perr.Error()) > 300 {
		t.Errorf("expected truncated error message, got %d chars", len(perr.Error()))
	}
}

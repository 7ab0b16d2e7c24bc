package outline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// responseNode is the JSON shape the model is instructed to return:
// a recursive {"name": ..., "children": [...]} object.
type responseNode struct {
	Name     string         `json:"name"`
	Children []responseNode `json:"children"`
}

// ParseError reports a model response that could not be parsed as an
// outline. Raw carries the (truncated) response for display.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable outline response: %v (raw: %s)", e.Err, truncate(e.Raw, 200))
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts a model response into an Outline. It tolerates minor
// formatting drift: markdown code fences are stripped, and if the whole
// response is not valid JSON the first balanced JSON object is used.
func Parse(raw string) (*Outline, error) {
	text := stripCodeBlock(raw)

	var root responseNode
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		obj := firstJSONObject(text)
		if obj == "" {
			return nil, &ParseError{Raw: raw, Err: err}
		}
		if err2 := json.Unmarshal([]byte(obj), &root); err2 != nil {
			return nil, &ParseError{Raw: raw, Err: err2}
		}
	}

	if strings.TrimSpace(root.Name) == "" {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("outline has no root topic")}
	}

	o := &Outline{}
	rootNode := Node{
		ID:    nodeID("", 0, root.Name),
		Label: strings.TrimSpace(root.Name),
		Depth: 0,
	}
	o.Nodes = append(o.Nodes, rootNode)
	appendChildren(o, rootNode, root.Children)

	return o, nil
}

func appendChildren(o *Outline, parent Node, children []responseNode) {
	ordinal := 0
	for _, child := range children {
		label := strings.TrimSpace(child.Name)
		if label == "" {
			continue
		}
		n := Node{
			ID:       nodeID(parent.ID, ordinal, label),
			Label:    label,
			Depth:    parent.Depth + 1,
			ParentID: parent.ID,
		}
		ordinal++
		o.Nodes = append(o.Nodes, n)
		appendChildren(o, n, child.Children)
	}
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// firstJSONObject scans for the first balanced {...} in the text.
func firstJSONObject(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			if start != -1 {
				inString = !inString
			}
		case '{':
			if !inString {
				if start == -1 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

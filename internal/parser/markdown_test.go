package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsOpenSections(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}

	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}

	wantHeadings := []struct {
		heading string
		level   int
	}{
		{"Title", 1},
		{"Section A", 2},
		{"Subsection A1", 3},
		{"Section B", 2},
	}
	for i, w := range wantHeadings {
		if doc.Sections[i].Heading != w.heading {
			t.Errorf("section[%d]: expected heading %q, got %q", i, w.heading, doc.Sections[i].Heading)
		}
		if doc.Sections[i].Level != w.level {
			t.Errorf("section[%d]: expected level %d, got %d", i, w.level, doc.Sections[i].Level)
		}
	}

	if !strings.Contains(doc.Sections[0].Text, "Intro text.") {
		t.Errorf("expected title section text to contain %q, got %q", "Intro text.", doc.Sections[0].Text)
	}
	if !strings.Contains(doc.Sections[1].Text, "Section A content.") {
		t.Errorf("expected section A text to contain its content, got %q", doc.Sections[1].Text)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No headings: all text should be collected into a single section.
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section for headingless markdown, got %d", len(doc.Sections))
	}

	text := doc.Sections[0].Text
	if !strings.Contains(text, "Just some plain text.") {
		t.Errorf("expected text to contain first paragraph, got %q", text)
	}
	if !strings.Contains(text, "Another paragraph here.") {
		t.Errorf("expected text to contain second paragraph, got %q", text)
	}
}

func TestMarkdownParser_MixedContentWithCodeBlocks(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\nList of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}

	endpoints := doc.Sections[1]
	if endpoints.Heading != "Endpoints" {
		t.Errorf("expected heading %q, got %q", "Endpoints", endpoints.Heading)
	}
	if !strings.Contains(endpoints.Text, "GET /api/users") {
		t.Errorf("expected code block content in text, got %q", endpoints.Text)
	}
	if !strings.Contains(endpoints.Text, "More text after code.") {
		t.Errorf("expected post-code text, got %q", endpoints.Text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}

func TestMarkdownParser_PlainTextPreservesOrder(t *testing.T) {
	input := "# One\n\nfirst\n\n# Two\n\nsecond\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "order.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := doc.PlainText()
	if strings.Index(text, "first") > strings.Index(text, "second") {
		t.Errorf("expected source order preserved in plain text, got %q", text)
	}
}

func TestForFile_UnsupportedExtension(t *testing.T) {
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
	if !IsSupportedExtension("syllabus.pdf") {
		t.Error("expected .pdf to be supported")
	}
}

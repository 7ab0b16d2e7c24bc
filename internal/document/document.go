package document

import "strings"

// Document is the flattened plain-text extraction of one uploaded input.
type Document struct {
	Title    string    // Document title (from metadata or filename)
	Sections []Section // Extracted regions, in source order
}

// Section is one extracted region of a document.
type Section struct {
	Heading string // Section heading (empty for plain text regions)
	Level   int    // Heading level (0 for plain text regions)
	Text    string // Text content (may be empty for bare headings)
	Page    int    // Source page (0 if N/A)
}

// PlainText concatenates all sections into a single string,
// page and section order preserved.
func (d *Document) PlainText() string {
	var b strings.Builder
	for _, s := range d.Sections {
		if s.Heading != "" {
			b.WriteString(s.Heading)
			b.WriteString("\n")
		}
		if s.Text != "" {
			b.WriteString(s.Text)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// Empty reports whether the document has no extractable content.
func (d *Document) Empty() bool {
	for _, s := range d.Sections {
		if strings.TrimSpace(s.Text) != "" || strings.TrimSpace(s.Heading) != "" {
			return false
		}
	}
	return true
}

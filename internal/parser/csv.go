package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mindmapd/internal/document"
)

// CSVParser handles CSV files.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{
		Title: strings.TrimSuffix(filename, ".csv"),
	}

	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers; render each data row as "header: value" pairs
	// so the model sees labeled fields rather than bare cells.
	headers := records[0]

	var text strings.Builder
	for _, row := range records[1:] {
		for j, cell := range row {
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
			if j < len(row)-1 {
				text.WriteString(", ")
			}
		}
		text.WriteString("\n")
	}

	doc.Sections = append(doc.Sections, document.Section{
		Heading: strings.Join(headers, ", "),
		Text:    strings.TrimSpace(text.String()),
	})

	return doc, nil
}

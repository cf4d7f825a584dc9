package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/docedit/internal/doctree"
)

// CSVImporter handles CSV files. The first row names the columns; every
// following row becomes a paragraph of bold "column:" labels and plain
// values.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := trimExt(filename)
	b := newBuilder()
	if len(records) == 0 {
		return b.result(title), nil
	}

	headers := records[0]
	label := bodyStyle.With(doctree.Bold)
	b.heading(2, title)
	for _, row := range records[1:] {
		l := &runList{}
		for j, cell := range row {
			if j > 0 {
				l.add("; ", bodyStyle)
			}
			if j < len(headers) && headers[j] != "" {
				l.add(headers[j]+": ", label)
			}
			l.add(cell, bodyStyle)
		}
		b.paragraph(l)
	}
	return b.result(title), nil
}

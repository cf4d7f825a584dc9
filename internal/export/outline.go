package export

import (
	"github.com/dgallion1/docedit/internal/doctree"
)

// RunEntry describes one run of a paragraph.
type RunEntry struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

// BlockEntry describes one block of a document.
type BlockEntry struct {
	Index     int        `json:"index"`
	Kind      string     `json:"kind"`
	Runs      []RunEntry `json:"runs,omitempty"`
	Width     int        `json:"width,omitempty"`
	Height    int        `json:"height,omitempty"`
	LineWidth int        `json:"line_width,omitempty"`
	Shapes    int        `json:"shapes,omitempty"`
}

// outlineVisitor builds a JSON-friendly summary of a document.
type outlineVisitor struct {
	entries []BlockEntry
	runs    []RunEntry
}

func (v *outlineVisitor) VisitTextRun(r *doctree.TextRun) error {
	v.runs = append(v.runs, RunEntry{Kind: r.Kind().String(), Text: r.Text()})
	return nil
}

func (v *outlineVisitor) VisitFormattedText(r *doctree.FormattedTextRun) error {
	v.runs = append(v.runs, RunEntry{
		Kind:  r.Kind().String(),
		Text:  r.Text(),
		Style: r.ResolvedStyle().String(),
	})
	return nil
}

func (v *outlineVisitor) VisitParagraph(p *doctree.Paragraph) error {
	v.runs = nil
	for _, r := range p.Runs() {
		if err := r.Accept(v); err != nil {
			return err
		}
	}
	v.entries = append(v.entries, BlockEntry{
		Index: len(v.entries),
		Kind:  p.Kind().String(),
		Runs:  v.runs,
	})
	return nil
}

func (v *outlineVisitor) VisitFigure(f *doctree.Figure) error {
	g := f.Gabarit()
	v.entries = append(v.entries, BlockEntry{
		Index:     len(v.entries),
		Kind:      f.Kind().String(),
		Width:     g.Width,
		Height:    g.Height,
		LineWidth: f.LineWidth(),
		Shapes:    f.Len(),
	})
	return nil
}

// Outline summarizes every block of doc.
func Outline(doc *doctree.Document) []BlockEntry {
	v := &outlineVisitor{}
	_ = doc.Walk(v)
	if v.entries == nil {
		return []BlockEntry{}
	}
	return v.entries
}

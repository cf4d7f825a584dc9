package doctree

import (
	"iter"
	"strings"
)

// Paragraph is an ordered sequence of runs. A paragraph cannot be scaled:
// its gabarit and line-width operations are no-ops.
type Paragraph struct {
	unsized
	runs []Run
}

// NewParagraph returns a paragraph owning runs, in display order.
func NewParagraph(runs ...Run) *Paragraph {
	return &Paragraph{runs: runs}
}

func (p *Paragraph) Kind() Kind { return KindParagraph }
func (p *Paragraph) block()     {}

// Append adds run at the end.
func (p *Paragraph) Append(run Run) {
	p.runs = append(p.runs, run)
}

// InsertAfter places run right after the run identical to after, or at the
// end when after is nil or absent.
func (p *Paragraph) InsertAfter(run, after Run) {
	p.runs = insertAfter(p.runs, run, after)
}

// Len returns the number of runs.
func (p *Paragraph) Len() int { return len(p.runs) }

// Run returns the run at i. It panics if i is out of range.
func (p *Paragraph) Run(i int) Run { return p.runs[i] }

// Runs iterates over the runs in display order.
func (p *Paragraph) Runs() iter.Seq2[int, Run] {
	return func(yield func(int, Run) bool) {
		for i, r := range p.runs {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Text concatenates the text of every run.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.Text())
	}
	return b.String()
}

// Spans returns the resolved spans of every run.
func (p *Paragraph) Spans() []Span {
	spans := make([]Span, len(p.runs))
	for i, r := range p.runs {
		spans[i] = r.Span()
	}
	return spans
}

// SetFont applies f to every formatted run.
func (p *Paragraph) SetFont(f Font) {
	for _, r := range p.runs {
		r.SetFont(f)
	}
}

// CheckSpelling reports whether every run is spelled correctly.
func (p *Paragraph) CheckSpelling(sc SpellChecker) bool {
	for _, r := range p.runs {
		if !r.CheckSpelling(sc) {
			return false
		}
	}
	return true
}

func (p *Paragraph) SaveTo(w DocumentWriter) error {
	return w.WriteParagraph(p.Spans())
}

func (p *Paragraph) RenderTo(wm WindowManager) {
	wm.ShowParagraph(p.Spans())
}

func (p *Paragraph) ExportToPDF(pw PDFWriter) bool {
	return pw.WriteParagraph(p.Spans())
}

func (p *Paragraph) Accept(v Visitor) error {
	return v.VisitParagraph(p)
}

func insertAfter[T comparable](items []T, item, after T) []T {
	var zero T
	if after != zero {
		for i, it := range items {
			if it == after {
				items = append(items, zero)
				copy(items[i+2:], items[i+1:])
				items[i+1] = item
				return items
			}
		}
	}
	return append(items, item)
}

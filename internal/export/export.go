// Package export drives whole documents into sinks through doctree.Visitor.
package export

import (
	"fmt"
	"time"

	"github.com/dgallion1/docedit/internal/doctree"
)

// Sink names used for stats.
const (
	SinkWindow   = "window"
	SinkPDF      = "pdf"
	SinkDocument = "document"
)

// windowVisitor paints each block on a window manager.
type windowVisitor struct {
	wm doctree.WindowManager
}

func (v windowVisitor) VisitTextRun(r *doctree.TextRun) error {
	r.RenderTo(v.wm)
	return nil
}

func (v windowVisitor) VisitFormattedText(r *doctree.FormattedTextRun) error {
	r.RenderTo(v.wm)
	return nil
}

func (v windowVisitor) VisitParagraph(p *doctree.Paragraph) error {
	p.RenderTo(v.wm)
	return nil
}

func (v windowVisitor) VisitFigure(f *doctree.Figure) error {
	f.RenderTo(v.wm)
	return nil
}

// ToWindow paints every block of doc, in order.
func ToWindow(doc *doctree.Document, wm doctree.WindowManager, stats *Stats) {
	start := time.Now()
	_ = doc.Walk(windowVisitor{wm: wm})
	stats.Record(SinkWindow, time.Since(start))
}

// PDFReport lists the blocks a PDF writer refused. Retrying or aborting is
// the caller's decision.
type PDFReport struct {
	Exported int   `json:"exported"`
	Failed   []int `json:"failed"`
}

// OK reports whether every block was exported.
func (r PDFReport) OK() bool { return len(r.Failed) == 0 }

type pdfVisitor struct {
	pw     doctree.PDFWriter
	index  int
	report *PDFReport
}

func (v *pdfVisitor) record(ok bool) error {
	if ok {
		v.report.Exported++
	} else {
		v.report.Failed = append(v.report.Failed, v.index)
	}
	v.index++
	return nil
}

func (v *pdfVisitor) VisitTextRun(r *doctree.TextRun) error {
	return v.record(r.ExportToPDF(v.pw))
}

func (v *pdfVisitor) VisitFormattedText(r *doctree.FormattedTextRun) error {
	return v.record(r.ExportToPDF(v.pw))
}

func (v *pdfVisitor) VisitParagraph(p *doctree.Paragraph) error {
	return v.record(p.ExportToPDF(v.pw))
}

func (v *pdfVisitor) VisitFigure(f *doctree.Figure) error {
	return v.record(f.ExportToPDF(v.pw))
}

// ToPDF exports every block and reports per-block failures. A failed block
// does not stop the export.
func ToPDF(doc *doctree.Document, pw doctree.PDFWriter, stats *Stats) PDFReport {
	start := time.Now()
	report := PDFReport{Failed: []int{}}
	_ = doc.Walk(&pdfVisitor{pw: pw, report: &report})
	stats.Record(SinkPDF, time.Since(start))
	return report
}

type saveVisitor struct {
	w     doctree.DocumentWriter
	index int
}

func (v *saveVisitor) wrap(err error) error {
	defer func() { v.index++ }()
	if err != nil {
		return fmt.Errorf("save block %d: %w", v.index, err)
	}
	return nil
}

func (v *saveVisitor) VisitTextRun(r *doctree.TextRun) error {
	return v.wrap(r.SaveTo(v.w))
}

func (v *saveVisitor) VisitFormattedText(r *doctree.FormattedTextRun) error {
	return v.wrap(r.SaveTo(v.w))
}

func (v *saveVisitor) VisitParagraph(p *doctree.Paragraph) error {
	return v.wrap(p.SaveTo(v.w))
}

func (v *saveVisitor) VisitFigure(f *doctree.Figure) error {
	return v.wrap(f.SaveTo(v.w))
}

// Save writes every block to w and stops at the first writer error.
func Save(doc *doctree.Document, w doctree.DocumentWriter, stats *Stats) error {
	start := time.Now()
	err := doc.Walk(&saveVisitor{w: w})
	stats.Record(SinkDocument, time.Since(start))
	return err
}

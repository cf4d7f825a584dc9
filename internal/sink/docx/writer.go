// Package docx saves documents as Word files through go-docx.
package docx

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/sink/screen"
	"github.com/fumiama/go-docx"
)

// Figures are rasterized no wider than this many pixels before embedding.
const maxFigureWidth = 1200

// Writer implements doctree.DocumentWriter on top of an in-memory docx.
type Writer struct {
	doc *docx.Docx
	log *slog.Logger
}

// New returns a writer holding an empty document with the default theme.
func New(log *slog.Logger) *Writer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{doc: docx.New().WithDefaultTheme(), log: log}
}

// WriteParagraph appends a paragraph with one run per span.
func (w *Writer) WriteParagraph(spans []doctree.Span) error {
	p := w.doc.AddParagraph()
	for _, sp := range spans {
		applyStyle(p.AddText(sp.Text), sp.Style)
	}
	return nil
}

func applyStyle(r *docx.Run, s doctree.Style) {
	if s.FontFamily() != "" {
		r.Font(s.FontFamily(), s.FontFamily(), s.FontFamily(), "")
	}
	if s.FontSize() > 0 {
		// Word sizes are in half points.
		r.Size(strconv.Itoa(s.FontSize() * 2))
	}
	if s.Foreground() != doctree.Black {
		r.Color(s.Foreground().Hex())
	}
	if s.Background() != doctree.White {
		r.Shade("clear", "auto", s.Background().Hex())
	}
	if s.Bold() {
		r.Bold()
	}
	if s.Italic() {
		r.Italic()
	}
	if s.Underline() {
		r.Underline("single")
	}
	if s.Strikethrough() {
		r.Strike(true)
	}
}

// WriteFigure embeds the figure as an inline PNG drawing.
func (w *Writer) WriteFigure(f *doctree.Figure) error {
	img, err := screen.RenderFigure(f, maxFigureWidth)
	if err != nil {
		return fmt.Errorf("rasterize figure: %w", err)
	}
	if _, err := w.doc.AddParagraph().AddInlineDrawing(img); err != nil {
		return fmt.Errorf("embed figure: %w", err)
	}
	return nil
}

// WriteTo serializes the document as a .docx archive.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := w.doc.WriteTo(out)
	if err != nil {
		w.log.Error("docx write failed", "error", err)
		return n, fmt.Errorf("write docx: %w", err)
	}
	return n, nil
}

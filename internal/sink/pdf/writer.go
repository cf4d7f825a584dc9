// Package pdf writes documents as paginated PDF files using the standard
// Type 1 fonts.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/geometry"
	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// PageSize is a page's extent in points.
type PageSize struct {
	Width, Height float64
}

var (
	A4     = PageSize{Width: 595.28, Height: 841.89}
	Letter = PageSize{Width: 612, Height: 792}
	Legal  = PageSize{Width: 612, Height: 1008}
)

// ParsePageSize resolves a page size by name.
func ParsePageSize(name string) (PageSize, error) {
	switch strings.ToLower(name) {
	case "a4":
		return A4, nil
	case "letter":
		return Letter, nil
	case "legal":
		return Legal, nil
	}
	return PageSize{}, fmt.Errorf("unknown page size %q", name)
}

const (
	margin      = 56
	lineLeading = 1.2
	blockGap    = 6
)

// ErrClosed is returned when writing after the document was serialized.
var ErrClosed = errors.New("pdf writer closed")

// Writer lays paragraphs and figures out on pages. It implements
// doctree.PDFWriter; a write reports false when the block cannot be
// represented, and the document stays usable.
type Writer struct {
	doc    *fpdf.Fpdf
	size   PageSize
	closed bool
	log    *slog.Logger
}

// New returns an empty writer.
func New(size PageSize, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetCreator("docedit", false)
	return &Writer{doc: doc, size: size, log: log}
}

// Pages reports the number of pages started so far.
func (w *Writer) Pages() int { return w.doc.PageCount() }

func (w *Writer) ensurePage() {
	if w.doc.PageCount() == 0 {
		w.doc.AddPage()
	}
}

func (w *Writer) contentWidth() float64  { return w.size.Width - 2*margin }
func (w *Writer) contentHeight() float64 { return w.size.Height - 2*margin }

type fragment struct {
	text  string // Windows-1252 bytes
	font  face
	style doctree.Style
	width float64
}

type line struct {
	frags  []fragment
	height float64
}

// WriteParagraph lays out spans. It fails without writing anything when a
// span holds characters outside WinAnsiEncoding.
func (w *Writer) WriteParagraph(spans []doctree.Span) bool {
	if w.closed {
		return false
	}
	lines, err := w.layout(spans)
	if err != nil {
		w.log.Warn("paragraph not exported", "error", err)
		return false
	}
	w.ensurePage()
	for _, ln := range lines {
		w.doc.SetX(margin)
		for _, f := range ln.frags {
			w.doc.SetFont(f.font.family, f.font.style, f.font.size)
			w.doc.SetTextColor(rgb(f.style.Foreground()))
			bg := f.style.Background()
			if bg != doctree.White {
				w.doc.SetFillColor(rgb(bg))
			}
			w.doc.CellFormat(f.width, ln.height, f.text, "", 0, "L", bg != doctree.White, 0, "")
		}
		w.doc.Ln(ln.height)
	}
	w.doc.Ln(blockGap)
	return w.ok()
}

func (w *Writer) layout(spans []doctree.Span) ([]line, error) {
	var lines []line
	cur := line{}
	x := 0.0
	right := w.contentWidth()
	encoder := charmap.Windows1252.NewEncoder()
	flush := func() {
		lines = append(lines, cur)
		cur = line{}
		x = 0
	}
	for _, sp := range spans {
		ft := faceOf(sp.Style)
		w.doc.SetFont(ft.family, ft.style, ft.size)
		for _, word := range splitWords(sp.Text) {
			enc, err := encoder.String(word)
			if err != nil {
				return nil, fmt.Errorf("encode %q: %w", word, err)
			}
			wd := w.doc.GetStringWidth(enc)
			if x+wd > right && x > 0 {
				flush()
				enc = strings.TrimLeft(enc, " ")
				wd = w.doc.GetStringWidth(enc)
			}
			cur.frags = append(cur.frags, fragment{text: enc, font: ft, style: sp.Style, width: wd})
			cur.height = math.Max(cur.height, ft.size*lineLeading)
			x += wd
		}
	}
	if len(cur.frags) == 0 && len(lines) == 0 {
		cur.height = defaultSize() * lineLeading
	}
	if len(cur.frags) > 0 || len(lines) == 0 {
		flush()
	}
	return lines, nil
}

// WriteFigure draws the figure's primitives as vector paths, scaled down
// to fit the page. A figure with empty bounds has nothing to draw.
func (w *Writer) WriteFigure(f *doctree.Figure) bool {
	if w.closed {
		return false
	}
	b := f.Bounds()
	if b.Empty() {
		return true
	}
	scale := 1.0
	if b.Width() > w.contentWidth() {
		scale = w.contentWidth() / b.Width()
	}
	if b.Height()*scale > w.contentHeight() {
		scale = w.contentHeight() / b.Height()
	}
	height := b.Height() * scale

	w.ensurePage()
	top := w.doc.GetY()
	if top+height > w.size.Height-margin && top > margin {
		w.doc.AddPage()
		top = w.doc.GetY()
	}
	pt := func(p geometry.Point) (float64, float64) {
		return margin + (p.X-b.Min.X)*scale, top + (p.Y-b.Min.Y)*scale
	}

	s := f.Style()
	fill := s.Background() != doctree.White
	w.doc.SetDrawColor(rgb(s.Foreground()))
	w.doc.SetFillColor(rgb(s.Background()))
	w.doc.SetLineWidth(math.Max(0, float64(f.LineWidth())*scale))
	for p := range f.Primitives() {
		outline := p.Outline()
		if len(outline) < 2 {
			continue
		}
		if p.Closed() && len(outline) > 2 {
			points := make([]fpdf.PointType, len(outline))
			for i, q := range outline {
				points[i].X, points[i].Y = pt(q)
			}
			op := "D"
			if fill {
				op = "FD"
			}
			w.doc.Polygon(points, op)
			continue
		}
		w.doc.MoveTo(pt(outline[0]))
		for _, q := range outline[1:] {
			w.doc.LineTo(pt(q))
		}
		w.doc.DrawPath("D")
	}
	w.doc.SetXY(margin, top+height+blockGap)
	return w.ok()
}

func (w *Writer) ok() bool {
	if err := w.doc.Error(); err != nil {
		w.log.Error("pdf document failed", "error", err)
		return false
	}
	return true
}

// WriteTo serializes the document. The writer accepts no further blocks
// afterwards.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if w.closed {
		return 0, ErrClosed
	}
	w.closed = true
	w.ensurePage()
	var buf bytes.Buffer
	if err := w.doc.Output(&buf); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}
	return buf.WriteTo(out)
}

// splitWords cuts text before each space run so spaces travel with the
// following word.
func splitWords(text string) []string {
	var words []string
	start := 0
	for i := 1; i < len(text); i++ {
		if text[i] == ' ' && text[i-1] != ' ' {
			words = append(words, text[start:i])
			start = i
		}
	}
	if start < len(text) {
		words = append(words, text[start:])
	}
	return words
}

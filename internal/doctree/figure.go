package doctree

import (
	"iter"
	"math"

	"github.com/dgallion1/docedit/internal/geometry"
)

// DefaultLineWidth is the stroke width of a new figure.
const DefaultLineWidth = 1

// Figure is a set of geometric primitives drawn with one shared style.
// The figure owns its primitives.
type Figure struct {
	style     Style
	lineWidth int
	prims     []geometry.Primitive
}

// NewFigure builds a figure, activating the geometry engine through gw
// with key if it is not active yet. Activation failure does not prevent
// construction; it is recorded by the gateway.
func NewFigure(gw *geometry.Gateway, key string, s Style, prims ...geometry.Primitive) *Figure {
	if !gw.ActivationState() {
		gw.EnsureActive(key)
	}
	return &Figure{style: s, lineWidth: DefaultLineWidth, prims: prims}
}

func (f *Figure) Kind() Kind { return KindFigure }
func (f *Figure) block()     {}

// Style returns the style shared by all primitives.
func (f *Figure) Style() Style { return f.style }

func (f *Figure) SetStyle(s Style) { f.style = s }

// Add appends a primitive; the figure takes ownership.
func (f *Figure) Add(p geometry.Primitive) {
	f.prims = append(f.prims, p)
}

// Len returns the number of primitives.
func (f *Figure) Len() int { return len(f.prims) }

// Primitives iterates over the primitives in drawing order.
func (f *Figure) Primitives() iter.Seq[geometry.Primitive] {
	return func(yield func(geometry.Primitive) bool) {
		for _, p := range f.prims {
			if !yield(p) {
				return
			}
		}
	}
}

// Bounds returns the union of the primitives' bounds.
func (f *Figure) Bounds() geometry.Rect {
	return geometry.BoundsOf(f.prims)
}

// Gabarit returns the bounding-box size, rounded up. Excess below
// gabaritEpsilon is scaling noise and does not round up.
func (f *Figure) Gabarit() Gabarit {
	b := f.Bounds()
	return Gabarit{
		Width:  ceilSize(b.Width()),
		Height: ceilSize(b.Height()),
	}
}

const gabaritEpsilon = 1e-9

func ceilSize(v float64) int {
	return int(math.Ceil(v - gabaritEpsilon*max(1, math.Abs(v))))
}

// SetGabarit scales the figure about its top-left corner so its bounding
// box becomes g. An axis with zero extent is left unscaled. Negative sizes
// are rejected.
func (f *Figure) SetGabarit(g Gabarit) bool {
	if g.Width < 0 || g.Height < 0 {
		return false
	}
	b := f.Bounds()
	sx, sy := 1.0, 1.0
	if w := b.Width(); w > 0 {
		sx = float64(g.Width) / w
	}
	if h := b.Height(); h > 0 {
		sy = float64(g.Height) / h
	}
	for _, p := range f.prims {
		p.Scale(sx, sy, b.Min)
	}
	return true
}

func (f *Figure) LineWidth() int { return f.lineWidth }

func (f *Figure) SetLineWidth(width int) { f.lineWidth = width }

// SetFont is a no-op: figures carry no text.
func (f *Figure) SetFont(Font) {}

// CheckSpelling always fails: a figure has no text to accept.
func (f *Figure) CheckSpelling(SpellChecker) bool { return false }

func (f *Figure) SaveTo(w DocumentWriter) error {
	return w.WriteFigure(f)
}

func (f *Figure) RenderTo(wm WindowManager) {
	wm.ShowFigure(f)
}

func (f *Figure) ExportToPDF(pw PDFWriter) bool {
	return pw.WriteFigure(f)
}

func (f *Figure) Accept(v Visitor) error {
	return v.VisitFigure(f)
}

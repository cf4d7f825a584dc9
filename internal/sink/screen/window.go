// Package screen paints documents onto an in-memory canvas, the way an
// on-screen window manager would, without pagination.
package screen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/geometry"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	margin         = 16
	paragraphGap   = 8
	initialHeight  = 256
	lineSpacingPct = 125
)

// Window is a growable canvas implementing doctree.WindowManager.
type Window struct {
	width int
	img   *image.RGBA
	y     int // top of the next line
	faces *faceCache
	log   *slog.Logger
	err   error
}

// New returns a blank window width pixels wide.
func New(width int, log *slog.Logger) (*Window, error) {
	if width <= 2*margin {
		return nil, fmt.Errorf("window width %d too small", width)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Window{
		width: width,
		y:     margin,
		faces: &faceCache{fonts: fonts, faces: make(map[faceKey]font.Face)},
		log:   log,
	}
	w.img = blank(width, initialHeight)
	return w, nil
}

func blank(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// ensure grows the canvas to at least height pixels.
func (w *Window) ensure(height int) {
	cur := w.img.Bounds().Dy()
	if height <= cur {
		return
	}
	next := max(height, 2*cur)
	img := blank(w.width, next)
	draw.Draw(img, w.img.Bounds(), w.img, image.Point{}, draw.Src)
	w.img = img
}

func rgba(c doctree.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ShowParagraph lays spans out left to right, wrapping at word boundaries.
func (w *Window) ShowParagraph(spans []doctree.Span) {
	x := margin
	lineHeight := 0
	right := w.width - margin

	newLine := func() {
		w.y += lineHeight
		x = margin
		lineHeight = 0
	}

	for _, sp := range spans {
		face, err := w.faces.face(sp.Style)
		if err != nil {
			w.fail(err)
			return
		}
		m := face.Metrics()
		h := (m.Height.Ceil() * lineSpacingPct) / 100
		for _, word := range splitWords(sp.Text) {
			adv := font.MeasureString(face, word).Ceil()
			if x+adv > right && x > margin {
				newLine()
				word = strings.TrimLeft(word, " ")
				adv = font.MeasureString(face, word).Ceil()
			}
			lineHeight = max(lineHeight, h)
			w.ensure(w.y + lineHeight + margin)
			w.drawWord(word, x, w.y+m.Ascent.Ceil(), adv, face, sp.Style)
			x += adv
		}
	}
	if lineHeight == 0 {
		face, err := w.faces.face(doctree.DefaultStyle())
		if err != nil {
			w.fail(err)
			return
		}
		lineHeight = face.Metrics().Height.Ceil()
	}
	newLine()
	w.y += paragraphGap
	w.ensure(w.y + margin)
}

func (w *Window) drawWord(word string, x, baseline, adv int, face font.Face, s doctree.Style) {
	m := face.Metrics()
	if s.Background() != doctree.White {
		bg := image.Rect(x, baseline-m.Ascent.Ceil(), x+adv, baseline+m.Descent.Ceil())
		draw.Draw(w.img, bg, image.NewUniform(rgba(s.Background())), image.Point{}, draw.Src)
	}
	fg := image.NewUniform(rgba(s.Foreground()))
	d := &font.Drawer{
		Dst:  w.img,
		Src:  fg,
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(word)

	thickness := max(1, s.FontSize()/14)
	if s.Underline() {
		y := baseline + 2
		draw.Draw(w.img, image.Rect(x, y, x+adv, y+thickness), fg, image.Point{}, draw.Src)
	}
	if s.Strikethrough() {
		y := baseline - m.Ascent.Ceil()/3
		draw.Draw(w.img, image.Rect(x, y, x+adv, y+thickness), fg, image.Point{}, draw.Src)
	}
}

// splitWords cuts text before each space so spaces travel with the
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

// ShowFigure draws the figure's primitives below the current position,
// scaled down when wider than the window.
func (w *Window) ShowFigure(f *doctree.Figure) {
	b := f.Bounds()
	avail := float64(w.width - 2*margin)
	scale := 1.0
	if b.Width() > avail {
		scale = avail / b.Width()
	}
	lw := math.Max(1, float64(f.LineWidth())*scale)
	pad := int(math.Ceil(lw))
	height := int(math.Ceil(b.Height()*scale)) + 2*pad
	w.ensure(w.y + height + margin)

	top := float64(w.y + pad)
	toCanvas := func(p geometry.Point) (float32, float32) {
		return float32(margin + (p.X-b.Min.X)*scale), float32(top + (p.Y-b.Min.Y)*scale)
	}

	bounds := w.img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	style := f.Style()
	for p := range f.Primitives() {
		pts := p.Outline()
		if len(pts) < 2 {
			continue
		}
		if p.Closed() && style.Background() != doctree.White {
			z.Reset(bounds.Dx(), bounds.Dy())
			z.MoveTo(toCanvas(pts[0]))
			for _, pt := range pts[1:] {
				z.LineTo(toCanvas(pt))
			}
			z.ClosePath()
			z.Draw(w.img, bounds, image.NewUniform(rgba(style.Background())), image.Point{})
		}

		z.Reset(bounds.Dx(), bounds.Dy())
		segments := len(pts) - 1
		if p.Closed() {
			segments++
		}
		for i := range segments {
			ax, ay := toCanvas(pts[i])
			bx, by := toCanvas(pts[(i+1)%len(pts)])
			strokeSegment(z, ax, ay, bx, by, float32(lw))
		}
		z.Draw(w.img, bounds, image.NewUniform(rgba(style.Foreground())), image.Point{})
	}
	w.y += height + paragraphGap
	w.ensure(w.y + margin)
}

// strokeSegment adds a width-wide quad covering the segment a-b.
func strokeSegment(z *vector.Rasterizer, ax, ay, bx, by, width float32) {
	dx, dy := bx-ax, by-ay
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}
	nx, ny := -dy/n*width/2, dx/n*width/2
	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

func (w *Window) fail(err error) {
	if w.err == nil {
		w.err = err
	}
	w.log.Error("render failed", "error", err)
}

// Err returns the first rendering error, if any.
func (w *Window) Err() error { return w.err }

// Image returns the painted area of the canvas.
func (w *Window) Image() image.Image {
	h := min(w.y+margin, w.img.Bounds().Dy())
	return w.img.SubImage(image.Rect(0, 0, w.width, h))
}

// WritePNG encodes the painted area as PNG.
func (w *Window) WritePNG(out io.Writer) error {
	if w.err != nil {
		return w.err
	}
	if err := png.Encode(out, w.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// RenderFigure paints a single figure on a canvas just wide enough for it,
// capped at maxWidth, and returns it as PNG.
func RenderFigure(f *doctree.Figure, maxWidth int) ([]byte, error) {
	width := int(math.Ceil(f.Bounds().Width())) + 2*margin + 1
	width = max(min(width, maxWidth), 4*margin)
	w, err := New(width, nil)
	if err != nil {
		return nil, err
	}
	w.ShowFigure(f)
	var buf bytes.Buffer
	if err := w.WritePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

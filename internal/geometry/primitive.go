package geometry

import "math"

// Point is a position in figure space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box.
type Rect struct {
	Min, Max Point
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether r has no area and no extent.
func (r Rect) Empty() bool {
	return r.Min == r.Max
}

// Union returns the smallest box containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Primitive is an opaque shape owned by a figure. Figures only query its
// bounds and scale it; sinks draw its outline.
type Primitive interface {
	Bounds() Rect
	// Scale multiplies every coordinate's distance from origin by sx, sy.
	Scale(sx, sy float64, origin Point)
	// Outline approximates the shape as a polyline.
	Outline() []Point
	// Closed reports whether the outline encloses an area.
	Closed() bool
}

// BoundsOf returns the union of the bounds of prims, or the zero Rect.
func BoundsOf(prims []Primitive) Rect {
	if len(prims) == 0 {
		return Rect{}
	}
	b := prims[0].Bounds()
	for _, p := range prims[1:] {
		b = b.Union(p.Bounds())
	}
	return b
}

func scalePoint(p Point, sx, sy float64, origin Point) Point {
	return Point{
		X: origin.X + (p.X-origin.X)*sx,
		Y: origin.Y + (p.Y-origin.Y)*sy,
	}
}

// Line is a single segment.
type Line struct {
	From, To Point
}

func (l *Line) Bounds() Rect { return boundsOfPoints([]Point{l.From, l.To}) }

func (l *Line) Scale(sx, sy float64, origin Point) {
	l.From = scalePoint(l.From, sx, sy, origin)
	l.To = scalePoint(l.To, sx, sy, origin)
}

func (l *Line) Outline() []Point { return []Point{l.From, l.To} }
func (l *Line) Closed() bool     { return false }

// Polyline is an open or closed chain of segments.
type Polyline struct {
	Points []Point
	Close  bool
}

func (p *Polyline) Bounds() Rect { return boundsOfPoints(p.Points) }

func (p *Polyline) Scale(sx, sy float64, origin Point) {
	for i := range p.Points {
		p.Points[i] = scalePoint(p.Points[i], sx, sy, origin)
	}
}

func (p *Polyline) Outline() []Point {
	out := make([]Point, len(p.Points))
	copy(out, p.Points)
	return out
}

func (p *Polyline) Closed() bool { return p.Close }

// Rectangle is an axis-aligned box shape.
type Rectangle struct {
	Box Rect
}

func (r *Rectangle) Bounds() Rect { return r.Box }

func (r *Rectangle) Scale(sx, sy float64, origin Point) {
	r.Box.Min = scalePoint(r.Box.Min, sx, sy, origin)
	r.Box.Max = scalePoint(r.Box.Max, sx, sy, origin)
}

func (r *Rectangle) Outline() []Point {
	return []Point{
		r.Box.Min,
		{r.Box.Max.X, r.Box.Min.Y},
		r.Box.Max,
		{r.Box.Min.X, r.Box.Max.Y},
	}
}

func (r *Rectangle) Closed() bool { return true }

// ellipseSegments is the number of segments used to approximate an ellipse.
const ellipseSegments = 48

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center Point
	RX, RY float64
}

func (e *Ellipse) Bounds() Rect {
	return Rect{
		Min: Point{e.Center.X - e.RX, e.Center.Y - e.RY},
		Max: Point{e.Center.X + e.RX, e.Center.Y + e.RY},
	}
}

func (e *Ellipse) Scale(sx, sy float64, origin Point) {
	e.Center = scalePoint(e.Center, sx, sy, origin)
	e.RX *= math.Abs(sx)
	e.RY *= math.Abs(sy)
}

func (e *Ellipse) Outline() []Point {
	out := make([]Point, ellipseSegments)
	for i := range out {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		out[i] = Point{e.Center.X + e.RX*math.Cos(a), e.Center.Y + e.RY*math.Sin(a)}
	}
	return out
}

func (e *Ellipse) Closed() bool { return true }

func boundsOfPoints(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Union(Rect{Min: p, Max: p})
	}
	return r
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/export"
	"github.com/dgallion1/docedit/internal/geometry"
	"github.com/dgallion1/docedit/internal/session"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.sessions.List()})
}

type documentResponse struct {
	session.Snapshot
	Outline []export.BlockEntry `json:"outline"`
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	var outline []export.BlockEntry
	sess, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		outline = export.Outline(doc)
		return nil
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Snapshot: sess.Snapshot(), Outline: outline})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Delete(chi.URLParam(r, "sessionID"))
	if errors.Is(err, session.ErrNotFound) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// styleJSON describes a run or figure style. Zero fields take the
// defaults of doctree.DefaultStyle.
type styleJSON struct {
	Name          string `json:"name,omitempty"`
	Foreground    string `json:"foreground,omitempty"`
	Background    string `json:"background,omitempty"`
	FontFamily    string `json:"font_family,omitempty"`
	FontSize      int    `json:"font_size,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
}

func (sj styleJSON) style() (doctree.Style, error) {
	s := doctree.DefaultStyle()
	fg, bg := s.Foreground(), s.Background()
	var err error
	if sj.Foreground != "" {
		if fg, err = doctree.ParseColor(sj.Foreground); err != nil {
			return s, fmt.Errorf("foreground: %w", err)
		}
	}
	if sj.Background != "" {
		if bg, err = doctree.ParseColor(sj.Background); err != nil {
			return s, fmt.Errorf("background: %w", err)
		}
	}
	if sj.FontSize < 0 {
		return s, fmt.Errorf("font_size: must not be negative")
	}
	family, size := s.FontFamily(), s.FontSize()
	if sj.FontFamily != "" {
		family = sj.FontFamily
	}
	if sj.FontSize > 0 {
		size = sj.FontSize
	}
	s = s.WithColors(fg, bg).WithFont(family, size)
	if sj.Name != "" {
		s = s.WithName(sj.Name)
	}
	for _, f := range []struct {
		on   bool
		flag doctree.Decoration
	}{
		{sj.Bold, doctree.Bold},
		{sj.Italic, doctree.Italic},
		{sj.Underline, doctree.Underline},
		{sj.Strikethrough, doctree.Strikethrough},
	} {
		if f.on {
			s = s.With(f.flag)
		}
	}
	return s, nil
}

// runJSON is one run of a new paragraph. A run with no style, inherit or
// decorate is plain text. Decorations apply on top of the inline style.
type runJSON struct {
	Text     string     `json:"text"`
	Style    *styleJSON `json:"style,omitempty"`
	Inherit  string     `json:"inherit,omitempty"`
	Decorate []string   `json:"decorate,omitempty"` // bold, italic, underline, strikethrough
}

var decorators = map[string]func(doctree.Styled) doctree.Decorator{
	"bold":          doctree.WithBold,
	"italic":        doctree.WithItalic,
	"underline":     doctree.WithUnderline,
	"strikethrough": doctree.WithStrikethrough,
}

type addParagraphRequest struct {
	Runs  []runJSON `json:"runs"`
	After *int      `json:"after,omitempty"`
}

func buildRun(rj runJSON, styles map[string]*doctree.StyleRef) (doctree.Run, error) {
	if rj.Style == nil && rj.Inherit == "" && len(rj.Decorate) == 0 {
		return doctree.NewTextRun(rj.Text), nil
	}
	s := doctree.DefaultStyle()
	if rj.Style != nil {
		var err error
		if s, err = rj.Style.style(); err != nil {
			return nil, err
		}
	}
	run := doctree.NewFormattedText(rj.Text, s)
	for _, name := range rj.Decorate {
		wrap, ok := decorators[name]
		if !ok {
			return nil, fmt.Errorf("unknown decoration %q", name)
		}
		run = wrap(run).Materialize()
	}
	if rj.Inherit != "" {
		ref, ok := styles[rj.Inherit]
		if !ok {
			return nil, fmt.Errorf("unknown style %q", rj.Inherit)
		}
		run.InheritFrom(ref)
	}
	return run, nil
}

func (s *Server) handleAddParagraph(w http.ResponseWriter, r *http.Request) {
	var req addParagraphRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Runs) == 0 {
		jsonError(w, "runs must not be empty", http.StatusBadRequest)
		return
	}

	var index int
	_, ok := s.withSession(w, r, func(doc *doctree.Document, styles map[string]*doctree.StyleRef) error {
		after, err := predecessor(doc, req.After)
		if err != nil {
			return err
		}
		p := doctree.NewParagraph()
		for i, rj := range req.Runs {
			run, err := buildRun(rj, styles)
			if err != nil {
				return fmt.Errorf("runs[%d]: %w", i, err)
			}
			p.Append(run)
		}
		doc.Insert(p, after)
		index = indexOf(doc, p)
		return nil
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

type primitiveJSON struct {
	Type   string       `json:"type"` // line, rect, ellipse, polyline
	Points [][2]float64 `json:"points,omitempty"`
	Closed bool         `json:"closed,omitempty"`
	RX     float64      `json:"rx,omitempty"`
	RY     float64      `json:"ry,omitempty"`
}

func point(p [2]float64) geometry.Point { return geometry.Point{X: p[0], Y: p[1]} }

func (pj primitiveJSON) primitive() (geometry.Primitive, error) {
	switch pj.Type {
	case "line":
		if len(pj.Points) != 2 {
			return nil, fmt.Errorf("line needs 2 points, got %d", len(pj.Points))
		}
		return &geometry.Line{From: point(pj.Points[0]), To: point(pj.Points[1])}, nil
	case "rect":
		if len(pj.Points) != 2 {
			return nil, fmt.Errorf("rect needs 2 corner points, got %d", len(pj.Points))
		}
		a, b := point(pj.Points[0]), point(pj.Points[1])
		return &geometry.Rectangle{Box: geometry.Rect{
			Min: geometry.Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
			Max: geometry.Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
		}}, nil
	case "ellipse":
		if len(pj.Points) != 1 {
			return nil, fmt.Errorf("ellipse needs a center point, got %d points", len(pj.Points))
		}
		if pj.RX < 0 || pj.RY < 0 {
			return nil, fmt.Errorf("ellipse radii must not be negative")
		}
		return &geometry.Ellipse{Center: point(pj.Points[0]), RX: pj.RX, RY: pj.RY}, nil
	case "polyline":
		if len(pj.Points) < 2 {
			return nil, fmt.Errorf("polyline needs at least 2 points, got %d", len(pj.Points))
		}
		pts := make([]geometry.Point, len(pj.Points))
		for i, p := range pj.Points {
			pts[i] = point(p)
		}
		return &geometry.Polyline{Points: pts, Close: pj.Closed}, nil
	default:
		return nil, fmt.Errorf("unknown primitive type %q", pj.Type)
	}
}

type addFigureRequest struct {
	Primitives []primitiveJSON  `json:"primitives"`
	Style      *styleJSON       `json:"style,omitempty"`
	LineWidth  int              `json:"line_width,omitempty"`
	Gabarit    *doctree.Gabarit `json:"gabarit,omitempty"`
	After      *int             `json:"after,omitempty"`
}

type addFigureResponse struct {
	Index   int             `json:"index"`
	Gabarit doctree.Gabarit `json:"gabarit"`
	Engine  bool            `json:"engine_active"`
}

func (s *Server) handleAddFigure(w http.ResponseWriter, r *http.Request) {
	var req addFigureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prims := make([]geometry.Primitive, 0, len(req.Primitives))
	for i, pj := range req.Primitives {
		p, err := pj.primitive()
		if err != nil {
			jsonError(w, fmt.Sprintf("primitives[%d]: %v", i, err), http.StatusBadRequest)
			return
		}
		prims = append(prims, p)
	}
	st := doctree.DefaultStyle()
	if req.Style != nil {
		var err error
		if st, err = req.Style.style(); err != nil {
			jsonError(w, "style: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.LineWidth < 0 {
		jsonError(w, "line_width must not be negative", http.StatusBadRequest)
		return
	}

	var resp addFigureResponse
	_, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		after, err := predecessor(doc, req.After)
		if err != nil {
			return err
		}
		f := doctree.NewFigure(s.gateway, s.cfg.GeometryLicenseKey, st, prims...)
		if req.LineWidth > 0 {
			f.SetLineWidth(req.LineWidth)
		}
		if req.Gabarit != nil && !f.SetGabarit(*req.Gabarit) {
			return fmt.Errorf("gabarit: invalid size %dx%d", req.Gabarit.Width, req.Gabarit.Height)
		}
		doc.Insert(f, after)
		resp = addFigureResponse{Index: indexOf(doc, f), Gabarit: f.Gabarit(), Engine: s.gateway.ActivationState()}
		return nil
	})
	if !ok {
		return
	}
	if !resp.Engine {
		s.log.Warn("geometry engine inactive", "error_code", s.gateway.LastErrorCode())
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveBlock(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonError(w, "invalid block index", http.StatusBadRequest)
		return
	}
	_, ok := s.withSession(w, r, func(doc *doctree.Document, _ map[string]*doctree.StyleRef) error {
		if index < 0 || index >= doc.Len() {
			return fmt.Errorf("block %d out of range [0,%d)", index, doc.Len())
		}
		doc.Remove(doc.Block(index))
		return nil
	})
	if !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceStyle restyles every run inheriting from the named style,
// creating the style when it does not exist yet.
func (s *Server) handleReplaceStyle(w http.ResponseWriter, r *http.Request) {
	var req styleJSON
	if !decodeJSON(w, r, &req) {
		return
	}
	name := chi.URLParam(r, "name")
	req.Name = name
	st, err := req.style()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	created := false
	_, ok := s.withSession(w, r, func(_ *doctree.Document, styles map[string]*doctree.StyleRef) error {
		if ref, ok := styles[name]; ok {
			ref.Replace(st)
			return nil
		}
		styles[name] = doctree.NewStyleRef(st)
		created = true
		return nil
	})
	if !ok {
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, map[string]string{"style": st.String()})
}

func indexOf(doc *doctree.Document, b doctree.Block) int {
	for i, blk := range doc.Blocks() {
		if blk == b {
			return i
		}
	}
	return -1
}

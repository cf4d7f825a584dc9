package doctree

// Kind tags the concrete variant of an Item.
type Kind int

const (
	KindTextRun Kind = iota
	KindFormattedText
	KindParagraph
	KindFigure
)

func (k Kind) String() string {
	switch k {
	case KindTextRun:
		return "TextRun"
	case KindFormattedText:
		return "FormattedText"
	case KindParagraph:
		return "Paragraph"
	case KindFigure:
		return "Figure"
	default:
		return "Unknown"
	}
}

// Gabarit is the bounding-box size of an item.
type Gabarit struct {
	Width, Height int
}

// Unsupported is the Gabarit reported by items that have no meaningful size.
var Unsupported = Gabarit{Width: -1, Height: -1}

// Font groups the font attributes SetFont applies.
type Font struct {
	Family string
	Size   int
	Bold   bool
	Italic bool
}

// Item is any node of the document tree.
//
// Operations that make no sense for a variant are no-ops or return a
// sentinel: Gabarit returns Unsupported, LineWidth returns -1, SetGabarit
// returns false. Callers that depend on an effect must check Kind first.
type Item interface {
	Kind() Kind

	SaveTo(w DocumentWriter) error
	RenderTo(wm WindowManager)
	ExportToPDF(pw PDFWriter) bool
	Accept(v Visitor) error

	Gabarit() Gabarit
	SetGabarit(g Gabarit) bool
	LineWidth() int
	SetLineWidth(width int)
	SetFont(f Font)
	CheckSpelling(sc SpellChecker) bool
}

// Block is an Item the Document stores directly: a Paragraph or a Figure.
type Block interface {
	Item
	block()
}

// Visitor receives each concrete item. New export targets are added as new
// Visitor implementations.
type Visitor interface {
	VisitTextRun(r *TextRun) error
	VisitFormattedText(r *FormattedTextRun) error
	VisitParagraph(p *Paragraph) error
	VisitFigure(f *Figure) error
}

// unsized provides the sentinel geometry of non-figure items.
type unsized struct{}

func (unsized) Gabarit() Gabarit        { return Unsupported }
func (unsized) SetGabarit(Gabarit) bool { return false }
func (unsized) LineWidth() int          { return -1 }
func (unsized) SetLineWidth(int)        {}

package doctree

// Decorator is a read-only view of a styled run with one decoration flag
// forced on. It reads through to its immediate child and never changes it.
// Decorators are built on demand for rendering and export and are never
// stored in a Document.
type Decorator struct {
	inner Styled
	flag  Decoration
}

func decorate(s Styled, d Decoration) Decorator {
	return Decorator{inner: s, flag: d}
}

// WithBold wraps s so that its resolved style is bold.
func WithBold(s Styled) Decorator { return decorate(s, Bold) }

// WithItalic wraps s so that its resolved style is italic.
func WithItalic(s Styled) Decorator { return decorate(s, Italic) }

// WithUnderline wraps s so that its resolved style is underlined.
func WithUnderline(s Styled) Decorator { return decorate(s, Underline) }

// WithStrikethrough wraps s so that its resolved style is struck through.
func WithStrikethrough(s Styled) Decorator { return decorate(s, Strikethrough) }

func (d Decorator) Text() string { return d.inner.Text() }

func (d Decorator) ResolvedStyle() Style {
	return d.inner.ResolvedStyle().With(d.flag)
}

func (d Decorator) Span() Span {
	return Span{Text: d.Text(), Style: d.ResolvedStyle(), Formatted: true}
}

func (d Decorator) SaveTo(w DocumentWriter) error {
	return w.WriteParagraph([]Span{d.Span()})
}

func (d Decorator) RenderTo(wm WindowManager) {
	wm.ShowParagraph([]Span{d.Span()})
}

func (d Decorator) ExportToPDF(pw PDFWriter) bool {
	return pw.WriteParagraph([]Span{d.Span()})
}

// Materialize returns a new run carrying the decorated style inline.
func (d Decorator) Materialize() *FormattedTextRun {
	return NewFormattedText(d.Text(), d.ResolvedStyle())
}

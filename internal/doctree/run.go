package doctree

// Run is a span of text inside a Paragraph: a *TextRun or a *FormattedTextRun.
type Run interface {
	Item
	Text() string
	Span() Span
	run()
}

// Styled is anything with text and a resolved style: formatted runs and
// the decorators wrapping them.
type Styled interface {
	Text() string
	ResolvedStyle() Style
}

// TextRun is unformatted text.
type TextRun struct {
	unsized
	text string
}

func NewTextRun(text string) *TextRun {
	return &TextRun{text: text}
}

func (r *TextRun) Kind() Kind             { return KindTextRun }
func (r *TextRun) Text() string           { return r.text }
func (r *TextRun) SetFont(Font)           {}
func (r *TextRun) Accept(v Visitor) error { return v.VisitTextRun(r) }
func (r *TextRun) run()                   {}

// CheckSpelling reports whether sc accepts the run's text.
func (r *TextRun) CheckSpelling(sc SpellChecker) bool {
	return sc.Correct(r.text)
}

func (r *TextRun) Span() Span {
	return Span{Text: r.text, Style: DefaultStyle()}
}

func (r *TextRun) SaveTo(w DocumentWriter) error {
	return w.WriteParagraph([]Span{r.Span()})
}

func (r *TextRun) RenderTo(wm WindowManager) {
	wm.ShowParagraph([]Span{r.Span()})
}

// ExportToPDF reports false: an unformatted run has no standalone PDF form.
func (r *TextRun) ExportToPDF(PDFWriter) bool {
	return false
}

// FormattedTextRun is text with a style. The style comes from an inherited
// StyleRef when one is set, otherwise from the run's own inline style.
type FormattedTextRun struct {
	TextRun
	style   Style
	inherit *StyleRef
}

// NewFormattedText returns a run with an inline style.
func NewFormattedText(text string, s Style) *FormattedTextRun {
	return &FormattedTextRun{TextRun: TextRun{text: text}, style: s}
}

// NewInheritedText returns a run that inherits its style from ref.
func NewInheritedText(text string, ref *StyleRef) *FormattedTextRun {
	return &FormattedTextRun{TextRun: TextRun{text: text}, inherit: ref}
}

func (r *FormattedTextRun) Kind() Kind { return KindFormattedText }

// ResolvedStyle returns the inherited style if present, else the inline one.
// The inherited style wins even over an explicitly set inline style.
func (r *FormattedTextRun) ResolvedStyle() Style {
	if r.inherit != nil {
		return r.inherit.Style()
	}
	return r.style
}

// Style returns the inline style, regardless of inheritance.
func (r *FormattedTextRun) Style() Style { return r.style }

func (r *FormattedTextRun) SetStyle(s Style) { r.style = s }

// InheritFrom makes the run inherit from ref; nil restores the inline style.
func (r *FormattedTextRun) InheritFrom(ref *StyleRef) { r.inherit = ref }

func (r *FormattedTextRun) Inherited() *StyleRef { return r.inherit }

// SetFont replaces the family, size, bold and italic of the inline style.
func (r *FormattedTextRun) SetFont(f Font) {
	s := r.style.WithFont(f.Family, f.Size).Without(Bold | Italic)
	if f.Bold {
		s = s.With(Bold)
	}
	if f.Italic {
		s = s.With(Italic)
	}
	r.style = s
}

func (r *FormattedTextRun) Span() Span {
	return Span{Text: r.text, Style: r.ResolvedStyle(), Formatted: true}
}

func (r *FormattedTextRun) SaveTo(w DocumentWriter) error {
	return w.WriteParagraph([]Span{r.Span()})
}

func (r *FormattedTextRun) RenderTo(wm WindowManager) {
	wm.ShowParagraph([]Span{r.Span()})
}

func (r *FormattedTextRun) ExportToPDF(pw PDFWriter) bool {
	return pw.WriteParagraph([]Span{r.Span()})
}

func (r *FormattedTextRun) Accept(v Visitor) error {
	return v.VisitFormattedText(r)
}

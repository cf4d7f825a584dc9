package doctree

// Span is a run of text with its resolved style, as handed to sinks.
// Formatted is false for plain runs, whose Style is DefaultStyle.
type Span struct {
	Text      string
	Style     Style
	Formatted bool
}

// DocumentWriter persists items, ODT/DOCX style.
type DocumentWriter interface {
	WriteParagraph(spans []Span) error
	WriteFigure(f *Figure) error
}

// WindowManager paints items on screen without pagination.
type WindowManager interface {
	ShowParagraph(spans []Span)
	ShowFigure(f *Figure)
}

// PDFWriter exports items to a paginated PDF. Pagination is driven by the
// writer as blocks arrive.
type PDFWriter interface {
	WriteParagraph(spans []Span) bool
	WriteFigure(f *Figure) bool
}

// MobileDrawer is reserved for an adaptive phone target. It will be driven
// through a Visitor like the other sinks.
type MobileDrawer interface {
	Visitor
}

// TabletDisplay is reserved for an adaptive tablet target.
type TabletDisplay interface {
	Visitor
}

// SpellChecker reports whether text is spelled correctly.
type SpellChecker interface {
	Correct(text string) bool
}

// SpellCheckerFunc adapts a function to SpellChecker.
type SpellCheckerFunc func(text string) bool

func (f SpellCheckerFunc) Correct(text string) bool { return f(text) }

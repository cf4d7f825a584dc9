package importer

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
)

// Base style for imported body text. Runs carrying exactly this style are
// stored as plain text runs.
var bodyStyle = doctree.DefaultStyle()

const monoFamily = "Courier"

var headingSizes = [...]int{0, 24, 20, 16, 14, 13, 12}

// restyle starts a new base run carrying s. Importers stack decorator views
// on it for nested emphasis.
func restyle(s doctree.Style) doctree.Styled {
	return doctree.NewFormattedText("", s)
}

// builder accumulates blocks and hands out one shared style per heading
// level.
type builder struct {
	doc      *doctree.Document
	headings map[int]*doctree.StyleRef
}

func newBuilder() *builder {
	return &builder{doc: doctree.NewDocument(), headings: make(map[int]*doctree.StyleRef)}
}

func (b *builder) headingRef(level int) *doctree.StyleRef {
	level = min(max(level, 1), len(headingSizes)-1)
	ref, ok := b.headings[level]
	if !ok {
		s := bodyStyle.
			WithName(fmt.Sprintf("heading%d", level)).
			WithFont(bodyStyle.FontFamily(), headingSizes[level]).
			With(doctree.Bold)
		ref = doctree.NewStyleRef(s)
		b.headings[level] = ref
	}
	return ref
}

// heading appends a single-run paragraph inheriting the level's style.
func (b *builder) heading(level int, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.doc.Append(doctree.NewParagraph(doctree.NewInheritedText(text, b.headingRef(level))))
}

// paragraph appends the accumulated runs, if any carry text.
func (b *builder) paragraph(l *runList) {
	runs := l.finish()
	if len(runs) == 0 {
		return
	}
	b.doc.Append(doctree.NewParagraph(runs...))
}

func (b *builder) result(title string) *Result {
	styles := make(map[string]*doctree.StyleRef, len(b.headings))
	for _, ref := range b.headings {
		styles[ref.Style().Name()] = ref
	}
	return &Result{Title: title, Document: b.doc, Styles: styles}
}

// runList collects styled text, merging neighbours that share a style.
type runList struct {
	texts  []string
	styles []doctree.Style
}

func (l *runList) add(text string, s doctree.Style) {
	if text == "" {
		return
	}
	if n := len(l.texts); n > 0 && l.styles[n-1].Equal(s) {
		l.texts[n-1] += text
		return
	}
	l.texts = append(l.texts, text)
	l.styles = append(l.styles, s)
}

func (l *runList) empty() bool {
	for _, t := range l.texts {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}

// finish trims the outer whitespace and converts the list to runs. The
// list is reset.
func (l *runList) finish() []doctree.Run {
	defer func() { l.texts, l.styles = nil, nil }()
	if l.empty() {
		return nil
	}
	l.texts[0] = strings.TrimLeft(l.texts[0], " \t\n")
	last := len(l.texts) - 1
	l.texts[last] = strings.TrimRight(l.texts[last], " \t\n")

	runs := make([]doctree.Run, 0, len(l.texts))
	for i, t := range l.texts {
		if t == "" {
			continue
		}
		if l.styles[i].Equal(bodyStyle) {
			runs = append(runs, doctree.NewTextRun(t))
		} else {
			runs = append(runs, doctree.NewFormattedText(t, l.styles[i]))
		}
	}
	return runs
}

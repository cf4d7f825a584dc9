// Package query searches and bulk-edits a document tree.
package query

import (
	"github.com/dgallion1/docedit/internal/doctree"
)

// TextPredicate selects runs by their text.
type TextPredicate func(text string) bool

// StylePredicate selects runs by their resolved style.
type StylePredicate func(s doctree.Style) bool

// formattedRuns yields every formatted run of every paragraph, in document
// order, with its block and run indexes. Plain runs and figures are skipped.
func formattedRuns(doc *doctree.Document, yield func(block, run int, r *doctree.FormattedTextRun)) {
	for bi, b := range doc.Blocks() {
		p, ok := b.(*doctree.Paragraph)
		if !ok {
			continue
		}
		for ri, r := range p.Runs() {
			if ft, ok := r.(*doctree.FormattedTextRun); ok {
				yield(bi, ri, ft)
			}
		}
	}
}

// FindTextMatching returns the formatted runs whose text satisfies text and,
// when style is non-nil, whose resolved style satisfies style. Plain runs
// are never returned. Results follow document order.
func FindTextMatching(doc *doctree.Document, text TextPredicate, style StylePredicate) []*doctree.FormattedTextRun {
	var out []*doctree.FormattedTextRun
	for _, m := range FindMatches(doc, text, style) {
		out = append(out, m.Item)
	}
	return out
}

// Match locates a run selected by FindMatches.
type Match struct {
	Block int    `json:"block"`
	Run   int    `json:"run"`
	Text  string `json:"text"`
	Style string `json:"style"`

	Item *doctree.FormattedTextRun `json:"-"`
}

// FindMatches is FindTextMatching with the position of every run.
func FindMatches(doc *doctree.Document, text TextPredicate, style StylePredicate) []Match {
	var out []Match
	formattedRuns(doc, func(bi, ri int, r *doctree.FormattedTextRun) {
		if !text(r.Text()) {
			return
		}
		resolved := r.ResolvedStyle()
		if style != nil && !style(resolved) {
			return
		}
		out = append(out, Match{Block: bi, Run: ri, Text: r.Text(), Style: resolved.String(), Item: r})
	})
	return out
}

// Misspelling locates a run the spell checker rejected.
type Misspelling struct {
	Block   int      `json:"block"`
	Run     int      `json:"run"`
	Text    string   `json:"text"`
	Unknown []string `json:"unknown,omitempty"`

	Item *doctree.FormattedTextRun `json:"-"`
}

// WordLister is implemented by checkers that can name the words they reject.
type WordLister interface {
	Unknown(text string) []string
}

// CheckSpelling reports every formatted run sc rejects. The document is
// not modified and traversal is never interrupted.
func CheckSpelling(doc *doctree.Document, sc doctree.SpellChecker) []Misspelling {
	var out []Misspelling
	formattedRuns(doc, func(bi, ri int, r *doctree.FormattedTextRun) {
		if r.CheckSpelling(sc) {
			return
		}
		m := Misspelling{Block: bi, Run: ri, Text: r.Text(), Item: r}
		if wl, ok := sc.(WordLister); ok {
			m.Unknown = wl.Unknown(r.Text())
		}
		out = append(out, m)
	})
	return out
}

// RaiseLineWidth sets the line width of every figure thinner than minimum
// to minimum and returns how many figures changed. Paragraphs are untouched.
func RaiseLineWidth(doc *doctree.Document, minimum int) int {
	changed := 0
	for _, b := range doc.Blocks() {
		f, ok := b.(*doctree.Figure)
		if !ok {
			continue
		}
		if f.LineWidth() < minimum {
			f.SetLineWidth(minimum)
			changed++
		}
	}
	return changed
}

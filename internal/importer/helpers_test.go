package importer

import (
	"testing"

	"github.com/dgallion1/docedit/internal/doctree"
)

func texts(t *testing.T, doc *doctree.Document) []string {
	t.Helper()
	var out []string
	for i, b := range doc.Blocks() {
		p, ok := b.(*doctree.Paragraph)
		if !ok {
			t.Fatalf("block %d: expected paragraph, got %s", i, b.Kind())
		}
		out = append(out, p.Text())
	}
	return out
}

func paragraph(t *testing.T, doc *doctree.Document, i int) *doctree.Paragraph {
	t.Helper()
	if i >= doc.Len() {
		t.Fatalf("expected at least %d blocks, got %d", i+1, doc.Len())
	}
	p, ok := doc.Block(i).(*doctree.Paragraph)
	if !ok {
		t.Fatalf("block %d: expected paragraph", i)
	}
	return p
}

func formatted(t *testing.T, p *doctree.Paragraph, i int) *doctree.FormattedTextRun {
	t.Helper()
	if i >= p.Len() {
		t.Fatalf("expected at least %d runs, got %d", i+1, p.Len())
	}
	r, ok := p.Run(i).(*doctree.FormattedTextRun)
	if !ok {
		t.Fatalf("run %d (%q): expected formatted text, got %s", i, p.Run(i).Text(), p.Run(i).Kind())
	}
	return r
}

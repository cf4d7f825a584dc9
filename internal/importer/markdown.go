package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown files using goldmark. Emphasis,
// strikethrough, code spans and links become formatted runs.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
	doc := md.Parser().Parse(text.NewReader(src))

	b := newBuilder()
	w := &mdWalker{src: src, b: b}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, "")
	}
	return b.result(trimExt(filename)), nil
}

type mdWalker struct {
	src []byte
	b   *builder
}

// block appends the paragraphs for one block node. prefix marks list items.
func (w *mdWalker) block(n ast.Node, prefix string) {
	switch node := n.(type) {
	case *ast.Heading:
		l := &runList{}
		w.inlines(node, restyle(bodyStyle), l)
		w.b.heading(node.Level, strings.Join(l.texts, ""))
	case *ast.Paragraph, *ast.TextBlock:
		l := &runList{}
		l.add(prefix, bodyStyle)
		w.inlines(node, restyle(bodyStyle), l)
		w.b.paragraph(l)
	case *ast.List:
		i := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d. ", i)
				i++
			}
			w.listItem(item, prefix+marker)
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := bodyStyle.WithFont(monoFamily, bodyStyle.FontSize())
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			l := &runList{}
			l.add(strings.TrimRight(string(seg.Value(w.src)), "\n"), code)
			w.b.paragraph(l)
		}
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.block(c, prefix)
		}
	}
}

// listItem renders the first child with the marker and nests the rest.
func (w *mdWalker) listItem(item ast.Node, marker string) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if first {
			w.block(c, marker)
			first = false
			continue
		}
		w.block(c, strings.Repeat(" ", len([]rune(marker))))
	}
}

// inlines adds the text below parent to l. Nested emphasis stacks decorator
// views over s, so "***x***" resolves to bold italic.
func (w *mdWalker) inlines(parent ast.Node, s doctree.Styled, l *runList) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			l.add(string(node.Segment.Value(w.src)), s.ResolvedStyle())
			if node.SoftLineBreak() || node.HardLineBreak() {
				l.add(" ", s.ResolvedStyle())
			}
		case *ast.String:
			l.add(string(node.Value), s.ResolvedStyle())
		case *ast.Emphasis:
			if node.Level >= 2 {
				w.inlines(node, doctree.WithBold(s), l)
			} else {
				w.inlines(node, doctree.WithItalic(s), l)
			}
		case *east.Strikethrough:
			w.inlines(node, doctree.WithStrikethrough(s), l)
		case *ast.CodeSpan:
			rs := s.ResolvedStyle()
			w.inlines(node, restyle(rs.WithFont(monoFamily, rs.FontSize())), l)
		case *ast.Link:
			w.inlines(node, doctree.WithUnderline(s), l)
		case *ast.AutoLink:
			l.add(string(node.Label(w.src)), doctree.WithUnderline(s).ResolvedStyle())
		case *ast.RawHTML, *ast.Image:
		default:
			w.inlines(node, s, l)
		}
	}
}

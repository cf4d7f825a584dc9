package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLImporter handles HTML files. Inline formatting tags and simple color
// styles carry over to the runs.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := trimExt(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}

	b := newBuilder()
	l := &runList{}

	var walk func(n *html.Node, s doctree.Styled)
	walk = func(n *html.Node, s doctree.Styled) {
		switch n.Type {
		case html.TextNode:
			l.add(collapseSpace(n.Data), s.ResolvedStyle())
			return
		case html.ElementNode:
			if level := headingLevel(n.Data); level > 0 {
				b.paragraph(l)
				b.heading(level, collapseSpace(textContent(n)))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "br":
				l.add(" ", s.ResolvedStyle())
				return
			}
			s = inlineStyle(n, s)
			if isBlock(n.Data) {
				b.paragraph(l)
				defer b.paragraph(l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, s)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body, restyle(bodyStyle))
	} else {
		walk(doc, restyle(bodyStyle))
	}
	b.paragraph(l)

	return b.result(title), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "td", "th", "tr", "blockquote", "pre", "section", "article", "dd", "dt":
		return true
	}
	return false
}

// inlineStyle applies the formatting implied by an element to s.
// Decorations wrap s; font and color changes start a new base run.
func inlineStyle(n *html.Node, s doctree.Styled) doctree.Styled {
	switch n.Data {
	case "b", "strong":
		s = doctree.WithBold(s)
	case "i", "em", "cite":
		s = doctree.WithItalic(s)
	case "u", "ins", "a":
		s = doctree.WithUnderline(s)
	case "s", "strike", "del":
		s = doctree.WithStrikethrough(s)
	}

	rs := s.ResolvedStyle()
	changed := false
	switch n.Data {
	case "code", "tt", "kbd", "pre":
		rs, changed = rs.WithFont(monoFamily, rs.FontSize()), true
	case "font":
		if c, ok := parseColor(attr(n, "color")); ok {
			rs, changed = rs.WithColors(c, rs.Background()), true
		}
	}
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		c, ok := parseColor(value)
		if !ok {
			continue
		}
		switch strings.TrimSpace(strings.ToLower(prop)) {
		case "color":
			rs, changed = rs.WithColors(c, rs.Background()), true
		case "background-color", "background":
			rs, changed = rs.WithColors(rs.Foreground(), c), true
		}
	}
	if !changed {
		return s
	}
	return restyle(rs)
}

func parseColor(v string) (doctree.Color, bool) {
	c, err := doctree.ParseColor(v)
	return c, err == nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collapseSpace folds whitespace runs to single spaces, keeping a leading
// and trailing space if present.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

package importer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXImporter handles .docx files. Heading paragraph styles map to the
// shared heading styles; run properties map to formatted runs.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*Result, error) {
	// go-docx needs a ReaderAt and size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newBuilder()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			b.heading(level, para.String())
			continue
		}
		l := &runList{}
		for _, child := range para.Children {
			run, ok := child.(*docx.Run)
			if !ok {
				continue
			}
			l.add(docxRunText(run), docxRunStyle(run.RunProperties))
		}
		b.paragraph(l)
	}

	return b.result(trimExt(filename)), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

func docxRunText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		switch t := rc.(type) {
		case *docx.Text:
			buf.WriteString(t.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		}
	}
	return buf.String()
}

func docxRunStyle(props *docx.RunProperties) doctree.Style {
	s := bodyStyle
	if props == nil {
		return s
	}
	if props.Color != nil {
		if c, ok := parseColor(props.Color.Val); ok {
			s = s.WithColors(c, s.Background())
		}
	}
	if props.Shade != nil {
		if c, ok := parseColor(props.Shade.Fill); ok {
			s = s.WithColors(s.Foreground(), c)
		}
	}
	family, size := s.FontFamily(), s.FontSize()
	if props.Fonts != nil && props.Fonts.ASCII != "" {
		family = props.Fonts.ASCII
	}
	if props.Size != nil {
		// Half points.
		if hp, err := strconv.Atoi(props.Size.Val); err == nil && hp > 0 {
			size = hp / 2
		}
	}

	run := restyle(s.WithFont(family, size))
	if props.Bold != nil {
		run = doctree.WithBold(run)
	}
	if props.Italic != nil {
		run = doctree.WithItalic(run)
	}
	if props.Underline != nil && props.Underline.Val != "none" {
		run = doctree.WithUnderline(run)
	}
	if props.Strike != nil && props.Strike.Val != "false" && props.Strike.Val != "0" {
		run = doctree.WithStrikethrough(run)
	}
	return run.ResolvedStyle()
}

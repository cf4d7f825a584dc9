package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/geometry"
	pdflib "github.com/ledongthuc/pdf"
)

func readBack(t *testing.T, data []byte) []string {
	t.Helper()
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parse generated pdf: %v", err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		pages = append(pages, text)
	}
	return pages
}

func TestParagraphRoundTrip(t *testing.T) {
	w := New(A4, nil)
	bold := doctree.DefaultStyle().With(doctree.Bold)
	if !w.WriteParagraph([]doctree.Span{
		{Text: "Hello ", Style: doctree.DefaultStyle()},
		{Text: "world", Style: bold, Formatted: true},
	}) {
		t.Fatal("expected paragraph to be written")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	pages := readBack(t, buf.Bytes())
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	for _, want := range []string{"Hello", "world"} {
		if !strings.Contains(pages[0], want) {
			t.Errorf("expected page text to contain %q, got %q", want, pages[0])
		}
	}
	if !bytes.Contains(buf.Bytes(), []byte("/BaseFont /Helvetica-Bold")) {
		t.Error("expected bold font resource")
	}
}

func TestUnencodableTextFails(t *testing.T) {
	w := New(A4, nil)
	if w.WriteParagraph([]doctree.Span{{Text: "日本語", Style: doctree.DefaultStyle()}}) {
		t.Error("expected paragraph outside WinAnsi to fail")
	}
	if !w.WriteParagraph([]doctree.Span{{Text: "café", Style: doctree.DefaultStyle()}}) {
		t.Error("expected Latin-1 text to be written")
	}
}

func TestPagination(t *testing.T) {
	w := New(A4, nil)
	for range 80 {
		w.WriteParagraph([]doctree.Span{{Text: "a line of text", Style: doctree.DefaultStyle()}})
	}
	if w.Pages() < 2 {
		t.Fatalf("expected several pages, got %d", w.Pages())
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if got := len(readBack(t, buf.Bytes())); got != w.Pages() {
		t.Errorf("expected %d pages read back, got %d", w.Pages(), got)
	}
}

func TestFigurePaths(t *testing.T) {
	gw := geometry.NewGateway(geometry.NewPlanar(), nil)
	style := doctree.DefaultStyle().WithColors(doctree.Black, doctree.Color(0x00ff00))
	fig := doctree.NewFigure(gw, "ABCD-1234-EFGH-5678", style,
		&geometry.Rectangle{Box: geometry.Rect{Max: geometry.Point{X: 100, Y: 50}}},
		&geometry.Line{To: geometry.Point{X: 100, Y: 50}},
	)
	w := New(A4, nil)
	w.doc.SetCompression(false)
	if !w.WriteFigure(fig) {
		t.Fatal("expected figure to be written")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	content := buf.String()
	if !strings.Contains(content, "\nB\n") {
		t.Error("expected closed filled path")
	}
	if !strings.Contains(content, "\nS\n") {
		t.Error("expected open stroked path")
	}
	if !strings.Contains(content, "0.000 1.000 0.000 rg") {
		t.Error("expected green fill color")
	}
}

func TestEmptyFigureDrawsNothing(t *testing.T) {
	gw := geometry.NewGateway(geometry.NewPlanar(), nil)
	fig := doctree.NewFigure(gw, "ABCD-1234-EFGH-5678", doctree.DefaultStyle())
	w := New(A4, nil)
	if !w.WriteFigure(fig) {
		t.Fatal("expected empty figure to be accepted")
	}
	if w.Pages() != 0 {
		t.Errorf("expected no page for an empty figure, got %d", w.Pages())
	}
}

func TestDecoratedTextUsesStyledFonts(t *testing.T) {
	w := New(A4, nil)
	w.doc.SetCompression(false)
	mono := doctree.DefaultStyle().WithFont("Courier New", 10).With(doctree.Italic)
	serif := doctree.DefaultStyle().WithFont("Times New Roman", 14).With(doctree.Bold | doctree.Italic)
	if !w.WriteParagraph([]doctree.Span{
		{Text: "code ", Style: mono},
		{Text: "title", Style: serif.With(doctree.Underline)},
	}) {
		t.Fatal("expected paragraph to be written")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"/BaseFont /Courier-Oblique", "/BaseFont /Times-BoldItalic"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected font resource %q", want)
		}
	}
}

func TestWriteAfterClose(t *testing.T) {
	w := New(Letter, nil)
	if _, err := w.WriteTo(new(bytes.Buffer)); err != nil {
		t.Fatal(err)
	}
	if w.WriteParagraph([]doctree.Span{{Text: "late"}}) {
		t.Error("expected write after close to fail")
	}
	if _, err := w.WriteTo(new(bytes.Buffer)); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestEmptyDocumentHasOnePage(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(A4, nil).WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	reader, err := pdflib.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if reader.NumPage() != 1 {
		t.Errorf("expected 1 page, got %d", reader.NumPage())
	}
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		name    string
		want    PageSize
		wantErr bool
	}{
		{"A4", A4, false},
		{"letter", Letter, false},
		{"Legal", Legal, false},
		{"tabloid", PageSize{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePageSize(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestFaceOf(t *testing.T) {
	tests := []struct {
		style doctree.Style
		want  face
	}{
		{doctree.DefaultStyle().WithFont("Arial", 11), face{family: "Helvetica", size: 11}},
		{doctree.DefaultStyle().WithFont("DejaVu Sans Mono", 9).With(doctree.Bold), face{family: "Courier", style: "B", size: 9}},
		{doctree.DefaultStyle().WithFont("Liberation Serif", 12).With(doctree.Italic | doctree.Strikethrough), face{family: "Times", style: "IS", size: 12}},
		{doctree.DefaultStyle().WithFont("Arial", 0).With(doctree.Underline), face{family: "Helvetica", style: "U", size: defaultSize()}},
	}
	for _, tt := range tests {
		if got := faceOf(tt.style); got != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.style, tt.want, got)
		}
	}
}

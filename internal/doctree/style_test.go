package doctree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecorators_ChangeOnlyTheirFlags(t *testing.T) {
	bases := []Style{
		DefaultStyle(),
		NewStyle("heading", 0x112233, 0xeeeeee, "Times", 18, Underline),
		NewStyle("quote", 0x555555, White, "Courier", 10, Bold|Italic|Underline|Strikethrough),
	}
	chains := []struct {
		name  string
		wrap  func(Styled) Styled
		flags Decoration
	}{
		{"bold", func(s Styled) Styled { return WithBold(s) }, Bold},
		{"italic", func(s Styled) Styled { return WithItalic(s) }, Italic},
		{"underline", func(s Styled) Styled { return WithUnderline(s) }, Underline},
		{"strike", func(s Styled) Styled { return WithStrikethrough(s) }, Strikethrough},
		{"bold+italic", func(s Styled) Styled { return WithItalic(WithBold(s)) }, Bold | Italic},
		{"all", func(s Styled) Styled {
			return WithStrikethrough(WithUnderline(WithItalic(WithBold(s))))
		}, Bold | Italic | Underline | Strikethrough},
	}

	for _, base := range bases {
		for _, c := range chains {
			run := NewFormattedText("x", base)
			got := c.wrap(run).ResolvedStyle()
			want := base.With(c.flags)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s on %s: style mismatch (-want +got):\n%s", c.name, base.Name(), diff)
			}
			if got.Decoration() != base.Decoration()|c.flags {
				t.Errorf("%s on %s: expected flags %s, got %s", c.name, base.Name(), base.Decoration()|c.flags, got.Decoration())
			}
			if !run.ResolvedStyle().Equal(base) {
				t.Errorf("%s on %s: wrapped run was modified", c.name, base.Name())
			}
		}
	}
}

func TestDecorators_OrderDoesNotMatterForFlags(t *testing.T) {
	run := NewFormattedText("hello", DefaultStyle())
	a := WithItalic(WithBold(run)).ResolvedStyle()
	b := WithBold(WithItalic(run)).ResolvedStyle()
	if !a.Equal(b) {
		t.Errorf("expected equal styles, got %s and %s", a, b)
	}
	if !a.Bold() || !a.Italic() {
		t.Errorf("expected bold and italic, got %s", a.Decoration())
	}
}

func TestDecorator_ReadsThroughToImmediateChild(t *testing.T) {
	ref := NewStyleRef(DefaultStyle())
	run := NewInheritedText("text", ref)
	d := WithUnderline(run)

	ref.Replace(DefaultStyle().WithFont("Times", 20))
	got := d.ResolvedStyle()
	if got.FontFamily() != "Times" || got.FontSize() != 20 {
		t.Errorf("expected decorator to see the replaced style, got %s", got)
	}
	if d.Text() != "text" {
		t.Errorf("expected text %q, got %q", "text", d.Text())
	}
}

func TestDecorator_Materialize(t *testing.T) {
	run := NewFormattedText("hi", DefaultStyle())
	m := WithBold(run).Materialize()
	if m == run {
		t.Fatal("expected a new run")
	}
	if !m.ResolvedStyle().Bold() {
		t.Error("expected materialized run to be bold")
	}
	if run.ResolvedStyle().Bold() {
		t.Error("expected original run to stay regular")
	}
}

func TestStyle_ValueSemantics(t *testing.T) {
	s := DefaultStyle()
	b := s.With(Bold)
	if s.Bold() {
		t.Error("expected With to return a copy")
	}
	if !b.Bold() {
		t.Error("expected copy to be bold")
	}
	if b.Without(Bold) != s {
		t.Error("expected Without to undo With")
	}
}

func TestDecorationString(t *testing.T) {
	tests := []struct {
		d    Decoration
		want string
	}{
		{0, "none"},
		{Bold, "bold"},
		{Bold | Strikethrough, "bold+strikethrough"},
		{Italic | Underline, "italic+underline"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decoration(%d): expected %q, got %q", tt.d, tt.want, got)
		}
	}
}

func TestColor(t *testing.T) {
	c := Color(0x0a0b0c)
	if c.Hex() != "0a0b0c" {
		t.Errorf("expected hex %q, got %q", "0a0b0c", c.Hex())
	}
	r, g, b := c.RGB()
	if r != 0x0a || g != 0x0b || b != 0x0c {
		t.Errorf("expected 10,11,12, got %d,%d,%d", r, g, b)
	}
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{"#FF8800": 0xff8800, "0a0b0c": 0x0a0b0c, "#abc": 0xaabbcc} {
		got, err := ParseColor(in)
		if err != nil {
			t.Errorf("ParseColor(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseColor(%q): expected %s, got %s", in, want.Hex(), got.Hex())
		}
	}
	for _, in := range []string{"", "red", "#12345", "#gg0000"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q): expected error", in)
		}
	}
}

package doctree

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value, 0xRRGGBB.
type Color uint32

// Common colors.
const (
	Black Color = 0x000000
	White Color = 0xFFFFFF
)

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as six lower-case hex digits, without a leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%06x", uint32(c)&0xFFFFFF)
}

// ParseColor accepts "#rrggbb" or "#rgb", with or without the '#'.
func ParseColor(v string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, fmt.Errorf("invalid color %q", v)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", v)
	}
	return Color(n), nil
}

// Decoration is a set of text decoration flags.
type Decoration uint8

const (
	Bold Decoration = 1 << iota
	Italic
	Underline
	Strikethrough
)

// Has reports whether all flags in d are set.
func (dec Decoration) Has(d Decoration) bool {
	return dec&d == d
}

func (dec Decoration) String() string {
	if dec == 0 {
		return "none"
	}
	var s string
	for _, n := range []struct {
		flag Decoration
		name string
	}{{Bold, "bold"}, {Italic, "italic"}, {Underline, "underline"}, {Strikethrough, "strikethrough"}} {
		if dec.Has(n.flag) {
			if s != "" {
				s += "+"
			}
			s += n.name
		}
	}
	return s
}

// Style describes the appearance of text or a figure. Styles are values:
// every modifier returns a copy and equality is structural.
type Style struct {
	name       string
	foreground Color
	background Color
	fontFamily string
	fontSize   int
	decoration Decoration
}

// NewStyle builds a style.
func NewStyle(name string, fg, bg Color, fontFamily string, fontSize int, dec Decoration) Style {
	return Style{
		name:       name,
		foreground: fg,
		background: bg,
		fontFamily: fontFamily,
		fontSize:   fontSize,
		decoration: dec,
	}
}

// DefaultStyle is black 12pt Helvetica on white.
func DefaultStyle() Style {
	return NewStyle("default", Black, White, "Helvetica", 12, 0)
}

func (s Style) Name() string            { return s.name }
func (s Style) Foreground() Color       { return s.foreground }
func (s Style) Background() Color       { return s.background }
func (s Style) FontFamily() string      { return s.fontFamily }
func (s Style) FontSize() int           { return s.fontSize }
func (s Style) Decoration() Decoration  { return s.decoration }
func (s Style) Bold() bool              { return s.decoration.Has(Bold) }
func (s Style) Italic() bool            { return s.decoration.Has(Italic) }
func (s Style) Underline() bool         { return s.decoration.Has(Underline) }
func (s Style) Strikethrough() bool     { return s.decoration.Has(Strikethrough) }
func (s Style) Equal(o Style) bool      { return s == o }
func (s Style) With(d Decoration) Style { s.decoration |= d; return s }

func (s Style) WithName(name string) Style    { s.name = name; return s }
func (s Style) WithColors(fg, bg Color) Style { s.foreground, s.background = fg, bg; return s }
func (s Style) WithFont(family string, size int) Style {
	s.fontFamily, s.fontSize = family, size
	return s
}

// Without clears the flags in d.
func (s Style) Without(d Decoration) Style {
	s.decoration &^= d
	return s
}

func (s Style) String() string {
	return fmt.Sprintf("%s(%s %dpt #%s/#%s %s)", s.name, s.fontFamily, s.fontSize,
		s.foreground.Hex(), s.background.Hex(), s.decoration)
}

// StyleRef is a shared, replaceable style that runs inherit from. It must
// outlive every run referencing it; replacing its value restyles all of them.
type StyleRef struct {
	style Style
}

func NewStyleRef(s Style) *StyleRef {
	return &StyleRef{style: s}
}

func (r *StyleRef) Style() Style {
	return r.style
}

func (r *StyleRef) Replace(s Style) {
	r.style = s
}

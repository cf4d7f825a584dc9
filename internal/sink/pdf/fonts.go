package pdf

import (
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
)

// face selects one of the standard Type 1 fonts. Underline and strikeout
// ride on the style string.
type face struct {
	family string
	style  string
	size   float64
}

func faceOf(s doctree.Style) face {
	family := strings.ToLower(s.FontFamily())
	ft := face{family: "Helvetica", size: float64(s.FontSize())}
	switch {
	case strings.Contains(family, "courier"), strings.Contains(family, "mono"):
		ft.family = "Courier"
	case strings.Contains(family, "times"), strings.Contains(family, "serif") && !strings.Contains(family, "sans"):
		ft.family = "Times"
	}
	if ft.size <= 0 {
		ft.size = defaultSize()
	}
	var style strings.Builder
	for _, f := range []struct {
		on   bool
		code byte
	}{{s.Bold(), 'B'}, {s.Italic(), 'I'}, {s.Underline(), 'U'}, {s.Strikethrough(), 'S'}} {
		if f.on {
			style.WriteByte(f.code)
		}
	}
	ft.style = style.String()
	return ft
}

func defaultSize() float64 {
	return float64(doctree.DefaultStyle().FontSize())
}

func rgb(c doctree.Color) (int, int, int) {
	r, g, b := c.RGB()
	return int(r), int(g), int(b)
}

package screen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dgallion1/docedit/internal/doctree"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type variant int

const (
	regular variant = iota
	bold
	italic
	boldItalic
	mono
	monoBold
)

var loadFonts = sync.OnceValues(func() (map[variant]*opentype.Font, error) {
	sources := map[variant][]byte{
		regular:    goregular.TTF,
		bold:       gobold.TTF,
		italic:     goitalic.TTF,
		boldItalic: gobolditalic.TTF,
		mono:       gomono.TTF,
		monoBold:   gomonobold.TTF,
	}
	fonts := make(map[variant]*opentype.Font, len(sources))
	for v, data := range sources {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %d: %w", v, err)
		}
		fonts[v] = f
	}
	return fonts, nil
})

func variantFor(s doctree.Style) variant {
	if isMonospace(s.FontFamily()) {
		if s.Bold() {
			return monoBold
		}
		return mono
	}
	switch {
	case s.Bold() && s.Italic():
		return boldItalic
	case s.Bold():
		return bold
	case s.Italic():
		return italic
	}
	return regular
}

func isMonospace(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "courier") || strings.Contains(f, "mono")
}

type faceKey struct {
	v    variant
	size int
}

// faceCache builds font faces on demand.
type faceCache struct {
	fonts map[variant]*opentype.Font
	faces map[faceKey]font.Face
}

func (c *faceCache) face(s doctree.Style) (font.Face, error) {
	size := s.FontSize()
	if size <= 0 {
		size = doctree.DefaultStyle().FontSize()
	}
	key := faceKey{v: variantFor(s), size: size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.fonts[key.v], &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/docedit/internal/doctree"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Contains matches text containing sub.
func Contains(sub string) TextPredicate {
	return func(text string) bool { return strings.Contains(text, sub) }
}

// Equals matches text equal to s.
func Equals(s string) TextPredicate {
	return func(text string) bool { return text == s }
}

// FoldContains matches text containing sub after Unicode normalization and
// case folding, so "STRASSE" finds "straße".
func FoldContains(sub string) TextPredicate {
	want := fold(sub)
	return func(text string) bool { return strings.Contains(fold(text), want) }
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Regexp compiles expr into a predicate.
func Regexp(expr string) (TextPredicate, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return re.MatchString, nil
}

// AnyText matches every text.
func AnyText(string) bool { return true }

// All matches when every predicate matches.
func All(preds ...StylePredicate) StylePredicate {
	return func(s doctree.Style) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(preds ...StylePredicate) StylePredicate {
	return func(s doctree.Style) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

// HasDecoration matches styles carrying every flag in d.
func HasDecoration(d doctree.Decoration) StylePredicate {
	return func(s doctree.Style) bool { return s.Decoration().Has(d) }
}

// FontFamily matches a font family, ignoring case.
func FontFamily(family string) StylePredicate {
	return func(s doctree.Style) bool { return strings.EqualFold(s.FontFamily(), family) }
}

// MinFontSize matches styles of at least size points.
func MinFontSize(size int) StylePredicate {
	return func(s doctree.Style) bool { return s.FontSize() >= size }
}

// StyleQuery is a JSON-friendly style filter. Nil fields match anything.
type StyleQuery struct {
	Name          *string `json:"name,omitempty"`
	FontFamily    *string `json:"font_family,omitempty"`
	MinFontSize   *int    `json:"min_font_size,omitempty"`
	Foreground    *string `json:"foreground,omitempty"`
	Bold          *bool   `json:"bold,omitempty"`
	Italic        *bool   `json:"italic,omitempty"`
	Underline     *bool   `json:"underline,omitempty"`
	Strikethrough *bool   `json:"strikethrough,omitempty"`
}

// Predicate converts q into a StylePredicate, or nil when q sets nothing.
func (q StyleQuery) Predicate() StylePredicate {
	var preds []StylePredicate
	if q.Name != nil {
		name := *q.Name
		preds = append(preds, func(s doctree.Style) bool { return s.Name() == name })
	}
	if q.FontFamily != nil {
		preds = append(preds, FontFamily(*q.FontFamily))
	}
	if q.MinFontSize != nil {
		preds = append(preds, MinFontSize(*q.MinFontSize))
	}
	if q.Foreground != nil {
		hex := strings.ToLower(strings.TrimPrefix(*q.Foreground, "#"))
		preds = append(preds, func(s doctree.Style) bool { return s.Foreground().Hex() == hex })
	}
	for _, f := range []struct {
		want *bool
		flag doctree.Decoration
	}{
		{q.Bold, doctree.Bold},
		{q.Italic, doctree.Italic},
		{q.Underline, doctree.Underline},
		{q.Strikethrough, doctree.Strikethrough},
	} {
		if f.want == nil {
			continue
		}
		want, flag := *f.want, f.flag
		preds = append(preds, func(s doctree.Style) bool { return s.Decoration().Has(flag) == want })
	}
	if len(preds) == 0 {
		return nil
	}
	return All(preds...)
}

// Package spell provides doctree.SpellChecker implementations: a local word
// list and a client for a remote checking service.
package spell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Dictionary accepts text whose every word appears in its word list.
// Lookups are case-insensitive and independent of Unicode normalization
// form. It is safe for concurrent reads once loading is done.
type Dictionary struct {
	words map[string]struct{}
}

// NewDictionary returns a dictionary holding words.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.Add(w)
	}
	return d
}

// LoadDictionary reads one word per line. Blank lines and lines starting
// with '#' are skipped.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return d, nil
}

func fold(word string) string {
	return cases.Fold().String(norm.NFC.String(word))
}

// Add inserts word.
func (d *Dictionary) Add(word string) {
	if word = strings.TrimSpace(word); word != "" {
		d.words[fold(word)] = struct{}{}
	}
}

func (d *Dictionary) Len() int { return len(d.words) }

// Correct reports whether every word of text is known. Tokens without
// letters, such as numbers, are ignored.
func (d *Dictionary) Correct(text string) bool {
	for _, w := range Words(text) {
		if _, ok := d.words[fold(w)]; !ok {
			return false
		}
	}
	return true
}

// Unknown returns the words of text missing from the dictionary, in order.
func (d *Dictionary) Unknown(text string) []string {
	var out []string
	for _, w := range Words(text) {
		if _, ok := d.words[fold(w)]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// Words splits text into words made of letters, marks and inner
// apostrophes or hyphens.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r) && r != '\'' && r != '’' && r != '-'
	})
	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'’-")
		if strings.IndexFunc(f, unicode.IsLetter) < 0 {
			continue
		}
		words = append(words, f)
	}
	return words
}

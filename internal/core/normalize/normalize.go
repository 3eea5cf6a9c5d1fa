// Package normalize folds channel post text into the canonical form the classifier matches against
// Pipeline order
// 1 UTF-8 repair and control rune removal, line breaks survive
// 2 Unicode NFKC, which also unfolds Arabic presentation forms
// 3 Drop format runes, nonspacing marks (harakat) and symbols such as emoji
// 4 Drop the Arabic tatweel
// 5 Fold Arabic-Indic digits to ASCII
// 6 Punctuation other than ' . & becomes a space
// 7 Collapse whitespace per line, drop blank lines
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

// Normalizer is concurrency safe; transformer chains are pooled
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.Predicate(drop)),
			runes.Map(fold),
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

var std = New()

// String normalizes s with the shared Normalizer
func String(s string) string { return std.Normalize(s) }

// Normalize returns the canonical form of s, lines separated by '\n'
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on malformed input, which ToValidUTF8 already removed
		out = s
	}
	return collapse(out)
}

// Lines returns the non-empty normalized lines of s in order
func (n *Normalizer) Lines(s string) []string {
	ns := n.Normalize(s)
	if ns == "" {
		return nil
	}
	return strings.Split(ns, "\n")
}

// drop reports runes removed outright
func drop(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r == tatweel:
		return true
	case unicode.Is(unicode.Cc, r):
		return true
	}
	return unicode.In(r, unicode.Cf, unicode.Mn, unicode.So)
}

// fold maps digits to ASCII and punctuation to spaces
func fold(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r == '\'' || r == '.' || r == '&':
		return r
	case unicode.IsPunct(r) || unicode.In(r, unicode.Sm, unicode.Sk):
		return ' '
	}
	return r
}

// collapse squeezes horizontal whitespace to single spaces inside each line
// and drops lines that end up empty
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for line := range strings.FieldsFuncSeq(s, isLineBreak) {
		first := true
		for w := range strings.FieldsSeq(line) {
			if first {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				first = false
			} else {
				b.WriteByte(' ')
			}
			b.WriteString(w)
		}
	}
	return b.String()
}

func isLineBreak(r rune) bool { return r == '\n' || r == '\r' }

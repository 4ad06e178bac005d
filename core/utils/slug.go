package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases text, keeps letters and digits of any script and joins the
// remaining words with single dashes. The input is NFKC-normalized first, so
// composed and decomposed spellings produce the same slug.
func Slugify(text string) string {
	text = norm.NFKC.String(strings.ToLower(text))

	var b strings.Builder
	dash := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			dash = true
		}
	}
	return b.String()
}

// Slug joins the slugs of every non-empty part with a dash.
func Slug(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "-")
}

var folder = cases.Fold()

// Fold returns the case-folded form of text used for case-insensitive keys.
func Fold(text string) string {
	return folder.String(strings.TrimSpace(text))
}

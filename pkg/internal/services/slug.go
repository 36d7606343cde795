package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify folds accents, lowercases and joins every alphanumeric run with a single hyphen.
func Slugify(in string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, in)
	if err != nil {
		folded = in
	}

	out := strings.ToLower(folded)
	out = slugSeparator.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

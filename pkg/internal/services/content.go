package services

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

const ExcerptThreshold = 160

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// PlainText strips the editor markup so the text can be measured and searched.
func PlainText(content string) string {
	text := markupPattern.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func MakeExcerpt(content string) string {
	text := PlainText(content)
	if len([]rune(text)) > ExcerptThreshold {
		return strings.TrimSpace(string([]rune(text)[:ExcerptThreshold])) + "..."
	}
	return text
}

var (
	detector     lingua.LanguageDetector
	detectorOnce sync.Once
)

func DetectLanguage(content string) string {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})

	text := PlainText(content)
	if len(text) == 0 {
		return "unknown"
	}
	if language, ok := detector.DetectLanguageOf(text); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return "unknown"
}

package services

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	in := "<p>Hello <strong>there</strong></p>\n\n<p>friend &amp; foe</p>"
	if got := PlainText(in); got != "Hello there friend & foe" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestMakeExcerpt(t *testing.T) {
	short := "<p>A short post.</p>"
	if got := MakeExcerpt(short); got != "A short post." {
		t.Errorf("MakeExcerpt(short) = %q", got)
	}

	long := "<p>" + strings.Repeat("word ", 100) + "</p>"
	got := MakeExcerpt(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected a truncated excerpt, got %q", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n > ExcerptThreshold {
		t.Errorf("excerpt body has %d runes, more than %d", n, ExcerptThreshold)
	}
}

func TestDetectLanguageEmpty(t *testing.T) {
	if got := DetectLanguage("<p>   </p>"); got != "unknown" {
		t.Errorf("DetectLanguage(blank) = %q", got)
	}
}

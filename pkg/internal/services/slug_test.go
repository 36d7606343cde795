package services

import (
	"regexp"
	"testing"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Go 1.24 -- released!", "go-1-24-released"},
		{"Crème Brûlée à la carte", "creme-brulee-a-la-carte"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
		{"UPPER_snake_Case", "upper-snake-case"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyIdempotentAndWellFormed(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"Ünïcödé  everywhere",
		"a--b__c  d",
		"  - trailing dashes -  ",
		"日本語 and ascii",
		"42",
	}

	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify is not idempotent for %q: %q then %q", in, once, twice)
		}
		if len(once) > 0 && !slugShape.MatchString(once) {
			t.Errorf("Slugify(%q) = %q has an invalid shape", in, once)
		}
	}
}

package ui

import (
	"testing"

	"github.com/treelab/arbor/pkg/model"
)

func TestTruncateCells(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Alice", 10, "Alice"},
		{"exact", "Alice", 5, "Alice"},
		{"truncated", "Alexandra", 5, "Alex…"},
		{"zero width", "Alice", 0, ""},
		{"wide runes", "日本語の名前", 6, "日本…"},
		{"wide rune boundary", "日本語", 5, "日本…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 5); got != "abcdef" {
		t.Errorf("padRight must not shorten: %q", got)
	}
	if got := padRight("åäö", 5); got != "åäö  " {
		t.Errorf("padRight counts runes, got %q", got)
	}
}

func TestLifeSpan(t *testing.T) {
	tests := []struct {
		name string
		p    model.Person
		want string
	}{
		{"both dates", model.Person{DateOfBirth: "1921-04-03", DateOfDeath: "1999-12-01"}, "1921–1999"},
		{"birth only", model.Person{DateOfBirth: "1950-03-02"}, "b. 1950"},
		{"death only", model.Person{DateOfDeath: "2001-01-01"}, "d. 2001"},
		{"no dates", model.Person{}, ""},
		{"short year", model.Person{DateOfBirth: "44"}, "b. 44"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lifeSpan(&tt.p); got != tt.want {
				t.Errorf("lifeSpan = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenderSymbol(t *testing.T) {
	if got := genderSymbol(model.GenderMale); got != "♂" {
		t.Errorf("male symbol = %q", got)
	}
	if got := genderSymbol(model.GenderFemale); got != "♀" {
		t.Errorf("female symbol = %q", got)
	}
	if got := genderSymbol(model.GenderUnknown); got != "·" {
		t.Errorf("unknown symbol = %q", got)
	}
}

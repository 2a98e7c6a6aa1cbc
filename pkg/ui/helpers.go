package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/treelab/arbor/pkg/model"
)

// truncateCells truncates a string to max visual width (cells), adding suffix
// if needed. Uses go-runewidth so wide characters count correctly.
func truncateCells(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// truncate truncates s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateCells(s, maxWidth, "…")
}

// padRight pads s with spaces on the right to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// lifeSpan formats a person's dates for the node card, e.g. "1921–1999",
// "b. 1950" or "".
func lifeSpan(p *model.Person) string {
	switch {
	case p.DateOfBirth != "" && p.DateOfDeath != "":
		return yearOf(p.DateOfBirth) + "–" + yearOf(p.DateOfDeath)
	case p.DateOfBirth != "":
		return "b. " + yearOf(p.DateOfBirth)
	case p.DateOfDeath != "":
		return "d. " + yearOf(p.DateOfDeath)
	default:
		return ""
	}
}

// yearOf extracts the leading year from an ISO-ish date string; a short or
// odd value passes through untouched.
func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

func genderSymbol(g model.Gender) string {
	switch g {
	case model.GenderMale:
		return "♂"
	case model.GenderFemale:
		return "♀"
	default:
		return "·"
	}
}

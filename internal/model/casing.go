package model

import (
	"strings"
	"unicode"
)

// Apply recases text to the style. Unknown styles return text unchanged.
func (c CaseStyle) Apply(text string) string {
	switch c {
	case CaseUpper:
		return strings.ToUpper(text)
	case CaseLower:
		return strings.ToLower(text)
	case CaseTitle:
		return toTitle(text)
	}
	return text
}

// Matches reports whether text already follows the style. Unknown styles
// always match.
func (c CaseStyle) Matches(text string) bool {
	switch c {
	case CaseUpper:
		return text == strings.ToUpper(text)
	case CaseLower:
		return text == strings.ToLower(text)
	case CaseTitle:
		return isTitle(text)
	}
	return true
}

// IsUpper reports whether text has at least one cased letter and no
// lowercase ones.
func IsUpper(text string) bool {
	cased := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// toTitle uppercases the first letter of every word and lowercases the rest.
// A word is a run of letters.
func toTitle(text string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func isTitle(text string) bool {
	cased := false
	prevLetter := false
	for _, r := range text {
		if !unicode.IsLetter(r) {
			prevLetter = false
			continue
		}
		if prevLetter && (unicode.IsUpper(r) || unicode.IsTitle(r)) {
			return false
		}
		if !prevLetter && unicode.IsLower(r) {
			return false
		}
		cased = true
		prevLetter = true
	}
	return cased
}

// Package textnorm repairs mis-encoded text before any parsing runs.
package textnorm

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type fix struct {
	broken string
	fixed  string
}

// fixes are applied in order, so a sequence must precede any of its prefixes.
// Keys are UTF-8 text that was decoded as windows-1252.
var fixes = []fix{
	{"\u00e2\u20ac\u2122", "'"},   // ’
	{"\u00e2\u20ac\u02dc", "'"},   // ‘
	{"\u00e2\u20ac\u201d", "-"},   // em dash
	{"\u00e2\u20ac\u201c", "-"},   // en dash
	{"\u00e2\u20ac\u0153", "\""},  // “
	{"\u00e2\u20ac\u009d", "\""},  // ”
	{"\u00e2\u20ac\u00a6", "..."}, // ellipsis
	{"\u00e2\u20ac\u00a2", "•"},   // bullet
	{"\u00e2\u20ac\"", "-"},
	{"\u00e2\u20ac", "\""},
	{"\u00c3\u00a9", "é"},
	{"\u00c3\u00a8", "è"},
	{"\u00c3\u00a0", "à"},
	{"\u00c3 ", "à"},
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&#39;", "'"},
	{"&quot;", "\""},
}

// Normalize repairs known mojibake sequences and common HTML entities and
// returns the text in NFC form together with one "Fixed: x -> y" note per
// repaired sequence. Repairs are repeated until nothing changes, so
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) (string, []string) {
	var notes []string
	seen := make(map[string]bool)

	current := text
	for {
		current = norm.NFC.String(current)
		next := current
		for _, f := range fixes {
			if !strings.Contains(next, f.broken) {
				continue
			}
			next = strings.ReplaceAll(next, f.broken, f.fixed)
			if !seen[f.broken] {
				seen[f.broken] = true
				notes = append(notes, fmt.Sprintf("Fixed: %s -> %s", f.broken, f.fixed))
			}
		}
		// every fix shortens the text, so this terminates
		if next == current {
			return current, notes
		}
		current = next
	}
}

// NormalizeField normalizes one value and appends any notes to issues
func NormalizeField(value string, issues *[]string) string {
	out, notes := Normalize(value)
	for _, n := range notes {
		appendUnique(issues, n)
	}
	return out
}

func appendUnique(dst *[]string, s string) {
	for _, existing := range *dst {
		if existing == s {
			return
		}
	}
	*dst = append(*dst, s)
}

package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FixesMojibake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"apostrophe", "Don\u00e2\u20ac\u2122t miss it", "Don't miss it"},
		{"quotes", "\u00e2\u20ac\u0153Free\u00e2\u20ac\u009d shipping", "\"Free\" shipping"},
		{"ellipsis", "Wait for it\u00e2\u20ac\u00a6", "Wait for it..."},
		{"em dash", "Now \u00e2\u20ac\u201d or never", "Now - or never"},
		{"accents", "Caf\u00c3\u00a9 cr\u00c3\u00a8me", "Caf\u00e9 cr\u00e8me"},
		{"entities", "Tom &amp; Jerry&nbsp;&lt;3 &quot;hi&quot; it&#39;s", "Tom & Jerry <3 \"hi\" it's"},
		{"clean text untouched", "Plain ASCII text", "Plain ASCII text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_RecordsSubstitutions(t *testing.T) {
	_, notes := Normalize("It\u00e2\u20ac\u2122s here &amp; it\u00e2\u20ac\u2122s now")

	assert.Equal(t, []string{
		"Fixed: \u00e2\u20ac\u2122 -> '",
		"Fixed: &amp; -> &",
	}, notes)
}

func TestNormalize_NoNotesForCleanText(t *testing.T) {
	_, notes := Normalize("nothing to repair")
	assert.Empty(t, notes)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"&amp;lt;b&amp;gt;",
		"&amp;amp;amp;amp;",
		"â€™â€œâ€â€¦",
		"CafÃ©&nbsp;&nbsp;Ã ",
		"été", // decomposed accents
		"mixed â€™&amp;quot;Ã©&quot;",
	}

	for _, in := range inputs {
		once, _ := Normalize(in)
		twice, notes := Normalize(once)
		assert.Equal(t, once, twice, "input %q", in)
		assert.Empty(t, notes, "second pass should have nothing to fix for %q", in)
	}
}

func TestNormalize_NestedEntitiesResolveFully(t *testing.T) {
	got, _ := Normalize("&amp;lt;p&amp;gt;")
	assert.Equal(t, "<p>", got)
}

func TestNormalize_ComposesNFC(t *testing.T) {
	got, _ := Normalize("é")
	assert.Equal(t, "\u00e9", got)
}

func TestNormalizeField_AppendsUniqueNotes(t *testing.T) {
	var issues []string
	NormalizeField("a &amp; b", &issues)
	NormalizeField("c &amp; d", &issues)

	require.Len(t, issues, 1)
	assert.Equal(t, "Fixed: &amp; -> &", issues[0])
}

package textnorm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// Detection describes how raw bytes were decoded
type Detection struct {
	Charset    string  `json:"charset"`
	Confidence float64 `json:"confidence"`
	Fallback   bool    `json:"fallback"` // undecodable bytes were replaced
}

// Decode converts raw bytes to UTF-8 text using best-effort charset
// detection. It never fails: undecodable input falls back to UTF-8 with
// invalid sequences replaced by U+FFFD.
func Decode(data []byte) (string, Detection) {
	if len(data) == 0 {
		return "", Detection{Charset: "utf-8", Confidence: 1}
	}

	enc, name, certain := charset.DetermineEncoding(data, "")
	det := Detection{Charset: name, Confidence: confidence(name, certain)}

	if name == "utf-8" {
		text := string(data)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "\uFFFD")
			det.Fallback = true
			det.Confidence = 0
		}
		return strings.TrimPrefix(text, "\uFEFF"), det
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return fallback(data), Detection{Charset: "utf-8", Fallback: true}
	}
	return strings.TrimPrefix(string(decoded), "\uFEFF"), det
}

// DecodeString is Decode for callers that only need the text
func DecodeString(data []byte) string {
	text, _ := Decode(data)
	return text
}

func fallback(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

func confidence(name string, certain bool) float64 {
	switch {
	case certain:
		return 1.0
	case name == "utf-8":
		return 0.9
	case name == "windows-1252":
		// the detector's default when nothing else matched
		return 0.5
	default:
		return 0.8
	}
}

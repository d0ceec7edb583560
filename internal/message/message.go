// Package message reads RFC 5322 messages into headers and body parts.
package message

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/emailqa/internal/textnorm"
)

// maxDepth bounds nested multipart structures
const maxDepth = 8

// Message is a parsed email with its first HTML and plain text bodies
type Message struct {
	Headers   map[string]string
	Subject   string
	FromName  string
	FromEmail string
	HTML      string
	Plain     string
}

var fromPattern = regexp.MustCompile(`^(.+?)\s*<(.+?)>`)

var wordDecoder = &mime.WordDecoder{CharsetReader: charset.NewReaderLabel}

// Parse reads a raw, undecoded message. Each body part is decoded by its
// own charset label. Only header syntax errors are returned; body parts
// that cannot be decoded are skipped.
func Parse(raw []byte) (*Message, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(bytes.TrimLeft(raw, "\r\n\t ")))
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}

	m := &Message{Headers: make(map[string]string, len(msg.Header))}
	for key, values := range msg.Header {
		m.Headers[key] = decodeHeader(strings.Join(values, ", "))
	}

	m.Subject = decodeHeader(msg.Header.Get("Subject"))
	m.FromName, m.FromEmail = SplitAddress(decodeHeader(msg.Header.Get("From")))

	m.walk(textHeader(msg.Header), msg.Body, 0)
	return m, nil
}

// SplitAddress splits `Name <addr>` into its parts. A bare value is
// treated as the address.
func SplitAddress(from string) (name, email string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}
	if match := fromPattern.FindStringSubmatch(from); match != nil {
		return strings.Trim(strings.TrimSpace(match[1]), `"'`), strings.TrimSpace(match[2])
	}
	return "", from
}

type header interface {
	Get(key string) string
}

type textHeader mail.Header

func (h textHeader) Get(key string) string { return mail.Header(h).Get(key) }

func (m *Message) walk(h header, body io.Reader, depth int) {
	if depth > maxDepth {
		return
	}

	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		mediaType, params = "text/plain", map[string]string{}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				return
			}
			m.walk(part.Header, part, depth+1)
		}
	}

	if strings.HasPrefix(strings.ToLower(h.Get("Content-Disposition")), "attachment") {
		return
	}
	if mediaType != "text/html" && mediaType != "text/plain" {
		return
	}

	data, err := io.ReadAll(transferDecoder(h.Get("Content-Transfer-Encoding"), body))
	if err != nil && len(data) == 0 {
		return
	}
	text := decodeCharset(data, params["charset"])

	switch {
	case mediaType == "text/html" && m.HTML == "":
		m.HTML = text
	case mediaType == "text/plain" && m.Plain == "":
		m.Plain = text
	}
}

func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func decodeCharset(data []byte, label string) string {
	if label != "" {
		if enc, _ := charset.Lookup(label); enc != nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(out)
			}
		}
	}
	return textnorm.DecodeString(data)
}

func decodeHeader(v string) string {
	decoded, err := wordDecoder.DecodeHeader(v)
	if err != nil {
		decoded = v
	}
	// unencoded 8-bit header bytes
	if !utf8.ValidString(decoded) {
		return textnorm.DecodeString([]byte(decoded))
	}
	return decoded
}

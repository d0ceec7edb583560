// Package parse extracts structured components from rendered emails.
package parse

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/detect"
	"github.com/ppiankov/emailqa/internal/message"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/textnorm"
)

// addressPatterns detect a postal address anywhere in the bodies. One match
// is enough.
var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s+[\w\s]+(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|plaza|pl)\b`),
	regexp.MustCompile(`(?i)(?:p\.?o\.?\s*box|po\s*box)\s+\d+`),
	regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`),
	regexp.MustCompile(`(?i)\b(?:suite|ste|apt)\s+\d+`),
}

// Parser extracts components from HTML or message-format emails
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new parser. A zero logger discards output.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger.With().Str("component", "parse").Logger()}
}

// Parse extracts the components of raw email bytes. Message-format input
// is handed to the MIME reader undecoded so each part is decoded once, by
// its own charset. It never fails; problems are recorded in EncodingIssues.
func (p *Parser) Parse(content []byte) *model.EmailComponents {
	format := detect.Email(string(content))
	c := model.NewEmailComponents(format)

	p.logger.Debug().Str("format", string(format)).Int("bytes", len(content)).Msg("parsing email")

	if format == model.FormatMessage {
		p.parseMessage(content, c)
	} else {
		text, det := textnorm.Decode(content)
		if det.Fallback {
			c.EncodingIssues = append(c.EncodingIssues, fmt.Sprintf("Undecodable bytes replaced while reading as %s", det.Charset))
		}
		c.HTMLBody = text
	}
	return p.finish(c)
}

// ParseString extracts components from already decoded email text
func (p *Parser) ParseString(text string) *model.EmailComponents {
	format := detect.Email(text)
	c := model.NewEmailComponents(format)

	p.logger.Debug().Str("format", string(format)).Int("bytes", len(text)).Msg("parsing email")

	if format == model.FormatMessage {
		p.parseMessage([]byte(text), c)
	} else {
		c.HTMLBody = text
	}
	return p.finish(c)
}

func (p *Parser) finish(c *model.EmailComponents) *model.EmailComponents {
	if c.HTMLBody != "" {
		p.parseHTML(c.HTMLBody, c)
	}

	c.HasPhysicalAddress = hasPhysicalAddress(c.HTMLBody + " " + c.PlainBody)

	c.Subject = textnorm.NormalizeField(c.Subject, &c.EncodingIssues)
	c.FromName = textnorm.NormalizeField(c.FromName, &c.EncodingIssues)
	c.PreviewText = textnorm.NormalizeField(c.PreviewText, &c.EncodingIssues)
	c.PlainBody = textnorm.NormalizeField(c.PlainBody, &c.EncodingIssues)

	p.logger.Debug().
		Int("links", len(c.Links)).
		Int("ctas", len(c.CTAs)).
		Bool("unsubscribe", c.HasUnsubscribe).
		Bool("address", c.HasPhysicalAddress).
		Msg("parsed email")

	return c
}

func (p *Parser) parseMessage(raw []byte, c *model.EmailComponents) {
	msg, err := message.Parse(raw)
	if err != nil {
		p.logger.Warn().Err(err).Msg("message parse failed, reading as html")
		c.EncodingIssues = append(c.EncodingIssues, fmt.Sprintf("Message parsing error: %v", err))
		c.HTMLBody = textnorm.DecodeString(raw)
		return
	}

	c.Headers = msg.Headers
	c.Subject = msg.Subject
	c.FromName = msg.FromName
	c.FromEmail = msg.FromEmail
	c.HTMLBody = msg.HTML
	c.PlainBody = msg.Plain
}

func hasPhysicalAddress(text string) bool {
	for _, re := range addressPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

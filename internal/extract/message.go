package extract

import (
	"github.com/ppiankov/emailqa/internal/message"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/textnorm"
)

// parseMessage seeds subject and sender from the headers, merges CTAs and
// links from the HTML part, and modules and notes from the plain part.
func (e *Extractor) parseMessage(raw []byte, req *model.Requirements) {
	msg, err := message.Parse(raw)
	if err != nil {
		e.logger.Warn().Err(err).Msg("message parse failed, reading as text")
		e.parseText(textnorm.DecodeString(raw), req)
		return
	}

	req.AddSubjectLine(textnorm.NormalizeField(msg.Subject, &req.EncodingIssues))
	req.FromName = textnorm.NormalizeField(msg.FromName, &req.EncodingIssues)
	req.FromEmail = msg.FromEmail

	if msg.HTML != "" {
		part := model.NewRequirements(model.FormatHTML)
		e.parseHTML(msg.HTML, part)
		for _, cta := range part.CTAs {
			if !req.HasCTA(cta.Text) {
				req.CTAs = append(req.CTAs, cta)
			}
		}
		for _, link := range part.Links {
			req.AddLink(link)
		}
		mergeIssues(req, part)
	}

	if msg.Plain != "" {
		part := model.NewRequirements(model.FormatText)
		e.parseText(msg.Plain, part)
		for _, module := range part.ContentModules {
			appendUnique(&req.ContentModules, module)
		}
		req.SpecialNotes = append(req.SpecialNotes, part.SpecialNotes...)
		mergeIssues(req, part)
	}
}

func mergeIssues(dst, src *model.Requirements) {
	for _, issue := range src.EncodingIssues {
		appendUnique(&dst.EncodingIssues, issue)
	}
}

package extract

import "github.com/ppiankov/emailqa/internal/model"

// ApplyCTAStyle returns a copy of req with every CTA text recased to the
// style. The input is left untouched.
func ApplyCTAStyle(req *model.Requirements, style model.CaseStyle) *model.Requirements {
	out := req.Clone()
	for i := range out.CTAs {
		out.CTAs[i].Text = style.Apply(out.CTAs[i].Text)
	}
	return out
}

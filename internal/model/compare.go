package model

// RequirementsCheck compares one email with the copy document it was built from
type RequirementsCheck struct {
	Passed   bool         `json:"passed"`
	Checks   []FieldCheck `json:"checks"`
	Issues   []string     `json:"issues"`
	Warnings []string     `json:"warnings"`
}

// FieldCheck is one expected-versus-actual comparison
type FieldCheck struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Match    bool   `json:"match"`
}

// Add records one comparison
func (r *RequirementsCheck) Add(field, expected, actual string, match bool) {
	r.Checks = append(r.Checks, FieldCheck{Field: field, Expected: expected, Actual: actual, Match: match})
}

// Matched counts the comparisons that matched
func (r *RequirementsCheck) Matched() int {
	n := 0
	for _, c := range r.Checks {
		if c.Match {
			n++
		}
	}
	return n
}

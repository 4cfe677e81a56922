// Package services – ConfirmResolver
//
// Resolves short affirmative replies ("sim", "pode enviar") against the last
// referenced report pointer. The resolver is a fallback path: it only runs
// when the model picked no action, and falls through silently when there is
// no pointer or no report entry for the remembered pet.
package services

import "strings"

// defaultAffirmatives is the fixed set of confirmation phrases, matched
// case-insensitively as substrings.
func defaultAffirmatives() []string {
	return []string{"sim", "pode enviar", "envia", "manda", "ok", "quero sim"}
}

// ConfirmResolver turns an affirmative follow-up into the full text of the
// last referenced report.
type ConfirmResolver struct {
	Refs    *RefStore
	Reports ReportArchive

	affirmatives []string
}

// NewConfirmResolver builds a resolver with the standard affirmative set.
func NewConfirmResolver(refs *RefStore, reports ReportArchive) *ConfirmResolver {
	return &ConfirmResolver{
		Refs:         refs,
		Reports:      reports,
		affirmatives: defaultAffirmatives(),
	}
}

// Resolve reports whether text is an affirmative follow-up that could be
// satisfied. On success it returns the rendered report and clears the
// pointer so a second "sim" does not resend.
func (r *ConfirmResolver) Resolve(userID, text string) (string, bool) {
	if !r.isAffirmative(text) {
		return "", false
	}
	pet, ok := r.Refs.Get(userID)
	if !ok {
		return "", false
	}
	last, ok := r.Reports.Latest(pet)
	if !ok {
		return "", false
	}
	r.Refs.Clear(userID)
	return last.Message + "\n\n(Serviço: " + last.Service + ", " + last.StatusType + ")", true
}

func (r *ConfirmResolver) isAffirmative(text string) bool {
	t := strings.ToLower(text)
	for _, kw := range r.affirmatives {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

package types

import "strings"

// LocalizedText carries the bilingual display pair used across the catalog and
// cart surfaces.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Matches reports whether term equals either language variant, ignoring case.
func (t LocalizedText) Matches(term string) bool {
	return strings.EqualFold(t.En, term) || strings.EqualFold(t.Ar, term)
}

// Contains reports whether either language variant contains term, ignoring case.
func (t LocalizedText) Contains(term string) bool {
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.En), lower) ||
		strings.Contains(strings.ToLower(t.Ar), lower)
}

// IsZero reports whether both variants are empty.
func (t LocalizedText) IsZero() bool {
	return t.En == "" && t.Ar == ""
}

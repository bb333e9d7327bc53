package models

// LocalizedString holds the English and Vietnamese variants of a display string.
type LocalizedString struct {
	EN string `json:"en" validate:"required"`
	VI string `json:"vi" validate:"required"`
}

// Resolve returns the value for the given language code ("en" or "vi"),
// falling back to English and then Vietnamese when the requested variant is empty.
func (s LocalizedString) Resolve(lang string) string {
	if lang == "vi" && s.VI != "" {
		return s.VI
	}
	if s.EN != "" {
		return s.EN
	}
	return s.VI
}

// Matches reports whether label equals either localized variant.
func (s LocalizedString) Matches(label string) bool {
	return label != "" && (label == s.EN || label == s.VI)
}

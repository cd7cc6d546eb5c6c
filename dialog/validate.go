package dialog

import "unicode"

// IsAlphabetic true, если строка непустая и состоит только из букв.
func IsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsNumericDocument true, если строка непустая и состоит только из цифр 0-9.
func IsNumericDocument(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for user-supplied fields.
const (
	maxEmailLen       = 254
	maxDisplayNameLen = 100
	minPasswordLen    = 8
	maxPasswordLen    = 200
	maxPromptLen      = 2_000
	minReferenceLen   = 8
	maxReferenceLen   = 22
)

// validateSignup checks registration inputs and returns the first error found.
func validateSignup(email, password, displayName string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return "Email address is not valid."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if utf8.RuneCountInString(password) > maxPasswordLen {
		return "Password is too long."
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Display name is too long (max 100 characters)."
	}
	return ""
}

// validatePrompt checks a generation or edit prompt.
func validatePrompt(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return "Please enter a prompt."
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "Prompt is too long (max 2,000 characters)."
	}
	return ""
}

// validateReference checks a UPI transaction reference (UTR): digits only,
// at least 8 of them.
func validateReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "Transaction reference is required."
	}
	if len(ref) < minReferenceLen {
		return "Transaction reference must be at least 8 digits."
	}
	if len(ref) > maxReferenceLen {
		return "Transaction reference is too long."
	}
	for _, c := range ref {
		if c < '0' || c > '9' {
			return "Transaction reference must contain only digits."
		}
	}
	return ""
}

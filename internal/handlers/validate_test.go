package handlers

import (
	"strings"
	"testing"
)

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		display  string
		wantErr  bool
	}{
		{"valid", "creator@example.com", "longenough", "Creator", false},
		{"valid no display name", "creator@example.com", "longenough", "", false},
		{"empty email", "", "longenough", "", true},
		{"no at sign", "creatorexample.com", "longenough", "", true},
		{"no domain dot", "creator@localhost", "longenough", "", true},
		{"short password", "creator@example.com", "short", "", true},
		{"long email", strings.Repeat("a", 250) + "@example.com", "longenough", "", true},
		{"long display name", "creator@example.com", "longenough", strings.Repeat("x", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateSignup(tt.email, tt.password, tt.display)
			if (msg != "") != tt.wantErr {
				t.Errorf("got %q, wantErr=%v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidatePrompt(t *testing.T) {
	if msg := validatePrompt("a red fox"); msg != "" {
		t.Errorf("valid prompt rejected: %q", msg)
	}
	if msg := validatePrompt("   "); msg == "" {
		t.Error("blank prompt accepted")
	}
	if msg := validatePrompt(strings.Repeat("x", maxPromptLen+1)); msg == "" {
		t.Error("oversized prompt accepted")
	}
}

func TestValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"valid 8 digits", "12345678", false},
		{"valid 12 digits", "123456789012", false},
		{"valid with whitespace", "  12345678  ", false},
		{"empty", "", true},
		{"too short", "1234567", true},
		{"too long", strings.Repeat("1", 23), true},
		{"letters", "12345abc", true},
		{"spaces inside", "1234 5678", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateReference(tt.ref)
			if (msg != "") != tt.wantErr {
				t.Errorf("got %q, wantErr=%v", msg, tt.wantErr)
			}
		})
	}
}

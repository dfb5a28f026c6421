package ai

import (
	"context"
	"errors"
	"testing"

	"thumbstudio/internal/models"
)

// mockProvider is a Provider stub for registry tests.
type mockProvider struct {
	name    string
	img     *Image
	err     error
	calls   int
	editing bool
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (*Image, error) {
	m.calls++
	return m.img, m.err
}

func (m *mockProvider) EditImage(ctx context.Context, image []byte, contentType, prompt string) (*Image, error) {
	m.calls++
	m.editing = true
	return m.img, m.err
}

func TestNewRegistrySkipsUnconfiguredProviders(t *testing.T) {
	r := NewRegistry("gemini", map[string]ProviderConfig{
		"gemini": {APIKey: "key-1", Model: "m"},
		"openai": {}, // no API key
	})

	if !r.HasProvider("gemini") {
		t.Error("gemini should be available")
	}
	if r.HasProvider("openai") {
		t.Error("openai should not be available without an API key")
	}
	if got := len(r.Available()); got != 1 {
		t.Errorf("available: got %d, want 1", got)
	}
}

func TestRegistryActiveMissing(t *testing.T) {
	r := NewRegistry("gemini", nil)

	if _, err := r.Active(); err == nil {
		t.Error("expected error for unconfigured active provider")
	}
	if _, err := r.GenerateImage(context.Background(), "prompt", models.RatioSquare); err == nil {
		t.Error("GenerateImage should fail without an active provider")
	}
}

func TestRegistrySetActive(t *testing.T) {
	r := NewRegistry("gemini", map[string]ProviderConfig{
		"gemini": {APIKey: "key-1"},
		"openai": {APIKey: "key-2"},
	})

	if err := r.SetActive("openai"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got := r.ActiveName(); got != "openai" {
		t.Errorf("active: got %q", got)
	}

	if err := r.SetActive("claude"); err == nil {
		t.Error("SetActive should reject unknown providers")
	}
}

func TestRegistryDispatchesToActive(t *testing.T) {
	r := NewRegistry("mock", nil)
	mock := &mockProvider{name: "mock", img: &Image{Data: []byte{1}, ContentType: "image/png"}}
	r.Register("mock", mock)

	img, err := r.GenerateImage(context.Background(), "prompt", models.RatioSquare)
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if img.Data[0] != 1 {
		t.Error("wrong payload returned")
	}

	if _, err := r.EditImage(context.Background(), []byte{2}, "image/png", "edit"); err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if !mock.editing || mock.calls != 2 {
		t.Errorf("dispatch: editing=%v calls=%d", mock.editing, mock.calls)
	}
}

func TestRegistryPropagatesProviderError(t *testing.T) {
	wantErr := errors.New("quota exhausted")
	r := NewRegistry("mock", nil)
	r.Register("mock", &mockProvider{name: "mock", err: wantErr})

	if _, err := r.GenerateImage(context.Background(), "prompt", models.RatioSquare); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want provider error", err)
	}
}

func TestCheckPromptWithoutModerator(t *testing.T) {
	r := NewRegistry("gemini", map[string]ProviderConfig{"gemini": {APIKey: "k"}})

	res, err := r.CheckPrompt(context.Background(), "anything")
	if err != nil {
		t.Fatalf("CheckPrompt: %v", err)
	}
	if !res.Safe {
		t.Error("prompts should pass when no moderator is configured")
	}
}

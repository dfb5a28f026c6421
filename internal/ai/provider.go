// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for remote image generation
// providers (Gemini, OpenAI). Each provider implements the Provider
// interface, and the Registry selects the active one by name.
package ai

import (
	"context"
	"fmt"
	"sync"

	"thumbstudio/internal/models"
)

// Image is one encoded raster image returned by a provider.
type Image struct {
	Data        []byte
	ContentType string // e.g. "image/png"
}

// Provider defines the interface that all image providers must implement.
// Each provider handles its own HTTP communication and response parsing.
// Both operations are single remote calls: no retry, no rate limiting —
// transport and service errors propagate to the caller, which owns any
// compensating token refund.
type Provider interface {
	// GenerateImage creates an image from a text prompt at the requested
	// aspect ratio.
	GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (*Image, error)

	// EditImage produces a new image by applying the instruction prompt to
	// an existing encoded image.
	EditImage(ctx context.Context, image []byte, contentType, prompt string) (*Image, error)

	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
	moderator Moderator // may be nil if no moderation API is available
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
// When an OpenAI key is present, its free moderation endpoint is used to
// screen prompts before paid generation calls.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		}
	}

	if cfg, ok := configs["openai"]; ok && cfg.APIKey != "" {
		r.moderator = newOpenAIModerator(cfg.APIKey, cfg.BaseURL)
	}

	return r
}

// GenerateImage calls the active provider's GenerateImage method.
func (r *Registry) GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (*Image, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	return p.GenerateImage(ctx, prompt, ratio)
}

// EditImage calls the active provider's EditImage method.
func (r *Registry) EditImage(ctx context.Context, image []byte, contentType, prompt string) (*Image, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	return p.EditImage(ctx, image, contentType, prompt)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the names of all providers that have valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider in the registry. This allows injecting
// custom providers at runtime (e.g. for testing).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}

// CheckPrompt runs the user prompt through the moderation API before
// generation. Returns Safe=true if the prompt passes or if no moderator is
// configured (graceful degradation — providers still have their own
// built-in safety filters).
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

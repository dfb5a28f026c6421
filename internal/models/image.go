// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AspectRatio is the enumerated image shape requested from the generation
// gateway.
type AspectRatio string

const (
	RatioSquare    AspectRatio = "1:1"
	RatioPortrait  AspectRatio = "9:16"
	RatioLandscape AspectRatio = "16:9"
	RatioThreeFour AspectRatio = "3:4"
	RatioFourThree AspectRatio = "4:3"
)

// AspectRatios lists every supported ratio in display order.
var AspectRatios = []AspectRatio{
	RatioSquare, RatioPortrait, RatioLandscape, RatioThreeFour, RatioFourThree,
}

// Valid reports whether the ratio is one of the supported values.
func (r AspectRatio) Valid() bool {
	switch r {
	case RatioSquare, RatioPortrait, RatioLandscape, RatioThreeFour, RatioFourThree:
		return true
	}
	return false
}

// ParseAspectRatio validates a user-supplied ratio string. The empty string
// defaults to portrait, matching the studio's default selection.
func ParseAspectRatio(s string) (AspectRatio, error) {
	if s == "" {
		return RatioPortrait, nil
	}
	r := AspectRatio(s)
	if !r.Valid() {
		return "", fmt.Errorf("unsupported aspect ratio %q", s)
	}
	return r, nil
}

// ImageSource records how a history entry was produced.
type ImageSource string

const (
	SourceGenerated  ImageSource = "generated"
	SourceAIEdit     ImageSource = "ai-edit"
	SourceManualEdit ImageSource = "manual-edit"
)

// GeneratedImage is one produced image held in the session history.
// Immutable once created; the payload lives only in session memory and is
// never persisted.
type GeneratedImage struct {
	ID          uuid.UUID   `json:"id"`
	Prompt      string      `json:"prompt"`
	Source      ImageSource `json:"source"`
	ContentType string      `json:"content_type"`
	Data        []byte      `json:"-"` // Served via the image endpoints, not inlined in JSON
	CreatedAt   time.Time   `json:"created_at"`
}

// NewGeneratedImage builds a history entry for a freshly produced payload.
func NewGeneratedImage(prompt string, source ImageSource, data []byte, contentType string) *GeneratedImage {
	if contentType == "" {
		contentType = "image/png"
	}
	return &GeneratedImage{
		ID:          uuid.New(),
		Prompt:      prompt,
		Source:      source,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
	}
}

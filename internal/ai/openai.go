// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"thumbstudio/internal/models"
)

// openAIProvider implements the Provider interface using the OpenAI
// Images API (POST /v1/images/generations and /v1/images/edits).
type openAIProvider struct {
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

// sizeForRatio maps the studio aspect ratios onto the sizes the Images API
// accepts. The API only offers square, landscape, and portrait, so 4:3 and
// 3:4 fall back to the nearest shape.
func sizeForRatio(ratio models.AspectRatio) string {
	switch ratio {
	case models.RatioLandscape, models.RatioFourThree:
		return "1536x1024"
	case models.RatioPortrait, models.RatioThreeFour:
		return "1024x1536"
	default:
		return "1024x1024"
	}
}

// GenerateImage creates an image via the generations endpoint. The API
// returns the payload base64-encoded in the first data entry.
func (p *openAIProvider) GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (*Image, error) {
	body := openAIImageRequest{
		Model:  p.config.Model,
		Prompt: prompt,
		N:      1,
		Size:   sizeForRatio(ratio),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	return p.doImage(req)
}

// EditImage edits the given image via the edits endpoint, which takes a
// multipart form with the image file and the instruction prompt.
func (p *openAIProvider) EditImage(ctx context.Context, image []byte, contentType, prompt string) (*Image, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, fmt.Errorf("openai edit form: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return nil, fmt.Errorf("openai edit write image: %w", err)
	}
	if err := mw.WriteField("model", p.config.Model); err != nil {
		return nil, fmt.Errorf("openai edit write model: %w", err)
	}
	if err := mw.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("openai edit write prompt: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("openai edit close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/images/edits", &buf)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	return p.doImage(req)
}

// doImage executes an Images API request and decodes the first returned image.
func (p *openAIProvider) doImage(req *http.Request) (*Image, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result openAIImageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("openai unmarshal: %w", err)
	}

	for _, d := range result.Data {
		if d.B64JSON == "" {
			continue
		}
		imgBytes, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai decode base64: %w", err)
		}
		return &Image{Data: imgBytes, ContentType: "image/png"}, nil
	}

	return nil, fmt.Errorf("openai: no image data in response")
}

// --- OpenAI Images API types ---

type openAIImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type openAIImageData struct {
	B64JSON string `json:"b64_json"`
}

type openAIImageResponse struct {
	Data []openAIImageData `json:"data"`
}

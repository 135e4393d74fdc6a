package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"promptart/internal/domain"
)

// OpenAIOptions configures the OpenAI images backend.
type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// OpenAI generates images through the OpenAI images API and asks for inline
// base64 data so no second download is needed.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI constructs the backend. dall-e-2 is used when no model is given.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrMissingCredentials)
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	client := opts.HTTPClient
	if client == nil {
		// A zero Timeout leaves slow model calls unbounded.
		client = &http.Client{Timeout: max(opts.Timeout, 0)}
	}
	cfg.HTTPClient = client
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.CreateImageModelDallE2
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Name identifies the backend and model in logs.
func (o *OpenAI) Name() string {
	return ProviderOpenAI + ":" + o.model
}

// Synthesize requests one image and returns it as PNG.
func (o *OpenAI) Synthesize(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrInvalidPrompt)
	}
	size := openai.CreateImageSize1024x1024
	if o.model == openai.CreateImageModelDallE2 {
		size = openai.CreateImageSize512x512
	}
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.model,
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("openai: empty image data")
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image: %w", err)
	}
	data, err := EnsurePNG(raw)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return data, nil
}

var _ Synthesizer = (*OpenAI)(nil)

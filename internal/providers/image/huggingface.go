package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promptart/internal/domain"
)

const (
	defaultHuggingFaceBaseURL = "https://router.huggingface.co/hf-inference/models"
	defaultHuggingFaceModel   = "CompVis/stable-diffusion-v1-4"
	maxImageBytes             = 32 << 20
)

// HuggingFaceOptions configures the Hugging Face inference client.
type HuggingFaceOptions struct {
	Token      string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// HuggingFace calls a hosted text-to-image pipeline through the inference API.
type HuggingFace struct {
	token      string
	endpoint   string
	model      string
	httpClient *http.Client
}

type huggingFaceRequest struct {
	Inputs string `json:"inputs"`
}

type huggingFaceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// NewHuggingFace constructs a client with defaults applied.
func NewHuggingFace(opts HuggingFaceOptions) (*HuggingFace, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, fmt.Errorf("huggingface: %w", domain.ErrMissingCredentials)
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultHuggingFaceBaseURL
	}
	model := strings.Trim(strings.TrimSpace(opts.Model), "/")
	if model == "" {
		model = defaultHuggingFaceModel
	}
	endpoint, err := url.JoinPath(base, model)
	if err != nil {
		return nil, fmt.Errorf("huggingface: invalid base url: %w", err)
	}
	client := opts.HTTPClient
	if client == nil {
		// A zero Timeout leaves slow model calls unbounded.
		client = &http.Client{Timeout: max(opts.Timeout, 0)}
	}
	return &HuggingFace{token: token, endpoint: endpoint, model: model, httpClient: client}, nil
}

// Name identifies the backend and model in logs.
func (h *HuggingFace) Name() string {
	return ProviderHuggingFace + ":" + h.model
}

// Synthesize posts the prompt and returns the produced image as PNG.
func (h *HuggingFace) Synthesize(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("huggingface: %w", domain.ErrInvalidPrompt)
	}
	body, err := json.Marshal(huggingFaceRequest{Inputs: prompt})
	if err != nil {
		return nil, fmt.Errorf("huggingface: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("huggingface: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("huggingface: read response: %w", err)
	}
	if len(raw) > maxImageBytes {
		return nil, errors.New("huggingface: response exceeds size limit")
	}
	if resp.StatusCode >= 300 {
		var detail huggingFaceError
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != "" {
			return nil, fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, detail.Error)
		}
		return nil, fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var detail huggingFaceError
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != "" {
			return nil, fmt.Errorf("huggingface: %s", detail.Error)
		}
		return nil, errors.New("huggingface: unexpected json response")
	}
	data, err := EnsurePNG(raw)
	if err != nil {
		return nil, fmt.Errorf("huggingface: %w", err)
	}
	return data, nil
}

var _ Synthesizer = (*HuggingFace)(nil)

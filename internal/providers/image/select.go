package image

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Options carries every backend's settings; New picks one of them.
type Options struct {
	Provider      string
	HFToken       string
	HFModel       string
	HFBaseURL     string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// New builds the configured Synthesizer. In auto mode Hugging Face wins when a
// token is present, then OpenAI, then the offline placeholder.
func New(opts Options) (Synthesizer, error) {
	provider := NormalizeProvider(opts.Provider)
	if provider == "" {
		return nil, fmt.Errorf("image: unsupported provider %q", opts.Provider)
	}
	if provider == ProviderAuto {
		switch {
		case strings.TrimSpace(opts.HFToken) != "":
			provider = ProviderHuggingFace
		case strings.TrimSpace(opts.OpenAIKey) != "":
			provider = ProviderOpenAI
		default:
			provider = ProviderPlaceholder
		}
	}
	switch provider {
	case ProviderHuggingFace:
		return NewHuggingFace(HuggingFaceOptions{
			Token:      opts.HFToken,
			BaseURL:    opts.HFBaseURL,
			Model:      opts.HFModel,
			HTTPClient: opts.HTTPClient,
			Timeout:    opts.Timeout,
		})
	case ProviderOpenAI:
		return NewOpenAI(OpenAIOptions{
			APIKey:     opts.OpenAIKey,
			BaseURL:    opts.OpenAIBaseURL,
			Model:      opts.OpenAIModel,
			HTTPClient: opts.HTTPClient,
			Timeout:    opts.Timeout,
		})
	default:
		return NewPlaceholder(), nil
	}
}

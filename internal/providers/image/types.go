package image

import (
	"context"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderAuto        = "auto"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderPlaceholder = "placeholder"
)

// Synthesizer turns a text prompt into exactly one PNG image. Calls block
// until the model answers or ctx ends.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) ([]byte, error)
	Name() string
}

// NormalizeProvider sanitizes free-form configuration into a known provider name.
func NormalizeProvider(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderHuggingFace, "hf":
		return ProviderHuggingFace
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderPlaceholder:
		return ProviderPlaceholder
	case "", ProviderAuto:
		return ProviderAuto
	default:
		return ""
	}
}

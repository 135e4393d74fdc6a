package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPrompt      = errors.New("invalid prompt")
	ErrProviderFailure    = errors.New("provider failure")
	ErrMissingCredentials = errors.New("missing credentials")
)

// GenerationError reports a failed call to the image model. It always
// matches ErrProviderFailure via errors.Is.
type GenerationError struct {
	Prompt string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "image generation failed"
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrProviderFailure, e.Err}
}

// NewGenerationError wraps err unless it already is a GenerationError.
func NewGenerationError(prompt string, err error) error {
	if err == nil {
		return nil
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Prompt: prompt, Err: err}
}

// PromptNotFoundError is the NotFound case for catalog lookups by id.
type PromptNotFoundError struct {
	ID int
}

func (e *PromptNotFoundError) Error() string {
	return fmt.Sprintf("Prompt ID %d not found", e.ID)
}

func (e *PromptNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Package imagegen is the single entry point for image synthesis. It times
// every call, normalizes failures into *domain.GenerationError and records a
// metadata row in the generation history.
package imagegen

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"promptart/internal/domain"
	"promptart/internal/history"
	providerimage "promptart/internal/providers/image"
)

// Request describes one synthesis attempt.
type Request struct {
	Source    domain.GenerationSource
	Prompt    domain.PromptData
	RequestID string
}

// Result holds the PNG bytes of a successful attempt.
type Result struct {
	PNG      []byte
	Duration time.Duration
}

// Base64 returns the standard base64 encoding of the image.
func (r Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.PNG)
}

// Service wraps a Synthesizer. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	synth    providerimage.Synthesizer
	recorder history.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(synth providerimage.Synthesizer, recorder history.Recorder, logger zerolog.Logger) *Service {
	if recorder == nil {
		recorder = history.Nop{}
	}
	return &Service{synth: synth, recorder: recorder, logger: logger, now: time.Now}
}

// Backend names the underlying synthesizer.
func (s *Service) Backend() string {
	return s.synth.Name()
}

// Generate invokes the model exactly once. Errors are always *domain.GenerationError.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if req.Prompt.Prompt == "" {
		return Result{}, domain.NewGenerationError(req.Prompt.Prompt, domain.ErrInvalidPrompt)
	}

	start := s.now()
	data, err := s.synth.Synthesize(ctx, req.Prompt.Prompt)
	if err == nil && len(data) == 0 {
		err = providerimage.ErrEmptyImage
	}
	elapsed := s.now().Sub(start)

	rec := domain.GenerationRecord{
		ID:         uuid.NewString(),
		RequestID:  req.RequestID,
		Source:     req.Source,
		PromptID:   req.Prompt.ID,
		Prompt:     req.Prompt.Prompt,
		Category:   req.Prompt.Category,
		Success:    err == nil,
		DurationMS: elapsed.Milliseconds(),
		Bytes:      len(data),
		CreatedAt:  start.UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
		rec.Bytes = 0
	}
	s.record(ctx, rec)

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("backend", s.synth.Name()).
			Str("source", string(req.Source)).
			Str("request_id", req.RequestID).
			Dur("elapsed", elapsed).
			Msg("image generation failed")
		return Result{}, domain.NewGenerationError(req.Prompt.Prompt, err)
	}

	s.logger.Debug().
		Str("backend", s.synth.Name()).
		Str("source", string(req.Source)).
		Int("bytes", len(data)).
		Dur("elapsed", elapsed).
		Msg("image generated")
	return Result{PNG: data, Duration: elapsed}, nil
}

func (s *Service) record(ctx context.Context, rec domain.GenerationRecord) {
	if err := s.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn().Err(err).Str("generation_id", rec.ID).Msg("record generation")
	}
}

package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"promptart/internal/domain"
)

type stubSynth struct {
	data  []byte
	err   error
	calls []string
}

func (s *stubSynth) Name() string { return "stub" }

func (s *stubSynth) Synthesize(ctx context.Context, prompt string) ([]byte, error) {
	s.calls = append(s.calls, prompt)
	return s.data, s.err
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []domain.GenerationRecord
	err     error
}

func (m *memoryRecorder) Record(ctx context.Context, rec domain.GenerationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

func (m *memoryRecorder) Recent(context.Context, int) ([]domain.GenerationRecord, error) {
	return m.records, nil
}

func (m *memoryRecorder) Close() error { return nil }

func TestGenerateSuccessRecordsMetadata(t *testing.T) {
	synth := &stubSynth{data: []byte("\x89PNG fake")}
	rec := &memoryRecorder{}
	svc := NewService(synth, rec, zerolog.Nop())

	id := 4
	res, err := svc.Generate(context.Background(), Request{
		Source:    domain.SourceCatalog,
		Prompt:    domain.PromptData{ID: &id, Prompt: "steampunk airship", Category: "steampunk"},
		RequestID: "req-9",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got, _ := base64.StdEncoding.DecodeString(res.Base64()); string(got) != "\x89PNG fake" {
		t.Fatalf("Base64 round trip mismatch: %q", got)
	}
	if len(synth.calls) != 1 || synth.calls[0] != "steampunk airship" {
		t.Fatalf("unexpected synth calls %v", synth.calls)
	}
	if len(rec.records) != 1 {
		t.Fatalf("expected one record, got %d", len(rec.records))
	}
	r := rec.records[0]
	if !r.Success || r.Source != domain.SourceCatalog || r.PromptID == nil || *r.PromptID != 4 || r.RequestID != "req-9" || r.Bytes != len(res.PNG) {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestGenerateFailureIsGenerationError(t *testing.T) {
	cause := errors.New("huggingface: status 503: model loading")
	rec := &memoryRecorder{}
	svc := NewService(&stubSynth{err: cause}, rec, zerolog.Nop())

	_, err := svc.Generate(context.Background(), Request{Source: domain.SourceCustom, Prompt: domain.CustomPromptData("a red cube")})
	if !errors.Is(err, domain.ErrProviderFailure) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want provider failure wrapping cause", err)
	}
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) || genErr.Prompt != "a red cube" {
		t.Fatalf("expected GenerationError for prompt, got %#v", err)
	}
	if len(rec.records) != 1 || rec.records[0].Success || rec.records[0].Error == "" {
		t.Fatalf("failure not recorded: %+v", rec.records)
	}
}

func TestGenerateEmptyOutputFails(t *testing.T) {
	svc := NewService(&stubSynth{}, nil, zerolog.Nop())
	if _, err := svc.Generate(context.Background(), Request{Prompt: domain.CustomPromptData("x")}); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want provider failure", err)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	synth := &stubSynth{data: []byte("png")}
	svc := NewService(synth, nil, zerolog.Nop())
	_, err := svc.Generate(context.Background(), Request{Prompt: domain.CustomPromptData("")})
	if !errors.Is(err, domain.ErrInvalidPrompt) {
		t.Fatalf("err = %v, want ErrInvalidPrompt", err)
	}
	if len(synth.calls) != 0 {
		t.Fatalf("synthesizer should not be called")
	}
}

func TestGenerateIgnoresRecorderFailure(t *testing.T) {
	svc := NewService(&stubSynth{data: []byte("png")}, &memoryRecorder{err: errors.New("disk full")}, zerolog.Nop())
	if _, err := svc.Generate(context.Background(), Request{Prompt: domain.CustomPromptData("ok")}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

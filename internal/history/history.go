// Package history keeps a metadata log of image generations. Image bytes are
// never stored.
package history

import (
	"context"

	"promptart/internal/domain"
)

// DefaultLimit and MaxLimit bound Recent queries.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Recorder persists generation records and lists the most recent ones.
type Recorder interface {
	Record(ctx context.Context, rec domain.GenerationRecord) error
	Recent(ctx context.Context, limit int) ([]domain.GenerationRecord, error)
	Close() error
}

// ClampLimit maps a requested page size onto [1, MaxLimit], using DefaultLimit for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, domain.GenerationRecord) error { return nil }

func (Nop) Recent(context.Context, int) ([]domain.GenerationRecord, error) {
	return []domain.GenerationRecord{}, nil
}

func (Nop) Close() error { return nil }

var _ Recorder = Nop{}

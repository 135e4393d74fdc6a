package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"promptart/internal/domain"
	"promptart/internal/infra"
	"promptart/internal/sqlinline"
)

// PostgresStore is a Recorder backed by the generation_log table.
type PostgresStore struct {
	db      infra.SQLExecutor
	onClose func()
}

// NewPostgresStore wraps an executor. onClose, if set, runs on Close (typically pool.Close).
func NewPostgresStore(db infra.SQLExecutor, onClose func()) *PostgresStore {
	return &PostgresStore{db: db, onClose: onClose}
}

// Migrate creates the table and index when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, q := range []string{sqlinline.QCreateGenerationLog, sqlinline.QCreateGenerationLogIndex} {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("migrate generation_log: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, rec domain.GenerationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, sqlinline.QInsertGeneration,
		rec.ID, rec.RequestID, string(rec.Source), rec.PromptID, rec.Prompt, rec.Category,
		rec.Success, rec.Error, rec.DurationMS, rec.Bytes, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	rows, err := s.db.Query(ctx, sqlinline.QSelectRecentGenerations, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	out := []domain.GenerationRecord{}
	for rows.Next() {
		var (
			rec    domain.GenerationRecord
			source string
		)
		if err := rows.Scan(&rec.ID, &rec.RequestID, &source, &rec.PromptID, &rec.Prompt, &rec.Category,
			&rec.Success, &rec.Error, &rec.DurationMS, &rec.Bytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		rec.Source = domain.GenerationSource(source)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

var _ Recorder = (*PostgresStore)(nil)

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"promptart/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS generation_log (
	id          TEXT PRIMARY KEY,
	request_id  TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL,
	prompt_id   INTEGER,
	prompt      TEXT NOT NULL,
	category    TEXT NOT NULL,
	success     INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	bytes       INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generation_log_created ON generation_log(created_at DESC);
`

// SQLiteStore is a Recorder backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer keeps SQLITE_BUSY out of concurrent warm-up bursts.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		PRAGMA busy_timeout = 10000;
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, rec domain.GenerationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var promptID sql.NullInt64
	if rec.PromptID != nil {
		promptID = sql.NullInt64{Int64: int64(*rec.PromptID), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_log (id, request_id, source, prompt_id, prompt, category, success, error, duration_ms, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestID, string(rec.Source), promptID, rec.Prompt, rec.Category,
		rec.Success, rec.Error, rec.DurationMS, rec.Bytes, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, source, prompt_id, prompt, category, success, error, duration_ms, bytes, created_at
		FROM generation_log
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	out := []domain.GenerationRecord{}
	for rows.Next() {
		var (
			rec      domain.GenerationRecord
			source   string
			promptID sql.NullInt64
			created  int64
		)
		if err := rows.Scan(&rec.ID, &rec.RequestID, &source, &promptID, &rec.Prompt, &rec.Category,
			&rec.Success, &rec.Error, &rec.DurationMS, &rec.Bytes, &created); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		rec.Source = domain.GenerationSource(source)
		if promptID.Valid {
			id := int(promptID.Int64)
			rec.PromptID = &id
		}
		rec.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Recorder = (*SQLiteStore)(nil)

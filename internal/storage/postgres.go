package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/livetemplate/deckdown"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS presentations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	slide_count INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	data        JSONB NOT NULL
)`

// PostgresStore keeps presentations in a shared PostgreSQL database,
// for installs where several deckdown instances serve the same decks.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with the given DSN and ensures the schema
// exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres storage requires a dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Save(ctx context.Context, p *deckdown.Presentation) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode presentation %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presentations (id, title, slide_count, created_at, updated_at, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slide_count = EXCLUDED.slide_count,
			updated_at = EXCLUDED.updated_at,
			data = EXCLUDED.data`,
		p.ID, p.Title, len(p.Slides), p.CreatedAt, p.UpdatedAt, data)
	if err != nil {
		return fmt.Errorf("failed to save presentation %s: %w", p.ID, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*deckdown.Presentation, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM presentations WHERE id = $1", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load presentation %s: %w", id, err)
	}
	return decodeDocument(id, data)
}

func (s *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slide_count, updated_at, data::text
		FROM presentations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presentations: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM presentations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete presentation %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

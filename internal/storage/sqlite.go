package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/livetemplate/deckdown"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS presentations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	slide_count INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	data        TEXT NOT NULL
)`

// SQLiteStore keeps presentations in a local SQLite file. The default
// choice: no external service, one file next to the config.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database file and
// ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "deckdown.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, p *deckdown.Presentation) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode presentation %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presentations (id, title, slide_count, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			slide_count = excluded.slide_count,
			updated_at = excluded.updated_at,
			data = excluded.data`,
		p.ID, p.Title, len(p.Slides), p.CreatedAt, p.UpdatedAt, string(data))
	if err != nil {
		return fmt.Errorf("failed to save presentation %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*deckdown.Presentation, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM presentations WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load presentation %s: %w", id, err)
	}
	return decodeDocument(id, []byte(data))
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slide_count, updated_at, data
		FROM presentations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presentations: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM presentations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete presentation %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeDocument(id string, data []byte) (*deckdown.Presentation, error) {
	var p deckdown.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode presentation %s: %w", id, err)
	}
	return &p, nil
}

// scanSummaries reads list rows, skipping any whose stored document
// no longer decodes so one corrupt row never hides the rest.
func scanSummaries(rows *sql.Rows) ([]Summary, error) {
	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		var data string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.SlideCount, &sum.UpdatedAt, &data); err != nil {
			return nil, err
		}
		if !json.Valid([]byte(data)) {
			log.Printf("[Store] Skipping corrupt presentation %s", sum.ID)
			continue
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

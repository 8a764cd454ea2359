// Package storage persists presentations as one JSON document per
// row. Two drivers exist, sqlite for single-binary installs and
// postgres for shared deployments, behind the same Store interface.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/livetemplate/deckdown"
)

// ErrNotFound is returned when no presentation exists for an ID.
var ErrNotFound = errors.New("presentation not found")

// Summary is the list-view projection of a stored presentation.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SlideCount int       `json:"slideCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Store reads and writes full presentation documents keyed by ID.
type Store interface {
	// Save upserts the document.
	Save(ctx context.Context, p *deckdown.Presentation) error

	// Load returns the document, or ErrNotFound.
	Load(ctx context.Context, id string) (*deckdown.Presentation, error)

	// List returns summaries of every stored presentation, newest
	// first. Rows whose document no longer decodes are skipped.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the document, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

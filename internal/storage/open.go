package storage

import (
	"fmt"

	"github.com/livetemplate/deckdown/internal/config"
)

// Open builds the Store selected by the configuration.
func Open(cfg *config.StorageConfig) (Store, error) {
	switch cfg.GetDriver() {
	case "sqlite":
		return NewSQLiteStore(cfg.GetPath())
	case "postgres":
		return NewPostgresStore(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/livetemplate/deckdown"
	"github.com/livetemplate/deckdown/internal/config"
	"github.com/livetemplate/deckdown/internal/storage"
)

// writeTestConfig points storage at a database inside the temp dir
// and returns the config path.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.Path = filepath.Join(dir, "decks.db")
	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func loadStoredDecks(t *testing.T, configPath string) []storage.Summary {
	t.Helper()

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	store, err := storage.Open(&cfg.Storage)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	return summaries
}

func TestNewCommandBlank(t *testing.T) {
	configPath := writeTestConfig(t)

	err := NewCommand([]string{"Board Update", "--config", configPath})
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}

	decks := loadStoredDecks(t, configPath)
	if len(decks) != 1 {
		t.Fatalf("Expected 1 stored deck, got %d", len(decks))
	}
	if decks[0].Title != "Board Update" {
		t.Errorf("Expected title %q, got %q", "Board Update", decks[0].Title)
	}
	if decks[0].SlideCount != 1 {
		t.Errorf("Expected 1 slide, got %d", decks[0].SlideCount)
	}
}

func TestNewCommandFromTemplate(t *testing.T) {
	configPath := writeTestConfig(t)

	err := NewCommand([]string{"--template=startup-pitch", "--config", configPath})
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}

	decks := loadStoredDecks(t, configPath)
	if len(decks) != 1 {
		t.Fatalf("Expected 1 stored deck, got %d", len(decks))
	}
	if decks[0].SlideCount != 8 {
		t.Errorf("Expected 8 slides from template, got %d", decks[0].SlideCount)
	}
}

func TestNewCommandFromOutline(t *testing.T) {
	configPath := writeTestConfig(t)

	outlinePath := filepath.Join(t.TempDir(), "pitch.md")
	outline := "# Launch Plan\n\n## Roadmap\n\n- ship it\n- tell people\n"
	if err := os.WriteFile(outlinePath, []byte(outline), 0644); err != nil {
		t.Fatalf("Failed to write outline: %v", err)
	}

	err := NewCommand([]string{"--from", outlinePath, "--config", configPath})
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}

	decks := loadStoredDecks(t, configPath)
	if len(decks) != 1 {
		t.Fatalf("Expected 1 stored deck, got %d", len(decks))
	}
	if decks[0].Title != "Launch Plan" {
		t.Errorf("Expected outline title, got %q", decks[0].Title)
	}
}

func TestNewCommandConflictingSources(t *testing.T) {
	configPath := writeTestConfig(t)

	err := NewCommand([]string{"--template=blank", "--from", "x.md", "--config", configPath})
	if err == nil {
		t.Fatal("Expected --template with --from to fail")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestNewCommandUnknownFlag(t *testing.T) {
	if err := NewCommand([]string{"--bogus"}); err == nil {
		t.Fatal("Expected unknown flag to fail")
	}
}

func TestExportCommandJSON(t *testing.T) {
	configPath := writeTestConfig(t)

	if err := NewCommand([]string{"Export Source", "--config", configPath}); err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}
	decks := loadStoredDecks(t, configPath)
	outPath := filepath.Join(t.TempDir(), "deck.json")

	err := ExportCommand([]string{decks[0].ID, "--format=json", "--out", outPath, "--config", configPath})
	if err != nil {
		t.Fatalf("ExportCommand failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var doc deckdown.Presentation
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Expected valid JSON export: %v", err)
	}
	if doc.Title != "Export Source" {
		t.Errorf("Expected exported title, got %q", doc.Title)
	}
}

func TestExportCommandHTML(t *testing.T) {
	configPath := writeTestConfig(t)

	if err := NewCommand([]string{"Web Deck", "--config", configPath}); err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}
	decks := loadStoredDecks(t, configPath)
	outPath := filepath.Join(t.TempDir(), "deck.html")

	err := ExportCommand([]string{decks[0].ID, "--out", outPath, "--config", configPath})
	if err != nil {
		t.Fatalf("ExportCommand failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "<!DOCTYPE html>") {
		t.Error("Expected an HTML document")
	}
	if !strings.Contains(content, "Web Deck") {
		t.Error("Expected the deck title in the export")
	}
}

func TestExportCommandMissingDeck(t *testing.T) {
	configPath := writeTestConfig(t)

	err := ExportCommand([]string{"pres_missing", "--config", configPath})
	if err == nil {
		t.Fatal("Expected missing presentation to fail")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestExportCommandBadFormat(t *testing.T) {
	configPath := writeTestConfig(t)

	err := ExportCommand([]string{"pres_x", "--format=pdf", "--config", configPath})
	if err == nil {
		t.Fatal("Expected unknown format to fail")
	}
}

func TestListCommandEmpty(t *testing.T) {
	configPath := writeTestConfig(t)

	if err := ListCommand([]string{"--config", configPath}); err != nil {
		t.Fatalf("ListCommand failed: %v", err)
	}
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/livetemplate/deckdown"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDeck(title string) *deckdown.Presentation {
	doc, err := deckdown.MaterializeOutline(&deckdown.Outline{
		Title: title,
		Slides: []deckdown.OutlineSlide{
			{Title: title, Bullets: []string{"intro"}, Layout: deckdown.LayoutTitle},
			{Title: "Body", Bullets: []string{"a", "b"}},
		},
	})
	if err != nil {
		panic(err)
	}
	return doc
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDeck("Round Trip")

	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	back, err := store.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if back.Title != doc.Title || len(back.Slides) != len(doc.Slides) {
		t.Errorf("loaded %q with %d slides, want %q with %d",
			back.Title, len(back.Slides), doc.Title, len(doc.Slides))
	}
	if back.Slides[1].Content[1].Items[0].Text != "a" {
		t.Error("nested block items did not survive the round trip")
	}
}

func TestSaveUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDeck("First Title")

	if err := store.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.Title = "Second Title"
	doc.UpdatedAt = doc.UpdatedAt.Add(time.Second)
	if err := store.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	back, err := store.Load(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if back.Title != "Second Title" {
		t.Errorf("title = %q after upsert", back.Title)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 row after upsert, got %d", len(list))
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load(context.Background(), "pres_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := testDeck("Old Deck")
	old.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := testDeck("Recent Deck")
	recent.UpdatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if err := store.Save(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, recent); err != nil {
		t.Fatal(err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].Title != "Recent Deck" || list[1].Title != "Old Deck" {
		t.Errorf("order = %q, %q", list[0].Title, list[1].Title)
	}
	if list[0].SlideCount != 2 {
		t.Errorf("slideCount = %d", list[0].SlideCount)
	}
}

func TestListSkipsCorruptRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	good := testDeck("Good Deck")
	if err := store.Save(ctx, good); err != nil {
		t.Fatal(err)
	}
	_, err := store.db.Exec(`
		INSERT INTO presentations (id, title, slide_count, created_at, updated_at, data)
		VALUES ('pres_bad', 'Broken', 1, ?, ?, '{not json')`,
		time.Now(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != good.ID {
		t.Errorf("corrupt row should be skipped, got %+v", list)
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDeck("Doomed")

	if err := store.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Load(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Error("document still loadable after delete")
	}
	if err := store.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

package deckdown

import (
	"fmt"
	"reflect"
	"testing"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")
	before := e.Presentation()

	e.AddSlide(LayoutTwoColumn, -1)
	after := e.Presentation()

	e.Undo()
	if !reflect.DeepEqual(e.Presentation(), before) {
		t.Fatal("undo did not restore the pre-mutation document")
	}
	if !e.CanRedo() {
		t.Fatal("redo should be available after undo")
	}

	e.Redo()
	if !reflect.DeepEqual(e.Presentation(), after) {
		t.Fatal("redo did not restore the post-mutation document")
	}
}

func TestUndoAtFloorIsNoop(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")
	before := e.Presentation()

	e.Undo()
	if !reflect.DeepEqual(e.Presentation(), before) {
		t.Error("undo with no history should do nothing")
	}
	e.Redo()
	if !reflect.DeepEqual(e.Presentation(), before) {
		t.Error("redo at the tip should do nothing")
	}
}

func TestMutationAfterUndoDiscardsRedoBranch(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")
	e.AddSlide("", -1)
	e.AddSlide("", -1)

	e.Undo()
	e.Undo()
	if e.SlideCount() != 1 {
		t.Fatalf("expected 1 slide after two undos, got %d", e.SlideCount())
	}

	e.AddSlide(LayoutBlank, -1)
	if e.CanRedo() {
		t.Fatal("a new mutation must discard the redo branch")
	}
	count := e.SlideCount()
	e.Redo()
	if e.SlideCount() != count {
		t.Error("redo after a branch discard should be a no-op")
	}
}

func TestHistoryBounded(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")

	for i := 0; i < maxHistory+25; i++ {
		e.UpdateTitle(fmt.Sprintf("title %d", i))
	}

	undos := 0
	for e.CanUndo() {
		e.Undo()
		undos++
		if undos > maxHistory {
			t.Fatalf("more than %d undos possible", maxHistory)
		}
	}
	if undos != maxHistory-1 {
		t.Errorf("expected %d undos from a full stack, got %d", maxHistory-1, undos)
	}
	// the oldest reachable state is no longer the initial one
	if e.Presentation().Title == "Deck" {
		t.Error("initial state should have been evicted from a full stack")
	}
}

func TestUndoRepairsSelection(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")

	added := e.AddSlide("", -1)
	if e.SelectedSlideID() != added {
		t.Fatal("new slide should be selected")
	}

	e.Undo()
	doc := e.Presentation()
	if e.SelectedSlideID() != doc.Slides[0].ID {
		t.Errorf("selection should fall back to the first slide, got %s", e.SelectedSlideID())
	}
	if e.SelectedBlockID() != "" {
		t.Error("block selection should be cleared with its slide gone")
	}
}

func TestRedoRepairsBlockSelection(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")
	sid := e.Presentation().Slides[0].ID

	block := ContentBlock{ID: NewID("block"), Type: BlockText, Content: "x"}
	e.AddBlock(sid, block)
	e.DeleteBlock(sid, block.ID)

	e.Undo() // block back
	e.SelectBlock(block.ID)
	if e.SelectedBlockID() != block.ID {
		t.Fatal("block should be selectable after undo restored it")
	}

	e.Redo() // block gone again
	if e.SelectedBlockID() != "" {
		t.Error("block selection should clear when redo removes the block")
	}
}

func TestHistoryEntriesDoNotAliasLiveState(t *testing.T) {
	e := NewEngine()
	e.CreatePresentation("Deck", "")
	sid := e.Presentation().Slides[0].ID
	bid := e.Presentation().Slides[0].Content[0].ID

	if err := e.UpdateBlock(sid, bid, map[string]interface{}{"content": "first"}); err != nil {
		t.Fatal(err)
	}
	if err := e.UpdateBlock(sid, bid, map[string]interface{}{"content": "second"}); err != nil {
		t.Fatal(err)
	}

	e.Undo()
	if got := e.Presentation().Slides[0].BlockByID(bid).Content; got != "first" {
		t.Errorf("after undo content = %q, want %q", got, "first")
	}
	e.Undo()
	if got := e.Presentation().Slides[0].BlockByID(bid).Content; got == "first" || got == "second" {
		t.Errorf("after second undo content = %q, want the original placeholder", got)
	}
}

func TestHistoryStackUnit(t *testing.T) {
	h := newHistory()
	if h.canUndo() || h.canRedo() {
		t.Fatal("empty history should allow nothing")
	}

	p := &Presentation{ID: "pres_a", Title: "a", Slides: []Slide{{ID: "slide_a"}}}
	h.push(p)
	if h.canUndo() {
		t.Error("a single entry is the floor, not an undo target")
	}

	p.Title = "b"
	h.push(p)
	if !h.canUndo() || h.canRedo() {
		t.Error("after a second push undo should be possible and redo not")
	}

	got := h.undo()
	if got == nil || got.Title != "a" {
		t.Fatalf("undo returned %+v", got)
	}
	if !h.canRedo() {
		t.Error("redo should be available after undo")
	}
	if h.undo() != nil {
		t.Error("undo at the floor should return nil")
	}
}

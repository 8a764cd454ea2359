package deckdown

import (
	"sync"
	"time"
)

// pastePositionOffset is added to the x/y of a pasted block so the
// copy never sits exactly on top of its source. Intentionally not
// clamped to the canvas bounds.
const pastePositionOffset = 2

// Engine owns one live Presentation and every mutation applied to it:
// slide and block CRUD, selection, the single-slot clipboard and the
// bounded undo/redo history. All methods are safe for concurrent use;
// each mutation and its history bookkeeping run as one atomic unit
// under the engine mutex.
//
// Invalid requests that the UI can reach (deleting the last slide,
// pasting with an empty clipboard, undoing at the floor) are defined
// no-ops, not errors.
type Engine struct {
	mu sync.Mutex

	doc             *Presentation
	selectedSlideID string
	selectedBlockID string
	clipboard       *ContentBlock
	hist            *history

	// onChange, when set, fires after every completed mutation with
	// the document ID. Used by the server boundary for debounced
	// auto-save; never blocks the mutation itself.
	onChange func(presentationID string)
}

// NewEngine returns an engine with no document loaded.
func NewEngine() *Engine {
	return &Engine{hist: newHistory()}
}

// OnChange registers a post-mutation notification hook. The hook runs
// synchronously after the mutation commits, so it must be cheap;
// callers that persist should debounce on their side.
func (e *Engine) OnChange(fn func(presentationID string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

func (e *Engine) notify() {
	if e.onChange != nil && e.doc != nil {
		e.onChange(e.doc.ID)
	}
}

// commit records the post-mutation state and fires the change hook.
// Every undoable mutation ends with a commit.
func (e *Engine) commit() {
	e.doc.touch()
	e.hist.push(e.doc)
	e.notify()
}

// CreatePresentation builds a fresh document with a single title
// slide, selects that slide and resets history so undo and redo are
// both unavailable. Returns the new presentation ID.
func (e *Engine) CreatePresentation(title, themeID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if title == "" {
		title = defaultDeckTitle
	}
	if themeID == "" {
		themeID = "default"
	}
	now := time.Now().UTC()
	doc := &Presentation{
		ID:        NewID("pres"),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		ThemeID:   themeID,
		Slides:    []Slide{newDefaultSlide(LayoutTitle, 0)},
		Metadata:  Metadata{SlideCount: 1, AspectRatio: "16:9"},
	}
	e.doc = doc
	e.selectedSlideID = doc.Slides[0].ID
	e.selectedBlockID = ""
	e.hist.reset()
	e.hist.push(doc)
	e.notify()
	return doc.ID
}

// LoadPresentation replaces the live document wholesale, for decks
// restored from storage, instantiated from templates or materialized
// from outlines. Selection moves to the first slide and history
// resets as on creation. The engine keeps its own deep copy.
func (e *Engine) LoadPresentation(doc *Presentation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = doc.Clone()
	e.doc.reindex()
	e.selectedSlideID = ""
	e.selectedBlockID = ""
	if len(e.doc.Slides) > 0 {
		e.selectedSlideID = e.doc.Slides[0].ID
	}
	e.hist.reset()
	e.hist.push(e.doc)
}

// AddSlide inserts a slide with the layout's default blocks after
// afterIndex, or at the end when afterIndex is out of range. The new
// slide becomes the selection. Returns its ID, or "" when no document
// is loaded.
func (e *Engine) AddSlide(layout SlideLayout, afterIndex int) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return ""
	}
	if layout == "" {
		layout = LayoutTitleContent
	}
	slide := newDefaultSlide(layout, 0)

	at := len(e.doc.Slides)
	if afterIndex >= 0 && afterIndex < len(e.doc.Slides) {
		at = afterIndex + 1
	}
	e.doc.Slides = append(e.doc.Slides, Slide{})
	copy(e.doc.Slides[at+1:], e.doc.Slides[at:])
	e.doc.Slides[at] = slide
	e.doc.reindex()

	e.selectedSlideID = slide.ID
	e.selectedBlockID = ""
	e.commit()
	return slide.ID
}

// DeleteSlide removes the addressed slide. Deleting the last
// remaining slide, or an unknown ID, is a no-op. When the deleted
// slide was selected, selection moves to the slide now sitting just
// before its former position.
func (e *Engine) DeleteSlide(slideID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil || len(e.doc.Slides) <= 1 {
		return
	}
	idx := e.doc.slideIndex(slideID)
	if idx < 0 {
		return
	}
	e.doc.Slides = append(e.doc.Slides[:idx], e.doc.Slides[idx+1:]...)
	e.doc.reindex()

	if e.selectedSlideID == slideID {
		next := idx - 1
		if next < 0 {
			next = 0
		}
		e.selectedSlideID = e.doc.Slides[next].ID
		e.selectedBlockID = ""
	}
	e.commit()
}

// DuplicateSlide deep-clones the addressed slide, regenerating every
// slide, block and item identifier, inserts the clone immediately
// after the original and selects it. Unknown IDs are a no-op.
func (e *Engine) DuplicateSlide(slideID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	idx := e.doc.slideIndex(slideID)
	if idx < 0 {
		return
	}
	clone := CloneSlide(e.doc.Slides[idx])

	at := idx + 1
	e.doc.Slides = append(e.doc.Slides, Slide{})
	copy(e.doc.Slides[at+1:], e.doc.Slides[at:])
	e.doc.Slides[at] = clone
	e.doc.reindex()

	e.selectedSlideID = clone.ID
	e.selectedBlockID = ""
	e.commit()
}

// ReorderSlides moves the slide at fromIndex to toIndex. Out-of-range
// indices and moves to the same position are no-ops.
func (e *Engine) ReorderSlides(fromIndex, toIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	n := len(e.doc.Slides)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n || fromIndex == toIndex {
		return
	}
	moved := e.doc.Slides[fromIndex]
	e.doc.Slides = append(e.doc.Slides[:fromIndex], e.doc.Slides[fromIndex+1:]...)
	e.doc.Slides = append(e.doc.Slides, Slide{})
	copy(e.doc.Slides[toIndex+1:], e.doc.Slides[toIndex:])
	e.doc.Slides[toIndex] = moved
	e.doc.reindex()
	e.commit()
}

// SetSlides replaces the whole slide list in one undoable step, the
// bulk path for regenerated or imported content. The input is deep
// copied, indices are rewritten, and a selection pointing at a slide
// that no longer exists moves to the first slide.
func (e *Engine) SetSlides(slides []Slide) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil || len(slides) == 0 {
		return
	}
	e.doc.Slides = cloneSlides(slides)
	e.doc.reindex()
	e.repairSelection()
	e.commit()
}

// UpdateSlideBackground sets the addressed slide's background. A nil
// background reverts the slide to the theme default.
func (e *Engine) UpdateSlideBackground(slideID string, bg *Background) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	slide := e.doc.SlideByID(slideID)
	if slide == nil {
		return
	}
	if bg == nil {
		slide.Background = nil
	} else {
		copied := *bg
		slide.Background = &copied
	}
	e.commit()
}

// UpdateSpeakerNotes replaces the addressed slide's speaker notes.
func (e *Engine) UpdateSpeakerNotes(slideID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	slide := e.doc.SlideByID(slideID)
	if slide == nil {
		return
	}
	slide.SpeakerNotes = text
	e.commit()
}

// SelectSlide changes the active slide and always clears the block
// selection. Selection is transient UI state, so no history entry is
// recorded. Selecting an unknown slide is a no-op; an empty ID clears
// the selection.
func (e *Engine) SelectSlide(slideID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	if slideID != "" && e.doc.SlideByID(slideID) == nil {
		return
	}
	e.selectedSlideID = slideID
	e.selectedBlockID = ""
}

// SelectBlock changes the active block. The block must live on the
// currently selected slide; anything else is a no-op. An empty ID
// clears the block selection. No history entry is recorded.
func (e *Engine) SelectBlock(blockID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	if blockID == "" {
		e.selectedBlockID = ""
		return
	}
	slide := e.doc.SlideByID(e.selectedSlideID)
	if slide == nil || slide.BlockByID(blockID) == nil {
		return
	}
	e.selectedBlockID = blockID
}

// AddBlock appends a fully formed block to the addressed slide. The
// caller supplies the block identifier; selection is untouched so
// programmatic inserts don't steal focus.
func (e *Engine) AddBlock(slideID string, block ContentBlock) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	slide := e.doc.SlideByID(slideID)
	if slide == nil {
		return
	}
	slide.Content = append(slide.Content, block)
	e.commit()
}

// UpdateBlock merges a partial field map into the addressed block.
// The block's id and type are immutable, and fields belonging to a
// different block type are rejected before anything changes; a
// rejected update records no history entry.
func (e *Engine) UpdateBlock(slideID, blockID string, fields map[string]interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil
	}
	slide := e.doc.SlideByID(slideID)
	if slide == nil {
		return nil
	}
	block := slide.BlockByID(blockID)
	if block == nil {
		return nil
	}
	// Stage on a copy so a mid-merge decode failure never leaves the
	// live block half written. The slices need their own backing
	// arrays or the decoder would write through into the live block.
	staged := *block
	staged.Items = append([]Item(nil), block.Items...)
	staged.Data = append([]DataPoint(nil), block.Data...)
	if err := staged.applyFields(fields); err != nil {
		return err
	}
	*block = staged
	e.commit()
	return nil
}

// DeleteBlock removes the addressed block, clearing the block
// selection when it was selected.
func (e *Engine) DeleteBlock(slideID, blockID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	slide := e.doc.SlideByID(slideID)
	if slide == nil {
		return
	}
	for i := range slide.Content {
		if slide.Content[i].ID == blockID {
			slide.Content = append(slide.Content[:i], slide.Content[i+1:]...)
			if e.selectedBlockID == blockID {
				e.selectedBlockID = ""
			}
			e.commit()
			return
		}
	}
}

// CopyBlock puts a deep copy of the block into the single clipboard
// slot, replacing any previous contents. The clipboard is transient
// state and records no history entry.
func (e *Engine) CopyBlock(block ContentBlock) {
	e.mu.Lock()
	defer e.mu.Unlock()

	copied := block
	copied.Items = append([]Item(nil), block.Items...)
	copied.Data = append([]DataPoint(nil), block.Data...)
	e.clipboard = &copied
}

// PasteBlock clones the clipboard block onto the addressed slide with
// a fresh identifier and a small position offset, then selects it.
// An empty clipboard or unknown slide is a no-op.
func (e *Engine) PasteBlock(slideID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil || e.clipboard == nil {
		return
	}
	slide := e.doc.SlideByID(slideID)
	if slide == nil {
		return
	}
	pasted := CloneBlock(*e.clipboard)
	pasted.Position.X += pastePositionOffset
	pasted.Position.Y += pastePositionOffset
	slide.Content = append(slide.Content, pasted)

	e.selectedSlideID = slideID
	e.selectedBlockID = pasted.ID
	e.commit()
}

// UpdateTitle renames the presentation.
func (e *Engine) UpdateTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	e.doc.Title = title
	e.commit()
}

// SetTheme switches the presentation's theme reference. The theme
// registry itself lives outside the engine.
func (e *Engine) SetTheme(themeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	e.doc.ThemeID = themeID
	e.commit()
}

// Undo restores the previous history snapshot. A no-op at the history
// floor. Selection referring to entities absent from the restored
// document is repaired: missing slide selects the first slide,
// missing block clears the block selection.
func (e *Engine) Undo() {
	e.mu.Lock()
	defer e.mu.Unlock()

	restored := e.hist.undo()
	if restored == nil {
		return
	}
	e.doc = restored
	e.repairSelection()
	e.notify()
}

// Redo restores the next history snapshot, with the same selection
// repair as Undo. A no-op at the history tip.
func (e *Engine) Redo() {
	e.mu.Lock()
	defer e.mu.Unlock()

	restored := e.hist.redo()
	if restored == nil {
		return
	}
	e.doc = restored
	e.repairSelection()
	e.notify()
}

func (e *Engine) repairSelection() {
	if e.doc == nil || len(e.doc.Slides) == 0 {
		e.selectedSlideID = ""
		e.selectedBlockID = ""
		return
	}
	slide := e.doc.SlideByID(e.selectedSlideID)
	if slide == nil {
		slide = &e.doc.Slides[0]
		e.selectedSlideID = slide.ID
		e.selectedBlockID = ""
		return
	}
	if e.selectedBlockID != "" && slide.BlockByID(e.selectedBlockID) == nil {
		e.selectedBlockID = ""
	}
}

// Presentation returns a deep copy of the live document, or nil when
// none is loaded. Callers never observe later mutations through the
// returned value.
func (e *Engine) Presentation() *Presentation {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil
	}
	return e.doc.Clone()
}

// Snapshot is Presentation under its export-facing name.
func (e *Engine) Snapshot() *Presentation { return e.Presentation() }

// SelectedSlideID returns the active slide ID, or "".
func (e *Engine) SelectedSlideID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedSlideID
}

// SelectedBlockID returns the active block ID, or "".
func (e *Engine) SelectedBlockID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedBlockID
}

// CanUndo reports whether an undo target exists.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.canUndo()
}

// CanRedo reports whether a redo target exists.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.canRedo()
}

// CopiedBlock returns a copy of the clipboard contents, or nil.
func (e *Engine) CopiedBlock() *ContentBlock {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.clipboard == nil {
		return nil
	}
	copied := *e.clipboard
	copied.Items = append([]Item(nil), e.clipboard.Items...)
	copied.Data = append([]DataPoint(nil), e.clipboard.Data...)
	return &copied
}

// SlideCount returns the number of slides, or 0 with no document.
func (e *Engine) SlideCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return 0
	}
	return len(e.doc.Slides)
}

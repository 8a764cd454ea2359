package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/livetemplate/deckdown"
	"github.com/livetemplate/deckdown/internal/storage"
)

// Session is one open presentation: the engine owning the live
// document, the sockets editing it, and the debounced auto-save that
// flushes to storage after a quiet period. The engine serializes
// mutations itself; the session only coordinates around it.
type Session struct {
	engine *deckdown.Engine
	store  storage.Store

	mu        sync.Mutex
	conns     map[*websocket.Conn]bool
	saveTimer *time.Timer
	saveDelay time.Duration
	dirty     bool
}

// NewSession builds a session around a loaded document.
func NewSession(doc *deckdown.Presentation, store storage.Store, saveDelay time.Duration) *Session {
	s := &Session{
		engine:    deckdown.NewEngine(),
		store:     store,
		conns:     map[*websocket.Conn]bool{},
		saveDelay: saveDelay,
	}
	s.engine.LoadPresentation(doc)
	s.engine.OnChange(s.scheduleSave)
	return s
}

// Engine exposes the session's engine for read paths (export).
func (s *Session) Engine() *deckdown.Engine { return s.engine }

// scheduleSave (re)arms the debounce timer. Rapid mutations collapse
// into a single write; the engine never waits on storage.
func (s *Session) scheduleSave(presentationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.saveDelay, func() {
		if err := s.save(context.Background()); err != nil {
			log.Printf("[Session] Auto-save failed for %s: %v", presentationID, err)
		}
	})
}

func (s *Session) save(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	s.mu.Unlock()

	doc := s.engine.Snapshot()
	if doc == nil {
		return nil
	}
	return s.store.Save(ctx, doc)
}

// Flush writes any pending state immediately, for shutdown and
// session teardown.
func (s *Session) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()

	if err := s.save(ctx); err != nil {
		log.Printf("[Session] Flush failed: %v", err)
	}
}

// Attach registers an editing socket.
func (s *Session) Attach(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = true
}

// Detach removes a socket.
func (s *Session) Detach(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// ConnCount returns the number of attached sockets.
func (s *Session) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// CloseConns closes every attached socket.
func (s *Session) CloseConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = map[*websocket.Conn]bool{}
}

// stateMessage is the full editor state pushed after every action.
type stateMessage struct {
	Type            string                 `json:"type"`
	Presentation    *deckdown.Presentation `json:"presentation"`
	SelectedSlideID string                 `json:"selectedSlideId,omitempty"`
	SelectedBlockID string                 `json:"selectedBlockId,omitempty"`
	CanUndo         bool                   `json:"canUndo"`
	CanRedo         bool                   `json:"canRedo"`
}

// State builds the current state message.
func (s *Session) State() stateMessage {
	return stateMessage{
		Type:            "state",
		Presentation:    s.engine.Presentation(),
		SelectedSlideID: s.engine.SelectedSlideID(),
		SelectedBlockID: s.engine.SelectedBlockID(),
		CanUndo:         s.engine.CanUndo(),
		CanRedo:         s.engine.CanRedo(),
	}
}

// BroadcastState pushes the current state to every socket.
func (s *Session) BroadcastState() {
	state := s.State()
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(state); err != nil {
			log.Printf("[WS] Write failed, dropping connection: %v", err)
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

// BroadcastEvent pushes a bare typed event to every socket.
func (s *Session) BroadcastEvent(eventType string) {
	msg := map[string]string{"type": eventType}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

// HandleAction dispatches one editor action into the engine. Unknown
// actions and malformed payloads return errors; engine-defined no-ops
// do not.
func (s *Session) HandleAction(action string, data json.RawMessage) error {
	switch action {
	case "addSlide":
		var p struct {
			Layout     deckdown.SlideLayout `json:"layout"`
			AfterIndex *int                 `json:"afterIndex"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		after := -1
		if p.AfterIndex != nil {
			after = *p.AfterIndex
		}
		s.engine.AddSlide(p.Layout, after)

	case "deleteSlide":
		var p struct {
			SlideID string `json:"slideId"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.DeleteSlide(p.SlideID)

	case "duplicateSlide":
		var p struct {
			SlideID string `json:"slideId"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.DuplicateSlide(p.SlideID)

	case "reorderSlides":
		var p struct {
			FromIndex int `json:"fromIndex"`
			ToIndex   int `json:"toIndex"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.ReorderSlides(p.FromIndex, p.ToIndex)

	case "selectSlide":
		var p struct {
			SlideID string `json:"slideId"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.SelectSlide(p.SlideID)

	case "updateSlideBackground":
		var p struct {
			SlideID    string               `json:"slideId"`
			Background *deckdown.Background `json:"background"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.UpdateSlideBackground(p.SlideID, p.Background)

	case "updateSpeakerNotes":
		var p struct {
			SlideID string `json:"slideId"`
			Text    string `json:"text"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.UpdateSpeakerNotes(p.SlideID, p.Text)

	case "addBlock":
		var p struct {
			SlideID string                `json:"slideId"`
			Block   deckdown.ContentBlock `json:"block"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		if !deckdown.ValidBlockType(p.Block.Type) {
			return fmt.Errorf("unknown block type %q", p.Block.Type)
		}
		if p.Block.ID == "" {
			p.Block.ID = deckdown.NewID("block")
		}
		s.engine.AddBlock(p.SlideID, p.Block)

	case "updateBlock":
		var p struct {
			SlideID string                 `json:"slideId"`
			BlockID string                 `json:"blockId"`
			Fields  map[string]interface{} `json:"fields"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		return s.engine.UpdateBlock(p.SlideID, p.BlockID, p.Fields)

	case "deleteBlock":
		var p struct {
			SlideID string `json:"slideId"`
			BlockID string `json:"blockId"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.DeleteBlock(p.SlideID, p.BlockID)

	case "selectBlock":
		var p struct {
			BlockID string `json:"blockId"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.SelectBlock(p.BlockID)

	case "copyBlock":
		var p struct {
			Block deckdown.ContentBlock `json:"block"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.CopyBlock(p.Block)

	case "pasteBlock":
		var p struct {
			SlideID string `json:"slideId"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.PasteBlock(p.SlideID)

	case "updateTitle":
		var p struct {
			Title string `json:"title"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.UpdateTitle(p.Title)

	case "setTheme":
		var p struct {
			Theme string `json:"theme"`
		}
		if err := decode(data, &p); err != nil {
			return err
		}
		s.engine.SetTheme(p.Theme)

	case "undo":
		s.engine.Undo()

	case "redo":
		s.engine.Redo()

	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("action requires a data payload")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid action payload: %w", err)
	}
	return nil
}

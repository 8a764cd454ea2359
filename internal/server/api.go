package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/livetemplate/deckdown"
	"github.com/livetemplate/deckdown/internal/export"
	"github.com/livetemplate/deckdown/internal/storage"
)

// handleList returns summaries of every stored presentation, newest
// first.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		log.Printf("[Server] List failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list presentations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"presentations": summaries})
}

// createRequest selects one of three creation paths: a blank deck, a
// named template, or a markdown outline. Template and outline are
// mutually exclusive.
type createRequest struct {
	Title    string `json:"title"`
	Theme    string `json:"theme"`
	Template string `json:"template"`
	Outline  string `json:"outline"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Template != "" && req.Outline != "" {
		writeJSONError(w, http.StatusBadRequest, "template and outline are mutually exclusive")
		return
	}
	if req.Theme != "" && !s.themes.Has(req.Theme) {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown theme %q", req.Theme))
		return
	}

	var (
		doc *deckdown.Presentation
		err error
	)
	switch {
	case req.Template != "":
		doc, err = deckdown.InstantiateTemplate(req.Template)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	case req.Outline != "":
		outline, perr := deckdown.ParseOutline([]byte(req.Outline), "outline.md")
		if perr != nil {
			writeJSONError(w, http.StatusBadRequest, perr.Error())
			return
		}
		doc, err = deckdown.MaterializeOutline(outline)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	default:
		engine := deckdown.NewEngine()
		engine.CreatePresentation(req.Title, req.Theme)
		doc = engine.Snapshot()
	}

	if req.Title != "" {
		doc.Title = req.Title
	}
	if req.Theme != "" {
		doc.ThemeID = req.Theme
	}

	if err := s.store.Save(r.Context(), doc); err != nil {
		log.Printf("[Server] Save failed for %s: %v", doc.ID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save presentation")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Prefer the live session state over the stored copy.
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		writeJSON(w, http.StatusOK, sess.Engine().Presentation())
		return
	}

	doc, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "presentation not found")
			return
		}
		log.Printf("[Server] Load failed for %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load presentation")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.CloseConns()
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "presentation not found")
			return
		}
		log.Printf("[Server] Delete failed for %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to delete presentation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport renders a presentation as a standalone HTML document
// or pretty-printed JSON, selected by ?format=.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var doc *deckdown.Presentation
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		doc = sess.Engine().Presentation()
	} else {
		loaded, err := s.store.Load(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, "presentation not found")
				return
			}
			log.Printf("[Server] Load failed for %s: %v", id, err)
			writeJSONError(w, http.StatusInternalServerError, "failed to load presentation")
			return
		}
		doc = loaded
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, export.HTML(doc, s.themes.Get(doc.ThemeID)))
	case "json":
		data, err := export.JSON(doc)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode presentation")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
	}
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"themes": s.themes.List()})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": deckdown.Templates()})
}

// handleImageSearch proxies stock photo search so API credentials
// stay on the server.
func (s *Server) handleImageSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSONError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	count := 12
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 30 {
			writeJSONError(w, http.StatusBadRequest, "count must be between 1 and 30")
			return
		}
		count = n
	}

	results, err := s.photos.Search(r.Context(), query, count)
	if err != nil {
		log.Printf("[Server] Image search failed for %q: %v", query, err)
		writeJSONError(w, http.StatusBadGateway, "image search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}

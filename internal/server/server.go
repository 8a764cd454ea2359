// Package server exposes the document engine over HTTP and
// WebSocket. REST endpoints cover presentation CRUD, themes,
// templates, image search and export; each open presentation gets one
// editing session that dispatches WebSocket actions into its engine
// and auto-saves after a quiet period.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/livetemplate/deckdown/internal/config"
	"github.com/livetemplate/deckdown/internal/images"
	"github.com/livetemplate/deckdown/internal/storage"
	"github.com/livetemplate/deckdown/internal/theme"
)

// Server ties the engine sessions to their boundaries: storage,
// themes, image search and the HTTP listener.
type Server struct {
	cfg    *config.Config
	store  storage.Store
	themes *theme.Registry
	photos *images.Client

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
	watcher    *theme.Watcher
	cancel     context.CancelFunc
	limiterWG  <-chan struct{}
}

// New wires a server from its configuration.
func New(cfg *config.Config) (*Server, error) {
	store, err := storage.Open(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	registry, err := theme.NewRegistry(cfg.Themes.Dir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load themes: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		themes:   registry,
		photos:   images.NewClient(cfg.Images.GetBaseURL(), cfg.Images.GetAccessKey()),
		sessions: map[string]*Session{},
	}
	return s, nil
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	rateLimit, done := RateLimitMiddleware(ctx,
		s.cfg.Server.GetRateLimit(), s.cfg.Server.GetRateBurst(), 0)
	s.limiterWG = done

	handler := CORSMiddleware(s.cfg.Server.CORSOrigins)(
		LoggingMiddleware(s.cfg.Server.Debug)(
			rateLimit(s.routes())))

	if s.themes.Dir() != "" {
		watcher, err := theme.NewWatcher(s.themes, s.broadcastThemeReload, s.cfg.Server.Debug)
		if err != nil {
			return fmt.Errorf("failed to watch themes: %w", err)
		}
		if watcher != nil {
			watcher.Start()
			s.watcher = watcher
			log.Printf("[Server] Watching themes in %s", s.themes.Dir())
		}
	}

	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("[Server] Listening on http://%s", s.cfg.Server.Addr())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/presentations", s.handleList)
	mux.HandleFunc("POST /api/presentations", s.handleCreate)
	mux.HandleFunc("GET /api/presentations/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/presentations/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/presentations/{id}/export", s.handleExport)
	mux.HandleFunc("GET /api/themes", s.handleThemes)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /api/images/search", s.handleImageSearch)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// Shutdown flushes every session and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}

	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Flush(ctx)
		sess.CloseConns()
	}

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.limiterWG != nil {
		select {
		case <-s.limiterWG:
		case <-ctx.Done():
		}
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// session returns the editing session for a presentation, loading the
// document from storage on first use.
func (s *Server) session(ctx context.Context, presentationID string) (*Session, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[presentationID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	// load outside the lock; storage can be slow
	doc, err := s.store.Load(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[presentationID]; ok {
		return sess, nil
	}
	sess := NewSession(doc, s.store,
		time.Duration(s.cfg.Server.GetAutosaveDelaySeconds())*time.Second)
	s.sessions[presentationID] = sess
	return sess, nil
}

// dropSession removes an idle session after its last socket closes.
func (s *Server) dropSession(presentationID string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[presentationID] == sess && sess.ConnCount() == 0 {
		sess.Flush(context.Background())
		delete(s.sessions, presentationID)
		log.Printf("[Server] Closed session for %s", presentationID)
	}
}

// broadcastThemeReload tells every connected editor the theme set
// changed.
func (s *Server) broadcastThemeReload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.BroadcastEvent("themes-reloaded")
	}
}

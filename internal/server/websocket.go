package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/livetemplate/deckdown/internal/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// MessageEnvelope is one editor action sent over WebSocket.
type MessageEnvelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// errorMessage reports an action failure without closing the socket.
type errorMessage struct {
	Type    string `json:"type"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}

// handleWebSocket upgrades the connection and pumps editor actions
// into the presentation's session. Every accepted action is followed
// by a state broadcast to all sockets on the session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	presentationID := r.URL.Query().Get("presentation")
	if presentationID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing query parameter presentation")
		return
	}

	sess, err := s.session(r.Context(), presentationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "presentation not found")
			return
		}
		log.Printf("[WS] Failed to open session for %s: %v", presentationID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Failed to upgrade connection: %v", err)
		return
	}
	defer func() {
		sess.Detach(conn)
		conn.Close()
		s.dropSession(presentationID, sess)
	}()

	sess.Attach(conn)
	if s.cfg.Server.Debug {
		log.Printf("[WS] Client connected to %s: %s", presentationID, conn.RemoteAddr())
	}

	// Send the current state to the new client before any actions.
	if err := conn.WriteJSON(sess.State()); err != nil {
		log.Printf("[WS] Failed to send initial state: %v", err)
		return
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close: %v", err)
			}
			break
		}

		var envelope MessageEnvelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			log.Printf("[WS] Failed to parse message: %v", err)
			s.sendError(conn, "", "invalid message")
			continue
		}

		if err := sess.HandleAction(envelope.Action, envelope.Data); err != nil {
			log.Printf("[WS] Action %s failed: %v", envelope.Action, err)
			s.sendError(conn, envelope.Action, err.Error())
			continue
		}

		if s.cfg.Server.Debug {
			log.Printf("[WS] Executed action %s on %s", envelope.Action, presentationID)
		}
		sess.BroadcastState()
	}

	if s.cfg.Server.Debug {
		log.Printf("[WS] Client disconnected from %s: %s", presentationID, conn.RemoteAddr())
	}
}

func (s *Server) sendError(conn *websocket.Conn, action, message string) {
	msg := errorMessage{Type: "error", Action: action, Message: message}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[WS] Failed to send error: %v", err)
	}
}

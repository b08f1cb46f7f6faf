package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/dispatch"
)

// wsResponse is the outgoing websocket frame: an answer or an error.
type wsResponse struct {
	Response string `json:"response,omitempty"`
	HTML     string `json:"html,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: s.allowedOrigin}
}

// allowedOrigin applies the CORS origin list to websocket handshakes.
// Non-browser clients send no Origin and are allowed.
func (s *Server) allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// handleWebSocket authenticates once at the handshake, then answers one
// question per frame. Browsers cannot set headers on websockets, so the
// token may come in the query string.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		header = r.URL.Query().Get("token")
	}
	claims, token, ok := s.authenticate(w, header)
	if !ok {
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", "error", err)
			}
			return
		}

		if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
			s.sendError(conn, dispatch.TokenExpiredMessage)
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError(conn, "invalid message format")
			continue
		}
		if req.OrgID == 0 {
			s.sendError(conn, "org_id is required")
			continue
		}
		memberID, ok := claims.MemberIDFor(req.OrgID)
		if !ok {
			s.sendError(conn, dispatch.ForbiddenMessage)
			continue
		}

		s.answerFrame(r.Context(), conn, claims, token, memberID, req)
	}
}

func (s *Server) answerFrame(ctx context.Context, conn *websocket.Conn, claims *auth.Claims, token string, memberID int64, req chatRequest) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	res := s.responder.Respond(ctx, req.Message, memberID, req.OrgID, token)
	s.record(ctx, claims.UserID, req, res)

	s.send(conn, wsResponse{Response: res.Text, HTML: s.renderHTML(res.Text)})
}

func (s *Server) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write", "error", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, message string) {
	s.send(conn, wsResponse{Error: message})
}

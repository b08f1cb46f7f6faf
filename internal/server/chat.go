package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/dispatch"
	"github.com/C1Z4/ourhour-chatbot/internal/history"
)

const maxBodyBytes = 1 << 20

// chatRequest is the body of POST /api/chat and each websocket frame.
type chatRequest struct {
	Message string `json:"message"`
	OrgID   int64  `json:"org_id"`
}

type chatResponse struct {
	Response string `json:"response"`
	HTML     string `json:"html,omitempty"`
}

type historyResponse struct {
	History []history.Entry `json:"history"`
}

// authError maps a verification failure to a status and a client message.
func authError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	default:
		return http.StatusUnauthorized, "Invalid token"
	}
}

// authenticate verifies the bearer token, writing the error response
// itself on failure.
func (s *Server) authenticate(w http.ResponseWriter, header string) (*auth.Claims, string, bool) {
	if s.verifier == nil {
		writeError(w, http.StatusInternalServerError, "JWT secret key not configured")
		return nil, "", false
	}
	token := auth.BearerToken(header)
	claims, err := s.verifier.Verify(token)
	if err != nil {
		status, detail := authError(err)
		s.log.Info("rejected token", "error", err)
		writeError(w, status, detail)
		return nil, "", false
	}
	if claims.UserID == 0 {
		writeError(w, http.StatusUnauthorized, "User ID not found in token")
		return nil, "", false
	}
	return claims, token, true
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	claims, token, ok := s.authenticate(w, r.Header.Get("Authorization"))
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrgID == 0 {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	memberID, ok := claims.MemberIDFor(req.OrgID)
	if !ok {
		writeError(w, http.StatusForbidden, "User not authorized for this organization")
		return
	}

	res := s.responder.Respond(r.Context(), req.Message, memberID, req.OrgID, token)
	s.record(r.Context(), claims.UserID, req, res)

	resp := chatResponse{Response: res.Text}
	if r.URL.Query().Get("format") == "html" {
		resp.HTML = s.renderHTML(res.Text)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims, _, ok := s.authenticate(w, r.Header.Get("Authorization"))
	if !ok {
		return
	}
	if s.history == nil {
		writeJSON(w, http.StatusOK, historyResponse{History: []history.Entry{}})
		return
	}

	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.history.Recent(r.Context(), claims.UserID, limit)
	if err != nil {
		s.log.Error("reading chat history", "user_id", claims.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{History: entries})
}

// record saves an answered question. Failures are logged; the caller
// still gets the answer.
func (s *Server) record(ctx context.Context, userID int64, req chatRequest, res dispatch.Result) {
	if s.history == nil || res.Label == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := s.history.Save(ctx, history.Entry{
		ID:       res.RequestID,
		UserID:   userID,
		OrgID:    req.OrgID,
		Message:  req.Message,
		Response: res.Text,
		Label:    string(res.Label),
	})
	if err != nil {
		s.log.Warn("saving chat history", "request_id", res.RequestID, "error", err)
	}
}

package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/db"
	"github.com/C1Z4/ourhour-chatbot/internal/dispatch"
	"github.com/C1Z4/ourhour-chatbot/internal/history"
	"github.com/C1Z4/ourhour-chatbot/internal/intent"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("server-test-secret-long-enough-for-hs512-signing-0123456789abcdef"))

type call struct {
	query           string
	memberID, orgID int64
	token           string
}

// fakeResponder answers with a fixed markdown text and records calls.
type fakeResponder struct {
	mu    sync.Mutex
	calls []call
	text  string
}

func (f *fakeResponder) Respond(_ context.Context, query string, memberID, orgID int64, token string) dispatch.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query, memberID, orgID, token})
	return dispatch.Result{Text: f.text, Label: intent.OrgChartQuery, RequestID: "req-" + query}
}

func (f *fakeResponder) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fixture struct {
	srv       *Server
	responder *fakeResponder
	verifier  *auth.Verifier
	store     history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	v, err := auth.NewVerifier(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	store := history.NewSQLiteStore(database)
	t.Cleanup(func() { store.Close() })

	responder := &fakeResponder{text: "**김철수**님의 전화번호는 010-1234-5678입니다."}
	srv := New(Config{AllowedOrigins: []string{"http://localhost:5173"}, RequestTimeout: 5 * time.Second}, responder, v, store, nil)
	return &fixture{srv: srv, responder: responder, verifier: v, store: store}
}

func (f *fixture) token(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	tok, err := f.verifier.Sign(&auth.Claims{
		UserID:           7,
		OrgAuthorityList: []auth.OrgAuthority{{OrgID: 1, MemberID: 11, Role: "USER"}},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn))},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (f *fixture) post(t *testing.T, path, authz, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestRoot(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "챗봇") {
		t.Errorf("GET / = %d %s", w.Code, w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest("OPTIONS", "/api/chat", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestChat(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, time.Hour)

	w := f.post(t, "/api/chat?format=html", "Bearer "+tok, `{"message":"김철수 전화번호 알려줘","org_id":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != f.responder.text {
		t.Errorf("response = %q", resp.Response)
	}
	if !strings.Contains(resp.HTML, "<strong>김철수</strong>") {
		t.Errorf("html = %q", resp.HTML)
	}

	calls := f.responder.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if c := calls[0]; c.memberID != 11 || c.orgID != 1 || c.token != tok {
		t.Errorf("call = %+v", c)
	}

	entries, err := f.store.Recent(context.Background(), 7, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "req-김철수 전화번호 알려줘" || entries[0].Label != string(intent.OrgChartQuery) {
		t.Errorf("history = %+v", entries)
	}
}

func TestChatWithoutFormatOmitsHTML(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, "/api/chat", "Bearer "+f.token(t, time.Hour), `{"message":"안녕","org_id":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"html"`) {
		t.Errorf("unexpected html field: %s", w.Body.String())
	}
}

func TestChatRejections(t *testing.T) {
	f := newFixture(t)
	valid := "Bearer " + f.token(t, time.Hour)
	expired := "Bearer " + f.token(t, -time.Hour)

	tests := []struct {
		name   string
		authz  string
		body   string
		status int
		detail string
	}{
		{"no token", "", `{"message":"hi","org_id":1}`, http.StatusUnauthorized, "Not authenticated"},
		{"expired", expired, `{"message":"hi","org_id":1}`, http.StatusUnauthorized, "Token expired"},
		{"garbage", "Bearer abc.def.ghi", `{"message":"hi","org_id":1}`, http.StatusUnauthorized, "Invalid token"},
		{"bad body", valid, `{"message":`, http.StatusBadRequest, "invalid request body"},
		{"missing org", valid, `{"message":"hi"}`, http.StatusBadRequest, "org_id is required"},
		{"foreign org", valid, `{"message":"hi","org_id":2}`, http.StatusForbidden, "User not authorized for this organization"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.post(t, "/api/chat", tt.authz, tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var e errorResponse
			json.Unmarshal(w.Body.Bytes(), &e)
			if e.Detail != tt.detail {
				t.Errorf("detail = %q, want %q", e.Detail, tt.detail)
			}
		})
	}
	if n := len(f.responder.Calls()); n != 0 {
		t.Errorf("rejected requests reached the responder %d times", n)
	}
}

func TestChatWithoutVerifier(t *testing.T) {
	srv := New(Config{}, &fakeResponder{}, nil, nil, nil)
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi","org_id":1}`))
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	authz := "Bearer " + f.token(t, time.Hour)
	for _, q := range []string{"첫번째", "두번째", "세번째"} {
		if w := f.post(t, "/api/chat", authz, `{"message":"`+q+`","org_id":1}`); w.Code != http.StatusOK {
			t.Fatalf("chat status = %d", w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/chat/history?limit=2", nil)
	req.Header.Set("Authorization", authz)
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp historyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.History) != 2 {
		t.Fatalf("got %d entries, want 2", len(resp.History))
	}
	for _, e := range resp.History {
		if e.UserID != 7 || e.OrgID != 1 {
			t.Errorf("entry = %+v", e)
		}
	}

	req = httptest.NewRequest("GET", "/api/chat/history", nil)
	w = httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated history status = %d", w.Code)
	}
}

func TestWebSocket(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Router())
	defer ts.Close()

	base := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/chat/ws"

	if _, resp, err := websocket.DefaultDialer.Dial(base, nil); err == nil {
		t.Fatal("expected handshake without token to fail")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("handshake without token: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+f.token(t, time.Hour), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	frames := []struct {
		in      string
		wantErr string
	}{
		{`{"message":"김철수 전화번호 알려줘","org_id":1}`, ""},
		{`{"message":"hi","org_id":2}`, dispatch.ForbiddenMessage},
		{`not json`, "invalid message format"},
	}
	for _, fr := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(fr.in)); err != nil {
			t.Fatal(err)
		}
		var resp wsResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Error != fr.wantErr {
			t.Errorf("frame %s: error = %q, want %q", fr.in, resp.Error, fr.wantErr)
		}
		if fr.wantErr == "" && !strings.Contains(resp.HTML, "<strong>") {
			t.Errorf("frame %s: html = %q", fr.in, resp.HTML)
		}
	}

	if n := len(f.responder.Calls()); n != 1 {
		t.Errorf("responder called %d times, want 1", n)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/chat/ws?token=" + f.token(t, time.Hour)
	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Error("expected foreign origin to be refused")
	}
}

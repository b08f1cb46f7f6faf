package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/C1Z4/ourhour-chatbot/internal/dispatch"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour/ourhourtest"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// mockAnswerer records questions and echoes them back.
type mockAnswerer struct {
	mu    sync.Mutex
	calls []string
	orgs  []int64
}

func (m *mockAnswerer) Answer(_ context.Context, query string, memberID, orgID int64, token string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, query)
	m.orgs = append(m.orgs, orgID)
	return "answer: " + query
}

var session = Session{OrgID: 1, MemberID: 2, AuthToken: "tok"}

func newTestServer(fake *ourhourtest.Fake, answerer Answerer, sess Session) *Server {
	clients := func(string) ourhour.Client { return fake }
	return NewServer(answerer, clients, snapshot.Options{}, sess)
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestToolDefinitions(t *testing.T) {
	// Verify tool names and required properties.
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_organization", askOrganizationTool, "ask_organization"},
		{"organization_summary", organizationSummaryTool, "organization_summary"},
		{"find_member", findMemberTool, "find_member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(ourhourtest.Sample(), &mockAnswerer{}, session)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.session != session {
		t.Errorf("session = %+v, want %+v", srv.session, session)
	}
}

func TestHandleAskOrganization(t *testing.T) {
	ans := &mockAnswerer{}
	srv := newTestServer(ourhourtest.Sample(), ans, session)
	ctx := context.Background()

	t.Run("default org", func(t *testing.T) {
		result, err := srv.handleAskOrganization(ctx, call(map[string]any{"question": "김철수 전화번호 알려줘"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if got := text(t, result); got != "answer: 김철수 전화번호 알려줘" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("explicit org", func(t *testing.T) {
		if _, err := srv.handleAskOrganization(ctx, call(map[string]any{"question": "안녕", "org_id": float64(5)})); err != nil {
			t.Fatal(err)
		}
		if got := ans.orgs[len(ans.orgs)-1]; got != 5 {
			t.Errorf("org = %d, want 5", got)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		result, err := srv.handleAskOrganization(ctx, call(map[string]any{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func TestHandleOrganizationSummary(t *testing.T) {
	srv := newTestServer(ourhourtest.Sample(), &mockAnswerer{}, session)

	result, err := srv.handleOrganizationSummary(context.Background(), call(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if got := text(t, result); !strings.Contains(got, "- 개발팀: 2명") {
		t.Errorf("summary missing department counts:\n%s", got)
	}
}

func TestHandleFindMember(t *testing.T) {
	srv := newTestServer(ourhourtest.Sample(), &mockAnswerer{}, session)
	ctx := context.Background()

	result, err := srv.handleFindMember(ctx, call(map[string]any{"name": "김철수"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := text(t, result); !strings.Contains(got, "010-1234-5678") {
		t.Errorf("find_member 김철수:\n%s", got)
	}

	result, _ = srv.handleFindMember(ctx, call(map[string]any{"name": "철수"}))
	if got := text(t, result); strings.Contains(got, "010-1234-5678") || !strings.Contains(got, "- 김철수: 팀장, 개발팀") {
		t.Errorf("find_member 철수 should only suggest:\n%s", got)
	}

	result, _ = srv.handleFindMember(ctx, call(map[string]any{"name": "홍길동"}))
	if got := text(t, result); !strings.Contains(got, "찾을 수 없습니다") {
		t.Errorf("find_member 홍길동:\n%s", got)
	}

	result, _ = srv.handleFindMember(ctx, call(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing name")
	}
}

func TestSnapshotErrors(t *testing.T) {
	fake := ourhourtest.Sample()
	fake.Fail = map[string]error{"Organization": errors.New("API down")}
	srv := newTestServer(fake, &mockAnswerer{}, session)

	result, err := srv.handleOrganizationSummary(context.Background(), call(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError || text(t, result) != dispatch.OrgUnavailableMessage {
		t.Errorf("result = %v", result.Content)
	}

	noToken := newTestServer(ourhourtest.Sample(), &mockAnswerer{}, Session{OrgID: 1})
	result, _ = noToken.handleOrganizationSummary(context.Background(), call(map[string]any{}))
	if !result.IsError || text(t, result) != dispatch.TokenMissingMessage {
		t.Errorf("result without token = %v", result.Content)
	}
}

package ourhour

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", "tok-123", srv.Client())
}

func TestHTTPClientForwardsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"OK","message":"","data":{"orgId":7,"name":"아워하우스"}}`))
	})

	org, err := c.Organization(context.Background(), 7)
	if err != nil {
		t.Fatalf("Organization: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotPath != "/api/organizations/7" {
		t.Errorf("path = %q, want /api/organizations/7", gotPath)
	}
	if org.Name != "아워하우스" {
		t.Errorf("org name = %q, want 아워하우스", org.Name)
	}
}

func TestHTTPClientNonOKStatusIsAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"BAD_REQUEST","message":"잘못된 요청","data":null}`))
	})

	_, err := c.Departments(context.Background(), 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "잘못된 요청" {
		t.Errorf("message = %q, want 잘못된 요청", apiErr.Message)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("a 200 response with a failed envelope must not be an auth error")
	}
}

func TestHTTPClientAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantIs     error
		wantExpire bool
	}{
		{"expired", http.StatusUnauthorized, `{"status":"UNAUTHORIZED","message":"JWT expired"}`, ErrUnauthorized, true},
		{"invalid", http.StatusUnauthorized, `{"status":"UNAUTHORIZED","message":"bad signature"}`, ErrUnauthorized, false},
		{"forbidden", http.StatusForbidden, `forbidden`, ErrForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.AllMembers(context.Background(), 1)
			if !errors.Is(err, tt.wantIs) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
			if got := errors.Is(err, ErrTokenExpired); got != tt.wantExpire {
				t.Errorf("errors.Is(err, ErrTokenExpired) = %v, want %v", got, tt.wantExpire)
			}
		})
	}
}

func TestHTTPClientPageDecodesDataAndContent(t *testing.T) {
	bodies := map[string]string{
		"/api/organizations/1/projects":                `{"status":"OK","data":{"data":[{"projectId":1,"name":"A"}],"currentPage":1,"totalPages":1}}`,
		"/api/organizations/1/projects/1/participants": `{"status":"OK","data":{"content":[{"memberId":3,"name":"김철수"}]}}`,
	}
	var gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/projects") {
			gotQuery = r.URL.RawQuery
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	})

	ctx := context.Background()
	projects, err := c.Projects(ctx, 1, ProjectQuery{PageQuery: PageQuery{Page: 1, Size: 100}, ParticipantLimit: 5})
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if got := len(projects.Items()); got != 1 {
		t.Fatalf("projects = %d, want 1", got)
	}
	for _, want := range []string{"currentPage=1", "size=100", "participantLimit=5"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	parts, err := c.Participants(ctx, 1, 1, PageQuery{Size: 20})
	if err != nil {
		t.Fatalf("Participants: %v", err)
	}
	items := parts.Items()
	if len(items) != 1 || items[0].Name != "김철수" {
		t.Errorf("participants = %+v, want one 김철수", items)
	}
}

func TestHTTPClientCommentsUsesOrgCommentPath(t *testing.T) {
	var gotPath, gotIssue string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIssue = r.URL.Query().Get("issueId")
		w.Write([]byte(`{"status":"OK","data":{"data":[]}}`))
	})

	if _, err := c.Comments(context.Background(), 4, 99, PageQuery{Size: 3}); err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if gotPath != "/api/org/4/comments" {
		t.Errorf("path = %q, want /api/org/4/comments", gotPath)
	}
	if gotIssue != "99" {
		t.Errorf("issueId = %q, want 99", gotIssue)
	}
}

func TestIssueHelpers(t *testing.T) {
	issue := Issue{
		Name:         "legacy",
		Status:       "OPEN",
		AssigneeID:   1,
		AssigneeName: "김철수",
		Assignees:    []Assignee{{MemberID: 1, Name: "김철수"}, {MemberID: 2, Name: "이영희"}},
	}
	if got := issue.DisplayTitle(); got != "legacy" {
		t.Errorf("DisplayTitle = %q, want legacy", got)
	}
	if got := issue.DisplayState(); got != "OPEN" {
		t.Errorf("DisplayState = %q, want OPEN", got)
	}
	if got := issue.AssigneeNames(); len(got) != 2 {
		t.Errorf("AssigneeNames = %v, want 2 names", got)
	}
	if !issue.AssignedTo(2) || issue.AssignedTo(3) || issue.AssignedTo(0) {
		t.Error("AssignedTo mismatch")
	}
}

func TestHTTPClientCapsResponseSize(t *testing.T) {
	defer func(n int64) { maxResponseBytes = n }(maxResponseBytes)
	maxResponseBytes = 64

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","message":"","data":{"orgId":7,"name":"` + strings.Repeat("가", 100) + `"}}`))
	})
	if _, err := c.Organization(context.Background(), 7); !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("err = %v, want ErrResponseTooLarge", err)
	}

	small := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","data":{"orgId":7}}`))
	})
	if _, err := small.Organization(context.Background(), 7); err != nil {
		t.Fatalf("response under the cap: %v", err)
	}
}

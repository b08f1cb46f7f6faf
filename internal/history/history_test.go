package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/C1Z4/ourhour-chatbot/internal/config"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, msg := range []string{"안녕", "김철수 전화번호 알려줘", "챗봇 프로젝트 진행 상황"} {
		err := s.Save(ctx, Entry{
			UserID:    7,
			OrgID:     1,
			Message:   msg,
			Response:  "답변",
			Label:     "org_chart_query",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Save(%q): %v", msg, err)
		}
	}
	if err := s.Save(ctx, Entry{UserID: 8, OrgID: 1, Message: "다른 사용자", Response: "x"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 7, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Message != "챗봇 프로젝트 진행 상황" || got[1].Message != "김철수 전화번호 알려줘" {
		t.Errorf("order = [%q %q], want newest first", got[0].Message, got[1].Message)
	}
	if got[0].ID == "" {
		t.Error("expected a generated ID")
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("created_at = %v, want %v", got[0].CreatedAt, base.Add(2*time.Minute))
	}
	if got[0].Label != "org_chart_query" {
		t.Errorf("label = %q", got[0].Label)
	}

	all, err := s.Recent(ctx, 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("default limit returned %d entries, want 3", len(all))
	}

	none, err := s.Recent(ctx, 99, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unknown user returned %d entries", len(none))
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := Open(context.Background(), config.HistoryConfig{Driver: config.HistorySQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("OURHOUR_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("OURHOUR_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM chat_history WHERE user_id IN (7, 8)")
		s.Close()
	})
	s.pool.Exec(ctx, "DELETE FROM chat_history WHERE user_id IN (7, 8)")
	exerciseStore(t, s)
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.HistoryConfig{Driver: "mysql"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{5, 5},
		{1000, MaxLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

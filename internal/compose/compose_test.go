package compose

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/C1Z4/ourhour-chatbot/internal/namematch"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour/ourhourtest"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

func sampleSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.NewAggregator(ourhourtest.Sample(), snapshot.Options{}).BuildSnapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	return s
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderFinalPrompt(t *testing.T) {
	got := RenderFinalPrompt("조직 요약", "- 간결하게", "김철수 전화번호 알려줘")

	assertContains(t, got, Persona, "조직 요약", "- 간결하게", "사용자 질문: 김철수 전화번호 알려줘", "추측하지 말고")
	info := strings.Index(got, "=== 제공된 정보 ===")
	guide := strings.Index(got, "=== 답변 지침 ===")
	question := strings.Index(got, "사용자 질문:")
	if info < 0 || guide < info || question < guide {
		t.Errorf("sections out of order: info=%d guidelines=%d question=%d", info, guide, question)
	}
}

func TestResolve(t *testing.T) {
	m := namematch.New([]string{"김철수", "김영희", "박지민"})
	tests := []struct {
		query       string
		want        Resolution
		match       string
		suggestions []string
	}{
		{"김철수", Exact, "김철수", nil},
		{" 김철수 ", Exact, "김철수", nil},
		{"철수", Suggested, "김철수", []string{"김철수"}},
		{"김철호", Suggested, "김철수", nil},
		{"김", Suggested, "김철수", []string{"김철수", "김영희"}},
		{"홍길동", NotFound, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := Resolve(m, tt.query)
			if r.Resolution != tt.want {
				t.Fatalf("resolution = %v, want %v", r.Resolution, tt.want)
			}
			if r.Match.Name != tt.match {
				t.Errorf("match = %q, want %q", r.Match.Name, tt.match)
			}
			if tt.want == Suggested && r.Suggestions[0] != tt.match {
				t.Errorf("suggestions = %v, want best match first", r.Suggestions)
			}
			if len(r.Suggestions) > namematch.DefaultMaxSuggestions {
				t.Errorf("suggestions = %v, want at most %d", r.Suggestions, namematch.DefaultMaxSuggestions)
			}
			if tt.suggestions != nil && strings.Join(r.Suggestions, ",") != strings.Join(tt.suggestions, ",") {
				t.Errorf("suggestions = %v, want %v", r.Suggestions, tt.suggestions)
			}
		})
	}
}

func TestPersonContext(t *testing.T) {
	s := sampleSnapshot(t)

	t.Run("exact", func(t *testing.T) {
		got := PersonContext(s, "김철수")
		assertContains(t, got, "- 이름: 김철수", "010-1234-5678", "chulsoo@ourhour.io", "- 부서: 개발팀", "- 직책: 팀장", "- 참여 프로젝트: 챗봇")
		if strings.Contains(got, "유사한 이름") {
			t.Error("exact name should not list suggestions")
		}
	})

	// Anything short of the full name only offers candidates; the record of
	// a different person must never be rendered as the answer.
	for _, q := range []string{"김철호", "김", "김철", "철수"} {
		t.Run("fuzzy "+q, func(t *testing.T) {
			got := PersonContext(s, q)
			assertContains(t, got,
				fmt.Sprintf("'%s'과 유사한 이름을 찾았습니다:", q),
				"- 김철수: 팀장, 개발팀",
				"(가장 유사한 이름: '김철수'",
			)
			for _, private := range []string{"010-1234-5678", "chulsoo@ourhour.io", "ROOT_ADMIN"} {
				if strings.Contains(got, private) {
					t.Errorf("fuzzy match exposed %q:\n%s", private, got)
				}
			}
		})
	}

	t.Run("close spelling similarity", func(t *testing.T) {
		assertContains(t, PersonContext(s, "김철호"), "(가장 유사한 이름: '김철수', 유사도 0.67.")
	})

	t.Run("not found", func(t *testing.T) {
		got := PersonContext(s, "홍길동")
		assertContains(t, got, "'홍길동'에 해당하는 직원을 찾을 수 없습니다.")
	})
}

func TestProjectContext(t *testing.T) {
	s := sampleSnapshot(t)

	t.Run("exact", func(t *testing.T) {
		got := ProjectContext(s, "챗봇")
		assertContains(t, got,
			"=== 프로젝트 정보: 챗봇 ===",
			"- 이슈: 열림 2개, 완료 1개 (전체 3개)",
			"- GitHub: https://github.com/ourhour/chatbot",
			"- 김철수 (팀장, 개발팀)",
			"- MVP [OPEN] 진행률 33.3% (완료 1/3)",
			"- #5001 의도 분류기 구현 (OPEN) 담당: 김철수 마일스톤: MVP",
			"  - 댓글 이영희: 분류 기준을 정리했습니다",
		)
	})

	t.Run("suggested", func(t *testing.T) {
		got := ProjectContext(s, "그룹채팅")
		assertContains(t, got, "'그룹채팅'과 유사한 프로젝트를 찾았습니다:", "- 그룹웨어: 사내 그룹웨어, 참가자 1명")
		if strings.Contains(got, "=== 프로젝트 정보: 그룹웨어 ===") {
			t.Error("a similar project must not be rendered in detail")
		}
	})

	t.Run("not found", func(t *testing.T) {
		got := ProjectContext(s, "없는과제")
		assertContains(t, got, "'없는과제'에 해당하는 프로젝트를 찾을 수 없습니다.")
	})

	t.Run("warnings", func(t *testing.T) {
		fake := ourhourtest.Sample()
		fake.Fail = map[string]error{"Milestones:100": fmt.Errorf("timeout")}
		s, err := snapshot.NewAggregator(fake, snapshot.Options{}).BuildSnapshot(context.Background(), 1)
		if err != nil {
			t.Fatal(err)
		}
		assertContains(t, ProjectContext(s, "챗봇"), "일부 정보를 불러오지 못했습니다: milestones: timeout")
	})
}

func TestCurrentUserContext(t *testing.T) {
	s := sampleSnapshot(t)

	got := CurrentUserContext(s, s.MemberIndex["김철수"])
	assertContains(t, got, "- 이름: 김철수 (팀장, 개발팀)", "- 참여 프로젝트: 챗봇", "[챗봇]", "- #5001 의도 분류기 구현 (OPEN)")
	if strings.Contains(got, "#5002") {
		t.Error("issue assigned to someone else listed")
	}

	got = CurrentUserContext(s, snapshot.MemberRecord{MemberID: 99, Name: "신입"})
	assertContains(t, got, "담당 이슈: 없음")
}

func TestCurrentUserContextCapsPerProject(t *testing.T) {
	var issues []snapshot.Issue
	for i := range 7 {
		issues = append(issues, snapshot.Issue{ID: int64(i + 1), Title: fmt.Sprintf("이슈 %d", i+1), State: "OPEN", AssigneeIDs: []int64{1}})
	}
	s := &snapshot.Snapshot{Projects: []snapshot.ProjectInfo{{Name: "큰 프로젝트", RecentIssues: issues}}}

	got := CurrentUserContext(s, snapshot.MemberRecord{MemberID: 1, Name: "김철수"})
	assertContains(t, got, "- #5 이슈 5 (OPEN)", "(외 2개 더 있음)")
	if strings.Contains(got, "#6 ") {
		t.Error("more than five issues listed for one project")
	}
}

func TestChatContexts(t *testing.T) {
	fake := ourhourtest.Sample()

	assertContains(t, ChatRoomsContext(fake.Rooms), "총 2개", "- 개발팀 채팅방", "- 잡담방")
	assertContains(t, ChatRoomsContext(nil), "참여 중인 채팅방이 없습니다.")

	room := fake.Rooms[0]
	assertContains(t, ChatRoomContext(room, fake.MessagesByRoom[room.RoomID]),
		"=== 채팅방: 개발팀 채팅방 ===", "[2025-07-01T10:00:00] 김철수: 배포는 금요일입니다")
	assertContains(t, ChatRoomContext(ourhour.ChatRoom{Name: "빈 방"}, nil), "최근 메시지가 없습니다.")
}

func TestJoinAndRelated(t *testing.T) {
	if got := Join("a", "  ", "", "b"); got != "a\n\nb" {
		t.Errorf("got %q, want %q", got, "a\n\nb")
	}
	if got := RelatedContext(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	assertContains(t, RelatedContext([]string{"김철수\n개발팀"}), "=== 관련 기록 ===", "- 김철수 / 개발팀")
}

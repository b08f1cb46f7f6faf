package snapshot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour/ourhourtest"
)

func TestGenerateSummarySingleMember(t *testing.T) {
	fake := &ourhourtest.Fake{
		Org:            ourhour.Organization{Name: "작은회사"},
		DepartmentList: []ourhour.Department{{DeptID: 1, Name: "개발팀"}},
		MemberList:     []ourhour.Member{{MemberID: 1, Name: "김철수", DeptName: "개발팀"}},
	}
	s := build(t, fake, Options{})

	summary := GenerateSummary(s)
	for _, want := range []string{
		"조직명: 작은회사",
		"총 구성원 수: 1명",
		"- 개발팀: 1명",
		"- 김철수: 정보 없음, 개발팀, 정보 없음, 정보 없음",
		"- 프로젝트 참여 정보 없음",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestGenerateSummarySample(t *testing.T) {
	s := build(t, ourhourtest.Sample(), Options{})
	summary := GenerateSummary(s)

	for _, want := range []string{
		"가장 큰 부서: 개발팀 (2명)",
		"- 디자인팀: 1명",
		"- 사원: 2명",
		"총 프로젝트: 2개",
		"GitHub 연동 프로젝트: 1개",
		"전체 참가자: 3명",
		"  * 참여 멤버: 김철수, 이영희",
		"  * GitHub: https://github.com/ourhour/chatbot",
		"- 김철수: 팀장, 개발팀, chulsoo@ourhour.io, 010-1234-5678",
		"- 박지민: 그룹웨어",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}

	sections := []string{"부서별 구성원 수:", "직책별 구성원 수:", "=== 프로젝트 현황 ===", "=== 멤버 상세 정보 ===", "=== 멤버별 프로젝트 참여 현황 ==="}
	last := -1
	for _, sec := range sections {
		i := strings.Index(summary, sec)
		if i <= last {
			t.Errorf("section %q out of order", sec)
		}
		last = i
	}
}

func TestGenerateSummaryIsDeterministic(t *testing.T) {
	a := GenerateSummary(build(t, ourhourtest.Sample(), Options{Concurrency: 1}))
	b := GenerateSummary(build(t, ourhourtest.Sample(), Options{Concurrency: 8}))
	if a != b {
		t.Error("summaries of equal inputs differ")
	}
}

func TestParticipantNamesCollapsesOverflow(t *testing.T) {
	var parts []Participant
	for i := range 7 {
		parts = append(parts, Participant{Name: fmt.Sprintf("멤버%d", i)})
	}
	got := participantNames(parts)
	if want := "멤버0, 멤버1, 멤버2, 멤버3, 멤버4 (외 2명)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

package compose

import (
	"fmt"
	"strings"

	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// PersonContext renders what the snapshot knows about the person named in
// a question: their full record, a list of similar names, or a not-found
// sentence.
func PersonContext(s *snapshot.Snapshot, name string) string {
	r := Resolve(s.MemberMatcher(), name)

	var b strings.Builder
	b.WriteString("=== 인물 정보 ===\n")
	switch r.Resolution {
	case Exact:
		writeMember(&b, s, s.MemberIndex[r.Match.Name])
	case Suggested:
		fmt.Fprintf(&b, "'%s'과 유사한 이름을 찾았습니다:\n", name)
		writeMemberLines(&b, s, r.Suggestions)
		if r.Match.Name != "" {
			fmt.Fprintf(&b, "(가장 유사한 이름: '%s', 유사도 %.2f. 정확히 일치하는 직원은 없습니다.)\n", r.Match.Name, r.Match.Similarity)
		}
	case NotFound:
		fmt.Fprintf(&b, "'%s'에 해당하는 직원을 찾을 수 없습니다.\n", name)
	}
	return b.String()
}

func writeMember(b *strings.Builder, s *snapshot.Snapshot, m snapshot.MemberRecord) {
	fmt.Fprintf(b, "- 이름: %s\n", m.Name)
	fmt.Fprintf(b, "- 이메일: %s\n", orNone(m.Email))
	fmt.Fprintf(b, "- 전화번호: %s\n", orNone(m.Phone))
	fmt.Fprintf(b, "- 부서: %s\n", orNone(m.Department))
	fmt.Fprintf(b, "- 직책: %s\n", orNone(m.Position))
	fmt.Fprintf(b, "- 역할: %s\n", orNone(m.Role))
	if projects := s.ProjectsOf(m.Name); len(projects) > 0 {
		fmt.Fprintf(b, "- 참여 프로젝트: %s\n", strings.Join(projects, ", "))
	} else {
		b.WriteString("- 참여 프로젝트: 없음\n")
	}
}

func writeMemberLines(b *strings.Builder, s *snapshot.Snapshot, names []string) {
	for _, n := range names {
		m := s.MemberIndex[n]
		fmt.Fprintf(b, "- %s: %s, %s\n", n, orNone(m.Position), orNone(m.Department))
	}
}

// CurrentUserContext describes the member asking the question and the
// issues assigned to them, up to five per project.
func CurrentUserContext(s *snapshot.Snapshot, current snapshot.MemberRecord) string {
	const perProject = 5

	var b strings.Builder
	b.WriteString("=== 현재 사용자 정보 ===\n")
	fmt.Fprintf(&b, "- 이름: %s (%s, %s)\n", current.Name, orNone(current.Position), orNone(current.Department))
	fmt.Fprintf(&b, "- 이메일: %s\n", orNone(current.Email))
	if projects := s.ProjectsOf(current.Name); len(projects) > 0 {
		fmt.Fprintf(&b, "- 참여 프로젝트: %s\n", strings.Join(projects, ", "))
	}

	wrote := false
	for _, p := range s.Projects {
		var mine []snapshot.Issue
		for _, is := range p.RecentIssues {
			if assignedTo(is, current) {
				mine = append(mine, is)
			}
		}
		if len(mine) == 0 {
			continue
		}
		if !wrote {
			b.WriteString("담당 이슈:\n")
			wrote = true
		}
		fmt.Fprintf(&b, "[%s]\n", p.Name)
		for _, is := range mine[:min(len(mine), perProject)] {
			fmt.Fprintf(&b, "- #%d %s (%s)\n", is.ID, is.Title, orNone(is.State))
		}
		if rest := len(mine) - perProject; rest > 0 {
			fmt.Fprintf(&b, "  (외 %d개 더 있음)\n", rest)
		}
	}
	if !wrote {
		b.WriteString("담당 이슈: 없음\n")
	}
	return b.String()
}

// assignedTo matches by member ID, or by name when the issue carries no
// assignee IDs.
func assignedTo(is snapshot.Issue, m snapshot.MemberRecord) bool {
	if len(is.AssigneeIDs) > 0 {
		for _, id := range is.AssigneeIDs {
			if id == m.MemberID {
				return true
			}
		}
		return false
	}
	for _, n := range is.Assignees {
		if n == m.Name {
			return true
		}
	}
	return false
}

package compose

import (
	"fmt"
	"strings"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// ProjectContext renders the project named in a question in detail, or
// lists similar projects, or says it does not exist.
func ProjectContext(s *snapshot.Snapshot, name string) string {
	r := Resolve(s.ProjectMatcher(), name)

	var b strings.Builder
	switch r.Resolution {
	case Exact:
		p := s.ProjectIndex[r.Match.Name]
		fmt.Fprintf(&b, "=== 프로젝트 정보: %s ===\n", p.Name)
		writeProject(&b, p)
	case Suggested:
		b.WriteString("=== 프로젝트 정보 ===\n")
		fmt.Fprintf(&b, "'%s'과 유사한 프로젝트를 찾았습니다:\n", name)
		writeProjectLines(&b, s, r.Suggestions)
		if r.Match.Name != "" {
			fmt.Fprintf(&b, "(가장 유사한 프로젝트: '%s', 유사도 %.2f. 정확히 일치하는 프로젝트는 없습니다.)\n", r.Match.Name, r.Match.Similarity)
		}
	case NotFound:
		b.WriteString("=== 프로젝트 정보 ===\n")
		fmt.Fprintf(&b, "'%s'에 해당하는 프로젝트를 찾을 수 없습니다.\n", name)
	}
	return b.String()
}

func writeProject(b *strings.Builder, p *snapshot.ProjectInfo) {
	fmt.Fprintf(b, "- 설명: %s\n", orNone(p.Description))
	fmt.Fprintf(b, "- 참가자: %d명\n", p.ParticipantCount)
	fmt.Fprintf(b, "- 마일스톤: %d개\n", p.MilestoneCount)
	fmt.Fprintf(b, "- 이슈: 열림 %d개, 완료 %d개 (전체 %d개)\n", p.Issues.Open, p.Issues.Closed, p.Issues.Total)
	if p.IsGithubLinked && p.RepoURL != "" {
		fmt.Fprintf(b, "- GitHub: %s\n", p.RepoURL)
	}

	if len(p.Participants) > 0 {
		b.WriteString("\n참여 멤버:\n")
		for _, part := range p.Participants {
			fmt.Fprintf(b, "- %s (%s, %s)\n", part.Name, orNone(part.Position), orNone(part.Department))
		}
	}

	if len(p.Milestones) > 0 {
		b.WriteString("\n마일스톤:\n")
		for _, m := range p.Milestones {
			fmt.Fprintf(b, "- %s [%s] 진행률 %.1f%% (완료 %d/%d)", m.Name, orNone(m.State), m.Progress(), m.Issues.Closed, m.Issues.Total)
			if m.DueDate != "" {
				fmt.Fprintf(b, ", 마감일 %s", m.DueDate)
			}
			b.WriteString("\n")
		}
	}

	if len(p.RecentIssues) > 0 {
		b.WriteString("\n최근 이슈:\n")
		for _, is := range p.RecentIssues {
			fmt.Fprintf(b, "- #%d %s (%s)", is.ID, is.Title, orNone(is.State))
			if len(is.Assignees) > 0 {
				fmt.Fprintf(b, " 담당: %s", strings.Join(is.Assignees, ", "))
			}
			if is.Milestone != "" {
				fmt.Fprintf(b, " 마일스톤: %s", is.Milestone)
			}
			b.WriteString("\n")
			for _, c := range is.Comments {
				fmt.Fprintf(b, "  - 댓글 %s: %s\n", orNone(c.Author), c.Content)
			}
		}
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintf(b, "\n(일부 정보를 불러오지 못했습니다: %s)\n", strings.Join(p.Warnings, "; "))
	}
}

func writeProjectLines(b *strings.Builder, s *snapshot.Snapshot, names []string) {
	for _, n := range names {
		p := s.ProjectIndex[n]
		if p == nil {
			continue
		}
		fmt.Fprintf(b, "- %s: %s, 참가자 %d명\n", p.Name, orNone(p.Description), p.ParticipantCount)
	}
}

// ChatRoomsContext lists the caller's chat rooms.
func ChatRoomsContext(rooms []ourhour.ChatRoom) string {
	var b strings.Builder
	b.WriteString("=== 채팅방 목록 ===\n")
	if len(rooms) == 0 {
		b.WriteString("참여 중인 채팅방이 없습니다.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "총 %d개\n", len(rooms))
	for _, r := range rooms {
		fmt.Fprintf(&b, "- %s\n", r.Name)
	}
	return b.String()
}

// ChatRoomContext renders a room's recent messages in the order given.
func ChatRoomContext(room ourhour.ChatRoom, messages []ourhour.ChatMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== 채팅방: %s ===\n", room.Name)
	if len(messages) == 0 {
		b.WriteString("최근 메시지가 없습니다.\n")
		return b.String()
	}
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.Timestamp, orNone(m.SenderName), m.Message)
	}
	return b.String()
}

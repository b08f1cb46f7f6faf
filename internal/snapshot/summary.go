package snapshot

import (
	"fmt"
	"strings"
)

// summaryParticipantLimit is how many participant names each project shows
// before collapsing the rest into a count.
const summaryParticipantLimit = 5

// GenerateSummary renders the snapshot as a fixed-section text block for
// the prompt. Output depends only on the snapshot.
func GenerateSummary(s *Snapshot) string {
	var b strings.Builder

	b.WriteString("조직 정보 컨텍스트 요약:\n")
	fmt.Fprintf(&b, "조직명: %s\n", s.Organization.Name)
	if s.Organization.Description != "" {
		fmt.Fprintf(&b, "조직 설명: %s\n", s.Organization.Description)
	}
	fmt.Fprintf(&b, "총 구성원 수: %d명\n", s.Organization.TotalMembers)
	fmt.Fprintf(&b, "부서 수: %d개\n", len(s.Departments))
	fmt.Fprintf(&b, "직책 수: %d개\n", len(s.Positions))
	fmt.Fprintf(&b, "프로젝트 수: %d개\n", len(s.Projects))
	if qf := s.QuickFacts; qf.LargestDepartment != "" {
		fmt.Fprintf(&b, "가장 큰 부서: %s (%d명)\n", qf.LargestDepartment, qf.LargestDepartmentSize)
	}
	if qf := s.QuickFacts; qf.MostCommonPosition != "" {
		fmt.Fprintf(&b, "가장 많은 직책: %s (%d명)\n", qf.MostCommonPosition, qf.MostCommonPositionSize)
	}

	b.WriteString("\n부서별 구성원 수:\n")
	writeGroups(&b, s.Departments)
	b.WriteString("\n직책별 구성원 수:\n")
	writeGroups(&b, s.Positions)

	b.WriteString("\n")
	writeProjects(&b, s)

	b.WriteString("\n=== 멤버 상세 정보 ===\n")
	for _, m := range s.Members {
		fmt.Fprintf(&b, "- %s: %s, %s, %s, %s\n",
			m.Name, orNone(m.Position), orNone(m.Department), orNone(m.Email), orNone(m.Phone))
	}

	b.WriteString("\n=== 멤버별 프로젝트 참여 현황 ===\n")
	wrote := false
	for _, m := range s.Members {
		projects := s.ByParticipant[m.Name]
		if len(projects) == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", m.Name, strings.Join(projects, ", "))
		wrote = true
	}
	if !wrote {
		b.WriteString("- 프로젝트 참여 정보 없음\n")
	}

	return b.String()
}

func writeGroups(b *strings.Builder, groups []Group) {
	if len(groups) == 0 {
		b.WriteString("- 정보 없음\n")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(b, "- %s: %d명\n", g.Name, g.MemberCount)
	}
}

func writeProjects(b *strings.Builder, s *Snapshot) {
	b.WriteString("=== 프로젝트 현황 ===\n")
	if len(s.Projects) == 0 {
		b.WriteString("총 프로젝트: 0개 (에러 또는 데이터 없음)\n")
		if s.ProjectError != "" {
			fmt.Fprintf(b, "프로젝트 로드 오류: %s\n", s.ProjectError)
		}
		return
	}

	st := s.Statistics
	fmt.Fprintf(b, "총 프로젝트: %d개\n", st.TotalProjects)
	fmt.Fprintf(b, "GitHub 연동 프로젝트: %d개\n", st.GithubLinked)
	fmt.Fprintf(b, "전체 참가자: %d명\n", st.TotalParticipants)
	fmt.Fprintf(b, "전체 열린 이슈: %d개\n", st.OpenIssues)
	fmt.Fprintf(b, "전체 완료된 이슈: %d개\n", st.ClosedIssues)
	fmt.Fprintf(b, "전체 마일스톤: %d개\n", st.TotalMilestones)

	b.WriteString("\n프로젝트별 상세 정보:\n")
	for _, p := range s.Projects {
		fmt.Fprintf(b, "- %s:\n", p.Name)
		fmt.Fprintf(b, "  * 설명: %s\n", orNone(p.Description))
		fmt.Fprintf(b, "  * 참가자: %d명\n", p.ParticipantCount)
		fmt.Fprintf(b, "  * 마일스톤: %d개\n", p.MilestoneCount)
		fmt.Fprintf(b, "  * 이슈: 열림 %d개, 완료 %d개\n", p.Issues.Open, p.Issues.Closed)
		if p.IsGithubLinked && p.RepoURL != "" {
			fmt.Fprintf(b, "  * GitHub: %s\n", p.RepoURL)
		}
		if len(p.Participants) > 0 {
			fmt.Fprintf(b, "  * 참여 멤버: %s\n", participantNames(p.Participants))
		}
	}
}

// participantNames lists the first few names and counts the rest.
func participantNames(parts []Participant) string {
	n := min(len(parts), summaryParticipantLimit)
	names := make([]string, n)
	for i := range n {
		names[i] = parts[i].Name
	}
	out := strings.Join(names, ", ")
	if rest := len(parts) - n; rest > 0 {
		out += fmt.Sprintf(" (외 %d명)", rest)
	}
	return out
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "정보 없음"
	}
	return s
}

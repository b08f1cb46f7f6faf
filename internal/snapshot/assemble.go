package snapshot

import (
	"fmt"
	"strings"

	"github.com/C1Z4/ourhour-chatbot/internal/namematch"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
)

// assemble derives the snapshot from the fetched data. It runs after every
// fetch has completed and walks inputs in their source order, so equal
// inputs always give an equal snapshot.
func assemble(core *coreData, slots []*projectSlot) *Snapshot {
	s := &Snapshot{
		Organization: Organization{
			ID:           core.org.OrgID,
			Name:         core.org.Name,
			Description:  core.org.Description,
			TotalMembers: len(core.members),
		},
		DepartmentMembers: make(map[string][]string),
		PositionMembers:   make(map[string][]string),
		MemberIndex:       make(map[string]MemberRecord, len(core.members)),
		ProjectIndex:      make(map[string]*ProjectInfo, len(slots)),
		ByParticipant:     make(map[string][]string),
	}

	for _, m := range core.members {
		rec := MemberRecord{
			MemberID:   m.MemberID,
			Name:       strings.TrimSpace(m.Name),
			Email:      m.Email,
			Phone:      m.Phone,
			Department: m.DeptName,
			Position:   m.PositionName,
			Role:       m.Role,
		}
		s.Members = append(s.Members, rec)
		if _, dup := s.MemberIndex[rec.Name]; !dup {
			s.MemberIndex[rec.Name] = rec
		}
	}
	s.NameVariations = namematch.BuildVariations(s.MemberNames())

	for _, d := range core.departments {
		names := membersWhere(s.Members, func(m MemberRecord) bool { return m.Department == d.Name })
		s.DepartmentMembers[d.Name] = names
		s.Departments = append(s.Departments, Group{
			ID:          d.DeptID,
			Name:        d.Name,
			Description: d.Description,
			MemberCount: len(names),
		})
	}
	for _, p := range core.positions {
		names := membersWhere(s.Members, func(m MemberRecord) bool { return m.Position == p.Name })
		s.PositionMembers[p.Name] = names
		s.Positions = append(s.Positions, Group{
			ID:          p.PositionID,
			Name:        p.Name,
			Description: p.Description,
			MemberCount: len(names),
		})
	}

	s.Projects = make([]ProjectInfo, 0, len(slots))
	for _, slot := range slots {
		s.Projects = append(s.Projects, projectInfo(slot))
	}
	for i := range s.Projects {
		p := &s.Projects[i]
		if _, dup := s.ProjectIndex[p.Name]; !dup {
			s.ProjectIndex[p.Name] = p
		}
		for _, part := range p.Participants {
			s.ByParticipant[part.Name] = appendUnique(s.ByParticipant[part.Name], p.Name)
		}
	}

	s.Statistics = computeStatistics(s.Projects)
	s.QuickFacts = computeQuickFacts(s.Departments, s.Positions)
	return s
}

func membersWhere(members []MemberRecord, keep func(MemberRecord) bool) []string {
	names := []string{}
	for _, m := range members {
		if keep(m) {
			names = append(names, m.Name)
		}
	}
	return names
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func projectInfo(slot *projectSlot) ProjectInfo {
	p := slot.project
	info := ProjectInfo{
		ID:             p.ProjectID,
		Name:           p.Name,
		Description:    p.Description,
		RepoURL:        p.RepoURL,
		IsGithubLinked: p.IsGithubLinked,
		Issues: IssueCounts{
			Open:   p.OpenIssueCount,
			Closed: p.CloseIssueCount,
			Total:  p.TotalIssueCount,
		},
		MilestoneCount:   p.MilestoneCount,
		ParticipantCount: p.ParticipantCount,
	}
	if info.Issues.Total == 0 {
		info.Issues.Total = info.Issues.Open + info.Issues.Closed
	}

	if slot.participants.status == fetchFailed {
		info.Warnings = append(info.Warnings, fmt.Sprintf("participants: %v", slot.participants.err))
	}
	for _, part := range slot.participants.items {
		info.Participants = append(info.Participants, Participant{
			MemberID:   part.MemberID,
			Name:       part.Name,
			Email:      part.Email,
			Department: part.DeptName,
			Position:   part.PositionName,
		})
	}
	if info.ParticipantCount == 0 {
		info.ParticipantCount = len(info.Participants)
	}

	if slot.milestones.status == fetchFailed {
		info.Warnings = append(info.Warnings, fmt.Sprintf("milestones: %v", slot.milestones.err))
	}
	for _, m := range slot.milestones.items {
		info.Milestones = append(info.Milestones, Milestone{
			ID:          m.MilestoneID,
			Name:        m.Name,
			Description: m.Description,
			DueDate:     m.DueDate,
			State:       m.State,
			Issues: IssueCounts{
				Open:   m.OpenIssueCount,
				Closed: m.CloseIssueCount,
				Total:  m.TotalIssueCount,
			},
		})
	}
	if info.MilestoneCount == 0 {
		info.MilestoneCount = len(info.Milestones)
	}

	if slot.issues.status == fetchFailed {
		info.Warnings = append(info.Warnings, fmt.Sprintf("issues: %v", slot.issues.err))
	}
	for j, is := range slot.issues.items {
		issue := Issue{
			ID:        is.IssueID,
			Title:     is.DisplayTitle(),
			State:     is.DisplayState(),
			Milestone: is.MilestoneTitle,
			Assignees: is.AssigneeNames(),
			CreatedAt: is.CreatedAt,
		}
		if is.AssigneeID != 0 {
			issue.AssigneeIDs = append(issue.AssigneeIDs, is.AssigneeID)
		}
		for _, a := range is.Assignees {
			if a.MemberID != 0 && a.MemberID != is.AssigneeID {
				issue.AssigneeIDs = append(issue.AssigneeIDs, a.MemberID)
			}
		}
		for _, t := range is.Tags {
			issue.Labels = append(issue.Labels, t.Name)
		}
		if j < len(slot.comments) {
			issue.Comments = sampleComments(slot.comments[j].items)
		}
		info.RecentIssues = append(info.RecentIssues, issue)
	}
	return info
}

func sampleComments(comments []ourhour.Comment) []Comment {
	var out []Comment
	for _, c := range comments {
		out = append(out, Comment{
			Content:   truncate(c.Content, commentContentLimit),
			Author:    c.AuthorName,
			CreatedAt: c.CreatedAt,
			Likes:     c.LikeCount,
		})
	}
	return out
}

// truncate cuts s to limit runes and marks the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func computeStatistics(projects []ProjectInfo) Statistics {
	st := Statistics{TotalProjects: len(projects)}
	for _, p := range projects {
		st.TotalParticipants += p.ParticipantCount
		st.TotalMilestones += p.MilestoneCount
		st.OpenIssues += p.Issues.Open
		st.ClosedIssues += p.Issues.Closed
		st.TotalIssues += p.Issues.Total
		if p.IsGithubLinked {
			st.GithubLinked++
		}
	}
	return st
}

// computeQuickFacts picks the largest department and the most common
// position. The first group wins ties; empty groups never qualify.
func computeQuickFacts(departments, positions []Group) QuickFacts {
	var qf QuickFacts
	for _, d := range departments {
		if d.MemberCount > qf.LargestDepartmentSize {
			qf.LargestDepartment, qf.LargestDepartmentSize = d.Name, d.MemberCount
		}
	}
	for _, p := range positions {
		if p.MemberCount > qf.MostCommonPositionSize {
			qf.MostCommonPosition, qf.MostCommonPositionSize = p.Name, p.MemberCount
		}
	}
	return qf
}

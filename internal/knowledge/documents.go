package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// Kind is the record type of an indexed document.
type Kind string

const (
	KindMember  Kind = "member"
	KindProject Kind = "project"
)

// Document is one indexed record.
type Document struct {
	ID      string
	Kind    Kind
	Name    string
	Content string
}

// hash identifies the content so unchanged records are not re-embedded.
func (d Document) hash() string {
	sum := sha256.Sum256([]byte(d.Content))
	return hex.EncodeToString(sum[:8])
}

// Documents renders one document per member and per project.
func Documents(s *snapshot.Snapshot) []Document {
	docs := make([]Document, 0, len(s.Members)+len(s.Projects))

	for _, m := range s.Members {
		var b strings.Builder
		fmt.Fprintf(&b, "구성원 %s: %s 부서, %s", m.Name, orUnknown(m.Department), orUnknown(m.Position))
		if m.Email != "" {
			fmt.Fprintf(&b, ", 이메일 %s", m.Email)
		}
		if projects := s.ProjectsOf(m.Name); len(projects) > 0 {
			fmt.Fprintf(&b, ", 참여 프로젝트 %s", strings.Join(projects, ", "))
		}
		docs = append(docs, Document{
			ID:      fmt.Sprintf("member:%d", m.MemberID),
			Kind:    KindMember,
			Name:    m.Name,
			Content: b.String(),
		})
	}

	for _, p := range s.Projects {
		var b strings.Builder
		fmt.Fprintf(&b, "프로젝트 %s", p.Name)
		if p.Description != "" {
			fmt.Fprintf(&b, ": %s", p.Description)
		}
		fmt.Fprintf(&b, ". 참가자 %d명, 이슈 열림 %d개 완료 %d개", p.ParticipantCount, p.Issues.Open, p.Issues.Closed)
		if len(p.Milestones) > 0 {
			names := make([]string, len(p.Milestones))
			for i, ms := range p.Milestones {
				names[i] = ms.Name
			}
			fmt.Fprintf(&b, ". 마일스톤 %s", strings.Join(names, ", "))
		}
		if len(p.RecentIssues) > 0 {
			titles := make([]string, len(p.RecentIssues))
			for i, is := range p.RecentIssues {
				titles[i] = is.Title
			}
			fmt.Fprintf(&b, ". 최근 이슈 %s", strings.Join(titles, ", "))
		}
		docs = append(docs, Document{
			ID:      fmt.Sprintf("project:%d", p.ID),
			Kind:    KindProject,
			Name:    p.Name,
			Content: b.String(),
		})
	}
	return docs
}

func orUnknown(s string) string {
	if s == "" {
		return "정보 없음"
	}
	return s
}

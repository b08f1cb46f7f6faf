// Package ourhourtest provides an in-memory ourhour.Client for tests.
package ourhourtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
)

// Fake serves a fixed organization from memory. Errors are injected per
// call through Fail, keyed by call name ("Organization", "Departments",
// "Positions", "AllMembers", "Member", "Projects", "ChatRooms") or by call
// name and ID ("Participants:7", "Milestones:7", "Issues:7", "Comments:42",
// "ChatMessages:3").
type Fake struct {
	Org            ourhour.Organization
	DepartmentList []ourhour.Department
	PositionList   []ourhour.Position
	MemberList     []ourhour.Member
	ProjectList    []ourhour.Project

	ParticipantsByProject map[int64][]ourhour.Participant
	MilestonesByProject   map[int64][]ourhour.Milestone
	IssuesByProject       map[int64][]ourhour.Issue
	CommentsByIssue       map[int64][]ourhour.Comment
	Tags                  map[int64][]ourhour.Tag
	Rooms                 []ourhour.ChatRoom
	MessagesByRoom        map[int64][]ourhour.ChatMessage

	Fail map[string]error

	mu    sync.Mutex
	calls []string
}

// Calls returns every call made so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) record(ctx context.Context, name string, id ...int64) error {
	key := name
	if len(id) > 0 {
		key = fmt.Sprintf("%s:%d", name, id[0])
	}
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := f.Fail[key]; ok {
		return err
	}
	if err, ok := f.Fail[name]; ok {
		return err
	}
	return nil
}

func page[T any](items []T, q ourhour.PageQuery) *ourhour.Page[T] {
	if q.Size > 0 && len(items) > q.Size {
		items = items[:q.Size]
	}
	return &ourhour.Page[T]{Data: items, CurrentPage: 1, Size: q.Size, TotalPages: 1, TotalElements: int64(len(items))}
}

func (f *Fake) Organization(ctx context.Context, orgID int64) (*ourhour.Organization, error) {
	if err := f.record(ctx, "Organization"); err != nil {
		return nil, err
	}
	org := f.Org
	if org.OrgID == 0 {
		org.OrgID = orgID
	}
	return &org, nil
}

func (f *Fake) Departments(ctx context.Context, orgID int64) ([]ourhour.Department, error) {
	if err := f.record(ctx, "Departments"); err != nil {
		return nil, err
	}
	return f.DepartmentList, nil
}

func (f *Fake) Positions(ctx context.Context, orgID int64) ([]ourhour.Position, error) {
	if err := f.record(ctx, "Positions"); err != nil {
		return nil, err
	}
	return f.PositionList, nil
}

func (f *Fake) AllMembers(ctx context.Context, orgID int64) ([]ourhour.Member, error) {
	if err := f.record(ctx, "AllMembers"); err != nil {
		return nil, err
	}
	return f.MemberList, nil
}

func (f *Fake) Members(ctx context.Context, orgID int64, q ourhour.PageQuery) (*ourhour.Page[ourhour.Member], error) {
	if err := f.record(ctx, "Members"); err != nil {
		return nil, err
	}
	return page(f.MemberList, q), nil
}

func (f *Fake) Member(ctx context.Context, orgID, memberID int64) (*ourhour.Member, error) {
	if err := f.record(ctx, "Member", memberID); err != nil {
		return nil, err
	}
	for _, m := range f.MemberList {
		if m.MemberID == memberID {
			return &m, nil
		}
	}
	return nil, &ourhour.APIError{Path: "member", StatusCode: 404, Status: "NOT_FOUND", Message: "member not found"}
}

func (f *Fake) DepartmentMembers(ctx context.Context, orgID, deptID int64) ([]ourhour.Member, error) {
	if err := f.record(ctx, "DepartmentMembers", deptID); err != nil {
		return nil, err
	}
	var name string
	for _, d := range f.DepartmentList {
		if d.DeptID == deptID {
			name = d.Name
		}
	}
	var out []ourhour.Member
	for _, m := range f.MemberList {
		if m.DeptName == name {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *Fake) PositionMembers(ctx context.Context, orgID, positionID int64) ([]ourhour.Member, error) {
	if err := f.record(ctx, "PositionMembers", positionID); err != nil {
		return nil, err
	}
	var name string
	for _, p := range f.PositionList {
		if p.PositionID == positionID {
			name = p.Name
		}
	}
	var out []ourhour.Member
	for _, m := range f.MemberList {
		if m.PositionName == name {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *Fake) Projects(ctx context.Context, orgID int64, q ourhour.ProjectQuery) (*ourhour.Page[ourhour.Project], error) {
	if err := f.record(ctx, "Projects"); err != nil {
		return nil, err
	}
	return page(f.ProjectList, q.PageQuery), nil
}

func (f *Fake) Project(ctx context.Context, orgID, projectID int64) (*ourhour.Project, error) {
	if err := f.record(ctx, "Project", projectID); err != nil {
		return nil, err
	}
	for _, p := range f.ProjectList {
		if p.ProjectID == projectID {
			return &p, nil
		}
	}
	return nil, &ourhour.APIError{Path: "project", StatusCode: 404, Status: "NOT_FOUND", Message: "project not found"}
}

func (f *Fake) Participants(ctx context.Context, orgID, projectID int64, q ourhour.PageQuery) (*ourhour.Page[ourhour.Participant], error) {
	if err := f.record(ctx, "Participants", projectID); err != nil {
		return nil, err
	}
	return page(f.ParticipantsByProject[projectID], q), nil
}

func (f *Fake) Milestones(ctx context.Context, orgID, projectID int64, q ourhour.MilestoneQuery) (*ourhour.Page[ourhour.Milestone], error) {
	if err := f.record(ctx, "Milestones", projectID); err != nil {
		return nil, err
	}
	return page(f.MilestonesByProject[projectID], q.PageQuery), nil
}

func (f *Fake) Issues(ctx context.Context, orgID, projectID int64, q ourhour.IssueQuery) (*ourhour.Page[ourhour.Issue], error) {
	if err := f.record(ctx, "Issues", projectID); err != nil {
		return nil, err
	}
	var out []ourhour.Issue
	for _, is := range f.IssuesByProject[projectID] {
		if q.MilestoneID != 0 && is.MilestoneID != q.MilestoneID {
			continue
		}
		out = append(out, is)
	}
	return page(out, q.PageQuery), nil
}

func (f *Fake) Issue(ctx context.Context, orgID, projectID, issueID int64) (*ourhour.Issue, error) {
	if err := f.record(ctx, "Issue", issueID); err != nil {
		return nil, err
	}
	for _, is := range f.IssuesByProject[projectID] {
		if is.IssueID == issueID {
			return &is, nil
		}
	}
	return nil, &ourhour.APIError{Path: "issue", StatusCode: 404, Status: "NOT_FOUND", Message: "issue not found"}
}

func (f *Fake) IssueTags(ctx context.Context, orgID, projectID int64) ([]ourhour.Tag, error) {
	if err := f.record(ctx, "IssueTags", projectID); err != nil {
		return nil, err
	}
	return f.Tags[projectID], nil
}

func (f *Fake) Comments(ctx context.Context, orgID, issueID int64, q ourhour.PageQuery) (*ourhour.Page[ourhour.Comment], error) {
	if err := f.record(ctx, "Comments", issueID); err != nil {
		return nil, err
	}
	return page(f.CommentsByIssue[issueID], q), nil
}

func (f *Fake) ChatRooms(ctx context.Context, orgID int64) ([]ourhour.ChatRoom, error) {
	if err := f.record(ctx, "ChatRooms"); err != nil {
		return nil, err
	}
	return f.Rooms, nil
}

func (f *Fake) ChatMessages(ctx context.Context, orgID, roomID int64, q ourhour.PageQuery) (*ourhour.Page[ourhour.ChatMessage], error) {
	if err := f.record(ctx, "ChatMessages", roomID); err != nil {
		return nil, err
	}
	return page(f.MessagesByRoom[roomID], q), nil
}

var _ ourhour.Client = (*Fake)(nil)

// Sample returns a small organization used across package tests: a
// development team with 김철수 and 이영희, a design team with 박지민, and
// two projects.
func Sample() *Fake {
	return &Fake{
		Org: ourhour.Organization{OrgID: 1, Name: "아워하우스", Description: "그룹웨어 팀"},
		DepartmentList: []ourhour.Department{
			{DeptID: 10, Name: "개발팀"},
			{DeptID: 11, Name: "디자인팀"},
		},
		PositionList: []ourhour.Position{
			{PositionID: 20, Name: "팀장"},
			{PositionID: 21, Name: "사원"},
		},
		MemberList: []ourhour.Member{
			{MemberID: 1, Name: "김철수", Email: "chulsoo@ourhour.io", Phone: "010-1234-5678", DeptName: "개발팀", PositionName: "팀장", Role: "ROOT_ADMIN"},
			{MemberID: 2, Name: "이영희", Email: "younghee@ourhour.io", Phone: "010-2222-3333", DeptName: "개발팀", PositionName: "사원", Role: "USER"},
			{MemberID: 3, Name: "박지민", Email: "jimin@ourhour.io", Phone: "010-4444-5555", DeptName: "디자인팀", PositionName: "사원", Role: "USER"},
		},
		ProjectList: []ourhour.Project{
			{ProjectID: 100, Name: "챗봇", Description: "AI 어시스턴트", RepoURL: "https://github.com/ourhour/chatbot", IsGithubLinked: true,
				OpenIssueCount: 2, CloseIssueCount: 1, TotalIssueCount: 3, MilestoneCount: 1, ParticipantCount: 2},
			{ProjectID: 200, Name: "그룹웨어", Description: "사내 그룹웨어",
				OpenIssueCount: 1, CloseIssueCount: 0, TotalIssueCount: 1, MilestoneCount: 1, ParticipantCount: 1},
		},
		ParticipantsByProject: map[int64][]ourhour.Participant{
			100: {
				{MemberID: 1, Name: "김철수", DeptName: "개발팀", PositionName: "팀장"},
				{MemberID: 2, Name: "이영희", DeptName: "개발팀", PositionName: "사원"},
			},
			200: {{MemberID: 3, Name: "박지민", DeptName: "디자인팀", PositionName: "사원"}},
		},
		MilestonesByProject: map[int64][]ourhour.Milestone{
			100: {{MilestoneID: 1000, Name: "MVP", State: "OPEN", OpenIssueCount: 2, CloseIssueCount: 1, TotalIssueCount: 3}},
			200: {{MilestoneID: 2000, Name: "베타", State: "OPEN", OpenIssueCount: 1, TotalIssueCount: 1}},
		},
		IssuesByProject: map[int64][]ourhour.Issue{
			100: {
				{IssueID: 5001, Title: "의도 분류기 구현", State: "OPEN", MilestoneID: 1000, MilestoneTitle: "MVP",
					Assignees: []ourhour.Assignee{{MemberID: 1, Name: "김철수"}}},
				{IssueID: 5002, Title: "요약 프롬프트 정리", State: "CLOSED", MilestoneID: 1000, MilestoneTitle: "MVP",
					Assignees: []ourhour.Assignee{{MemberID: 2, Name: "이영희"}}},
			},
			200: {{IssueID: 6001, Title: "로그인 화면", State: "OPEN", MilestoneID: 2000, MilestoneTitle: "베타",
				Assignees: []ourhour.Assignee{{MemberID: 3, Name: "박지민"}}}},
		},
		CommentsByIssue: map[int64][]ourhour.Comment{
			5001: {{CommentID: 1, Content: "분류 기준을 정리했습니다", AuthorName: "이영희", LikeCount: 2}},
		},
		Rooms: []ourhour.ChatRoom{
			{RoomID: 7, Name: "개발팀 채팅방"},
			{RoomID: 8, Name: "잡담방"},
		},
		MessagesByRoom: map[int64][]ourhour.ChatMessage{
			7: {
				{ChatMessageID: 1, ChatRoomID: 7, SenderName: "김철수", Message: "배포는 금요일입니다", Timestamp: "2025-07-01T10:00:00"},
				{ChatMessageID: 2, ChatRoomID: 7, SenderName: "이영희", Message: "확인했습니다", Timestamp: "2025-07-01T10:01:00"},
			},
		},
	}
}

package ourhour

// Organization is the organization profile returned by the groupware API.
type Organization struct {
	OrgID              int64  `json:"orgId"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Address            string `json:"address,omitempty"`
	Email              string `json:"email,omitempty"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	RepresentativeName string `json:"representativeName,omitempty"`
	BusinessNumber     string `json:"businessNumber,omitempty"`
	LogoImgURL         string `json:"logoImgUrl,omitempty"`
}

// Department is one entry of the department list.
type Department struct {
	DeptID      int64  `json:"deptId"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount,omitempty"`
	Description string `json:"description,omitempty"`
}

// Position is one entry of the position list.
type Position struct {
	PositionID  int64  `json:"positionId"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount,omitempty"`
	Description string `json:"description,omitempty"`
}

// Member is a roster entry.
type Member struct {
	MemberID      int64  `json:"memberId"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PositionName  string `json:"positionName,omitempty"`
	DeptName      string `json:"deptName,omitempty"`
	ProfileImgURL string `json:"profileImgUrl,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Project is a project summary as listed by the projects endpoint.
type Project struct {
	ProjectID        int64  `json:"projectId"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	RepoURL          string `json:"repoUrl,omitempty"`
	IsGithubLinked   bool   `json:"isGithubLinked"`
	OpenIssueCount   int    `json:"openIssueCount"`
	CloseIssueCount  int    `json:"closeIssueCount"`
	TotalIssueCount  int    `json:"totalIssueCount"`
	MilestoneCount   int    `json:"milestoneCount"`
	ParticipantCount int    `json:"participantCount"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// Participant is a project member.
type Participant struct {
	MemberID     int64  `json:"memberId"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	DeptName     string `json:"deptName,omitempty"`
	PositionName string `json:"positionName,omitempty"`
}

// Milestone groups issues of a project.
type Milestone struct {
	MilestoneID     int64  `json:"milestoneId"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DueDate         string `json:"dueDate,omitempty"`
	State           string `json:"state,omitempty"`
	OpenIssueCount  int    `json:"openIssueCount"`
	CloseIssueCount int    `json:"closeIssueCount"`
	TotalIssueCount int    `json:"totalIssueCount"`
}

// Assignee is a member an issue is assigned to.
type Assignee struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"name"`
}

// Tag is an issue label.
type Tag struct {
	TagID int64  `json:"issueTagId"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Issue is a project issue. Older backend versions send name/status
// instead of title/state; DisplayTitle and DisplayState cover both.
type Issue struct {
	IssueID        int64      `json:"issueId"`
	Title          string     `json:"title,omitempty"`
	Name           string     `json:"name,omitempty"`
	Content        string     `json:"content,omitempty"`
	State          string     `json:"state,omitempty"`
	Status         string     `json:"status,omitempty"`
	MilestoneID    int64      `json:"milestoneId,omitempty"`
	MilestoneTitle string     `json:"milestoneTitle,omitempty"`
	AssigneeID     int64      `json:"assigneeId,omitempty"`
	AssigneeName   string     `json:"assigneeName,omitempty"`
	Assignees      []Assignee `json:"assignees,omitempty"`
	Tags           []Tag      `json:"tags,omitempty"`
	CreatedAt      string     `json:"createdAt,omitempty"`
}

// DisplayTitle returns the issue title, falling back to the legacy name field.
func (i Issue) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// DisplayState returns the issue state, falling back to the legacy status field.
func (i Issue) DisplayState() string {
	if i.State != "" {
		return i.State
	}
	return i.Status
}

// AssigneeNames lists every assignee name, including the single-assignee field.
func (i Issue) AssigneeNames() []string {
	var names []string
	seen := make(map[string]bool)
	if i.AssigneeName != "" {
		names = append(names, i.AssigneeName)
		seen[i.AssigneeName] = true
	}
	for _, a := range i.Assignees {
		if a.Name != "" && !seen[a.Name] {
			names = append(names, a.Name)
			seen[a.Name] = true
		}
	}
	return names
}

// AssignedTo reports whether the member is one of the issue's assignees.
func (i Issue) AssignedTo(memberID int64) bool {
	if memberID == 0 {
		return false
	}
	if i.AssigneeID == memberID {
		return true
	}
	for _, a := range i.Assignees {
		if a.MemberID == memberID {
			return true
		}
	}
	return false
}

// Comment is an issue comment.
type Comment struct {
	CommentID   int64  `json:"commentId"`
	Content     string `json:"content"`
	AuthorName  string `json:"authorName,omitempty"`
	AuthorEmail string `json:"authorEmail,omitempty"`
	LikeCount   int    `json:"likeCount"`
	IsLiked     bool   `json:"isLiked"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// ChatRoom is a group chat room of the organization.
type ChatRoom struct {
	RoomID    int64  `json:"roomId"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ChatMessage is one message posted in a chat room.
type ChatMessage struct {
	ChatMessageID int64  `json:"chatMessageId"`
	ChatRoomID    int64  `json:"chatRoomId"`
	SenderID      int64  `json:"senderId"`
	SenderName    string `json:"senderName"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp"`
}

// Page is a paginated list. The backend sends items under "data"; some
// endpoints and older deployments use "content".
type Page[T any] struct {
	Data          []T   `json:"data"`
	Content       []T   `json:"content"`
	CurrentPage   int   `json:"currentPage"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// Items returns the page's items regardless of which field carried them.
func (p *Page[T]) Items() []T {
	if p == nil {
		return nil
	}
	if len(p.Data) > 0 {
		return p.Data
	}
	return p.Content
}

// PageQuery selects a page. Pages are 1-based; zero values are omitted.
type PageQuery struct {
	Page   int
	Size   int
	Search string
}

// ProjectQuery filters the project list.
type ProjectQuery struct {
	PageQuery
	ParticipantLimit int
	MyProjectsOnly   bool
}

// MilestoneQuery filters milestones of a project.
type MilestoneQuery struct {
	PageQuery
	MyMilestonesOnly bool
}

// IssueQuery filters issues of a project.
type IssueQuery struct {
	PageQuery
	MyIssuesOnly bool
	MilestoneID  int64
}

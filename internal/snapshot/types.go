package snapshot

import (
	"math"

	"github.com/C1Z4/ourhour-chatbot/internal/namematch"
)

// Organization holds the organization facts of a snapshot.
type Organization struct {
	ID           int64
	Name         string
	Description  string
	TotalMembers int
}

// Group is a department or a position with its derived member count.
type Group struct {
	ID          int64
	Name        string
	Description string
	MemberCount int
}

// MemberRecord is one roster entry as seen by the chatbot.
type MemberRecord struct {
	MemberID   int64
	Name       string
	Email      string
	Phone      string
	Department string
	Position   string
	Role       string
}

// IssueCounts is the open/closed/total issue breakdown.
type IssueCounts struct {
	Open   int
	Closed int
	Total  int
}

// Participant is a project participant.
type Participant struct {
	MemberID   int64
	Name       string
	Email      string
	Department string
	Position   string
}

// Milestone is a project milestone with its issue counts.
type Milestone struct {
	ID          int64
	Name        string
	Description string
	DueDate     string
	State       string
	Issues      IssueCounts
}

// Progress returns the closed share of the milestone's issues as a
// percentage rounded to one decimal. A milestone without issues is at 0.
func (m Milestone) Progress() float64 {
	if m.Issues.Total == 0 {
		return 0
	}
	pct := float64(m.Issues.Closed) / float64(m.Issues.Total) * 100
	return math.Round(pct*10) / 10
}

// Comment is a sampled issue comment. Content is truncated.
type Comment struct {
	Content   string
	Author    string
	CreatedAt string
	Likes     int
}

// Issue is a recent issue of a project.
type Issue struct {
	ID          int64
	Title       string
	State       string
	Milestone   string
	Assignees   []string
	AssigneeIDs []int64
	Labels      []string
	CreatedAt   string
	Comments    []Comment
}

// ProjectInfo is one project with its bounded sub-lists. Warnings records
// the sub-fetches that failed and left a sub-list empty.
type ProjectInfo struct {
	ID               int64
	Name             string
	Description      string
	RepoURL          string
	IsGithubLinked   bool
	Issues           IssueCounts
	MilestoneCount   int
	ParticipantCount int
	Participants     []Participant
	Milestones       []Milestone
	RecentIssues     []Issue
	Warnings         []string
}

// Statistics aggregates all projects. It is always the elementwise sum
// over Snapshot.Projects.
type Statistics struct {
	TotalProjects     int
	TotalParticipants int
	TotalMilestones   int
	OpenIssues        int
	ClosedIssues      int
	TotalIssues       int
	GithubLinked      int
}

// QuickFacts are headline figures for the summary.
type QuickFacts struct {
	LargestDepartment      string
	LargestDepartmentSize  int
	MostCommonPosition     string
	MostCommonPositionSize int
}

// Snapshot is the organization data gathered for one request. It is never
// mutated after BuildSnapshot returns.
type Snapshot struct {
	Organization Organization

	Departments       []Group
	DepartmentMembers map[string][]string
	Positions         []Group
	PositionMembers   map[string][]string

	Members        []MemberRecord
	MemberIndex    map[string]MemberRecord
	NameVariations *namematch.Variations

	Projects      []ProjectInfo
	ProjectIndex  map[string]*ProjectInfo
	ByParticipant map[string][]string

	Statistics Statistics
	QuickFacts QuickFacts

	// ProjectError is set when the project list could not be fetched.
	ProjectError string
}

// MemberNames returns member names in roster order.
func (s *Snapshot) MemberNames() []string {
	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Name
	}
	return names
}

// ProjectNames returns project names in list order.
func (s *Snapshot) ProjectNames() []string {
	names := make([]string, len(s.Projects))
	for i, p := range s.Projects {
		names[i] = p.Name
	}
	return names
}

// MemberMatcher returns a name matcher over the roster.
func (s *Snapshot) MemberMatcher() *namematch.Matcher {
	return namematch.NewWithVariations(s.MemberNames(), s.NameVariations)
}

// ProjectMatcher returns a name matcher over project names.
func (s *Snapshot) ProjectMatcher() *namematch.Matcher {
	return namematch.New(s.ProjectNames())
}

// MemberByID looks a member up by ID.
func (s *Snapshot) MemberByID(id int64) (MemberRecord, bool) {
	for _, m := range s.Members {
		if m.MemberID == id {
			return m, true
		}
	}
	return MemberRecord{}, false
}

// ProjectsOf returns the projects a member participates in, in project
// list order.
func (s *Snapshot) ProjectsOf(name string) []string {
	return s.ByParticipant[name]
}

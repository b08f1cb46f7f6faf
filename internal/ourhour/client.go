package ourhour

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is read-only access to the OURHOUR groupware API. Every call may
// fail independently; implementations never retry.
type Client interface {
	Organization(ctx context.Context, orgID int64) (*Organization, error)
	Departments(ctx context.Context, orgID int64) ([]Department, error)
	Positions(ctx context.Context, orgID int64) ([]Position, error)
	AllMembers(ctx context.Context, orgID int64) ([]Member, error)
	Members(ctx context.Context, orgID int64, q PageQuery) (*Page[Member], error)
	Member(ctx context.Context, orgID, memberID int64) (*Member, error)
	DepartmentMembers(ctx context.Context, orgID, deptID int64) ([]Member, error)
	PositionMembers(ctx context.Context, orgID, positionID int64) ([]Member, error)

	Projects(ctx context.Context, orgID int64, q ProjectQuery) (*Page[Project], error)
	Project(ctx context.Context, orgID, projectID int64) (*Project, error)
	Participants(ctx context.Context, orgID, projectID int64, q PageQuery) (*Page[Participant], error)
	Milestones(ctx context.Context, orgID, projectID int64, q MilestoneQuery) (*Page[Milestone], error)
	Issues(ctx context.Context, orgID, projectID int64, q IssueQuery) (*Page[Issue], error)
	Issue(ctx context.Context, orgID, projectID, issueID int64) (*Issue, error)
	IssueTags(ctx context.Context, orgID, projectID int64) ([]Tag, error)
	Comments(ctx context.Context, orgID, issueID int64, q PageQuery) (*Page[Comment], error)

	ChatRooms(ctx context.Context, orgID int64) ([]ChatRoom, error)
	ChatMessages(ctx context.Context, orgID, roomID int64, q PageQuery) (*Page[ChatMessage], error)
}

// Factory creates a Client bound to one caller's bearer token.
type Factory func(authToken string) Client

const defaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of one response body is read.
var maxResponseBytes int64 = 8 << 20

// HTTPClient implements Client over HTTP. The bearer token is forwarded
// unchanged on every request.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client for the API at baseURL. A nil httpClient
// gets a default client with a 30 second timeout.
func NewHTTPClient(baseURL, token string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httpClient,
	}
}

// NewFactory returns a Factory producing HTTPClients that share httpClient.
func NewFactory(baseURL string, httpClient *http.Client) Factory {
	return func(authToken string) Client {
		return NewHTTPClient(baseURL, authToken, httpClient)
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get performs a GET and decodes the envelope's data into out.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	if int64(len(body)) > maxResponseBytes {
		return fmt.Errorf("GET %s: %w (limit %d bytes)", path, ErrResponseTooLarge, maxResponseBytes)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return &APIError{Path: path, StatusCode: resp.StatusCode, Status: env.Status, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding %s response: %w", path, decodeErr)
	}
	if env.Status != "OK" {
		return &APIError{Path: path, StatusCode: resp.StatusCode, Status: env.Status, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", path, err)
	}
	return nil
}

func orgPath(orgID int64, parts ...string) string {
	return "/api/organizations/" + strconv.FormatInt(orgID, 10) + strings.Join(parts, "")
}

func projectPath(orgID, projectID int64, parts ...string) string {
	return orgPath(orgID, "/projects/", strconv.FormatInt(projectID, 10)) + strings.Join(parts, "")
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func (q PageQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("currentPage", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func (c *HTTPClient) Organization(ctx context.Context, orgID int64) (*Organization, error) {
	var org Organization
	if err := c.get(ctx, orgPath(orgID), nil, &org); err != nil {
		return nil, err
	}
	if org.OrgID == 0 {
		org.OrgID = orgID
	}
	return &org, nil
}

func (c *HTTPClient) Departments(ctx context.Context, orgID int64) ([]Department, error) {
	var out []Department
	if err := c.get(ctx, orgPath(orgID, "/departments"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Positions(ctx context.Context, orgID int64) ([]Position, error) {
	var out []Position
	if err := c.get(ctx, orgPath(orgID, "/positions"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AllMembers(ctx context.Context, orgID int64) ([]Member, error) {
	var out []Member
	if err := c.get(ctx, orgPath(orgID, "/members/all"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Members(ctx context.Context, orgID int64, q PageQuery) (*Page[Member], error) {
	var page Page[Member]
	if err := c.get(ctx, orgPath(orgID, "/members"), q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Member(ctx context.Context, orgID, memberID int64) (*Member, error) {
	var m Member
	if err := c.get(ctx, orgPath(orgID, "/members/", id(memberID)), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) DepartmentMembers(ctx context.Context, orgID, deptID int64) ([]Member, error) {
	var out []Member
	if err := c.get(ctx, orgPath(orgID, "/departments/", id(deptID), "/members"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PositionMembers(ctx context.Context, orgID, positionID int64) ([]Member, error) {
	var out []Member
	if err := c.get(ctx, orgPath(orgID, "/positions/", id(positionID), "/members"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Projects(ctx context.Context, orgID int64, q ProjectQuery) (*Page[Project], error) {
	v := q.values()
	if q.ParticipantLimit > 0 {
		v.Set("participantLimit", strconv.Itoa(q.ParticipantLimit))
	}
	if q.MyProjectsOnly {
		v.Set("myProjectsOnly", "true")
	}
	var page Page[Project]
	if err := c.get(ctx, orgPath(orgID, "/projects"), v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Project(ctx context.Context, orgID, projectID int64) (*Project, error) {
	var p Project
	if err := c.get(ctx, projectPath(orgID, projectID, "/info"), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Participants(ctx context.Context, orgID, projectID int64, q PageQuery) (*Page[Participant], error) {
	var page Page[Participant]
	if err := c.get(ctx, projectPath(orgID, projectID, "/participants"), q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Milestones(ctx context.Context, orgID, projectID int64, q MilestoneQuery) (*Page[Milestone], error) {
	v := q.values()
	if q.MyMilestonesOnly {
		v.Set("myMilestonesOnly", "true")
	}
	var page Page[Milestone]
	if err := c.get(ctx, projectPath(orgID, projectID, "/milestones"), v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Issues(ctx context.Context, orgID, projectID int64, q IssueQuery) (*Page[Issue], error) {
	v := q.values()
	if q.MyIssuesOnly {
		v.Set("myIssuesOnly", "true")
	}
	if q.MilestoneID > 0 {
		v.Set("milestoneId", id(q.MilestoneID))
	}
	var page Page[Issue]
	if err := c.get(ctx, projectPath(orgID, projectID, "/issues"), v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Issue(ctx context.Context, orgID, projectID, issueID int64) (*Issue, error) {
	var issue Issue
	if err := c.get(ctx, projectPath(orgID, projectID, "/issues/", id(issueID)), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *HTTPClient) IssueTags(ctx context.Context, orgID, projectID int64) ([]Tag, error) {
	var out []Tag
	if err := c.get(ctx, projectPath(orgID, projectID, "/issues/tags"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Comments(ctx context.Context, orgID, issueID int64, q PageQuery) (*Page[Comment], error) {
	v := q.values()
	v.Set("issueId", id(issueID))
	var page Page[Comment]
	if err := c.get(ctx, "/api/org/"+id(orgID)+"/comments", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) ChatRooms(ctx context.Context, orgID int64) ([]ChatRoom, error) {
	var out []ChatRoom
	if err := c.get(ctx, "/api/orgs/"+id(orgID)+"/chat-rooms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ChatMessages(ctx context.Context, orgID, roomID int64, q PageQuery) (*Page[ChatMessage], error) {
	v := url.Values{}
	// The chat service pages from zero.
	page := q.Page - 1
	if page < 0 {
		page = 0
	}
	v.Set("page", strconv.Itoa(page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	var out Page[ChatMessage]
	if err := c.get(ctx, "/api/orgs/"+id(orgID)+"/chat-rooms/"+id(roomID)+"/messages", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Package snapshot aggregates the groupware API into one consistent,
// per-request view of an organization.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
)

// ErrOrgUnavailable wraps failures of the organization, department,
// position or roster fetch. Without those there is nothing to answer from.
var ErrOrgUnavailable = errors.New("organization data unavailable")

// Fixed fetch caps.
const (
	DefaultConcurrency      = 4
	DefaultProjectPageSize  = 100
	DefaultParticipantLimit = 20
	DefaultMilestoneLimit   = 10
	DefaultIssueLimit       = 5
	DefaultCommentLimit     = 3
	commentContentLimit     = 100
)

// Options configures an Aggregator. Zero values fall back to the defaults.
type Options struct {
	Concurrency      int
	ProjectPageSize  int
	ParticipantLimit int
	MilestoneLimit   int
	IssueLimit       int
	CommentLimit     int

	// Progress, when set, is called after each project's sub-fetches
	// complete. Calls are serialized.
	Progress func(done, total int, project string)

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.ProjectPageSize <= 0 {
		o.ProjectPageSize = DefaultProjectPageSize
	}
	if o.ParticipantLimit <= 0 {
		o.ParticipantLimit = DefaultParticipantLimit
	}
	if o.MilestoneLimit <= 0 {
		o.MilestoneLimit = DefaultMilestoneLimit
	}
	if o.IssueLimit <= 0 {
		o.IssueLimit = DefaultIssueLimit
	}
	if o.CommentLimit <= 0 {
		o.CommentLimit = DefaultCommentLimit
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Aggregator builds snapshots from a Client. It holds no per-request
// state, so one Aggregator may serve concurrent builds.
type Aggregator struct {
	client ourhour.Client
	opts   Options
	log    *slog.Logger
	tracer trace.Tracer
}

// NewAggregator creates an Aggregator reading from client.
func NewAggregator(client ourhour.Client, opts Options) *Aggregator {
	opts = opts.withDefaults()
	return &Aggregator{
		client: client,
		opts:   opts,
		log:    opts.Logger,
		tracer: otel.Tracer("github.com/C1Z4/ourhour-chatbot/internal/snapshot"),
	}
}

// BuildSnapshot fetches everything known about orgID. Organization,
// department, position and roster failures are fatal and wrap
// ErrOrgUnavailable. Project failures degrade the affected part of the
// snapshot and are reported as warnings.
func (a *Aggregator) BuildSnapshot(ctx context.Context, orgID int64) (*Snapshot, error) {
	ctx, span := a.tracer.Start(ctx, "snapshot.Build", trace.WithAttributes(attribute.Int64("org_id", orgID)))
	defer span.End()

	core, err := a.fetchCore(ctx, orgID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "core fetch failed")
		a.log.Error("snapshot: organization data unavailable", "org_id", orgID, "error", err)
		return nil, err
	}

	projects, projectErr := a.fetchProjects(ctx, orgID)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building snapshot for org %d: %w", orgID, err)
	}
	if projectErr != nil {
		a.log.Warn("snapshot: project list unavailable", "org_id", orgID, "error", projectErr)
	}

	s := assemble(core, projects)
	if projectErr != nil {
		s.ProjectError = projectErr.Error()
	}
	span.SetAttributes(
		attribute.Int("members", len(s.Members)),
		attribute.Int("projects", len(s.Projects)),
	)
	return s, nil
}

// coreData is the result of the fatal stage.
type coreData struct {
	org         *ourhour.Organization
	departments []ourhour.Department
	positions   []ourhour.Position
	members     []ourhour.Member
}

func (a *Aggregator) fetchCore(ctx context.Context, orgID int64) (*coreData, error) {
	var (
		c   coreData
		err error
	)
	if c.org, err = a.client.Organization(ctx, orgID); err != nil {
		return nil, fmt.Errorf("%w: fetching organization %d: %w", ErrOrgUnavailable, orgID, err)
	}
	if c.departments, err = a.client.Departments(ctx, orgID); err != nil {
		return nil, fmt.Errorf("%w: fetching departments: %w", ErrOrgUnavailable, err)
	}
	if c.positions, err = a.client.Positions(ctx, orgID); err != nil {
		return nil, fmt.Errorf("%w: fetching positions: %w", ErrOrgUnavailable, err)
	}
	if c.members, err = a.client.AllMembers(ctx, orgID); err != nil {
		return nil, fmt.Errorf("%w: fetching members: %w", ErrOrgUnavailable, err)
	}
	return &c, nil
}

// fetchStatus tells whether a sub-fetch produced data.
type fetchStatus int

const (
	fetchOK fetchStatus = iota
	fetchFailed
)

// fetchResult is the outcome of one independent remote call.
type fetchResult[T any] struct {
	items  []T
	status fetchStatus
	err    error
}

func collect[T any](items []T, err error, limit int) fetchResult[T] {
	if err != nil {
		return fetchResult[T]{status: fetchFailed, err: err}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return fetchResult[T]{items: items, status: fetchOK}
}

// projectSlot receives the sub-fetch results of one project. Each field is
// written by exactly one goroutine.
type projectSlot struct {
	project      ourhour.Project
	participants fetchResult[ourhour.Participant]
	milestones   fetchResult[ourhour.Milestone]
	issues       fetchResult[ourhour.Issue]
	comments     []fetchResult[ourhour.Comment]
}

func (a *Aggregator) fetchProjects(ctx context.Context, orgID int64) ([]*projectSlot, error) {
	ctx, span := a.tracer.Start(ctx, "snapshot.Projects")
	defer span.End()

	page, err := a.client.Projects(ctx, orgID, ourhour.ProjectQuery{
		PageQuery: ourhour.PageQuery{Page: 1, Size: a.opts.ProjectPageSize},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "project list failed")
		return nil, fmt.Errorf("fetching projects: %w", err)
	}

	list := page.Items()
	slots := make([]*projectSlot, len(list))
	for i, p := range list {
		slots[i] = &projectSlot{project: p}
	}
	span.SetAttributes(attribute.Int("projects", len(slots)))

	a.fetchProjectDetails(ctx, orgID, slots)
	a.fetchComments(ctx, orgID, slots)
	a.logWarnings(orgID, slots)
	return slots, nil
}

// fetchProjectDetails fans out participants, milestones and issues for
// every project under the concurrency limit. Tasks always return nil so a
// failing call never cancels its siblings; only ctx does.
func (a *Aggregator) fetchProjectDetails(ctx context.Context, orgID int64, slots []*projectSlot) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	var (
		mu        sync.Mutex
		remaining = make([]int, len(slots))
		done      int
	)
	finish := func(i int) {
		if a.opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		remaining[i]--
		if remaining[i] == 0 {
			done++
			a.opts.Progress(done, len(slots), slots[i].project.Name)
		}
	}

	for i, slot := range slots {
		pid := slot.project.ProjectID
		remaining[i] = 3

		g.Go(func() error {
			defer finish(i)
			page, err := a.traced(gctx, "participants", pid, func(ctx context.Context) (any, error) {
				return a.client.Participants(ctx, orgID, pid, ourhour.PageQuery{Page: 1, Size: a.opts.ParticipantLimit})
			})
			slot.participants = collect(pageItems[ourhour.Participant](page), err, a.opts.ParticipantLimit)
			return nil
		})
		g.Go(func() error {
			defer finish(i)
			page, err := a.traced(gctx, "milestones", pid, func(ctx context.Context) (any, error) {
				return a.client.Milestones(ctx, orgID, pid, ourhour.MilestoneQuery{
					PageQuery: ourhour.PageQuery{Page: 1, Size: a.opts.MilestoneLimit},
				})
			})
			slot.milestones = collect(pageItems[ourhour.Milestone](page), err, a.opts.MilestoneLimit)
			return nil
		})
		g.Go(func() error {
			defer finish(i)
			page, err := a.traced(gctx, "issues", pid, func(ctx context.Context) (any, error) {
				return a.client.Issues(ctx, orgID, pid, ourhour.IssueQuery{
					PageQuery: ourhour.PageQuery{Page: 1, Size: a.opts.IssueLimit},
				})
			})
			slot.issues = collect(pageItems[ourhour.Issue](page), err, a.opts.IssueLimit)
			return nil
		})
	}
	_ = g.Wait()
}

// fetchComments samples comments for every fetched issue. It runs after
// the issue fetches so the fan-out stays within one limit.
func (a *Aggregator) fetchComments(ctx context.Context, orgID int64, slots []*projectSlot) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	for _, slot := range slots {
		if slot.issues.status != fetchOK {
			continue
		}
		slot.comments = make([]fetchResult[ourhour.Comment], len(slot.issues.items))
		for j, issue := range slot.issues.items {
			iid := issue.IssueID
			g.Go(func() error {
				page, err := a.traced(gctx, "comments", slot.project.ProjectID, func(ctx context.Context) (any, error) {
					return a.client.Comments(ctx, orgID, iid, ourhour.PageQuery{Page: 1, Size: a.opts.CommentLimit})
				})
				slot.comments[j] = collect(pageItems[ourhour.Comment](page), err, a.opts.CommentLimit)
				return nil
			})
		}
	}
	_ = g.Wait()
}

// traced runs one remote call inside a span.
func (a *Aggregator) traced(ctx context.Context, resource string, projectID int64, call func(context.Context) (any, error)) (any, error) {
	ctx, span := a.tracer.Start(ctx, "snapshot.fetch."+resource, trace.WithAttributes(
		attribute.Int64("project_id", projectID),
	))
	defer span.End()

	out, err := call(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, resource+" fetch failed")
	}
	return out, err
}

// pageItems extracts the items of a *ourhour.Page[T] returned through
// traced.
func pageItems[T any](v any) []T {
	page, ok := v.(*ourhour.Page[T])
	if !ok {
		return nil
	}
	return page.Items()
}

func (a *Aggregator) logWarnings(orgID int64, slots []*projectSlot) {
	for _, slot := range slots {
		p := slot.project
		warn := func(resource string, err error) {
			a.log.Warn("snapshot: partial project data",
				"org_id", orgID, "project_id", p.ProjectID, "project", p.Name,
				"resource", resource, "error", err)
		}
		if slot.participants.status == fetchFailed {
			warn("participants", slot.participants.err)
		}
		if slot.milestones.status == fetchFailed {
			warn("milestones", slot.milestones.err)
		}
		if slot.issues.status == fetchFailed {
			warn("issues", slot.issues.err)
		}
		for _, c := range slot.comments {
			if c.status == fetchFailed {
				warn("comments", c.err)
			}
		}
	}
}

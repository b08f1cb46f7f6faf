package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/C1Z4/ourhour-chatbot/internal/compose"
	"github.com/C1Z4/ourhour-chatbot/internal/extract"
	"github.com/C1Z4/ourhour-chatbot/internal/intent"
	"github.com/C1Z4/ourhour-chatbot/internal/llm"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// Retriever finds knowledge-base records related to a question. It is
// optional; failures only drop the related block.
type Retriever interface {
	Related(ctx context.Context, s *snapshot.Snapshot, query string, k int) ([]string, error)
}

// DefaultRelatedLimit is how many related records are appended.
const DefaultRelatedLimit = 3

// Options wires a Service. Clients and Provider are required; nil
// classifiers and extractors fall back to the heuristics.
type Options struct {
	Clients  ourhour.Factory
	Provider llm.Provider

	Primary  intent.Classifier
	OrgChart intent.Classifier
	Chat     intent.Classifier

	Person  extract.Extractor
	Project extract.Extractor
	Room    extract.Extractor

	Aggregator   snapshot.Options
	Retriever    Retriever
	RelatedLimit int
	Generate     llm.Options

	Logger *slog.Logger
}

// Service answers questions about an organization.
type Service struct {
	opts   Options
	table  Table
	log    *slog.Logger
	tracer trace.Tracer
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Primary == nil {
		opts.Primary = intent.New("heuristic", intent.PrimaryTier, nil, intent.LLMOptions{})
	}
	if opts.OrgChart == nil {
		opts.OrgChart = intent.NewHeuristic(intent.OrgChartTier)
	}
	if opts.Chat == nil {
		opts.Chat = intent.NewHeuristic(intent.ChatTier)
	}
	if opts.Person == nil {
		opts.Person = extract.Person{}
	}
	if opts.Project == nil {
		opts.Project = extract.Project{}
	}
	if opts.Room == nil {
		opts.Room = extract.Room{}
	}
	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = DefaultRelatedLimit
	}
	if opts.Aggregator.Logger == nil {
		opts.Aggregator.Logger = opts.Logger
	}

	s := &Service{
		opts:   opts,
		log:    opts.Logger,
		tracer: otel.Tracer("github.com/C1Z4/ourhour-chatbot/internal/dispatch"),
	}
	s.table = Table{
		intent.Greeting:      s.handleGreeting,
		intent.ChatSummary:   s.handleChatSummary,
		intent.ProjectQuery:  s.handleProjectQuery,
		intent.OrgChartQuery: s.handleOrgChartQuery,
	}
	return s
}

// Table returns the handler table.
func (s *Service) Table() Table { return s.table }

// Result is an answer together with the route that produced it.
type Result struct {
	Text      string
	Label     intent.Label
	RequestID string
}

// Answer is the entry point for one question. It never panics and never
// fails: every outcome is answer text.
func (s *Service) Answer(ctx context.Context, query string, memberID, orgID int64, authToken string) string {
	return s.Respond(ctx, query, memberID, orgID, authToken).Text
}

// Respond is Answer that also reports the label and request ID. An empty
// question has no label.
func (s *Service) Respond(ctx context.Context, query string, memberID, orgID int64, authToken string) Result {
	req := Request{
		Message:   strings.TrimSpace(query),
		MemberID:  memberID,
		OrgID:     orgID,
		AuthToken: authToken,
		RequestID: uuid.NewString(),
	}
	if req.Message == "" {
		return Result{Text: EmptyMessage, RequestID: req.RequestID}
	}

	ctx, span := s.tracer.Start(ctx, "dispatch.Answer", trace.WithAttributes(
		attribute.Int64("org_id", orgID),
		attribute.String("request_id", req.RequestID),
	))
	defer span.End()

	start := time.Now()
	label := s.classify(ctx, req)
	span.SetAttributes(attribute.String("label", string(label)))

	answer := s.Dispatch(ctx, label, req)
	s.log.Info("answered question",
		"request_id", req.RequestID, "org_id", orgID, "member_id", memberID,
		"label", string(label), "duration", time.Since(start))
	return Result{Text: answer, Label: label, RequestID: req.RequestID}
}

// classify runs the primary classifier, treating a panic like any other
// classification failure.
func (s *Service) classify(ctx context.Context, req Request) (label intent.Label) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Info("classifier panicked, using default", "request_id", req.RequestID, "panic", r)
			label = intent.PrimaryTier.Default
		}
	}()
	label = s.opts.Primary.Classify(ctx, req.Message)
	if !intent.PrimaryTier.Valid(label) {
		label = intent.PrimaryTier.Default
	}
	return label
}

func (s *Service) handleGreeting(context.Context, Request) (string, error) {
	return GreetingMessage, nil
}

// session is the per-request state shared by the data handlers.
type session struct {
	client  ourhour.Client
	snap    *snapshot.Snapshot
	current *snapshot.MemberRecord
}

func (s *Service) open(ctx context.Context, req Request) (*session, error) {
	if req.AuthToken == "" {
		return nil, ErrMissingToken
	}
	if s.opts.Clients == nil {
		return nil, fmt.Errorf("dispatch: no API client factory configured")
	}
	client := s.opts.Clients(req.AuthToken)

	snap, err := snapshot.NewAggregator(client, s.opts.Aggregator).BuildSnapshot(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}
	return &session{
		client:  client,
		snap:    snap,
		current: s.currentMember(ctx, client, snap, req),
	}, nil
}

// currentMember resolves the caller by member ID against the roster, with
// the member-detail endpoint as the only fallback.
func (s *Service) currentMember(ctx context.Context, client ourhour.Client, snap *snapshot.Snapshot, req Request) *snapshot.MemberRecord {
	if req.MemberID == 0 {
		return nil
	}
	if m, ok := snap.MemberByID(req.MemberID); ok {
		return &m
	}
	m, err := client.Member(ctx, req.OrgID, req.MemberID)
	if err != nil {
		s.log.Warn("current member unavailable", "request_id", req.RequestID, "member_id", req.MemberID, "error", err)
		return nil
	}
	return &snapshot.MemberRecord{
		MemberID:   m.MemberID,
		Name:       strings.TrimSpace(m.Name),
		Email:      m.Email,
		Phone:      m.Phone,
		Department: m.DeptName,
		Position:   m.PositionName,
		Role:       m.Role,
	}
}

// respond prepends the caller's context, appends related records and asks
// the text generator.
func (s *Service) respond(ctx context.Context, sess *session, req Request, body, guidelines string) (string, error) {
	var current string
	if sess.current != nil {
		current = compose.CurrentUserContext(sess.snap, *sess.current)
	}
	related := s.related(ctx, sess.snap, req)

	prompt := compose.RenderFinalPrompt(compose.Join(current, body, related), guidelines, req.Message)
	answer, err := llm.Generate(ctx, s.opts.Provider, prompt, s.opts.Generate)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

func (s *Service) related(ctx context.Context, snap *snapshot.Snapshot, req Request) string {
	if s.opts.Retriever == nil {
		return ""
	}
	docs, err := s.opts.Retriever.Related(ctx, snap, req.Message, s.opts.RelatedLimit)
	if err != nil {
		s.log.Warn("knowledge search failed", "request_id", req.RequestID, "error", err)
		return ""
	}
	return compose.RelatedContext(docs)
}

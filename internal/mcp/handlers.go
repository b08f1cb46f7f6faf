package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/C1Z4/ourhour-chatbot/internal/compose"
	"github.com/C1Z4/ourhour-chatbot/internal/dispatch"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

func (s *Server) orgID(request mcp.CallToolRequest) int64 {
	if id := request.GetInt("org_id", 0); id > 0 {
		return int64(id)
	}
	return s.session.OrgID
}

// handleAskOrganization runs the full question pipeline.
func (s *Server) handleAskOrganization(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer := s.answerer.Answer(ctx, question, s.session.MemberID, s.orgID(request), s.session.AuthToken)
	return mcp.NewToolResultText(answer), nil
}

// handleOrganizationSummary renders the organization summary without
// calling a model.
func (s *Server) handleOrganizationSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, errResult := s.snapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(snapshot.GenerateSummary(snap)), nil
}

// handleFindMember resolves a name against the roster.
func (s *Server) handleFindMember(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	snap, errResult := s.snapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(compose.PersonContext(snap, strings.TrimSpace(name))), nil
}

func (s *Server) snapshot(ctx context.Context, request mcp.CallToolRequest) (*snapshot.Snapshot, *mcp.CallToolResult) {
	if s.session.AuthToken == "" {
		return nil, mcp.NewToolResultError(dispatch.TokenMissingMessage)
	}
	client := s.clients(s.session.AuthToken)
	snap, err := snapshot.NewAggregator(client, s.aggregator).BuildSnapshot(ctx, s.orgID(request))
	if err != nil {
		return nil, mcp.NewToolResultError(dispatch.UserMessage(err))
	}
	return snap, nil
}

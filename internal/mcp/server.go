package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Answerer answers one question. *dispatch.Service implements it.
type Answerer interface {
	Answer(ctx context.Context, query string, memberID, orgID int64, authToken string) string
}

// Session is the identity the stdio server acts as. One MCP client speaks
// for one groupware user.
type Session struct {
	OrgID     int64
	MemberID  int64
	AuthToken string
}

// Server wraps an MCP server that exposes organization tools.
type Server struct {
	answerer   Answerer
	clients    ourhour.Factory
	aggregator snapshot.Options
	session    Session
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(answerer Answerer, clients ourhour.Factory, aggregator snapshot.Options, session Session) *Server {
	s := &Server{
		answerer:   answerer,
		clients:    clients,
		aggregator: aggregator,
		session:    session,
	}

	s.mcp = server.NewMCPServer(
		"ourhour-chatbot",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askOrganizationTool, s.handleAskOrganization)
	s.mcp.AddTool(organizationSummaryTool, s.handleOrganizationSummary)
	s.mcp.AddTool(findMemberTool, s.handleFindMember)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askOrganizationTool defines the ask_organization MCP tool.
var askOrganizationTool = mcp.NewTool("ask_organization",
	mcp.WithDescription("Ask a question about the organization: members, departments, projects, or chat rooms. Answers in Korean."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question, e.g. \"김철수 전화번호 알려줘\""),
	),
	mcp.WithNumber("org_id",
		mcp.Description("Organization ID (defaults to the session organization)"),
	),
)

// organizationSummaryTool defines the organization_summary MCP tool.
var organizationSummaryTool = mcp.NewTool("organization_summary",
	mcp.WithDescription("Get the organization overview: departments, positions, members, and project statistics."),
	mcp.WithNumber("org_id",
		mcp.Description("Organization ID (defaults to the session organization)"),
	),
)

// findMemberTool defines the find_member MCP tool.
var findMemberTool = mcp.NewTool("find_member",
	mcp.WithDescription("Look up a member by name. Tolerates partial names and typos and suggests similar names."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Member name, full or partial"),
	),
	mcp.WithNumber("org_id",
		mcp.Description("Organization ID (defaults to the session organization)"),
	),
)

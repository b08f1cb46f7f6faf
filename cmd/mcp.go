package cmd

import (
	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/mcp"
)

var (
	mcpOrg    int64
	mcpMember int64
	mcpToken  string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve organization tools over MCP (stdio)",
	Long: `Starts a Model Context Protocol server on stdin/stdout so MCP clients
can ask questions about the organization, read its summary, and look up
members. The server acts as the member given by --member.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := setupLogger(cfg)

		svc, err := newService(cfg, logger)
		if err != nil {
			return err
		}

		mcp.Version = Version
		srv := mcp.NewServer(svc, clientFactory(cfg), aggregatorOptions(cfg, logger), mcp.Session{
			OrgID:     mcpOrg,
			MemberID:  mcpMember,
			AuthToken: tokenFlag(mcpToken),
		})
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().Int64Var(&mcpOrg, "org", 0, "default organization ID for tool calls")
	mcpCmd.Flags().Int64Var(&mcpMember, "member", 0, "member ID the server acts as")
	mcpCmd.Flags().StringVar(&mcpToken, "token", "", "groupware access token (default $OURHOUR_TOKEN)")
	rootCmd.AddCommand(mcpCmd)
}

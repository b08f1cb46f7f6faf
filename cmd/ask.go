package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askOrg    int64
	askMember int64
	askToken  string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question about an organization",
	Long: `Answers a single question from the terminal, acting as the given member.

The groupware access token is read from --token or OURHOUR_TOKEN.`,
	Example: `  ourhour-chatbot ask --org 1 --member 7 "개발팀 팀장이 누구야?"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if askOrg == 0 {
			return fmt.Errorf("--org is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := setupLogger(cfg)

		svc, err := newService(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
		defer cancel()

		question := strings.Join(args, " ")
		fmt.Fprintln(cmd.OutOrStdout(), svc.Answer(ctx, question, askMember, askOrg, tokenFlag(askToken)))
		return nil
	},
}

func init() {
	askCmd.Flags().Int64Var(&askOrg, "org", 0, "organization ID")
	askCmd.Flags().Int64Var(&askMember, "member", 0, "member ID of the asker")
	askCmd.Flags().StringVar(&askToken, "token", "", "groupware access token (default $OURHOUR_TOKEN)")
	rootCmd.AddCommand(askCmd)
}

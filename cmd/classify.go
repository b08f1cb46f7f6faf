package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/intent"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Show how a question would be routed",
	Long: `Runs the configured intent classifiers on the text and prints the
primary label, plus the secondary label for org-chart and chat questions.
No organization data is fetched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := setupLogger(cfg)

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		primary, orgChart, chat := classifiers(cfg, provider, logger)

		ctx := cmd.Context()
		text := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		label := primary.Classify(ctx, text)
		fmt.Fprintf(out, "primary:   %s\n", label)
		switch label {
		case intent.OrgChartQuery:
			fmt.Fprintf(out, "secondary: %s\n", orgChart.Classify(ctx, text))
		case intent.ChatSummary:
			fmt.Fprintf(out, "secondary: %s\n", chat.Classify(ctx, text))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

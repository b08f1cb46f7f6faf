package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/progress"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

var (
	snapshotOrg   int64
	snapshotToken string
	snapshotJSON  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch an organization snapshot and print its summary",
	Long: `Fetches everything the chatbot knows about an organization (members,
departments, positions, projects with milestones and issues) and prints
the summary, or the full snapshot as JSON with --json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotOrg == 0 {
			return fmt.Errorf("--org is required")
		}
		token := tokenFlag(snapshotToken)
		if token == "" {
			return fmt.Errorf("an access token is required (--token or OURHOUR_TOKEN)")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := setupLogger(cfg)

		tracker := progress.NewTracker(progress.NewReporter())
		opts := aggregatorOptions(cfg, logger)
		opts.Progress = tracker.Callback

		agg := snapshot.NewAggregator(clientFactory(cfg)(token), opts)
		snap, err := agg.BuildSnapshot(cmd.Context(), snapshotOrg)
		tracker.Finish()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if snapshotJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		fmt.Fprint(out, snapshot.GenerateSummary(snap))
		return nil
	},
}

func init() {
	snapshotCmd.Flags().Int64Var(&snapshotOrg, "org", 0, "organization ID")
	snapshotCmd.Flags().StringVar(&snapshotToken, "token", "", "groupware access token (default $OURHOUR_TOKEN)")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the full snapshot as JSON")
	rootCmd.AddCommand(snapshotCmd)
}

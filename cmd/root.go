package cmd

import (
	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ourhour-chatbot",
	Short: "AI assistant that answers questions about an OURHOUR organization",
	Long: `ourhour-chatbot answers natural-language questions (in Korean) about an
organization on the OURHOUR groupware: its members, departments,
positions, projects, and chat rooms. Each question is routed by intent,
the relevant organization data is fetched on the caller's behalf, and an
LLM writes the answer.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

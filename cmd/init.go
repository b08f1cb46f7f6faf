package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the groupware API, LLM provider, and server settings and writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (provider %s, model %s)\n", cfgFile, cfg.LLM.Provider, cfg.LLM.Model)
		if envVar := config.APIKeyEnvVar(cfg.LLM.Provider); envVar != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s or run `ourhour-chatbot auth %s` to store a key.\n", envVar, cfg.LLM.Provider)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/config"
	"github.com/C1Z4/ourhour-chatbot/internal/llm"
)

var authSkipVerify bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials for LLM providers",
	Long: `Store and manage API credentials for LLM providers.

Credentials are stored in ~/.ourhour-chatbot/credentials.json and used
as a fallback when environment variables are not set.`,
}

var authAnthropicCmd = &cobra.Command{
	Use:   "anthropic",
	Short: "Store Anthropic API key",
	Long: `Store your Anthropic API key for persistent use.

Get your API key at https://console.anthropic.com/settings/keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return storeAPIKey(cmd, config.ProviderAnthropic)
	},
}

var authOpenAICmd = &cobra.Command{
	Use:   "openai",
	Short: "Store OpenAI API key",
	Long: `Store your OpenAI API key for persistent use.

Get your API key at https://platform.openai.com/api-keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return storeAPIKey(cmd, config.ProviderOpenAI)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which providers have stored credentials",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout [provider]",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials for a provider.

If no provider is specified, removes all stored credentials.
Valid providers: anthropic, openai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogout,
}

func init() {
	authAnthropicCmd.Flags().BoolVar(&authSkipVerify, "skip-verify", false, "store the key without a test request")
	authOpenAICmd.Flags().BoolVar(&authSkipVerify, "skip-verify", false, "store the key without a test request")

	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authAnthropicCmd)
	authCmd.AddCommand(authOpenAICmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func storeAPIKey(cmd *cobra.Command, provider config.ProviderType) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Fprintf(out, "%s API key: ", provider)
	input, _ := reader.ReadString('\n')
	apiKey := strings.TrimSpace(input)
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}

	if !authSkipVerify {
		fmt.Fprint(out, "Verifying API key... ")
		if err := verifyAPIKey(cmd.Context(), provider, apiKey); err != nil {
			fmt.Fprintln(out, "failed!")
			return fmt.Errorf("key verification failed: %w", err)
		}
		fmt.Fprintln(out, "valid!")
	}

	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	if err := creds.SetAPIKey(string(provider), apiKey); err != nil {
		return err
	}
	if err := auth.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Fprintf(out, "%s credentials stored successfully!\n", provider)
	return nil
}

// verifyAPIKey sends a one-token completion with the provider's cheapest
// preset model.
func verifyAPIKey(ctx context.Context, provider config.ProviderType, apiKey string) error {
	p, err := llm.NewProvider(llm.Settings{
		Provider: string(provider),
		Model:    config.GetPreset(provider).ClassifierModel,
		APIKey:   apiKey,
		Timeout:  15 * time.Second,
	})
	if err != nil {
		return err
	}
	_, err = p.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		MaxTokens: 1,
	})
	return err
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	path, _ := auth.CredentialPath()
	fmt.Fprintf(out, "Credentials file: %s\n\n", path)

	fmt.Fprintln(out, "Provider     Status")
	fmt.Fprintln(out, "--------     ------")

	for _, provider := range []config.ProviderType{config.ProviderAnthropic, config.ProviderOpenAI} {
		env := config.APIKeyEnvVar(provider)
		switch {
		case os.Getenv(env) != "":
			fmt.Fprintf(out, "%-12s configured (env var %s)\n", provider, env)
		case creds.APIKey(string(provider)) != "":
			fmt.Fprintf(out, "%-12s configured (stored)\n", provider)
		default:
			fmt.Fprintf(out, "%-12s not configured\n", provider)
		}
	}

	// Ollama (always available locally)
	fmt.Fprintf(out, "%-12s available (local)\n", config.ProviderOllama)

	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		creds = &auth.Credentials{}
		fmt.Fprintln(out, "All stored credentials removed.")
	} else {
		if err := creds.SetAPIKey(args[0], ""); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s credentials removed.\n", args[0])
	}

	return auth.Save(creds)
}

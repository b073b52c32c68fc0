package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"review-reply/cmd"
	"review-reply/internal/config"
	"review-reply/internal/llm"
	"review-reply/internal/reply"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var provider, apiKey, envFile string

	root := &cobra.Command{
		Use:           "listmodels",
		Short:         "List the models an API key can use for text generation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			if err := cmd.LoadEnvFrom(envFile); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.LLMProvider = strings.ToLower(strings.TrimSpace(provider))
			}

			key := apiKey
			if key == "" {
				key = cfg.APIKey()
			}

			out := c.OutOrStdout()
			fmt.Fprintln(out, "Searching for available models...")

			models, err := llm.ListModels(c.Context(), cfg.LLMSettings(), key)
			if err != nil {
				if errors.Is(err, llm.ErrMissingAPIKey) {
					return reply.ErrMissingAPIKey
				}
				return fmt.Errorf("error listing models: %w", err)
			}

			for _, m := range models {
				fmt.Fprintf(out, "FOUND: %s\n", m.Name)
			}
			return nil
		},
	}

	root.Flags().StringVar(&provider, "provider", "", "llm provider (gemini or openai), defaults to LLM_PROVIDER")
	root.Flags().StringVar(&apiKey, "api-key", "", "api key, defaults to GEMINI_API_KEY or OPENAI_API_KEY")
	root.Flags().StringVar(&envFile, "env", "", "path to load env from")

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

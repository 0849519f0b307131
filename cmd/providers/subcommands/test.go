package subcommands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/cmdutil"
	"github.com/leefowlercu/codedoc/internal/config"
	"github.com/leefowlercu/codedoc/internal/narrator"
	"github.com/leefowlercu/codedoc/internal/providers/text"
	"github.com/leefowlercu/codedoc/internal/segmenter"
)

const testSnippet = "def add(a, b):\n    return a + b"

// TestCmd sends a test prompt to a provider.
var TestCmd = &cobra.Command{
	Use:   "test [provider-name]",
	Short: "Send a test prompt to a text provider",
	Long: "Send a test prompt to a text provider.\n\n" +
		"Verifies that the provider is configured and can answer a short " +
		"documentation prompt. Defaults to the configured provider.",
	Example: `  # Test the configured provider
  codedoc providers test

  # Test OpenAI
  codedoc providers test openai`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateTest,
	RunE:    runTest,
}

func validateTest(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	name := cfg.Narrator.Provider
	if len(args) == 1 {
		name = args[0]
	}

	registry, err := text.NewRegistry(cfg.Narrator.Provider, cmdutil.ProviderOptions(&cfg.Narrator))
	if err != nil {
		return err
	}
	p, err := registry.Get(name)
	if err != nil {
		return fmt.Errorf("provider %q not found", name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing text provider: %s\n", p.Name())

	if !p.Available() {
		return fmt.Errorf("provider %s is not available (missing API key)", p.Name())
	}

	fmt.Fprintf(out, "  Model: %s\n", p.ModelName())
	fmt.Fprintln(out, "  Sending test request...")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	unit := segmenter.Segment(testSnippet, segmenter.Label(segmenter.StructuralTag))[0]

	start := time.Now()
	result, err := p.Generate(ctx, narrator.BuildPrompt(unit, narrator.DefaultStyle))
	duration := time.Since(start)
	if err != nil {
		return fmt.Errorf("test failed; %w", err)
	}

	fmt.Fprintf(out, "  Response received in %v\n", duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Tokens used: %d\n", result.TokensUsed)
	fmt.Fprintf(out, "  Explanation: %s\n", truncate(result.Text, 80))
	fmt.Fprintln(out, "  Test: PASSED")

	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

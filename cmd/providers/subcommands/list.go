package subcommands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/cmdutil"
	"github.com/leefowlercu/codedoc/internal/config"
	"github.com/leefowlercu/codedoc/internal/providers"
	"github.com/leefowlercu/codedoc/internal/providers/text"
)

var (
	listVerbose bool
)

// ListCmd lists the known text providers.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List text providers",
	Long: "List text providers.\n\n" +
		"Displays every known provider, whether it has credentials, and which one " +
		"is configured. Use --verbose to see the model and rate limit of each.",
	Example: `  # List providers
  codedoc providers list

  # List with details
  codedoc providers list --verbose`,
	PreRunE: validateList,
	RunE:    runList,
}

func init() {
	ListCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "Show detailed provider information")
}

func validateList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	registry, err := text.NewRegistry(cfg.Narrator.Provider, cmdutil.ProviderOptions(&cfg.Narrator))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Text Providers:")
	for _, p := range registry.List() {
		printProvider(out, p, p.Name() == cfg.Narrator.Provider, listVerbose)
	}

	return nil
}

func printProvider(out io.Writer, p providers.TextProvider, configured, verbose bool) {
	status := "unavailable"
	if p.Available() {
		status = "available"
	}
	marker := " "
	if configured {
		marker = "*"
	}

	if !verbose {
		fmt.Fprintf(out, "%s %s (%s)\n", marker, p.Name(), status)
		return
	}

	fmt.Fprintf(out, "%s %s:\n", marker, p.Name())
	fmt.Fprintf(out, "    Status: %s\n", status)
	fmt.Fprintf(out, "    Model: %s\n", p.ModelName())
	rateLimit := p.RateLimit()
	if rateLimit.RequestsPerMinute > 0 {
		fmt.Fprintf(out, "    Rate Limit: %d req/min, burst %d\n", rateLimit.RequestsPerMinute, rateLimit.BurstSize)
	} else {
		fmt.Fprintln(out, "    Rate Limit: none")
	}
}

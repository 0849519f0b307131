// Package providers provides the providers parent command and subcommands.
package providers

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/cmd/providers/subcommands"
)

// ProvidersCmd is the parent command for all provider-related subcommands.
var ProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect the text providers used for narration",
	Long: "Inspect the text providers used for narration.\n\n" +
		"Providers are the hosted model APIs that explain each unit of code. " +
		"This command lists them with their availability and can send a test prompt.",
}

func init() {
	ProvidersCmd.AddCommand(subcommands.ListCmd)
	ProvidersCmd.AddCommand(subcommands.TestCmd)
}

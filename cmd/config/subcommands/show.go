package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/config"
)

var (
	showFormat string
)

// ShowCmd displays the effective configuration.
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: "Display the effective configuration.\n\n" +
		"Shows the configuration with defaults, the config file, and environment " +
		"overrides applied. The API key is never printed.",
	Example: `  # Show effective configuration as YAML
  codedoc config show

  # Show it as TOML
  codedoc config show --format toml`,
	PreRunE: validateShow,
	RunE:    runShow,
}

func init() {
	ShowCmd.Flags().StringVarP(&showFormat, "format", "f", config.FormatYAML, "Output format (yaml, toml)")
}

func validateShow(cmd *cobra.Command, args []string) error {
	if showFormat != config.FormatYAML && showFormat != config.FormatTOML {
		return fmt.Errorf("invalid format %q; must be one of: yaml, toml", showFormat)
	}
	cmd.SilenceUsage = true
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	data, err := config.Marshal(config.Get(), showFormat)
	if err != nil {
		return err
	}

	source := config.ConfigFilePath()
	if source == "" {
		source = "(none; defaults and environment only)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# Config file: %s\n", source)
	_, err = out.Write(data)
	return err
}

package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/config"
)

var (
	validatePath string
)

// ValidateCmd validates a configuration file.
var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: "Validate the configuration file.\n\n" +
		"Checks the configuration file for syntax errors and validates that all " +
		"settings have valid values. Returns exit code 0 if valid, 1 if invalid.",
	Example: `  # Validate the active configuration file
  codedoc config validate

  # Validate a specific file
  codedoc config validate --path ./config.yaml`,
	PreRunE: validateValidate,
	RunE:    runValidate,
}

func init() {
	ValidateCmd.Flags().StringVar(&validatePath, "path", "", "Config file to validate (default: the loaded file)")
}

func validateValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := validatePath
	if path == "" {
		path = config.ConfigFilePath()
	}
	if path == "" {
		fmt.Fprintln(out, "No configuration file found; using default configuration values.")
		return nil
	}

	if _, err := config.LoadFromPath(path); err != nil {
		if !config.IsValidationError(err) {
			return fmt.Errorf("could not load %s; %w", path, err)
		}
		fmt.Fprintln(out, "Configuration validation failed:")
		fmt.Fprintf(out, "  %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}

	fmt.Fprintf(out, "Configuration is valid: %s\n", path)
	return nil
}

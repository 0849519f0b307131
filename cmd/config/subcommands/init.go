package subcommands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/config"
)

var (
	initPath  string
	initForce bool
)

// InitCmd writes a default configuration file.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: "Write a default configuration file.\n\n" +
		"Creates config.yaml with every setting at its default value, with any " +
		"CODEDOC_* environment overrides applied. The API key is never written. An existing " +
		"file is left alone unless --force is given, in which case it is backed up " +
		"before being replaced.",
	Example: `  # Create ~/.config/codedoc/config.yaml
  codedoc config init

  # Replace an existing file, keeping a backup
  codedoc config init --force

  # Write to a custom location
  codedoc config init --path ./config.yaml`,
	PreRunE: validateInit,
	RunE:    runInit,
}

func init() {
	InitCmd.Flags().StringVar(&initPath, "path", "", "Config file path (default: ~/.config/codedoc/config.yaml)")
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file after backing it up")
}

func validateInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path := initPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	path = config.ExpandPath(path)
	out := cmd.OutOrStdout()

	if config.ConfigExistsAt(path) {
		if !initForce {
			return fmt.Errorf("config file already exists at %s; use --force to replace it", path)
		}
		backupPath := fmt.Sprintf("%s.backup.%d", path, time.Now().Unix())
		if err := copyFile(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup; %w", err)
		}
		fmt.Fprintf(out, "Backup created: %s\n", backupPath)
	}

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		return fmt.Errorf("invalid environment overrides; %w", err)
	}
	if err := config.Write(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration written: %s\n", path)
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}

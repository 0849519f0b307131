package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	configcmd "github.com/leefowlercu/codedoc/cmd/config"
	"github.com/leefowlercu/codedoc/cmd/generate"
	providerscmd "github.com/leefowlercu/codedoc/cmd/providers"
	"github.com/leefowlercu/codedoc/cmd/segment"
	"github.com/leefowlercu/codedoc/cmd/serve"
	versioncmd "github.com/leefowlercu/codedoc/cmd/version"
	"github.com/leefowlercu/codedoc/internal/config"
	"github.com/leefowlercu/codedoc/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

var codedocCmd = &cobra.Command{
	Use:   "codedoc",
	Short: "Generate Markdown documentation for code snippets",
	Long: "codedoc explains pasted source code with a generative text model.\n\n" +
		"A snippet is split into documentable units (functions and classes for Python, " +
		"the whole snippet for every other language), each unit is explained in turn, " +
		"and the explanations are assembled into a single Markdown report. " +
		"Run it as an HTTP service with 'codedoc serve' or one-shot with 'codedoc generate'.",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = logging.NewManager()
	slog.SetDefault(logManager.Logger())

	codedocCmd.AddCommand(serve.ServeCmd)
	codedocCmd.AddCommand(generate.GenerateCmd)
	codedocCmd.AddCommand(segment.SegmentCmd)
	codedocCmd.AddCommand(configcmd.ConfigCmd)
	codedocCmd.AddCommand(providerscmd.ProvidersCmd)
	codedocCmd.AddCommand(versioncmd.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := config.Init(); err != nil {
		return err
	}

	cfg := config.Get()
	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		logger.Warn("invalid log level configured, using default", "configured", cfg.LogLevel, "default", "info")
	}

	if err := logManager.Upgrade(config.ExpandPath(cfg.LogFile), level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		logManager.SetLevel(level)
	}

	config.OnChange(func(c *config.Config) {
		next := logging.ParseLevelOrDefault(c.LogLevel)
		if next != logManager.Level() {
			logger.Info("log level changed", "level", next.String())
			logManager.SetLevel(next)
		}
	})

	return nil
}

// Execute runs the root command.
func Execute() error {
	codedocCmd.SilenceErrors = true
	codedocCmd.SilenceUsage = true

	defer func() { _ = logManager.Close() }()

	err := codedocCmd.Execute()
	if err != nil {
		cmd, _, _ := codedocCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = codedocCmd
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Fprintln(os.Stderr)
			cmd.SetOut(os.Stderr)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}

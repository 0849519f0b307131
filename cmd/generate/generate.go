// Package generate provides the generate command.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/cmdutil"
	"github.com/leefowlercu/codedoc/internal/config"
	"github.com/leefowlercu/codedoc/internal/docgen"
)

var (
	generateLanguage string
	generateStyle    string
	generateOutput   string
	generateQuiet    bool
)

// Generator is the documentation pipeline used by the command.
type Generator interface {
	Generate(ctx context.Context, req docgen.Request) (*docgen.Response, error)
}

// newGenerator builds the pipeline from config; tests replace it.
var newGenerator = func(cfg *config.Config, logger *slog.Logger) (Generator, func(), error) {
	stack, err := cmdutil.BuildStack(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return stack.Service, func() { _ = stack.Close() }, nil
}

// GenerateCmd documents a single file or stdin.
var GenerateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate Markdown documentation for a file",
	Long: "Generate Markdown documentation for a source file.\n\n" +
		"Reads the file (or stdin when the argument is '-' or omitted), explains each " +
		"documentable unit with the configured text provider, and prints the report. " +
		"The language defaults to the file extension; it is required for stdin. " +
		"Units that fail to generate are reported inline and do not fail the command.",
	Example: `  # Document a Python file
  codedoc generate utils.py

  # Document stdin as JavaScript in a detailed style
  cat app.js | codedoc generate - --language js --style detailed

  # Write the report to a file
  codedoc generate utils.py --output docs/utils.md`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateGenerate,
	RunE:    runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateLanguage, "language", "l", "", "Language tag (default: file extension)")
	GenerateCmd.Flags().StringVarP(&generateStyle, "style", "s", "", "Explanation style (default: narrator.default_style)")
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default: stdout)")
	GenerateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress the summary line")
}

func validateGenerate(cmd *cobra.Command, args []string) error {
	if (len(args) == 0 || args[0] == cmdutil.StdinPath) && generateLanguage == "" {
		return fmt.Errorf("--language is required when reading from stdin")
	}
	cmd.SilenceUsage = true
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := cmdutil.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	src, err := cmdutil.ReadSource(path, generateLanguage, cmd.InOrStdin())
	if err != nil {
		return err
	}

	gen, closeFn, err := newGenerator(config.Get(), slog.Default())
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := gen.Generate(ctx, docgen.Request{
		Code:     src.Code,
		Language: src.Language,
		Style:    generateStyle,
	})
	if err != nil {
		return fmt.Errorf("generation failed; %w", err)
	}

	if err := cmdutil.WriteOutput(generateOutput, []byte(resp.Documentation), cmd.OutOrStdout()); err != nil {
		return err
	}

	if !generateQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Documented %d unit(s) from %s in %v",
			len(resp.Units), src.Path, resp.Duration.Round(time.Millisecond))
		if resp.FailedUnits > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), " (%d failed)", resp.FailedUnits)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	return nil
}

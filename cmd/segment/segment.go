// Package segment provides the segment command.
package segment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leefowlercu/codedoc/internal/cmdutil"
	"github.com/leefowlercu/codedoc/internal/docgen"
	"github.com/leefowlercu/codedoc/internal/segmenter"
)

const tokenizerWarmTimeout = 10 * time.Second

var (
	segmentLanguage string
	segmentFormat   string
	segmentTokens   bool
)

// SegmentCmd prints the documentable units found in a file.
var SegmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Show the units a file would be split into",
	Long: "Show the documentable units a source file would be split into.\n\n" +
		"No text provider is contacted. Python files are split into every function " +
		"and class definition, nested ones included; other languages and Python that " +
		"does not parse produce a single whole-file unit.",
	Example: `  # List the units of a Python file as YAML
  codedoc segment utils.py

  # JSON output with token estimates
  codedoc segment utils.py --format json --tokens`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateSegment,
	RunE:    runSegment,
}

func init() {
	SegmentCmd.Flags().StringVarP(&segmentLanguage, "language", "l", "", "Language tag (default: file extension)")
	SegmentCmd.Flags().StringVarP(&segmentFormat, "format", "f", "yaml", "Output format (yaml, json)")
	SegmentCmd.Flags().BoolVar(&segmentTokens, "tokens", false, "Include an estimated token count per unit")
}

func validateSegment(cmd *cobra.Command, args []string) error {
	if segmentFormat != "yaml" && segmentFormat != "json" {
		return fmt.Errorf("invalid format %q; must be one of: yaml, json", segmentFormat)
	}
	if (len(args) == 0 || args[0] == cmdutil.StdinPath) && segmentLanguage == "" {
		return fmt.Errorf("--language is required when reading from stdin")
	}
	cmd.SilenceUsage = true
	return nil
}

// unitView is the printed form of a unit.
type unitView struct {
	segmenter.Unit `yaml:",inline"`
	Tokens         int `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

func runSegment(cmd *cobra.Command, args []string) error {
	path := cmdutil.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	src, err := cmdutil.ReadSource(path, segmentLanguage, cmd.InOrStdin())
	if err != nil {
		return err
	}

	units, err := docgen.NewService(nil).Segment(docgen.Request{Code: src.Code, Language: src.Language})
	if err != nil {
		return fmt.Errorf("%s: %w", src.Path, err)
	}

	if segmentTokens {
		ctx, cancel := context.WithTimeout(cmd.Context(), tokenizerWarmTimeout)
		err := segmenter.WarmTokenizer(ctx)
		cancel()
		if err != nil {
			slog.Warn("token encoder unavailable; using character estimates", "error", err)
		}
	}

	views := make([]unitView, 0, len(units))
	for _, u := range units {
		v := unitView{Unit: u}
		if segmentTokens {
			v.Tokens = segmenter.EstimateTokens(u.Code)
		}
		views = append(views, v)
	}

	var out []byte
	switch segmentFormat {
	case "json":
		out, err = json.MarshalIndent(views, "", "  ")
		out = append(out, '\n')
	default:
		out, err = yaml.Marshal(views)
	}
	if err != nil {
		return fmt.Errorf("failed to format units; %w", err)
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}

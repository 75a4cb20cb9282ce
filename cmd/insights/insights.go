// Package insights implements the command that asks the AI model for
// strategic recommendations on a segment summary file.
package insights

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"vorp/rfm-csv/cmd/root"
	"vorp/rfm-csv/internal/common"
	"vorp/rfm-csv/internal/fileutils"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/ui"

	"github.com/spf13/cobra"
)

var (
	plain      bool
	outputFile string
)

// Cmd represents the insights command
var Cmd = &cobra.Command{
	Use:   "insights [segments.csv]",
	Short: "Generate AI recommendations from a segment summary CSV",
	Long: `Generate strategic marketing recommendations from a segment summary CSV, as
written by the analyze command (<name>_segments.csv).

Requires ai.enabled and GEMINI_API_KEY. When the model cannot be reached a
fallback message is printed instead.

Example:
  rfm-csv insights sales_segments.csv --ai-enabled --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: insightsFunc,
}

func init() {
	Cmd.Flags().BoolVar(&plain, "plain", false, "Strip Markdown formatting from the answer")
	Cmd.Flags().StringVar(&outputFile, "save", "", "Also write the answer to this file")
}

func insightsFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("a segment summary file is required (argument or --input)")
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	_, err := Run(cmd.Context(), c.GetInsights(), ui.NewRenderer(os.Stdout, c.GetCatalog()), input, c.GetConfig().Delimiter(), plain, outputFile)
	return err
}

// Run reads the segment summaries of input and prints the recommendations.
// The delimiter is detected from the header line, falling back to delimiter.
func Run(ctx context.Context, svc *insights.Service, renderer *ui.Renderer, input string, delimiter rune, plain bool, saveTo string) (insights.Insight, error) {
	if !fileutils.FileExists(input) {
		return insights.Insight{}, fmt.Errorf("segment summary file not found: %s", input)
	}
	header, err := firstLine(input)
	if err != nil {
		return insights.Insight{}, err
	}

	summaries, err := common.ReadSummariesFromCSV(input, common.DetectDelimiter(header, delimiter))
	if err != nil {
		return insights.Insight{}, err
	}
	if !svc.Enabled() {
		renderer.PrintWarning("%s", insights.FallbackDisabled)
		return insights.Insight{Text: insights.FallbackDisabled}, nil
	}

	insight := svc.Generate(ctx, summaries)
	text := insight.Text
	if plain {
		text = insights.PlainText(text)
	}
	if !insight.Generated {
		renderer.PrintWarning("%s", text)
	} else {
		renderer.PrintText(text)
	}

	if saveTo != "" {
		if err := fileutils.WriteFile(saveTo, []byte(text+"\n")); err != nil {
			return insight, err
		}
		renderer.PrintSuccess("Recommendations written to %s", saveTo)
	}
	return insight, nil
}

func firstLine(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return "", fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	return "", scanner.Err()
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
	"github.com/vijay-prabhu/legitscore/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Score a job posting",
	Long: `Score a job posting's legitimacy with one or all models.

The posting is read from the argument, from --file, or from stdin.

Examples:
  legitscore analyze "Competitive salary and benefits..."
  legitscore analyze --file posting.txt --model sentiment
  pbpaste | legitscore analyze -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeFile  string
	analyzeModel string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the posting from a file")
	analyzeCmd.Flags().StringVarP(&analyzeModel, "model", "m", "all", "Model to use (sequence, sentiment, all)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text, err := readPosting(args, analyzeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, log, closeLog, err := loadRuntime()
	if err != nil {
		return err
	}
	defer closeLog()

	names, err := selectModels(cfg.Scoring.Models, analyzeModel)
	if err != nil {
		return err
	}
	services, err := buildServices(names, cfg, log)
	if err != nil {
		return err
	}

	analyses := make([]analysis.Analysis, 0, len(services))
	for _, svc := range services {
		analyses = append(analyses, svc.Inspect(ctx, text))
	}

	if len(analyses) == 1 {
		return output.OutputTo(cmd.OutOrStdout(), outputFmt, analyses[0])
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, analyses)
}

// readPosting returns the posting text from the argument, the file, or stdin
func readPosting(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", errors.New("pass the posting as an argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read posting: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
	"github.com/vijay-prabhu/legitscore/internal/config"
	"github.com/vijay-prabhu/legitscore/internal/evaluate"
	"github.com/vijay-prabhu/legitscore/internal/output"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compare the models on a labeled corpus",
	Long: `Run every configured model over a labeled corpus and report accuracy,
precision, recall, F1 and AUC side by side.

Without --corpus (or evaluation.corpus_path in the config) the built-in
13-posting corpus is used.

Examples:
  legitscore evaluate
  legitscore evaluate --corpus postings.toml -o json`,
	RunE: runEvaluate,
}

var (
	evalCorpus string
	evalQuiet  bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalCorpus, "corpus", "", "TOML corpus file with [[cases]] entries")
	evaluateCmd.Flags().BoolVarP(&evalQuiet, "quiet", "q", false, "Suppress per-case progress lines")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, closeLog, err := loadRuntime()
	if err != nil {
		return err
	}
	defer closeLog()

	cases, err := loadCases(cfg)
	if err != nil {
		return err
	}

	services, err := buildServices(cfg.Scoring.Models, cfg, log)
	if err != nil {
		return err
	}
	models := make([]analysis.Analyzer, len(services))
	for i, svc := range services {
		models[i] = svc
	}

	opts := []evaluate.Option{evaluate.WithLogger(log)}
	if !evalQuiet {
		t := NewTerminal(os.Stderr)
		opts = append(opts, evaluate.WithProgress(func(current, total int, outcome evaluate.CaseOutcome) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, output.CaseLine(outcome, t.Mark))
		}))
	}

	evaluator, err := evaluate.New(models, opts...)
	if err != nil {
		return err
	}

	report, err := evaluator.Run(ctx, cases)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	warnFallbacks(cmd.ErrOrStderr(), services)

	return output.OutputTo(cmd.OutOrStdout(), outputFmt, report)
}

// loadCases returns the corpus named by --corpus, then the config, then
// the built-in corpus
func loadCases(cfg *config.Config) ([]evaluate.TestCase, error) {
	path := cfg.Evaluation.CorpusPath
	if evalCorpus != "" {
		path = evalCorpus
	}
	if path == "" {
		return evaluate.DefaultCorpus(), nil
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return evaluate.LoadCorpus(expanded)
}

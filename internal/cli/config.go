package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/legitscore/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	configFile := configPath
	if configFile == "" {
		var err error
		if configFile, err = config.ExpandPath(config.DefaultPath); err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Fprintf(w, "Config file already exists at %s\n", configFile)
		fmt.Fprintln(w, "Use 'legitscore config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Created config file at %s\n", configFile)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  1. Run 'legitscore evaluate' to compare the models on the built-in corpus")
	fmt.Fprintln(w, "  2. Run 'legitscore analyze --file posting.txt' to score a posting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "To use a remote sentiment service, set [sentiment] backend = \"remote\"")
	fmt.Fprintln(w, "and point host/port at a server exposing GET /health and POST /classify.")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "No config file found, using defaults. Run 'legitscore config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Fprintf(w, "# Config file: %s\n\n", configPath)
	fmt.Fprintln(w, string(data))
	return nil
}

const defaultConfig = `# legitscore configuration

[scoring]
# Enabled models, in report column order. The last one is compared
# against the first.
models = ["sequence", "sentiment"]
threshold = 50  # fixed: scores above this are legitimate

[sentiment]
backend = "lexicon"  # lexicon (built-in) or remote
host = "http://localhost"
port = 8642
timeout_seconds = 30

[model]
seed = 42
epochs = 50
batch_size = 8
learning_rate = 0.001
validation_split = 0.2  # trailing share of the training corpus held out
hidden_units = [64, 32, 16]
dropout = [0.3, 0.2]

[logging]
level = "info"    # trace, debug, info, warn, error
format = "text"   # text or json
# file = "~/.local/state/legitscore/legitscore.log"

[evaluation]
# corpus_path = "~/postings.toml"  # [[cases]] with text, label (1/0), category
`

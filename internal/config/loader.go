package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// DefaultPath is where `config init` writes the configuration
const DefaultPath = "~/.config/legitscore/config.toml"

// ErrNotFound is returned by Load when the config file does not exist
var ErrNotFound = errors.New("config file not found")

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run 'legitscore config init' to create)", ErrNotFound, expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse over the defaults so omitted keys keep their values
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the file at path, or returns the defaults when it
// does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// ExpandPath expands ~ to the home directory
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Logging.File, err = expandPath(c.Logging.File)
	if err != nil {
		return err
	}

	c.Evaluation.CorpusPath, err = expandPath(c.Evaluation.CorpusPath)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Scoring validation
	if len(c.Scoring.Models) == 0 {
		errs = append(errs, errors.New("scoring.models must name at least one model"))
	}
	seen := make(map[string]bool)
	for _, m := range c.Scoring.Models {
		switch m {
		case "sequence", "sentiment":
		default:
			errs = append(errs, fmt.Errorf("scoring.models: unknown model %q (must be 'sequence' or 'sentiment')", m))
		}
		if seen[m] {
			errs = append(errs, fmt.Errorf("scoring.models: %q listed twice", m))
		}
		seen[m] = true
	}
	if c.Scoring.Threshold != 50 {
		errs = append(errs, errors.New("scoring.threshold is fixed at 50"))
	}

	// Sentiment validation
	switch c.Sentiment.Backend {
	case "lexicon":
	case "remote":
		if c.Sentiment.Host == "" {
			errs = append(errs, errors.New("sentiment.host is required for the remote backend"))
		}
	default:
		errs = append(errs, errors.New("sentiment.backend must be 'lexicon' or 'remote'"))
	}
	if c.Sentiment.Port < 1 || c.Sentiment.Port > 65535 {
		errs = append(errs, errors.New("sentiment.port must be between 1 and 65535"))
	}
	if c.Sentiment.TimeoutSeconds < 1 {
		errs = append(errs, errors.New("sentiment.timeout_seconds must be at least 1"))
	}

	// Model validation
	if err := c.Model.ToModel().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("model: %w", err))
	}

	// Logging validation
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, errors.New("logging.format must be 'text' or 'json'"))
	}

	return errors.Join(errs...)
}

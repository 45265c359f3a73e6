package config

import (
	"strconv"
	"time"

	"github.com/vijay-prabhu/legitscore/internal/model"
)

// Config represents the application configuration
type Config struct {
	Scoring    ScoringConfig    `toml:"scoring"`
	Sentiment  SentimentConfig  `toml:"sentiment"`
	Model      ModelConfig      `toml:"model"`
	Logging    LoggingConfig    `toml:"logging"`
	Evaluation EvaluationConfig `toml:"evaluation"`
}

// ScoringConfig selects the scorers and their order
type ScoringConfig struct {
	Models    []string `toml:"models"`
	Threshold float64  `toml:"threshold"`
}

// SentimentConfig contains tone classifier settings
type SentimentConfig struct {
	Backend        string `toml:"backend"`
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// URL returns the full sentiment service URL
func (s SentimentConfig) URL() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// Timeout returns the request timeout as a duration
func (s SentimentConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ModelConfig contains network architecture and training settings
type ModelConfig struct {
	Seed            uint64    `toml:"seed"`
	Epochs          int       `toml:"epochs"`
	BatchSize       int       `toml:"batch_size"`
	LearningRate    float64   `toml:"learning_rate"`
	ValidationSplit float64   `toml:"validation_split"`
	HiddenUnits     []int     `toml:"hidden_units"`
	Dropout         []float64 `toml:"dropout"`
}

// ToModel converts to the training configuration
func (m ModelConfig) ToModel() model.Config {
	return model.Config{
		Seed:            m.Seed,
		Epochs:          m.Epochs,
		BatchSize:       m.BatchSize,
		LearningRate:    m.LearningRate,
		ValidationSplit: m.ValidationSplit,
		Hidden:          append([]int(nil), m.HiddenUnits...),
		Dropout:         append([]float64(nil), m.Dropout...),
	}
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// EvaluationConfig contains evaluation settings
type EvaluationConfig struct {
	CorpusPath string `toml:"corpus_path"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	m := model.DefaultConfig()
	return &Config{
		Scoring: ScoringConfig{
			Models:    []string{"sequence", "sentiment"},
			Threshold: 50,
		},
		Sentiment: SentimentConfig{
			Backend:        "lexicon",
			Host:           "http://localhost",
			Port:           8642,
			TimeoutSeconds: 30,
		},
		Model: ModelConfig{
			Seed:            m.Seed,
			Epochs:          m.Epochs,
			BatchSize:       m.BatchSize,
			LearningRate:    m.LearningRate,
			ValidationSplit: m.ValidationSplit,
			HiddenUnits:     m.Hidden,
			Dropout:         m.Dropout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

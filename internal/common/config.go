package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig `toml:"logging"`
	Storage     StorageConfig `toml:"storage"`
	LLM         LLMConfig     `toml:"llm"`
	Fetch       FetchConfig   `toml:"fetch"`
	News        NewsConfig    `toml:"news"`
	Papers      PapersConfig  `toml:"papers"`
	Report      ReportConfig  `toml:"report"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration for the fetch log
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// LLMConfig selects and configures the generation-service provider
type LLMConfig struct {
	Provider string       `toml:"provider" validate:"oneof=claude gemini"`
	Claude   ClaudeConfig `toml:"claude"`
	Gemini   GeminiConfig `toml:"gemini"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"` // e.g. "120s" - per-call deadline
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// FetchConfig contains headless-browser rendering configuration
type FetchConfig struct {
	UserAgent  string `toml:"user_agent"`
	Headless   bool   `toml:"headless"`
	DisableGPU bool   `toml:"disable_gpu"`
	NoSandbox  bool   `toml:"no_sandbox"`
	SettleWait string `toml:"settle_wait"` // Wait after navigation for scripts to render (e.g. "5s")
	Timeout    string `toml:"timeout"`     // Overall navigation timeout (e.g. "60s")
}

// NewsConfig controls the recent-news reference strategy
type NewsConfig struct {
	Days              int     `toml:"days" validate:"gt=0"`        // Recency window passed to the news search
	MaxResults        int     `toml:"max_results" validate:"gt=0"` // Global cap across all keyword searches
	RequestTimeout    string  `toml:"request_timeout"`             // Per-request HTTP timeout (e.g. "10s")
	RequestsPerSecond float64 `toml:"requests_per_second"`         // Pacing between keyword searches (0 = unpaced)
}

// PapersConfig controls the academic paper reference strategy
type PapersConfig struct {
	SourcesFile  string `toml:"sources_file"`                   // YAML file listing academic sources (name + type)
	Days         int    `toml:"days" validate:"gt=0"`           // Recency window for accepted papers
	MaxPerSource int    `toml:"max_per_source" validate:"gt=0"` // Per-source result cap (no global cap)
}

// ReportConfig controls document generation and output
type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
	WordCount int    `toml:"word_count" validate:"gt=0"` // Target blog post length
	Schedule  string `toml:"schedule"`                   // Optional cron expression for repeated runs
}

// NewDefaultConfig returns the built-in defaults, overridden by config
// files and environment variables in that order.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/fetchlog",
			},
		},
		LLM: LLMConfig{
			Provider: "claude",
			Claude: ClaudeConfig{
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   8192,
				Temperature: 0.3,
				Timeout:     "120s",
			},
			Gemini: GeminiConfig{
				Model:       "gemini-2.0-flash",
				MaxTokens:   8192,
				Temperature: 0.3,
				Timeout:     "120s",
			},
		},
		Fetch: FetchConfig{
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			Headless:   true,
			DisableGPU: true,
			NoSandbox:  true,
			SettleWait: "5s",
			Timeout:    "60s",
		},
		News: NewsConfig{
			Days:              14,
			MaxResults:        8,
			RequestTimeout:    "10s",
			RequestsPerSecond: 1,
		},
		Papers: PapersConfig{
			SourcesFile:  "sources.yaml",
			Days:         7,
			MaxPerSource: 5,
		},
		Report: ReportConfig{
			OutputDir: ".",
			WordCount: 1200,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("INSIGHT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("INSIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("INSIGHT_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if provider := os.Getenv("INSIGHT_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.LLM.Claude.APIKey = key
	}
	if key := os.Getenv("INSIGHT_CLAUDE_API_KEY"); key != "" {
		config.LLM.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("INSIGHT_GEMINI_API_KEY"); key != "" {
		config.LLM.Gemini.APIKey = key
	}

	if dir := os.Getenv("INSIGHT_OUTPUT_DIR"); dir != "" {
		config.Report.OutputDir = dir
	}
	if wc := os.Getenv("INSIGHT_WORD_COUNT"); wc != "" {
		if n, err := strconv.Atoi(wc); err == nil && n > 0 {
			config.Report.WordCount = n
		}
	}
}

// Validate checks structural constraints on the resolved configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Duration fields fail fast here rather than at first use
	for name, value := range map[string]string{
		"llm.claude.timeout":   c.LLM.Claude.Timeout,
		"llm.gemini.timeout":   c.LLM.Gemini.Timeout,
		"fetch.settle_wait":    c.Fetch.SettleWait,
		"fetch.timeout":        c.Fetch.Timeout,
		"news.request_timeout": c.News.RequestTimeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the main tribunal configuration.
type Config struct {
	Limits  LimitsConfig  `toml:"limits"`
	LLM     LLMConfig     `toml:"llm"`
	Judging JudgingConfig `toml:"judging"`
}

// LimitsConfig holds every size ceiling the pipeline enforces. None of these
// are hardcoded at call sites; they all flow from here.
type LimitsConfig struct {
	// MaxFileBytes drops any single file larger than this (never truncates).
	MaxFileBytes int64 `toml:"max_file_bytes"`
	// MaxProjectBytes caps the running total of accepted file sizes.
	MaxProjectBytes int64 `toml:"max_project_bytes"`
	// MaxPromptBytes caps one model call's serialized payload.
	MaxPromptBytes int `toml:"max_prompt_bytes"`
	// MaxFileChars truncates a single file's rendered content in a prompt.
	MaxFileChars int `toml:"max_file_chars"`
	// MaxArchiveEntries stops archive extraction early, without error.
	MaxArchiveEntries int `toml:"max_archive_entries"`
}

// LLMConfig configures the model endpoint.
type LLMConfig struct {
	BaseURL          string  `toml:"base_url"`
	APIKey           string  `toml:"api_key"`
	Model            string  `toml:"model"`
	Seed             int     `toml:"seed"`
	Temperature      float64 `toml:"temperature"`
	MaxTokens        int     `toml:"max_tokens"`
	RequestTimeoutMs int     `toml:"request_timeout_ms"`
}

// JudgingConfig configures the evaluation run itself.
type JudgingConfig struct {
	// JudgesFile is an optional YAML file of custom judge definitions
	// loaded into the panel at startup.
	JudgesFile string `toml:"judges_file"`
	// PromptHeadroomBytes is reserved out of MaxPromptBytes for the judge
	// instruction and response-format blocks around the project payload.
	PromptHeadroomBytes int `toml:"prompt_headroom_bytes"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tribunal", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tribunal", "config.toml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxFileBytes:      1 << 20,  // 1 MiB per file
			MaxProjectBytes:   25 << 20, // 25 MiB per project
			MaxPromptBytes:    7 << 20,  // 7 MiB per model call
			MaxFileChars:      16000,
			MaxArchiveEntries: 2000,
		},
		LLM: LLMConfig{
			BaseURL:          "http://localhost:1234",
			Model:            "",
			Seed:             42,
			Temperature:      0,
			MaxTokens:        -1,
			RequestTimeoutMs: 120000,
		},
		Judging: JudgingConfig{
			PromptHeadroomBytes: 8192,
		},
	}
}

// Load reads configuration from path, or the default path when empty.
// A missing file is not an error; defaults are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override endpoint credentials so keys
// stay out of config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("TRIBUNAL_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("TRIBUNAL_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("TRIBUNAL_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

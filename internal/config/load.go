package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envOverrides are read after the YAML file so secrets never have to live in
// config.yaml.
type envOverrides struct {
	GeminiAPIKeys []string `env:"GEMINI_API_KEYS" envSeparator:","`
	GeminiAPIKey  string   `env:"GEMINI_API_KEY"`
	GeminiModel   string   `env:"GEMINI_MODEL"`
	OpenAIAPIKey  string   `env:"OPENAI_API_KEY"`
	Addr          string   `env:"MDOC_ADDR"`
	LogLevel      string   `env:"MDOC_LOG_LEVEL"`
}

// Load reads the YAML file at path, loads a .env file from the working
// directory if one exists, applies environment overrides and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if keys := nonEmpty(o.GeminiAPIKeys); len(keys) > 0 {
		c.Gemini.APIKeys = keys
	} else if key := strings.TrimSpace(o.GeminiAPIKey); key != "" {
		c.Gemini.APIKeys = []string{key}
	}
	if o.GeminiModel != "" {
		c.Gemini.Model = o.GeminiModel
	}
	if o.OpenAIAPIKey != "" {
		c.OpenAI.APIKey = o.OpenAIAPIKey
	}
	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	return nil
}

// nonEmpty trims each item and drops the blank ones.
func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

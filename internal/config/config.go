package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath    = ".regins.yaml"
	DefaultModel   = "gpt-4o-mini"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 60 * time.Second

	EnvAPIKey       = "OPENAI_API_KEY"
	EnvOrganization = "OPENAI_ORG_ID"
)

type Config struct {
	Markup string `yaml:"markup"`
	OpenAI OpenAI `yaml:"openai"`
}

type OpenAI struct {
	APIKey       string        `yaml:"api_key,omitempty"`
	Organization string        `yaml:"organization,omitempty"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Markup: "plain",
		OpenAI: OpenAI{
			Model:   DefaultModel,
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
	}
}

// Load reads the configuration at path. A missing file is not an error,
// defaults are used instead. Credentials left empty in the file fall back
// to the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer f.Close()

		if cfg, err = Decode(f); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// Decode parses a YAML document on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Write creates a starter configuration file at path.
func Write(path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, d, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func (c *Config) fillDefaults() {
	def := Default()

	if c.Markup == "" {
		c.Markup = def.Markup
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = def.OpenAI.Model
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = def.OpenAI.BaseURL
	}
	if c.OpenAI.Timeout <= 0 {
		c.OpenAI.Timeout = def.OpenAI.Timeout
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = getenv(EnvAPIKey)
	}
	if c.OpenAI.Organization == "" {
		c.OpenAI.Organization = getenv(EnvOrganization)
	}
}

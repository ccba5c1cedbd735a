// Package config loads the Clausewise YAML configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full Clausewise configuration.
type Config struct {
	Server Server  `yaml:"server"`
	Upload Upload  `yaml:"upload"`
	Engine Engine  `yaml:"engine"`
	Audit  Audit   `yaml:"audit"`
	Log    Logging `yaml:"logging"`
}

type Server struct {
	Addr string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
}

type Upload struct {
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
}

type Engine struct {
	MinClauseLength       int     `yaml:"min_clause_length"`
	InterestRateThreshold float64 `yaml:"interest_rate_threshold"`
	MaxClauseTextLength   int     `yaml:"max_clause_text_length"`
	RulesFile             string  `yaml:"rules_file"` // optional extra rules, YAML
}

type Audit struct {
	Sinks []AuditSink `yaml:"sinks"`
}

type AuditSink struct {
	Type      string            `yaml:"type"` // file_jsonl | webhook
	Path      string            `yaml:"path"`
	URL       string            `yaml:"url"`
	Headers   map[string]string `yaml:"headers"`
	TimeoutMS int               `yaml:"timeout_ms"`
}

type Logging struct {
	// PreviewChars is how much (redacted) document text audit events may
	// carry. 0 disables previews entirely.
	PreviewChars int `yaml:"preview_chars"`
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns the default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Upload.MaxFileSizeMB <= 0 {
		cfg.Upload.MaxFileSizeMB = 10
	}
	if cfg.Engine.MinClauseLength == 0 {
		cfg.Engine.MinClauseLength = 15
	}
	if cfg.Engine.InterestRateThreshold <= 0 {
		cfg.Engine.InterestRateThreshold = 20.0
	}
	if cfg.Engine.MaxClauseTextLength <= 0 {
		cfg.Engine.MaxClauseTextLength = 500
	}
}

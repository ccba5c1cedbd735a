package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}

	if cfg.Upload.MaxFileSizeMB > 100 {
		return fmt.Errorf("upload.max_file_size_mb %d exceeds the 100MB ceiling", cfg.Upload.MaxFileSizeMB)
	}

	if cfg.Engine.MinClauseLength < 0 {
		return errors.New("engine.min_clause_length must not be negative")
	}
	if cfg.Engine.RulesFile != "" {
		if _, err := os.Stat(cfg.Engine.RulesFile); err != nil {
			return fmt.Errorf("engine.rules_file: %w", err)
		}
	}

	for i, s := range cfg.Audit.Sinks {
		switch strings.ToLower(strings.TrimSpace(s.Type)) {
		case "file_jsonl":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("audit sink %d (file_jsonl) missing path", i)
			}
		case "webhook":
			if strings.TrimSpace(s.URL) == "" {
				return fmt.Errorf("audit sink %d (webhook) missing url", i)
			}
			u, err := url.Parse(s.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("audit sink %d (webhook) has invalid url", i)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("audit sink %d (webhook) url must be http or https", i)
			}
		default:
			return fmt.Errorf("audit sink %d has unknown type %q", i, s.Type)
		}
	}

	return nil
}

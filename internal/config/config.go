// Package config loads the tenderplan configuration from a YAML file and
// TENDERPLAN_* environment variables, environment taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything needed to reach the backing service.
type Config struct {
	Endpoint  string
	Token     string
	TokenFile string
	TimeoutMs int
	CountsTTL time.Duration
	LogWarns  bool
}

// Default returns a Config with stock values; the token is intentionally
// empty so that unauthenticated use fails loudly.
func Default() Config {
	return Config{
		Endpoint:  "http://localhost:8080/api/v1",
		TimeoutMs: 10000,
		CountsTTL: 30 * time.Second,
		LogWarns:  true,
	}
}

// Load reads .tenderplan.yaml from the given directory (or, when dir is
// empty, from the current directory and then the home directory), applies
// TENDERPLAN_* env overrides, and falls back to defaults for missing keys.
func Load(dir string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(".tenderplan")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetDefault("endpoint", cfg.Endpoint)
	v.SetDefault("token", cfg.Token)
	v.SetDefault("token_file", cfg.TokenFile)
	v.SetDefault("timeout_ms", cfg.TimeoutMs)
	v.SetDefault("counts_ttl_seconds", int(cfg.CountsTTL/time.Second))
	v.SetDefault("log_warnings", cfg.LogWarns)

	v.SetEnvPrefix("TENDERPLAN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("reading .tenderplan.yaml: %w", err)
		}
	}

	cfg.Endpoint = v.GetString("endpoint")
	cfg.Token = v.GetString("token")
	cfg.TokenFile = v.GetString("token_file")
	if n := v.GetInt("timeout_ms"); n > 0 {
		cfg.TimeoutMs = n
	}
	if n := v.GetInt("counts_ttl_seconds"); n > 0 {
		cfg.CountsTTL = time.Duration(n) * time.Second
	}
	cfg.LogWarns = v.GetBool("log_warnings")

	return cfg, nil
}

// TokenSource returns the session token provider configured here: a literal
// token wins over a token file. Both may be empty, in which case every
// gateway call fails with a missing-session error.
func (c Config) TokenSource() *FileTokenSource {
	return &FileTokenSource{token: c.Token, path: c.TokenFile}
}

// FileTokenSource supplies the bearer token from configuration or from a
// session file written by the external session provider.
type FileTokenSource struct {
	token string
	path  string
}

// StaticTokenSource returns a token source with a fixed token, for tests and
// scripted use.
func StaticTokenSource(token string) *FileTokenSource {
	return &FileTokenSource{token: token}
}

// Token returns the current session token. The token file is re-read on
// every call so an external session refresh is picked up without a restart.
func (s *FileTokenSource) Token() (string, error) {
	if s.token != "" {
		return s.token, nil
	}
	if s.path == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	token := string(data)
	for len(token) > 0 && (token[len(token)-1] == '\n' || token[len(token)-1] == '\r') {
		token = token[:len(token)-1]
	}
	return token, nil
}

package main

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/config"
)

// envPrefix prefixes every recognised environment variable.
const envPrefix = "NB2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // NB2HTML_CONFIG: config file path
	Theme      string        // NB2HTML_THEME: cell theme
	Language   string        // NB2HTML_LANGUAGE: fallback language
	Timeout    time.Duration // NB2HTML_TIMEOUT: PDF generation timeout
	InputDir   string        // NB2HTML_INPUT_DIR: default input directory
	OutputDir  string        // NB2HTML_OUTPUT_DIR: default output directory
	AssetPath  string        // NB2HTML_ASSETS: custom asset directory
	Workers    int           // NB2HTML_WORKERS: parallel workers
	PDF        bool          // NB2HTML_PDF: "1" or "true" enables PDF export
}

// knownEnvVars lists valid NB2HTML_* environment variables.
var knownEnvVars = map[string]bool{
	"NB2HTML_CONFIG":     true,
	"NB2HTML_THEME":      true,
	"NB2HTML_LANGUAGE":   true,
	"NB2HTML_TIMEOUT":    true,
	"NB2HTML_INPUT_DIR":  true,
	"NB2HTML_OUTPUT_DIR": true,
	"NB2HTML_ASSETS":     true,
	"NB2HTML_WORKERS":    true,
	"NB2HTML_PDF":        true,
	"NB2HTML_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are logged and ignored.
func loadEnvConfig(getenv func(string) string, logger *zap.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("NB2HTML_CONFIG"),
		Theme:      getenv("NB2HTML_THEME"),
		Language:   getenv("NB2HTML_LANGUAGE"),
		InputDir:   getenv("NB2HTML_INPUT_DIR"),
		OutputDir:  getenv("NB2HTML_OUTPUT_DIR"),
		AssetPath:  getenv("NB2HTML_ASSETS"),
	}

	if timeout := getenv("NB2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			logger.Warn("ignoring invalid environment value", zap.String("name", "NB2HTML_TIMEOUT"), zap.String("value", timeout))
		}
	}

	if workers := getenv("NB2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		} else {
			logger.Warn("ignoring invalid environment value", zap.String("name", "NB2HTML_WORKERS"), zap.String("value", workers))
		}
	}

	switch strings.ToLower(getenv("NB2HTML_PDF")) {
	case "1", "true", "yes":
		cfg.PDF = true
	}

	return cfg
}

// warnUnknownEnvVars logs unrecognised NB2HTML_* variables, catching typos
// like NB2HTML_THEMES.
func warnUnknownEnvVars(environ []string, logger *zap.Logger) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
		}
	}
}

// applyEnvConfig applies environment values to cfg where the config file
// left them empty. Precedence: CLI flags > env vars > config file > defaults
// (flags are applied later by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" && (cfg.Theme == "" || cfg.Theme == config.DefaultTheme) {
		cfg.Theme = env.Theme
	}
	if env.Language != "" && cfg.Language == "" {
		cfg.Language = env.Language
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.PDF {
		cfg.PDF.Enabled = true
	}
}

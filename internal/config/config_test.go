package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// DefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want %q", cfg.Theme, DefaultTheme)
	}
	if !cfg.Document.Standalone {
		t.Error("Document.Standalone = false, want true")
	}
	if cfg.TOC.Enabled {
		t.Error("TOC.Enabled = true, want false")
	}
	if cfg.TOC.MinDepth != DefaultTOCMin || cfg.TOC.MaxDepth != DefaultTOCMax {
		t.Errorf("TOC depth = %d-%d, want %d-%d", cfg.TOC.MinDepth, cfg.TOC.MaxDepth, DefaultTOCMin, DefaultTOCMax)
	}
	if cfg.PDF.Enabled {
		t.Error("PDF.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		max     int
		wantErr bool
	}{
		{"under limit", "abc", 5, false},
		{"at limit", "abcde", 5, false},
		{"over limit", "abcdef", 5, true},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("field", tt.value, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error = %v, want ErrFieldTooLong", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "theme too long",
			mutate:  func(c *Config) { c.Theme = strings.Repeat("t", MaxThemeLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "theme",
		},
		{
			name:    "document title too long",
			mutate:  func(c *Config) { c.Document.Title = strings.Repeat("t", MaxTitleLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "document.title",
		},
		{
			name:    "label too long",
			mutate:  func(c *Config) { c.Labels.Fold = strings.Repeat("f", MaxLabelLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "labels.fold",
		},
		{
			name:    "language entry too long",
			mutate:  func(c *Config) { c.Languages = []string{"python", strings.Repeat("l", MaxLanguageLength+1)} },
			wantErr: ErrFieldTooLong,
			wantMsg: "languages[1]",
		},
		{
			name:    "class value too long",
			mutate:  func(c *Config) { c.Classes = map[string]string{"code": strings.Repeat("c", MaxClassLength+1)} },
			wantErr: ErrFieldTooLong,
			wantMsg: "classes.code",
		},
		{
			name: "toc disabled ignores depth",
			mutate: func(c *Config) {
				c.TOC.MinDepth = 0
				c.TOC.MaxDepth = 9
			},
		},
		{
			name: "toc min depth out of range",
			mutate: func(c *Config) {
				c.TOC.Enabled = true
				c.TOC.MinDepth = 0
			},
			wantErr: ErrInvalidValue,
			wantMsg: "toc.minDepth",
		},
		{
			name: "toc max depth out of range",
			mutate: func(c *Config) {
				c.TOC.Enabled = true
				c.TOC.MaxDepth = 7
			},
			wantErr: ErrInvalidValue,
			wantMsg: "toc.maxDepth",
		},
		{
			name: "toc min exceeds max",
			mutate: func(c *Config) {
				c.TOC.Enabled = true
				c.TOC.MinDepth = 4
				c.TOC.MaxDepth = 2
			},
			wantErr: ErrInvalidValue,
			wantMsg: "exceeds",
		},
		{
			name:    "pdf timeout not a duration",
			mutate:  func(c *Config) { c.PDF.Timeout = "soon" },
			wantErr: ErrInvalidValue,
			wantMsg: "pdf.timeout",
		},
		{
			name:    "pdf timeout negative",
			mutate:  func(c *Config) { c.PDF.Timeout = "-5s" },
			wantErr: ErrInvalidValue,
			wantMsg: "positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestPDFConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{"empty uses default", "", DefaultPDFTimeout, false},
		{"seconds", "45s", 45 * time.Second, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"zero", "0s", 0, true},
		{"garbage", "fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PDFConfig{Timeout: tt.timeout}.TimeoutDuration()
			if (err != nil) != tt.wantErr {
				t.Fatalf("TimeoutDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("TimeoutDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig_FromPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "report.yaml", `
theme: bootstrap
language: python
languages: [python, r, julia]
classes:
  code: "font-mono"
labels:
  display: Show
  fold: Hide
document:
  title: Quarterly report
  lang: fr
  codeStyle: monokai
toc:
  enabled: true
  title: Contents
  maxDepth: 2
pdf:
  enabled: true
  timeout: 1m
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Theme != "bootstrap" {
		t.Errorf("Theme = %q, want bootstrap", cfg.Theme)
	}
	if cfg.Language != "python" {
		t.Errorf("Language = %q, want python", cfg.Language)
	}
	if len(cfg.Languages) != 3 || cfg.Languages[2] != "julia" {
		t.Errorf("Languages = %v, want [python r julia]", cfg.Languages)
	}
	if cfg.Classes["code"] != "font-mono" {
		t.Errorf("Classes[code] = %q, want font-mono", cfg.Classes["code"])
	}
	if cfg.Labels.Display != "Show" || cfg.Labels.Fold != "Hide" {
		t.Errorf("Labels = %+v, want Show/Hide", cfg.Labels)
	}
	if cfg.Document.Title != "Quarterly report" || cfg.Document.Lang != "fr" || cfg.Document.CodeStyle != "monokai" {
		t.Errorf("Document = %+v", cfg.Document)
	}
	if !cfg.Document.Standalone {
		t.Error("Document.Standalone should keep its default when omitted")
	}
	if !cfg.TOC.Enabled || cfg.TOC.MinDepth != DefaultTOCMin || cfg.TOC.MaxDepth != 2 {
		t.Errorf("TOC = %+v, want enabled 1-2", cfg.TOC)
	}
	d, err := cfg.PDF.TimeoutDuration()
	if err != nil || d != time.Minute {
		t.Errorf("PDF timeout = %v, %v; want 1m", d, err)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		path    string
		wantErr error
	}{
		{
			name:    "empty name",
			path:    "",
			wantErr: ErrEmptyConfigName,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.yaml"),
			wantErr: ErrConfigNotFound,
		},
		{
			name:    "invalid yaml",
			content: "theme: [unterminated",
			wantErr: ErrConfigParse,
		},
		{
			name:    "unknown field",
			content: "theem: tailwind\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "invalid toc",
			content: "toc:\n  enabled: true\n  minDepth: 5\n  maxDepth: 3\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "field too long",
			content: "theme: " + strings.Repeat("x", MaxThemeLength+1) + "\n",
			wantErr: ErrFieldTooLong,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := tt.path
			if tt.content != "" {
				path = writeConfig(t, dir, "cfg"+string(rune('a'+i))+".yaml", tt.content)
			}

			_, err := LoadConfig(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Not parallel: changes the working directory.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "work.yml", "theme: tailwind\n")
	t.Chdir(dir)

	cfg, err := LoadConfig("work")
	if err != nil {
		t.Fatalf("LoadConfig(work) error = %v", err)
	}
	if cfg.Theme != "tailwind" {
		t.Errorf("Theme = %q, want tailwind", cfg.Theme)
	}

	_, err = LoadConfig("absent")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("LoadConfig(absent) error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Errorf("error %q should list the tried paths", err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local candidates = %v, want [work.yaml work.yml]", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, AppDir) {
			t.Errorf("user candidate %q should live under %s", p, AppDir)
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	nb2html "github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/config"
	"github.com/alnah/go-nb2html/internal/hints"
)

// Sentinel errors for flag handling.
var (
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	defer func() { _ = logger.Sync() }()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))

	envCfg := loadEnvConfig(env.Getenv, logger)
	warnUnknownEnvVars(env.Environ(), logger)

	cfg, err := loadConfig(flags, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg, cfg)
	if err != nil {
		return err
	}

	workers := flags.workers
	if !flags.isSet("workers") && envCfg.Workers > 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoNotebooks, inputPath)
	}

	params, err := buildParams(flags, cfg)
	if err != nil {
		return err
	}

	poolSize := nb2html.ResolvePoolSize(workers)
	if poolSize > len(files) {
		poolSize = len(files)
	}
	logger.Debug("starting conversion", zap.Int("files", len(files)), zap.Int("workers", poolSize))

	pool := env.NewPool(poolSize, buildOptions(cfg, timeout, logger)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converters", zap.Error(err))
		}
	}()

	results, err := convertBatch(ctx, pool, files, params, logger)
	if err != nil {
		return err
	}

	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return &batchError{failed: failed, total: len(results), first: firstError(results)}
	}
	return nil
}

// loadConfig loads the config named by --config, then NB2HTML_CONFIG,
// falling back to defaults.
func loadConfig(flags *convertFlags, env *envConfig) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ConfigNotFound(config.SearchPaths(name)))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Rendering
	if flags.render.theme != "" {
		cfg.Theme = flags.render.theme
	}
	if flags.render.language != "" {
		cfg.Language = flags.render.language
	}
	if flags.isSet("languages") {
		cfg.Languages = flags.render.languages
	}
	if flags.render.codeStyle != "" {
		cfg.Document.CodeStyle = flags.render.codeStyle
	}
	if flags.render.labelDisplay != "" {
		cfg.Labels.Display = flags.render.labelDisplay
	}
	if flags.render.labelFold != "" {
		cfg.Labels.Fold = flags.render.labelFold
	}
	if flags.isSet("anchors") {
		cfg.Document.HeadingAnchors = flags.render.anchors
	}

	// Document
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.lang != "" {
		cfg.Document.Lang = flags.document.lang
	}
	if flags.isSet("fragment") {
		cfg.Document.Standalone = !flags.document.fragment
	}

	// TOC
	if flags.isSet("toc") {
		cfg.TOC.Enabled = flags.toc.enabled
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.minDepth != 0 {
		cfg.TOC.MinDepth = flags.toc.minDepth
	}
	if flags.toc.maxDepth != 0 {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
	}

	// PDF and assets
	if flags.isSet("pdf") {
		cfg.PDF.Enabled = flags.pdf.enabled
	}
	if flags.assets.path != "" {
		cfg.Assets.BasePath = flags.assets.path
	}
}

// resolveTimeout picks the PDF timeout: flag > env > config > default.
func resolveTimeout(flagValue string, env *envConfig, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if env.Timeout > 0 {
		return env.Timeout, nil
	}
	return cfg.PDF.TimeoutDuration()
}

// resolveInputPath returns the positional input, or the configured default
// directory.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the --output flag, or the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// buildParams assembles per-file input settings from the merged config.
func buildParams(flags *convertFlags, cfg *config.Config) (*conversionParams, error) {
	params := &conversionParams{
		title:    cfg.Document.Title,
		lang:     cfg.Document.Lang,
		fragment: !cfg.Document.Standalone,
		pdf:      cfg.PDF.Enabled,
	}

	if flags.document.css != "" {
		css, err := os.ReadFile(flags.document.css) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		params.css = string(css)
	}

	if cfg.TOC.Enabled {
		params.toc = &nb2html.TOC{
			Title:    cfg.TOC.Title,
			MinDepth: cfg.TOC.MinDepth,
			MaxDepth: cfg.TOC.MaxDepth,
		}
		if err := params.toc.Validate(); err != nil {
			return nil, err
		}
	}

	if params.pdf {
		page, err := buildPageSettings(flags)
		if err != nil {
			return nil, err
		}
		params.page = page
	}

	return params, nil
}

// buildPageSettings applies page flags over the defaults.
func buildPageSettings(flags *convertFlags) (*nb2html.PageSettings, error) {
	page := nb2html.DefaultPageSettings()
	if flags.pdf.size != "" {
		page.Size = flags.pdf.size
	}
	if flags.pdf.orientation != "" {
		page.Orientation = flags.pdf.orientation
	}
	if flags.pdf.margin != 0 {
		page.Margin = flags.pdf.margin
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, timeout time.Duration, logger *zap.Logger) []nb2html.Option {
	opts := []nb2html.Option{
		nb2html.WithTheme(cfg.Theme),
		nb2html.WithLabels(cfg.Labels.Display, cfg.Labels.Fold),
		nb2html.WithHeadingAnchors(cfg.Document.HeadingAnchors),
		nb2html.WithTimeout(timeout),
		nb2html.WithLogger(logger),
	}
	if cfg.Language != "" {
		opts = append(opts, nb2html.WithFallbackLanguage(cfg.Language))
	}
	if len(cfg.Languages) > 0 {
		opts = append(opts, nb2html.WithLanguages(cfg.Languages...))
	}
	if cfg.Document.CodeStyle != "" {
		opts = append(opts, nb2html.WithCodeStyle(cfg.Document.CodeStyle))
	}
	if len(cfg.Classes) > 0 {
		opts = append(opts, nb2html.WithClasses(cfg.Classes))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, nb2html.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts
}

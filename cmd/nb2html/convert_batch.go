package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	nb2html "github.com/alnah/go-nb2html"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrNoNotebooks    = errors.New("no notebooks found")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrReadNotebook   = errors.New("failed to read notebook file")
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrConverterInit  = errors.New("failed to initialize converter")
	ErrConversionFail = errors.New("conversion failed")
)

// conversionParams groups per-file input settings shared across a batch.
type conversionParams struct {
	title    string
	lang     string
	css      string
	toc      *nb2html.TOC
	fragment bool
	pdf      bool
	page     *nb2html.PageSettings
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	PDFPath    string // empty unless a PDF was written
	Err        error
	Duration   time.Duration
}

// convertBatch converts files concurrently, at most pool.Size() at a time.
// Per-file failures are recorded in the results. A converter that cannot be
// built stops the batch and is returned as the error.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams, logger *zap.Logger) ([]ConversionResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]ConversionResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}

			conv, err := pool.Acquire(gctx)
			if err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%w: %w", ErrConverterInit, err)
			}
			defer pool.Release(conv)

			results[i] = convertFile(gctx, conv, f, params)
			logger.Debug("converted",
				zap.String("input", f.InputPath),
				zap.Duration("duration", results[i].Duration),
				zap.Error(results[i].Err))
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// convertFile processes a single notebook and returns the result.
func convertFile(ctx context.Context, conv Converter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadNotebook, err))
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}

	res, err := conv.Convert(ctx, nb2html.Input{
		Notebook:  content,
		Name:      f.InputPath,
		Title:     params.title,
		Lang:      params.lang,
		SourceDir: filepath.Dir(f.InputPath),
		CSS:       params.css,
		TOC:       params.toc,
		Fragment:  params.fragment,
		PDF:       params.pdf,
		Page:      params.page,
	})
	if err != nil {
		return fail(err)
	}

	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(f.OutputPath, res.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	if res.PDF != nil {
		pdfPath := f.PDFPath()
		// #nosec G306 -- PDFs are meant to be readable
		if err := os.WriteFile(pdfPath, res.PDF, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
		result.PDFPath = pdfPath
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// batchError reports failed conversions. Per-file errors are printed with
// the results; it unwraps to ErrConversionFail and the first failure so the
// exit code follows that failure's category.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return []error{ErrConversionFail, e.first}
}

// firstError returns the first failed conversion's error, or nil.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	created := color.New(color.FgGreen)
	failed := color.New(color.FgRed, color.Bold)
	if !env.Color {
		created.DisableColor()
		failed.DisableColor()
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %s\n", failed.Sprint("FAILED"), r.InputPath, errorWithHint(r.Err))
			continue
		}

		if quiet {
			continue
		}

		outputs := []string{r.OutputPath}
		if r.PDFPath != "" {
			outputs = append(outputs, r.PDFPath)
		}
		for _, out := range outputs {
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "%s %s\n", created.Sprint("Created"), out)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

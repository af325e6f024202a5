package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	nb2html "github.com/alnah/go-nb2html"
)

// sampleNotebook is a minimal nbformat 4 notebook with a heading and one
// executed code cell.
const sampleNotebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {"language_info": {"name": "python"}},
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Analysis\n", "Some prose."]},
  {"cell_type": "code", "execution_count": 1, "metadata": {}, "source": "print(1 + 1)",
   "outputs": [{"output_type": "stream", "name": "stdout", "text": ["2\n"]}]}
 ]
}`

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns canned output. Inputs whose Name
// is in errFor fail with the mapped error.
type mockConverter struct {
	mu     sync.Mutex
	inputs []nb2html.Input
	errFor map[string]error
	pdf    []byte
}

func (m *mockConverter) Convert(ctx context.Context, input nb2html.Input) (*nb2html.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errFor[input.Name]; ok {
		return nil, err
	}
	res := &nb2html.Result{HTML: []byte("<html>" + filepath.Base(input.Name) + "</html>")}
	if input.PDF {
		res.PDF = m.pdf
		if res.PDF == nil {
			res.PDF = []byte("%PDF-1.4")
		}
	}
	return res, nil
}

func (m *mockConverter) received() []nb2html.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]nb2html.Input(nil), m.inputs...)
}

// mockPool hands out a single shared converter.
type mockPool struct {
	conv       Converter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
	opts     []nb2html.Option
}

func (p *mockPool) Acquire(ctx context.Context) (Converter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.conv, nil
}

func (p *mockPool) Release(Converter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int {
	if p.size < 1 {
		return 1
	}
	return p.size
}

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testEnv returns an environment with captured output, the given variables
// and a factory returning pool. Pass a nil pool to use real converters.
func testEnv(vars map[string]string, pool *mockPool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			kv := make([]string, 0, len(vars))
			for k, v := range vars {
				kv = append(kv, k+"="+v)
			}
			return kv
		},
		NewPool: newConverterPool,
	}
	if pool != nil {
		env.NewPool = func(size int, opts ...nb2html.Option) Pool {
			pool.mu.Lock()
			pool.size = size
			pool.opts = opts
			pool.mu.Unlock()
			return pool
		}
	}
	return env, stdout, stderr
}

// writeNotebook writes content to dir/name, creating parent directories.
func writeNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output missing %q\ngot:\n%s", want, got)
	}
}

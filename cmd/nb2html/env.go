package main

import (
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	nb2html "github.com/alnah/go-nb2html"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and the converter pool factory.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Color   bool // colour result lines
	NewPool func(size int, opts ...nb2html.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Color:   !color.NoColor,
		NewPool: newConverterPool,
	}
}

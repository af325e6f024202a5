package main

import (
	"context"

	nb2html "github.com/alnah/go-nb2html"
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input nb2html.Input) (*nb2html.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*nb2html.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Converter, error)
	Release(Converter)
	Size() int
	Close() error
}

// converterPool adapts nb2html.ConverterPool to Pool.
type converterPool struct {
	pool *nb2html.ConverterPool
}

// Compile-time check that converterPool implements Pool.
var _ Pool = (*converterPool)(nil)

// newConverterPool creates a lazily-populated pool of size converters.
func newConverterPool(size int, opts ...nb2html.Option) Pool {
	return &converterPool{pool: nb2html.NewConverterPool(size, opts...)}
}

func (p *converterPool) Acquire(ctx context.Context) (Converter, error) {
	conv, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (p *converterPool) Release(conv Converter) {
	if c, ok := conv.(*nb2html.Converter); ok {
		p.pool.Release(c)
	}
}

func (p *converterPool) Size() int {
	return p.pool.Size()
}

func (p *converterPool) Close() error {
	return p.pool.Close()
}

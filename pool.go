package nb2html

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool sizing constants.
const (
	MinPoolSize = 1
	MaxPoolSize = 8 // each converter may own a browser (~200MB)

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool closed")

// ConverterPool lends out up to Size converters for parallel conversion.
// Converters are built on first demand and reused afterwards; each one keeps
// its own browser for PDF export.
type ConverterPool struct {
	size  int
	opts  []Option
	newFn func(...Option) (*Converter, error)
	slots *semaphore.Weighted

	done     context.Context
	shutdown context.CancelFunc

	mu   sync.Mutex
	idle []*Converter
	out  map[*Converter]struct{}
	all  []*Converter
}

// NewConverterPool creates a pool of n converters (at least one), each
// built with opts.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	n = max(n, MinPoolSize)
	done, shutdown := context.WithCancel(context.Background())
	return &ConverterPool{
		size:     n,
		opts:     opts,
		newFn:    NewConverter,
		slots:    semaphore.NewWeighted(int64(n)),
		done:     done,
		shutdown: shutdown,
		out:      make(map[*Converter]struct{}, n),
	}
}

// Acquire lends a converter, building one if none is idle. It blocks while
// all Size converters are lent out, until one is released, ctx is done or
// the pool is closed.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	if p.done.Err() != nil {
		return nil, ErrPoolClosed
	}

	wait, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.done, cancel)
	defer stop()

	if err := p.slots.Acquire(wait, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrPoolClosed
	}

	conv, err := p.take()
	if err != nil {
		p.slots.Release(1)
		return nil, err
	}
	return conv, nil
}

// take pops an idle converter or builds a new one. The caller holds a slot.
func (p *ConverterPool) take() (*Converter, error) {
	p.mu.Lock()
	if p.done.Err() != nil {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		conv := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.out[conv] = struct{}{}
		p.mu.Unlock()
		return conv, nil
	}
	p.mu.Unlock()

	// Built outside the lock: loading themes takes a while.
	conv, err := p.newFn(p.opts...)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done.Err() != nil {
		_ = conv.Close()
		return nil, ErrPoolClosed
	}
	p.all = append(p.all, conv)
	p.out[conv] = struct{}{}
	return conv, nil
}

// Release returns a converter obtained from Acquire. Converters the pool did
// not lend, or already got back, are ignored.
func (p *ConverterPool) Release(conv *Converter) {
	p.mu.Lock()
	if _, ok := p.out[conv]; !ok {
		p.mu.Unlock()
		return
	}
	delete(p.out, conv)
	if p.done.Err() == nil {
		p.idle = append(p.idle, conv)
	}
	p.mu.Unlock()
	p.slots.Release(1)
}

// Close shuts every converter the pool built and fails pending and future
// Acquire calls with ErrPoolClosed. Converters still lent out are closed
// too; callers must not use them afterwards.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.done.Err() != nil {
		p.mu.Unlock()
		return nil
	}
	p.shutdown()
	convs := p.all
	p.all, p.idle = nil, nil
	p.mu.Unlock()

	var errs []error
	for _, conv := range convs {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize picks the pool size: workers when positive, otherwise half
// of GOMAXPROCS (container-aware once automaxprocs has run), clamped to
// [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}

package highlight

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrUnknownLanguage indicates a language name has no built-in lexer.
var ErrUnknownLanguage = errors.New("unknown language")

// DefaultLanguages are registered by RegisterDefaults. They cover the kernels
// most commonly found in notebooks plus the formats their outputs use.
var DefaultLanguages = []string{
	"python", "r", "julia", "scala", "javascript", "typescript", "java",
	"c", "cpp", "csharp", "go", "rust", "sql", "bash", "json", "yaml",
	"html", "css", "markdown", "latex",
}

// Registry holds the highlighting languages available to a Highlighter.
// It is populated before the first render and only read afterwards; the lock
// makes late registration safe but is not needed by the render path itself.
type Registry struct {
	mu     sync.RWMutex
	lexers map[string]chroma.Lexer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{lexers: make(map[string]chroma.Lexer)}
}

// Register adds lexer under name. Registering an already-registered name is
// a no-op and reports false. A nil lexer is ignored.
func (r *Registry) Register(name string, lexer chroma.Lexer) bool {
	key := normalize(name)
	if key == "" || lexer == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lexers[key]; ok {
		return false
	}
	r.lexers[key] = chroma.Coalesce(lexer)
	return true
}

// RegisterBuiltin registers chroma's built-in lexers for names.
// Unknown names are reported together; known ones are still registered.
func (r *Registry) RegisterBuiltin(names ...string) error {
	var errs []error
	for _, name := range names {
		lexer := lexers.Get(name)
		if lexer == nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownLanguage, name))
			continue
		}
		r.Register(name, lexer)
	}
	return errors.Join(errs...)
}

// RegisterDefaults registers DefaultLanguages.
func (r *Registry) RegisterDefaults() {
	// Every default name resolves in chroma's lexer set.
	_ = r.RegisterBuiltin(DefaultLanguages...)
}

// Lookup returns the lexer registered for name or one of its aliases.
func (r *Registry) Lookup(name string) (chroma.Lexer, bool) {
	key := normalize(name)
	if key == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if lexer, ok := r.lexers[key]; ok {
		return lexer, true
	}
	for _, lexer := range r.lexers {
		cfg := lexer.Config()
		if cfg == nil {
			continue
		}
		if strings.EqualFold(cfg.Name, key) {
			return lexer, true
		}
		for _, alias := range cfg.Aliases {
			if strings.EqualFold(alias, key) {
				return lexer, true
			}
		}
	}
	return nil, false
}

// Registered reports whether name resolves to a registered lexer.
func (r *Registry) Registered(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.lexers))
	for name := range r.lexers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lexers)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

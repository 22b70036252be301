package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnsupported is wrapped by importers asked for a ref they do not handle
var ErrUnsupported = errors.New("unsupported module reference")

// NotFoundError is returned when no importer handles a ref
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot find module %q", e.Ref)
}

// PanicError is returned when an importer panics while importing Ref
type PanicError struct {
	Ref   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("importing module %q panicked: %v", e.Ref, e.Value)
}

// Importer turns a module reference into the value the module exports
type Importer interface {
	Import(ctx context.Context, ref string) (any, error)
}

// ImporterFunc adapts a function to the Importer interface
type ImporterFunc func(ctx context.Context, ref string) (any, error)

func (f ImporterFunc) Import(ctx context.Context, ref string) (any, error) {
	return f(ctx, ref)
}

// Chain tries each importer in order until one handles the ref
type Chain []Importer

func (c Chain) Import(ctx context.Context, ref string) (any, error) {
	for _, imp := range c {
		v, err := imp.Import(ctx, ref)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return v, err
	}
	return nil, &NotFoundError{Ref: ref}
}

// Modules is an in-process registry of named modules, resolved for bare
// specifiers.
type Modules struct {
	mu      sync.RWMutex
	modules map[string]any
}

// NewModules creates an empty module registry
func NewModules() *Modules {
	return &Modules{modules: make(map[string]any)}
}

// Register makes export available under name. Registering a name twice
// replaces the earlier export.
func (m *Modules) Register(name string, export any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[name] = export
}

// Names returns the registered module names
func (m *Modules) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.modules))
	for name := range m.modules {
		names = append(names, name)
	}
	return names
}

func (m *Modules) Import(_ context.Context, ref string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	export, ok := m.modules[ref]
	if !ok {
		return nil, fmt.Errorf("module %q is not registered: %w", ref, ErrUnsupported)
	}
	return export, nil
}

// IsRelative reports whether spec must be resolved against a working directory
func IsRelative(spec string) bool {
	return strings.HasPrefix(spec, ".")
}

// FileURL returns the canonical file:// URL of an absolute path
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths become file:///C:/...
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// PathFromRef returns the file system path a ref addresses, accepting file
// URLs and absolute paths.
func PathFromRef(ref string) (string, bool) {
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", false
		}
		p := u.Path
		if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
		return filepath.FromSlash(p), true
	}
	if filepath.IsAbs(ref) {
		return ref, true
	}
	return "", false
}

package plugin

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
)

// Loader resolves specifiers to module references and imports them,
// memoizing successful imports per reference.
type Loader struct {
	importer Importer
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]*loadCall
}

type loadCall struct {
	done  chan struct{}
	value any
	err   error
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithLogger sets the logger used for load diagnostics
func WithLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// NewLoader creates a loader importing through importer
func NewLoader(importer Importer, opts ...LoaderOption) *Loader {
	l := &Loader{
		importer: importer,
		logger:   slog.New(slog.DiscardHandler),
		cache:    make(map[string]*loadCall),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ref returns the module reference for spec: a file URL for relative
// specifiers, the specifier itself otherwise.
func Ref(spec, cwd string) (string, error) {
	if !IsRelative(spec) {
		return spec, nil
	}
	abs, err := filepath.Abs(filepath.Join(cwd, spec))
	if err != nil {
		return "", err
	}
	return FileURL(abs), nil
}

// Load imports the module spec refers to. Import errors are returned as
// the importer produced them. Only imports that yield a value are
// memoized; a module that exports nothing is imported again next time.
func (l *Loader) Load(ctx context.Context, spec, cwd string) (any, error) {
	ref, err := Ref(spec, cwd)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if call, ok := l.cache[ref]; ok {
		l.mu.Unlock()
		<-call.done
		return call.value, call.err
	}
	call := &loadCall{done: make(chan struct{})}
	l.cache[ref] = call
	l.mu.Unlock()

	l.logger.Debug("importing module", "specifier", spec, "ref", ref)
	l.doImport(ctx, ref, call)
	return call.value, call.err
}

func (l *Loader) doImport(ctx context.Context, ref string, call *loadCall) {
	defer func() {
		if r := recover(); r != nil {
			call.value, call.err = nil, &PanicError{Ref: ref, Value: r}
		}
		if call.err != nil || call.value == nil {
			l.logger.Debug("module not memoized", "ref", ref, "error", call.err)
			l.mu.Lock()
			delete(l.cache, ref)
			l.mu.Unlock()
		}
		close(call.done)
	}()
	call.value, call.err = l.importer.Import(ctx, ref)
}

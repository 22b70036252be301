// Package builder resolves formatter type identifiers to constructors and
// builds formatters with their derived dependencies.
//
// Reserved identifiers map to the built-in formatters. Anything else is a
// module specifier: relative specifiers (starting with ".") are resolved
// against the build's working directory and loaded from disk, either as Go
// plugins or as external formatter executables; bare specifiers are looked
// up in the in-process module registry.
package builder

import (
	"context"
	"log/slog"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/external"
	"github.com/abdul-hamid-achik/cukefmt/packages/plugin"
)

// Builder builds formatters. It is safe for concurrent use; the only state
// shared between builds is the loader's module cache.
type Builder struct {
	registry *Registry
	modules  *plugin.Modules
	loader   *plugin.Loader
	logger   *slog.Logger
}

// Option is a functional option for Builder
type Option func(*Builder)

// WithRegistry replaces the built-in registry
func WithRegistry(r *Registry) Option {
	return func(b *Builder) {
		b.registry = r
	}
}

// WithLoader replaces the module loader
func WithLoader(l *plugin.Loader) Option {
	return func(b *Builder) {
		b.loader = l
	}
}

// WithModules sets the registry bare specifiers are resolved in. Ignored
// when WithLoader is also given.
func WithModules(m *plugin.Modules) Option {
	return func(b *Builder) {
		b.modules = m
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// New creates a builder
func New(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = NewRegistry()
	}
	if b.modules == nil {
		b.modules = plugin.NewModules()
	}
	if b.loader == nil {
		b.loader = plugin.NewLoader(DefaultImporter(b.modules), plugin.WithLogger(b.logger))
	}
	return b
}

// DefaultImporter imports bare specifiers from modules and file references
// as Go plugins or external formatter executables.
func DefaultImporter(modules *plugin.Modules) plugin.Importer {
	return plugin.Chain{
		modules,
		plugin.SharedObjects{Version: formatter.ProtocolVersion},
		external.Importer{},
	}
}

// Registry returns the built-in registry
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Modules returns the registry bare specifiers are resolved in
func (b *Builder) Modules() *plugin.Modules {
	return b.modules
}

// Build resolves typ and constructs the formatter. Nothing is constructed
// unless the constructor and the snippet builder both resolve.
func (b *Builder) Build(ctx context.Context, typ string, opts formatter.BuildOptions) (formatter.Formatter, error) {
	ctor, err := b.ConstructorByType(ctx, typ, opts.Cwd)
	if err != nil {
		return nil, err
	}

	colorFns := formatter.GetColorFns(opts.ParsedOptions.ColorsEnabled)

	snippetBuilder, err := b.StepDefinitionSnippetBuilder(ctx, SnippetOptions{
		Cwd:       opts.Cwd,
		Interface: opts.ParsedOptions.SnippetInterface,
		Syntax:    opts.ParsedOptions.SnippetSyntax,
		Library:   opts.SupportCodeLibrary,
	})
	if err != nil {
		return nil, err
	}

	b.logger.Debug("constructing formatter", "type", typ)
	return ctor(formatter.Options{
		BuildOptions:   opts,
		ColorFns:       colorFns,
		SnippetBuilder: snippetBuilder,
	})
}

// ConstructorByType returns the built-in constructor for typ, or loads a
// custom one when typ is not reserved.
func (b *Builder) ConstructorByType(ctx context.Context, typ, cwd string) (formatter.Constructor, error) {
	if ctor, ok := b.registry.Lookup(typ); ok {
		return ctor, nil
	}
	return b.LoadCustomFormatter(ctx, typ, cwd)
}

// LoadCustomFormatter loads spec and normalizes its export to a
// constructor. Load errors are returned as is.
func (b *Builder) LoadCustomFormatter(ctx context.Context, spec, cwd string) (formatter.Constructor, error) {
	exported, err := b.loader.Load(ctx, spec, cwd)
	if err != nil {
		return nil, err
	}
	ctor, ok := plugin.Resolve[formatter.Constructor](exported)
	if !ok {
		return nil, &ExportError{Kind: KindFormatter, Specifier: spec}
	}
	b.logger.Debug("loaded custom formatter", "specifier", spec)
	return ctor, nil
}

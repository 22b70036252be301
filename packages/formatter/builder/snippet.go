package builder

import (
	"context"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
	"github.com/abdul-hamid-achik/cukefmt/packages/plugin"
)

// SnippetOptions selects the syntax snippets are rendered with
type SnippetOptions struct {
	Cwd       string
	Interface snippet.Interface
	Syntax    string
	Library   *support.Library
}

// StepDefinitionSnippetBuilder resolves the snippet syntax and returns a
// builder over the library's parameter types. The interface defaults to
// synchronous and the syntax to the built-in one.
func (b *Builder) StepDefinitionSnippetBuilder(ctx context.Context, opts SnippetOptions) (*snippet.Builder, error) {
	iface := opts.Interface
	if iface == "" {
		iface = snippet.Synchronous
	}

	var syntax snippet.Syntax
	if opts.Syntax == "" {
		syntax = snippet.NewDefaultSyntax(iface)
	} else {
		exported, err := b.loader.Load(ctx, opts.Syntax, opts.Cwd)
		if err != nil {
			return nil, err
		}
		ctor, ok := plugin.Resolve[snippet.SyntaxConstructor](exported)
		if !ok {
			return nil, &ExportError{Kind: KindSnippetSyntax, Specifier: opts.Syntax}
		}
		syntax = ctor(iface)
		b.logger.Debug("loaded custom snippet syntax", "specifier", opts.Syntax, "interface", iface)
	}

	var registry *support.ParameterTypeRegistry
	if opts.Library != nil {
		registry = opts.Library.ParameterTypes
	}
	return snippet.NewBuilder(syntax, registry), nil
}

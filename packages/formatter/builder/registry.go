package builder

import (
	"maps"
	"slices"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
)

// Registry maps the reserved formatter type identifiers to the built-in
// constructors. A registry cannot be extended after construction.
type Registry struct {
	constructors map[string]formatter.Constructor
}

// NewRegistry returns a registry of the built-in formatters
func NewRegistry() *Registry {
	return &Registry{constructors: map[string]formatter.Constructor{
		"json":         formatter.NewJSONFormatter,
		"message":      formatter.NewMessageFormatter,
		"html":         formatter.NewHTMLFormatter,
		"progress":     formatter.NewProgressFormatter,
		"progress-bar": formatter.NewProgressBarFormatter,
		"rerun":        formatter.NewRerunFormatter,
		"snippets":     formatter.NewSnippetsFormatter,
		"summary":      formatter.NewSummaryFormatter,
		"usage":        formatter.NewUsageFormatter,
		"usage-json":   formatter.NewUsageJSONFormatter,
	}}
}

// Lookup returns the built-in constructor for typ
func (r *Registry) Lookup(typ string) (formatter.Constructor, bool) {
	ctor, ok := r.constructors[typ]
	return ctor, ok
}

// Types returns the reserved identifiers, sorted
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.constructors))
}

package support

import (
	"fmt"
	"regexp"
	"sync"
)

// ParameterType describes how a `{name}` placeholder in a Cucumber
// expression matches step text.
type ParameterType struct {
	Name                 string
	RegularExpressions   []string
	UseForSnippets       bool
	PreferForRegexpMatch bool
	// GoType is the parameter type rendered into generated snippets
	GoType string

	compiled []*regexp.Regexp
}

// NewParameterType compiles the given expressions into a parameter type
func NewParameterType(name string, expressions []string, goType string, useForSnippets bool) (*ParameterType, error) {
	if len(expressions) == 0 {
		return nil, fmt.Errorf("parameter type %q has no regular expressions", name)
	}
	pt := &ParameterType{
		Name:               name,
		RegularExpressions: expressions,
		UseForSnippets:     useForSnippets,
		GoType:             goType,
	}
	for _, expr := range expressions {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("parameter type %q: %w", name, err)
		}
		pt.compiled = append(pt.compiled, re)
	}
	if pt.GoType == "" {
		pt.GoType = "string"
	}
	return pt, nil
}

func mustParameterType(name string, expressions []string, goType string, useForSnippets bool) *ParameterType {
	pt, err := NewParameterType(name, expressions, goType, useForSnippets)
	if err != nil {
		panic(err)
	}
	return pt
}

// Regexps returns the compiled expressions
func (p *ParameterType) Regexps() []*regexp.Regexp {
	return p.compiled
}

// ParameterTypeRegistry holds the parameter types known to a run
type ParameterTypeRegistry struct {
	mu    sync.RWMutex
	types []*ParameterType
	index map[string]*ParameterType
}

// NewParameterTypeRegistry returns a registry holding the built-in types
// int, float, word, string and the anonymous type.
func NewParameterTypeRegistry() *ParameterTypeRegistry {
	r := &ParameterTypeRegistry{index: make(map[string]*ParameterType)}
	for _, pt := range []*ParameterType{
		mustParameterType("int", []string{`-?\d+`}, "int", true),
		mustParameterType("float", []string{`-?\d*\.\d+`}, "float64", true),
		mustParameterType("word", []string{`[^\s]+`}, "string", false),
		mustParameterType("string", []string{`"([^"\\]*(\\.[^"\\]*)*)"`, `'([^'\\]*(\\.[^'\\]*)*)'`}, "string", true),
		mustParameterType("", []string{`.*`}, "string", false),
	} {
		r.types = append(r.types, pt)
		r.index[pt.Name] = pt
	}
	return r
}

// Define adds a custom parameter type
func (r *ParameterTypeRegistry) Define(pt *ParameterType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[pt.Name]; exists {
		return fmt.Errorf("there is already a parameter type with name %q", pt.Name)
	}
	r.types = append(r.types, pt)
	r.index[pt.Name] = pt
	return nil
}

// Lookup returns the parameter type registered under name
func (r *ParameterTypeRegistry) Lookup(name string) (*ParameterType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pt, ok := r.index[name]
	return pt, ok
}

// ForSnippets returns the types used to generate snippets, in definition order
func (r *ParameterTypeRegistry) ForSnippets() []*ParameterType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*ParameterType
	for _, pt := range r.types {
		if pt.UseForSnippets {
			out = append(out, pt)
		}
	}
	return out
}

// All returns every registered type in definition order
func (r *ParameterTypeRegistry) All() []*ParameterType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ParameterType(nil), r.types...)
}

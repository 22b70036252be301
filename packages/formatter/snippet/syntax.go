// Package snippet generates placeholder step definition source for steps
// that have no matching implementation.
//
// A Syntax renders one snippet from the expressions generated for a step.
// The DefaultSyntax renders Go step definitions; custom syntaxes can be
// supplied as plugins exporting a SyntaxConstructor.
package snippet

import (
	"fmt"
	"strings"
)

// Interface is the calling convention generated step definitions use
type Interface string

const (
	Synchronous Interface = "synchronous"
	Callback    Interface = "callback"
	Promise     Interface = "promise"
	AsyncAwait  Interface = "async-await"
	Generator   Interface = "generator"
)

// Interfaces lists every supported interface kind
var Interfaces = []Interface{Synchronous, Callback, Promise, AsyncAwait, Generator}

// ParseInterface validates s as an interface kind. An empty string is
// returned unchanged so callers can apply their own default.
func ParseInterface(s string) (Interface, error) {
	if s == "" {
		return "", nil
	}
	for _, i := range Interfaces {
		if strings.EqualFold(s, string(i)) {
			return i, nil
		}
	}
	names := make([]string, len(Interfaces))
	for i, iface := range Interfaces {
		names[i] = string(iface)
	}
	return "", fmt.Errorf("invalid snippet interface %q (supported: %s)", s, strings.Join(names, ", "))
}

// SyntaxOptions carries everything a Syntax needs to render a snippet
type SyntaxOptions struct {
	Comment            string
	FunctionName       string
	Expressions        []GeneratedExpression
	StepParameterNames []string
}

// Syntax renders step definition snippets
type Syntax interface {
	Build(opts SyntaxOptions) string
}

// SyntaxConstructor creates a Syntax for the given interface kind. Custom
// snippet syntax plugins export a function of this shape.
type SyntaxConstructor func(iface Interface) Syntax

package snippet

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSyntax renders godog-style Go step definitions
type DefaultSyntax struct {
	iface Interface
}

// NewDefaultSyntax creates the built-in syntax for the given interface kind.
// An empty kind renders synchronous step definitions.
func NewDefaultSyntax(iface Interface) Syntax {
	if iface == "" {
		iface = Synchronous
	}
	return &DefaultSyntax{iface: iface}
}

// Interface returns the calling convention the syntax renders
func (s *DefaultSyntax) Interface() Interface {
	return s.iface
}

var goReserved = map[string]bool{
	"int": true, "string": true, "bool": true, "any": true, "error": true,
	"byte": true, "rune": true, "len": true, "cap": true, "new": true,
	"make": true, "copy": true, "ctx": true, "callback": true,
	"type": true, "func": true, "map": true, "range": true, "default": true,
}

var stepArgumentTypes = map[string]string{
	"docString": "*godog.DocString",
	"dataTable": "*godog.Table",
}

func (s *DefaultSyntax) Build(opts SyntaxOptions) string {
	var b strings.Builder
	for i, expr := range opts.Expressions {
		prefix := ""
		if i > 0 {
			prefix = "// "
		}
		fmt.Fprintf(&b, "%sctx.%s(%s, %s {\n", prefix, opts.FunctionName, quote(expr.Source), s.signature(expr, opts.StepParameterNames))
	}
	fmt.Fprintf(&b, "\t// %s\n", opts.Comment)
	b.WriteString(s.body())
	b.WriteString("})")
	return b.String()
}

func (s *DefaultSyntax) signature(expr GeneratedExpression, stepParams []string) string {
	var params []string
	if s.iface == AsyncAwait {
		params = append(params, "ctx context.Context")
	}
	for i, name := range expr.ParameterNames {
		if goReserved[name] {
			name += "1"
		}
		goType := "string"
		if i < len(expr.ParameterTypes) && expr.ParameterTypes[i].GoType != "" {
			goType = expr.ParameterTypes[i].GoType
		}
		params = append(params, name+" "+goType)
	}
	for _, name := range stepParams {
		typ, ok := stepArgumentTypes[name]
		if !ok {
			typ = "string"
		}
		params = append(params, name+" "+typ)
	}
	if s.iface == Callback {
		params = append(params, "callback func(error)")
	}

	args := strings.Join(params, ", ")
	switch s.iface {
	case Callback:
		return "func(" + args + ")"
	case Promise:
		return "func(" + args + ") <-chan error"
	case AsyncAwait:
		return "func(" + args + ") (context.Context, error)"
	case Generator:
		return "func(" + args + ") iter.Seq[error]"
	default:
		return "func(" + args + ") error"
	}
}

func (s *DefaultSyntax) body() string {
	switch s.iface {
	case Callback:
		return "\tcallback(godog.ErrPending)\n"
	case Promise:
		return "\tdone := make(chan error, 1)\n\tdone <- godog.ErrPending\n\tclose(done)\n\treturn done\n"
	case AsyncAwait:
		return "\treturn ctx, godog.ErrPending\n"
	case Generator:
		return "\treturn func(yield func(error) bool) {\n\t\tyield(godog.ErrPending)\n\t}\n"
	default:
		return "\treturn godog.ErrPending\n"
	}
}

func quote(s string) string {
	if strings.Contains(s, "`") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

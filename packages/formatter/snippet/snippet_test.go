package snippet

import (
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sources(exprs []GeneratedExpression) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = e.Source
	}
	return out
}

func TestGenerateExpressions(t *testing.T) {
	types := support.NewParameterTypeRegistry().ForSnippets()

	tests := []struct {
		name  string
		text  string
		want  []string
		names []string
	}{
		{"plain text", "I am on the home page", []string{"I am on the home page"}, nil},
		{"int", "I have 3 cukes", []string{"I have {int} cukes"}, []string{"int"}},
		{"two ints", "I have 3 cukes and 12 bananas", []string{"I have {int} cukes and {int} bananas"}, []string{"int", "int2"}},
		{"float wins over int", "I pay 1.5 euros", []string{"I pay {float} euros"}, []string{"float"}},
		{"string", `I say "hello there"`, []string{"I say {string}"}, []string{"string"}},
		{"single quoted", `I say 'hi'`, []string{"I say {string}"}, []string{"string"}},
		{"digits inside word", "user42 logs in", []string{"user42 logs in"}, nil},
		{"escapes", "a (b) {c} d/e", []string{`a \(b) \{c} d\/e`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateExpressions(tt.text, types)
			assert.Equal(t, tt.want, sources(got))
			assert.Equal(t, tt.names, got[0].ParameterNames)
		})
	}
}

func TestGenerateExpressions_AmbiguousTypes(t *testing.T) {
	reg := support.NewParameterTypeRegistry()
	color, err := support.NewParameterType("color", []string{`red|blue`}, "", true)
	require.NoError(t, err)
	require.NoError(t, reg.Define(color))
	shade, err := support.NewParameterType("shade", []string{`red|dark`}, "", true)
	require.NoError(t, err)
	require.NoError(t, reg.Define(shade))

	got := GenerateExpressions("a red car", reg.ForSnippets())
	assert.Equal(t, []string{"a {color} car", "a {shade} car"}, sources(got))
}

func TestGenerateExpressions_CapsCombinations(t *testing.T) {
	reg := support.NewParameterTypeRegistry()
	count, err := support.NewParameterType("count", []string{`\d+`}, "int", true)
	require.NoError(t, err)
	require.NoError(t, reg.Define(count))

	text := strings.TrimSpace(strings.Repeat("1 ", 20))
	got := GenerateExpressions(text, reg.ForSnippets())
	require.Len(t, got, MaxExpressions)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("{int} ", 20)), got[0].Source)
	for _, expr := range got {
		assert.Len(t, expr.ParameterTypes, 20)
		assert.Len(t, expr.ParameterNames, 20)
	}

	out := NewDefaultSyntax(Synchronous).Build(SyntaxOptions{Comment: Comment, FunctionName: "Given", Expressions: got})
	assert.Equal(t, MaxExpressions-1, strings.Count(out, "// ctx.Given("))
}

func TestParseInterface(t *testing.T) {
	iface, err := ParseInterface("Callback")
	require.NoError(t, err)
	assert.Equal(t, Callback, iface)

	iface, err = ParseInterface("")
	require.NoError(t, err)
	assert.Equal(t, Interface(""), iface)

	_, err = ParseInterface("threads")
	assert.Error(t, err)
}

func TestDefaultSyntax_Interfaces(t *testing.T) {
	exprs := GenerateExpressions("I have 3 cukes", support.NewParameterTypeRegistry().ForSnippets())
	opts := SyntaxOptions{Comment: Comment, FunctionName: "Given", Expressions: exprs}

	tests := []struct {
		iface     Interface
		signature string
		body      string
	}{
		{Synchronous, "func(int1 int) error {", "return godog.ErrPending"},
		{Callback, "func(int1 int, callback func(error)) {", "callback(godog.ErrPending)"},
		{Promise, "func(int1 int) <-chan error {", "done <- godog.ErrPending"},
		{AsyncAwait, "func(ctx context.Context, int1 int) (context.Context, error) {", "return ctx, godog.ErrPending"},
		{Generator, "func(int1 int) iter.Seq[error] {", "yield(godog.ErrPending)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.iface), func(t *testing.T) {
			got := NewDefaultSyntax(tt.iface).Build(opts)
			assert.Contains(t, got, "ctx.Given(`I have {int} cukes`, "+tt.signature)
			assert.Contains(t, got, tt.body)
			assert.Contains(t, got, Comment)
		})
	}
}

func TestNewDefaultSyntax_DefaultsToSynchronous(t *testing.T) {
	s := NewDefaultSyntax("")
	require.IsType(t, &DefaultSyntax{}, s)
	assert.Equal(t, Synchronous, s.(*DefaultSyntax).Interface())
}

func TestDefaultSyntax_AlternativesCommented(t *testing.T) {
	exprs := []GeneratedExpression{{Source: "first"}, {Source: "second"}}
	got := NewDefaultSyntax(Synchronous).Build(SyntaxOptions{Comment: "c", FunctionName: "When", Expressions: exprs})

	assert.Contains(t, got, "ctx.When(`first`, func() error {\n// ctx.When(`second`, func() error {\n")
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(NewDefaultSyntax(Synchronous), nil)

	step := events.PickleStep{
		Text:     "the response is",
		Argument: &events.PickleStepArgument{DocString: &events.DocString{Content: "{}"}},
	}
	got := b.Build(events.KeywordOutcome, step)
	assert.Contains(t, got, "ctx.Then(`the response is`, func(docString *godog.DocString) error {")

	got = b.Build(events.KeywordAction, events.PickleStep{Text: "I click"})
	assert.Contains(t, got, "ctx.When(")

	got = b.Build(events.KeywordUnknown, events.PickleStep{Text: "something"})
	assert.Contains(t, got, "ctx.Given(")
}

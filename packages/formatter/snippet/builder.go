package snippet

import (
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
)

// Comment is placed inside every generated step definition body
const Comment = "Write code here that turns the phrase above into concrete actions"

// Builder produces snippets for undefined pickle steps
type Builder struct {
	syntax         Syntax
	parameterTypes *support.ParameterTypeRegistry
}

// NewBuilder creates a snippet builder. A nil registry falls back to the
// built-in parameter types.
func NewBuilder(syntax Syntax, parameterTypes *support.ParameterTypeRegistry) *Builder {
	if parameterTypes == nil {
		parameterTypes = support.NewParameterTypeRegistry()
	}
	return &Builder{syntax: syntax, parameterTypes: parameterTypes}
}

// Syntax returns the syntax snippets are rendered with
func (b *Builder) Syntax() Syntax {
	return b.syntax
}

// ParameterTypes returns the registry expressions are generated from
func (b *Builder) ParameterTypes() *support.ParameterTypeRegistry {
	return b.parameterTypes
}

// Build renders the snippet for step
func (b *Builder) Build(keywordType events.StepKeywordType, step events.PickleStep) string {
	return b.syntax.Build(SyntaxOptions{
		Comment:            Comment,
		FunctionName:       functionName(keywordType),
		Expressions:        GenerateExpressions(step.Text, b.parameterTypes.ForSnippets()),
		StepParameterNames: stepParameterNames(step),
	})
}

func functionName(keywordType events.StepKeywordType) string {
	switch keywordType {
	case events.KeywordAction:
		return "When"
	case events.KeywordOutcome:
		return "Then"
	default:
		return "Given"
	}
}

func stepParameterNames(step events.PickleStep) []string {
	if step.Argument == nil {
		return nil
	}
	switch {
	case step.Argument.DocString != nil:
		return []string{"docString"}
	case step.Argument.DataTable != nil:
		return []string{"dataTable"}
	}
	return nil
}

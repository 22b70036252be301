package formatter

import (
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// SnippetsFormatter prints a snippet for every undefined step
type SnippetsFormatter struct {
	*Base
}

func NewSnippetsFormatter(opts Options) (Formatter, error) {
	f := &SnippetsFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *SnippetsFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil || f.SnippetBuilder == nil {
		return
	}

	var snippets []string
	for _, a := range f.EventDataCollector.TestCaseAttempts() {
		for _, ts := range a.TestCase.TestSteps {
			if a.StepResults[ts.ID].Status != events.StatusUndefined {
				continue
			}
			step, ok := a.Pickle.Step(ts.PickleStepID)
			if !ok {
				continue
			}
			snippets = append(snippets, f.SnippetBuilder.Build(step.Type, step))
		}
	}
	if len(snippets) > 0 {
		f.Write(strings.Join(snippets, "\n\n") + "\n")
	}
}

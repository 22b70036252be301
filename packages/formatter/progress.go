package formatter

import (
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

var progressCharacters = map[events.Status]string{
	events.StatusAmbiguous: "A",
	events.StatusFailed:    "F",
	events.StatusPassed:    ".",
	events.StatusPending:   "P",
	events.StatusSkipped:   "-",
	events.StatusUndefined: "U",
	events.StatusUnknown:   "?",
}

// ProgressFormatter prints one character per finished step followed by
// the summary.
type ProgressFormatter struct {
	*Base
}

func NewProgressFormatter(opts Options) (Formatter, error) {
	f := &ProgressFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *ProgressFormatter) onEnvelope(env *events.Envelope) {
	switch {
	case env.TestStepFinished != nil:
		f.logProgress(env.TestStepFinished)
	case env.TestRunFinished != nil:
		f.Write("\n\n")
		f.writeSummary(true)
	}
}

func (f *ProgressFormatter) logProgress(finished *events.TestStepFinished) {
	status := finished.Result.Status
	if status == events.StatusPassed && f.isHook(finished) {
		return
	}
	char, ok := progressCharacters[status]
	if !ok {
		char = progressCharacters[events.StatusUnknown]
	}
	f.Write(f.ColorFns.ForStatus(status)(char))
}

func (f *ProgressFormatter) isHook(finished *events.TestStepFinished) bool {
	a, ok := f.EventDataCollector.TestCaseAttempt(finished.TestCaseStartedID)
	if !ok {
		return false
	}
	for _, ts := range a.TestCase.TestSteps {
		if ts.ID == finished.TestStepID {
			return ts.HookID != ""
		}
	}
	return false
}

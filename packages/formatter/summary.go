package formatter

import (
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// SummaryFormatter prints issues and counts once the run finished
type SummaryFormatter struct {
	*Base
}

func NewSummaryFormatter(opts Options) (Formatter, error) {
	f := &SummaryFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *SummaryFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil {
		return
	}
	f.writeSummary(true)
}

func (b *Base) writeSummary(withIssues bool) {
	attempts := b.EventDataCollector.TestCaseAttempts()
	if withIssues {
		b.Write(FormatIssues(b.ColorFns, attempts, b.SnippetBuilder))
	}
	b.Write(FormatSummary(b.ColorFns, attempts, b.EventDataCollector.Result().Duration()))
}

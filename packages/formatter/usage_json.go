package formatter

import (
	"encoding/json"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// UsageJSONFormatter writes step definition usage as JSON
type UsageJSONFormatter struct {
	*Base
}

func NewUsageJSONFormatter(opts Options) (Formatter, error) {
	f := &UsageJSONFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *UsageJSONFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil {
		return
	}

	usages := GetUsage(f.SupportCodeLibrary, f.EventDataCollector.TestCaseAttempts())
	encoder := json.NewEncoder(f.Stream)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(usages); err != nil {
		f.Fail(err)
	}
}

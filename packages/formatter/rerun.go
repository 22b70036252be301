package formatter

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// DefaultRerunSeparator joins rerun entries unless configured otherwise
const DefaultRerunSeparator = "\n"

// RerunFormatter writes `uri:line` entries for scenarios that did not pass,
// suitable for feeding back into a run.
type RerunFormatter struct {
	*Base
	separator string
}

func NewRerunFormatter(opts Options) (Formatter, error) {
	f := &RerunFormatter{
		Base:      NewBase(opts),
		separator: opts.ParsedOptions.Rerun.Separator,
	}
	if f.separator == "" {
		f.separator = DefaultRerunSeparator
	}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *RerunFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil {
		return
	}

	var uris []string
	lines := make(map[string][]string)
	for _, a := range finalAttempts(f.EventDataCollector.TestCaseAttempts()) {
		if !a.WorstResult().Status.IsIssue() {
			continue
		}
		uri := a.Pickle.URI
		if _, seen := lines[uri]; !seen {
			uris = append(uris, uri)
		}
		lines[uri] = append(lines[uri], fmt.Sprint(a.Pickle.Line))
	}

	entries := make([]string, len(uris))
	for i, uri := range uris {
		entries[i] = uri + ":" + strings.Join(lines[uri], ":")
	}
	f.Write(strings.Join(entries, f.separator))
}

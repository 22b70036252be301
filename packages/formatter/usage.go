package formatter

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// maxUsageMatches limits the matches listed per step definition
const maxUsageMatches = 5

// UsageFormatter prints a table of step definitions ordered by mean
// duration, marking the unused ones.
type UsageFormatter struct {
	*Base
}

func NewUsageFormatter(opts Options) (Formatter, error) {
	f := &UsageFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *UsageFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil {
		return
	}

	usages := GetUsage(f.SupportCodeLibrary, f.EventDataCollector.TestCaseAttempts())
	if len(usages) == 0 {
		f.Write("No step definitions\n")
		return
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Pattern / Text\tDuration\tLocation")
	for _, u := range usages {
		pattern := u.Code
		if u.PatternType == events.RegularExpression {
			pattern = "/" + pattern + "/"
		}
		duration := "UNUSED"
		if len(u.Matches) > 0 {
			duration = "-"
			if u.MeanDuration != nil {
				duration = formatMillis(*u.MeanDuration)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", pattern, duration, f.ColorFns.Location(fmt.Sprintf("%s:%d", u.URI, u.Line)))

		for i, m := range u.Matches {
			if i == maxUsageMatches {
				fmt.Fprintf(tw, "  %d more\t\t\n", len(u.Matches)-maxUsageMatches)
				break
			}
			d := "-"
			if m.Duration != nil {
				d = formatMillis(*m.Duration)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Text, d, f.ColorFns.Location(fmt.Sprintf("%s:%d", m.URI, m.Line)))
		}
	}
	if err := tw.Flush(); err != nil {
		f.Fail(err)
		return
	}
	f.Write(b.String())
}

func formatMillis(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

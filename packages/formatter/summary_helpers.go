package formatter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/collector"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
)

var statusSymbols = map[events.Status]string{
	events.StatusPassed:    "✓",
	events.StatusFailed:    "✗",
	events.StatusSkipped:   "-",
	events.StatusPending:   "?",
	events.StatusUndefined: "?",
	events.StatusAmbiguous: "✗",
	events.StatusUnknown:   "?",
}

var keywords = map[events.StepKeywordType]string{
	events.KeywordContext: "Given ",
	events.KeywordAction:  "When ",
	events.KeywordOutcome: "Then ",
}

func keyword(t events.StepKeywordType) string {
	if k, ok := keywords[t]; ok {
		return k
	}
	return "* "
}

// finalAttempts drops attempts that were retried afterwards
func finalAttempts(attempts []*collector.TestCaseAttempt) []*collector.TestCaseAttempt {
	out := make([]*collector.TestCaseAttempt, 0, len(attempts))
	for _, a := range attempts {
		if !a.WillBeRetried {
			out = append(out, a)
		}
	}
	return out
}

// FormatSummary renders scenario and step counts plus the run duration
func FormatSummary(colors ColorFns, attempts []*collector.TestCaseAttempt, duration time.Duration) string {
	scenarios := make(map[events.Status]int)
	steps := make(map[events.Status]int)
	scenarioTotal, stepTotal := 0, 0

	for _, a := range finalAttempts(attempts) {
		scenarios[a.WorstResult().Status]++
		scenarioTotal++
		for _, ts := range a.TestCase.TestSteps {
			if ts.HookID != "" {
				continue
			}
			steps[a.StepResults[ts.ID].Status]++
			stepTotal++
		}
	}

	var b strings.Builder
	b.WriteString(countLine(colors, scenarioTotal, "scenario", scenarios))
	b.WriteString(countLine(colors, stepTotal, "step", steps))
	b.WriteString(formatDuration(duration))
	b.WriteString("\n")
	return b.String()
}

func countLine(colors ColorFns, total int, noun string, counts map[events.Status]int) string {
	if total != 1 {
		noun += "s"
	}
	line := fmt.Sprintf("%d %s", total, noun)

	var parts []string
	ordered := slices.Clone(events.Statuses)
	slices.Reverse(ordered)
	for _, status := range ordered {
		if n := counts[status]; n > 0 {
			parts = append(parts, colors.ForStatus(status)(fmt.Sprintf("%d %s", n, status.Lower())))
		}
	}
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	return line + "\n"
}

func formatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%dm%06.3fs", minutes, seconds)
}

// FormatIssue renders one non-passing scenario with its steps. Undefined
// steps get a snippet when a builder is available.
func FormatIssue(colors ColorFns, number int, a *collector.TestCaseAttempt, snippets *snippet.Builder) string {
	var b strings.Builder
	location := fmt.Sprintf("%s:%d", a.Pickle.URI, a.Pickle.Line)
	fmt.Fprintf(&b, "%d) Scenario: %s %s", number, a.Pickle.Name, colors.Location("# "+location))
	if a.Attempt > 0 {
		fmt.Fprintf(&b, " (attempt %d)", a.Attempt+1)
	}
	b.WriteString("\n")

	for _, ts := range a.TestCase.TestSteps {
		result, ok := a.StepResults[ts.ID]
		if !ok {
			result.Status = events.StatusUnknown
		}
		style := colors.ForStatus(result.Status)

		text := "Hook"
		var step events.PickleStep
		if ts.PickleStepID != "" {
			step, _ = a.Pickle.Step(ts.PickleStepID)
			text = keyword(step.Type) + step.Text
		}
		fmt.Fprintf(&b, "   %s %s\n", style(statusSymbols[result.Status]), style(text))

		switch result.Status {
		case events.StatusFailed, events.StatusAmbiguous:
			if result.Message != "" {
				b.WriteString(indent(colors.ErrorStack(result.Message), 7))
			}
		case events.StatusUndefined:
			if snippets != nil && ts.PickleStepID != "" {
				b.WriteString(indent("Undefined. Implement with the following snippet:\n\n"+indent(snippets.Build(step.Type, step), 2), 7))
			}
		case events.StatusPending:
			b.WriteString(indent("Pending", 7))
		}
	}
	return b.String()
}

// FormatIssues renders the failures and warnings sections of a run
func FormatIssues(colors ColorFns, attempts []*collector.TestCaseAttempt, snippets *snippet.Builder) string {
	var failures, warnings []*collector.TestCaseAttempt
	for _, a := range finalAttempts(attempts) {
		switch a.WorstResult().Status {
		case events.StatusFailed, events.StatusAmbiguous:
			failures = append(failures, a)
		case events.StatusPending, events.StatusUndefined:
			warnings = append(warnings, a)
		}
	}

	var b strings.Builder
	for _, section := range []struct {
		title    string
		attempts []*collector.TestCaseAttempt
	}{
		{"Failures", failures},
		{"Warnings", warnings},
	} {
		if len(section.attempts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n\n", section.title)
		for i, a := range section.attempts {
			b.WriteString(FormatIssue(colors, i+1, a, snippets))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

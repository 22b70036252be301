package formatter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"golang.org/x/time/rate"
)

const (
	progressBarWidth = 40
	// ProgressBarRefreshInterval bounds how often the bar is redrawn
	ProgressBarRefreshInterval = 100 * time.Millisecond
)

// ProgressBarFormatter draws a progress bar over the steps of the run and
// prints issues as soon as their scenario finished.
type ProgressBarFormatter struct {
	*Base

	mu      sync.Mutex
	total   int
	done    int
	issues  int
	redraw  rate.Sometimes
	drawing bool
}

func NewProgressBarFormatter(opts Options) (Formatter, error) {
	f := &ProgressBarFormatter{
		Base:   NewBase(opts),
		redraw: rate.Sometimes{Interval: ProgressBarRefreshInterval},
	}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *ProgressBarFormatter) onEnvelope(env *events.Envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case env.TestCase != nil:
		for _, ts := range env.TestCase.TestSteps {
			if ts.PickleStepID != "" {
				f.total++
			}
		}
	case env.TestStepFinished != nil:
		if f.countsAsStep(env.TestStepFinished) {
			f.done++
		}
		f.redraw.Do(f.draw)
	case env.TestCaseFinished != nil:
		f.logIssue(env.TestCaseFinished)
	case env.TestRunFinished != nil:
		f.draw()
		f.Write("\n\n")
		f.writeSummary(false)
	}
}

func (f *ProgressBarFormatter) countsAsStep(finished *events.TestStepFinished) bool {
	a, ok := f.EventDataCollector.TestCaseAttempt(finished.TestCaseStartedID)
	if !ok {
		return true
	}
	for _, ts := range a.TestCase.TestSteps {
		if ts.ID == finished.TestStepID {
			return ts.PickleStepID != ""
		}
	}
	return true
}

func (f *ProgressBarFormatter) logIssue(finished *events.TestCaseFinished) {
	if finished.WillBeRetried {
		return
	}
	a, ok := f.EventDataCollector.TestCaseAttempt(finished.TestCaseStartedID)
	if !ok || !a.WorstResult().Status.IsIssue() {
		return
	}
	f.issues++
	f.clear()
	f.Write(FormatIssue(f.ColorFns, f.issues, a, f.SnippetBuilder) + "\n")
	f.draw()
}

func (f *ProgressBarFormatter) clear() {
	if f.drawing {
		f.Write("\r" + strings.Repeat(" ", progressBarWidth+32) + "\r")
		f.drawing = false
	}
}

func (f *ProgressBarFormatter) draw() {
	filled := 0
	if f.total > 0 {
		filled = min(progressBarWidth, f.done*progressBarWidth/f.total)
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled)
	f.Write(fmt.Sprintf("\rProgress: [%s] %d/%d steps", bar, f.done, f.total))
	f.drawing = true
}

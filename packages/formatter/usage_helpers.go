package formatter

import (
	"cmp"
	"slices"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/collector"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
)

// maxRecordableMicros bounds recorded step durations at one minute
const maxRecordableMicros = 60_000_000

// UsageMatch is one pickle step matched by a step definition
type UsageMatch struct {
	Duration *time.Duration `json:"duration,omitempty"`
	Line     int            `json:"line"`
	Text     string         `json:"text"`
	URI      string         `json:"uri"`
}

// Usage summarizes how a step definition was used during a run
type Usage struct {
	Code         string             `json:"code"`
	PatternType  events.PatternType `json:"patternType"`
	Line         int                `json:"line"`
	URI          string             `json:"uri"`
	Matches      []UsageMatch       `json:"matches"`
	MeanDuration *time.Duration     `json:"meanDuration,omitempty"`
	MaxDuration  *time.Duration     `json:"maxDuration,omitempty"`
}

// GetUsage computes step definition usage from the collected attempts.
// Step definitions are ordered by mean duration, slowest first; unused
// definitions come last in definition order.
func GetUsage(lib *support.Library, attempts []*collector.TestCaseAttempt) []Usage {
	defs := lib.StepDefinitions()
	index := make(map[string]int, len(defs))
	usages := make([]Usage, len(defs))
	histograms := make([]*hdrhistogram.Histogram, len(defs))

	for i, sd := range defs {
		index[sd.ID] = i
		usages[i] = Usage{
			Code:        sd.Pattern,
			PatternType: sd.PatternType,
			Line:        sd.Line,
			URI:         sd.URI,
			Matches:     []UsageMatch{},
		}
		histograms[i] = hdrhistogram.New(1, maxRecordableMicros, 3)
	}

	for _, a := range attempts {
		for _, ts := range a.TestCase.TestSteps {
			if len(ts.StepDefinitionIDs) != 1 {
				continue
			}
			i, ok := index[ts.StepDefinitionIDs[0]]
			if !ok {
				continue
			}
			step, _ := a.Pickle.Step(ts.PickleStepID)
			m := UsageMatch{Line: step.Line, Text: step.Text, URI: a.Pickle.URI}
			if result, ok := a.StepResults[ts.ID]; ok && result.Status != events.StatusSkipped {
				d := result.Duration.Std()
				m.Duration = &d
				micros := max(d.Microseconds(), 1)
				_ = histograms[i].RecordValue(min(micros, maxRecordableMicros))
			}
			usages[i].Matches = append(usages[i].Matches, m)
		}
	}

	for i := range usages {
		h := histograms[i]
		if h.TotalCount() == 0 {
			continue
		}
		mean := time.Duration(h.Mean() * float64(time.Microsecond))
		maxD := time.Duration(h.Max()) * time.Microsecond
		usages[i].MeanDuration = &mean
		usages[i].MaxDuration = &maxD
		slices.SortStableFunc(usages[i].Matches, func(a, b UsageMatch) int {
			return cmp.Compare(durationOrZero(b.Duration), durationOrZero(a.Duration))
		})
	}

	slices.SortStableFunc(usages, func(a, b Usage) int {
		switch {
		case len(a.Matches) == 0 && len(b.Matches) == 0:
			return 0
		case len(a.Matches) == 0:
			return 1
		case len(b.Matches) == 0:
			return -1
		}
		return cmp.Compare(durationOrZero(b.MeanDuration), durationOrZero(a.MeanDuration))
	})
	return usages
}

func durationOrZero(d *time.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return *d
}

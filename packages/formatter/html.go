package formatter

import (
	"fmt"
	"html/template"
	"time"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// HTMLReport is the data the HTML template renders
type HTMLReport struct {
	Generated string
	Duration  string
	Success   bool
	Summary   map[string]int
	Scenarios []HTMLScenario
}

type HTMLScenario struct {
	Name        string
	Location    string
	StatusClass string
	Steps       []HTMLStep
}

type HTMLStep struct {
	Text        string
	StatusClass string
	Duration    string
	Message     string
}

var htmlReport = template.Must(template.New("report").Parse(htmlTemplate))

// HTMLFormatter writes a self-contained HTML report once the run finished
type HTMLFormatter struct {
	*Base
}

func NewHTMLFormatter(opts Options) (Formatter, error) {
	f := &HTMLFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *HTMLFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil {
		return
	}
	if err := htmlReport.Execute(f.Stream, f.report()); err != nil {
		f.Fail(fmt.Errorf("failed to render HTML report: %w", err))
	}
}

func (f *HTMLFormatter) report() HTMLReport {
	result := f.EventDataCollector.Result()
	report := HTMLReport{
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Duration:  formatDuration(result.Duration()),
		Success:   result.Success,
		Summary:   make(map[string]int),
	}

	for _, a := range finalAttempts(f.EventDataCollector.TestCaseAttempts()) {
		status := a.WorstResult().Status
		report.Summary[status.Lower()]++
		sc := HTMLScenario{
			Name:        a.Pickle.Name,
			Location:    fmt.Sprintf("%s:%d", a.Pickle.URI, a.Pickle.Line),
			StatusClass: status.Lower(),
		}
		for _, ts := range a.TestCase.TestSteps {
			r, ok := a.StepResults[ts.ID]
			if !ok {
				r.Status = events.StatusUnknown
			}
			text := "Hook"
			if ps, ok := a.Pickle.Step(ts.PickleStepID); ok {
				text = keyword(ps.Type) + ps.Text
			}
			sc.Steps = append(sc.Steps, HTMLStep{
				Text:        text,
				StatusClass: r.Status.Lower(),
				Duration:    formatMillis(r.Duration.Std()),
				Message:     r.Message,
			})
		}
		report.Scenarios = append(report.Scenarios, sc)
	}
	return report
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cucumber Report</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
.summary span { margin-right: 1rem; }
.scenario { border: 1px solid #ddd; border-radius: 4px; margin: 1rem 0; padding: 0.5rem 1rem; }
.scenario h2 { font-size: 1rem; margin: 0.25rem 0; }
.location { color: #888; font-size: 0.85rem; }
.step { font-family: monospace; padding: 2px 0; }
.passed { color: #2e7d32; }
.failed, .ambiguous { color: #c62828; }
.pending, .undefined { color: #b28704; }
.skipped { color: #0277bd; }
.unknown { color: #888; }
pre { background: #fafafa; padding: 0.5rem; overflow-x: auto; }
</style>
</head>
<body>
<h1 class="{{if .Success}}passed{{else}}failed{{end}}">Cucumber Report</h1>
<p>Generated {{.Generated}} in {{.Duration}}</p>
<div class="summary">{{range $status, $n := .Summary}}<span class="{{$status}}">{{$n}} {{$status}}</span>{{end}}</div>
{{range .Scenarios}}
<div class="scenario {{.StatusClass}}">
<h2>{{.Name}}</h2>
<div class="location">{{.Location}}</div>
{{range .Steps}}<div class="step {{.StatusClass}}">{{.Text}} <span class="location">{{.Duration}}</span>{{if .Message}}<pre>{{.Message}}</pre>{{end}}</div>
{{end}}</div>
{{end}}
</body>
</html>
`

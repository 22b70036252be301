package formatter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/collector"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// JSONFeature is one feature file of the Cucumber JSON report
type JSONFeature struct {
	ID       string         `json:"id"`
	URI      string         `json:"uri"`
	Keyword  string         `json:"keyword"`
	Name     string         `json:"name"`
	Line     int            `json:"line"`
	Elements []JSONScenario `json:"elements"`
}

// JSONScenario is one final test case attempt
type JSONScenario struct {
	ID      string     `json:"id"`
	Keyword string     `json:"keyword"`
	Name    string     `json:"name"`
	Line    int        `json:"line"`
	Type    string     `json:"type"`
	Tags    []JSONTag  `json:"tags,omitempty"`
	Steps   []JSONStep `json:"steps"`
}

type JSONTag struct {
	Name string `json:"name"`
}

// JSONStep is a step or hook of a scenario
type JSONStep struct {
	Keyword    string          `json:"keyword,omitempty"`
	Name       string          `json:"name,omitempty"`
	Line       int             `json:"line,omitempty"`
	Hidden     bool            `json:"hidden,omitempty"`
	Result     JSONResult      `json:"result"`
	Match      *JSONMatch      `json:"match,omitempty"`
	DocString  *JSONDocString  `json:"doc_string,omitempty"`
	Rows       []JSONRow       `json:"rows,omitempty"`
	Embeddings []JSONEmbedding `json:"embeddings,omitempty"`
}

type JSONResult struct {
	Status       string `json:"status"`
	Duration     int64  `json:"duration,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type JSONMatch struct {
	Location string `json:"location"`
}

type JSONDocString struct {
	Value       string `json:"value"`
	ContentType string `json:"content_type,omitempty"`
}

type JSONRow struct {
	Cells []string `json:"cells"`
}

type JSONEmbedding struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// JSONFormatter writes a Cucumber JSON report once the run finished
type JSONFormatter struct {
	*Base
}

func NewJSONFormatter(opts Options) (Formatter, error) {
	f := &JSONFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *JSONFormatter) onEnvelope(env *events.Envelope) {
	if env.TestRunFinished == nil {
		return
	}

	features := f.Report()
	encoder := json.NewEncoder(f.Stream)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(features); err != nil {
		f.Fail(err)
	}
}

// Report groups the final attempts by feature file
func (f *JSONFormatter) Report() []JSONFeature {
	features := []JSONFeature{}
	index := make(map[string]int)

	for _, a := range finalAttempts(f.EventDataCollector.TestCaseAttempts()) {
		uri := a.Pickle.URI
		i, ok := index[uri]
		if !ok {
			i = len(features)
			index[uri] = i
			features = append(features, JSONFeature{
				ID:       slug(featureName(uri)),
				URI:      uri,
				Keyword:  "Feature",
				Name:     featureName(uri),
				Line:     1,
				Elements: []JSONScenario{},
			})
		}
		features[i].Elements = append(features[i].Elements, f.scenario(features[i].ID, a))
	}
	return features
}

func (f *JSONFormatter) scenario(featureID string, a *collector.TestCaseAttempt) JSONScenario {
	s := JSONScenario{
		ID:      featureID + ";" + slug(a.Pickle.Name),
		Keyword: "Scenario",
		Name:    a.Pickle.Name,
		Line:    a.Pickle.Line,
		Type:    "scenario",
		Steps:   []JSONStep{},
	}
	for _, tag := range a.Pickle.Tags {
		s.Tags = append(s.Tags, JSONTag{Name: tag})
	}

	for _, ts := range a.TestCase.TestSteps {
		result, ok := a.StepResults[ts.ID]
		if !ok {
			result.Status = events.StatusUnknown
		}
		step := JSONStep{
			Result: JSONResult{
				Status:       result.Status.Lower(),
				Duration:     result.Duration.Std().Nanoseconds(),
				ErrorMessage: result.Message,
			},
		}

		if ts.HookID != "" {
			step.Keyword = "Hook"
			step.Hidden = true
		} else if ps, ok := a.Pickle.Step(ts.PickleStepID); ok {
			step.Keyword = keyword(ps.Type)
			step.Name = ps.Text
			step.Line = ps.Line
			if arg := ps.Argument; arg != nil {
				if arg.DocString != nil {
					step.DocString = &JSONDocString{Value: arg.DocString.Content, ContentType: arg.DocString.MediaType}
				}
				if arg.DataTable != nil {
					for _, row := range arg.DataTable.Rows {
						step.Rows = append(step.Rows, JSONRow{Cells: row})
					}
				}
			}
		}

		if len(ts.StepDefinitionIDs) == 1 {
			if sd, ok := f.EventDataCollector.StepDefinition(ts.StepDefinitionIDs[0]); ok && sd.URI != "" {
				step.Match = &JSONMatch{Location: fmt.Sprintf("%s:%d", sd.URI, sd.Line)}
			}
		}

		if f.ParsedOptions.GetPrintAttachments() {
			for _, att := range a.Attachments[ts.ID] {
				step.Embeddings = append(step.Embeddings, embedding(att))
			}
		}
		s.Steps = append(s.Steps, step)
	}
	return s
}

func embedding(att *events.Attachment) JSONEmbedding {
	data := att.Body
	if att.ContentEncoding != "BASE64" {
		data = base64.StdEncoding.EncodeToString([]byte(att.Body))
	}
	return JSONEmbedding{Data: data, MimeType: att.MediaType}
}

func featureName(uri string) string {
	base := filepath.Base(filepath.FromSlash(uri))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

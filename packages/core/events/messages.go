package events

import (
	"time"
)

// Envelope wraps exactly one message of the run stream
type Envelope struct {
	Meta             *Meta             `json:"meta,omitempty"`
	Source           *Source           `json:"source,omitempty"`
	Pickle           *Pickle           `json:"pickle,omitempty"`
	StepDefinition   *StepDefinition   `json:"stepDefinition,omitempty"`
	ParameterType    *ParameterType    `json:"parameterType,omitempty"`
	TestRunStarted   *TestRunStarted   `json:"testRunStarted,omitempty"`
	TestCase         *TestCase         `json:"testCase,omitempty"`
	TestCaseStarted  *TestCaseStarted  `json:"testCaseStarted,omitempty"`
	TestStepStarted  *TestStepStarted  `json:"testStepStarted,omitempty"`
	TestStepFinished *TestStepFinished `json:"testStepFinished,omitempty"`
	TestCaseFinished *TestCaseFinished `json:"testCaseFinished,omitempty"`
	TestRunFinished  *TestRunFinished  `json:"testRunFinished,omitempty"`
	Attachment       *Attachment       `json:"attachment,omitempty"`
}

// EnvelopeKeys lists the JSON keys an envelope may carry
var EnvelopeKeys = []string{
	"meta", "source", "pickle", "stepDefinition", "parameterType",
	"testRunStarted", "testCase", "testCaseStarted", "testStepStarted",
	"testStepFinished", "testCaseFinished", "testRunFinished", "attachment",
}

// Kind returns the JSON key of the message carried by the envelope
func (e *Envelope) Kind() string {
	switch {
	case e == nil:
		return ""
	case e.Meta != nil:
		return "meta"
	case e.Source != nil:
		return "source"
	case e.Pickle != nil:
		return "pickle"
	case e.StepDefinition != nil:
		return "stepDefinition"
	case e.ParameterType != nil:
		return "parameterType"
	case e.TestRunStarted != nil:
		return "testRunStarted"
	case e.TestCase != nil:
		return "testCase"
	case e.TestCaseStarted != nil:
		return "testCaseStarted"
	case e.TestStepStarted != nil:
		return "testStepStarted"
	case e.TestStepFinished != nil:
		return "testStepFinished"
	case e.TestCaseFinished != nil:
		return "testCaseFinished"
	case e.TestRunFinished != nil:
		return "testRunFinished"
	case e.Attachment != nil:
		return "attachment"
	}
	return ""
}

// Timestamp is a point in time split into seconds and nanoseconds
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// NewTimestamp converts a time.Time into a Timestamp
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time returns the timestamp as a time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos))
}

// Duration is an elapsed time split into seconds and nanoseconds
type Duration struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// NewDuration converts a time.Duration into a Duration
func NewDuration(d time.Duration) Duration {
	return Duration{
		Seconds: int64(d / time.Second),
		Nanos:   int32(d % time.Second),
	}
}

// Std returns the duration as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanos)
}

type Meta struct {
	ProtocolVersion string `json:"protocolVersion"`
	Implementation  string `json:"implementation,omitempty"`
}

type Source struct {
	URI       string `json:"uri"`
	Data      string `json:"data"`
	MediaType string `json:"mediaType,omitempty"`
}

// StepKeywordType classifies a step by the role of its keyword
type StepKeywordType string

const (
	KeywordUnknown     StepKeywordType = "Unknown"
	KeywordContext     StepKeywordType = "Context"
	KeywordAction      StepKeywordType = "Action"
	KeywordOutcome     StepKeywordType = "Outcome"
	KeywordConjunction StepKeywordType = "Conjunction"
)

type Pickle struct {
	ID       string       `json:"id"`
	URI      string       `json:"uri"`
	Name     string       `json:"name"`
	Language string       `json:"language,omitempty"`
	Line     int          `json:"line,omitempty"`
	Steps    []PickleStep `json:"steps"`
	Tags     []string     `json:"tags,omitempty"`
}

// Step returns the pickle step with the given id
func (p *Pickle) Step(id string) (PickleStep, bool) {
	for _, s := range p.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return PickleStep{}, false
}

type PickleStep struct {
	ID       string              `json:"id"`
	Text     string              `json:"text"`
	Type     StepKeywordType     `json:"type,omitempty"`
	Line     int                 `json:"line,omitempty"`
	Argument *PickleStepArgument `json:"argument,omitempty"`
}

type PickleStepArgument struct {
	DocString *DocString `json:"docString,omitempty"`
	DataTable *DataTable `json:"dataTable,omitempty"`
}

type DocString struct {
	Content   string `json:"content"`
	MediaType string `json:"mediaType,omitempty"`
}

type DataTable struct {
	Rows [][]string `json:"rows"`
}

// PatternType tells how a step definition pattern is interpreted
type PatternType string

const (
	CucumberExpression PatternType = "CUCUMBER_EXPRESSION"
	RegularExpression  PatternType = "REGULAR_EXPRESSION"
)

type StepDefinition struct {
	ID          string      `json:"id"`
	Pattern     string      `json:"pattern"`
	PatternType PatternType `json:"patternType,omitempty"`
	URI         string      `json:"uri,omitempty"`
	Line        int         `json:"line,omitempty"`
}

type ParameterType struct {
	ID                   string   `json:"id,omitempty"`
	Name                 string   `json:"name"`
	RegularExpressions   []string `json:"regularExpressions"`
	PreferForRegexpMatch bool     `json:"preferForRegularExpressionMatch,omitempty"`
	UseForSnippets       bool     `json:"useForSnippets,omitempty"`
}

type TestRunStarted struct {
	Timestamp Timestamp `json:"timestamp"`
}

type TestCase struct {
	ID        string     `json:"id"`
	PickleID  string     `json:"pickleId"`
	TestSteps []TestStep `json:"testSteps"`
}

type TestStep struct {
	ID                string   `json:"id"`
	PickleStepID      string   `json:"pickleStepId,omitempty"`
	HookID            string   `json:"hookId,omitempty"`
	StepDefinitionIDs []string `json:"stepDefinitionIds,omitempty"`
}

type TestCaseStarted struct {
	ID         string    `json:"id"`
	TestCaseID string    `json:"testCaseId"`
	Attempt    int       `json:"attempt"`
	Timestamp  Timestamp `json:"timestamp"`
}

type TestStepStarted struct {
	TestCaseStartedID string    `json:"testCaseStartedId"`
	TestStepID        string    `json:"testStepId"`
	Timestamp         Timestamp `json:"timestamp"`
}

type TestStepFinished struct {
	TestCaseStartedID string         `json:"testCaseStartedId"`
	TestStepID        string         `json:"testStepId"`
	Result            TestStepResult `json:"testStepResult"`
	Timestamp         Timestamp      `json:"timestamp"`
}

type TestStepResult struct {
	Status   Status   `json:"status"`
	Duration Duration `json:"duration"`
	Message  string   `json:"message,omitempty"`
}

type TestCaseFinished struct {
	TestCaseStartedID string    `json:"testCaseStartedId"`
	WillBeRetried     bool      `json:"willBeRetried,omitempty"`
	Timestamp         Timestamp `json:"timestamp"`
}

type TestRunFinished struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

type Attachment struct {
	TestCaseStartedID string `json:"testCaseStartedId,omitempty"`
	TestStepID        string `json:"testStepId,omitempty"`
	Body              string `json:"body"`
	MediaType         string `json:"mediaType"`
	ContentEncoding   string `json:"contentEncoding,omitempty"`
}
